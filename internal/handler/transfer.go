// Package handler provides Telegram bot command handlers.
package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v3"

	"casino-game-bot/internal/pkg/lock"
	"casino-game-bot/internal/service"
)

// TransferHandler handles transfer-related commands.
type TransferHandler struct {
	accountService  *service.AccountService
	transferService *service.TransferService
	userLock        *lock.UserLock
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(
	accountService *service.AccountService,
	transferService *service.TransferService,
	userLock *lock.UserLock,
) *TransferHandler {
	return &TransferHandler{
		accountService:  accountService,
		transferService: transferService,
		userLock:        userLock,
	}
}

// HandlePay handles the /pay command.
// Format: /pay @username amount
func (h *TransferHandler) HandlePay(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	// Parse arguments
	args := c.Args()

	// Reply form: /pay monto, respondiendo al destinatario
	if len(args) == 1 && c.Message() != nil && c.Message().ReplyTo != nil {
		return h.HandlePayReply(c)
	}

	if len(args) < 2 {
		return c.Reply("❌ Uso: /pay @usuario monto\nEjemplo: /pay @alice 100\nO responde a un mensaje con /pay monto")
	}

	// Parse target user
	targetStr := args[0]
	if !strings.HasPrefix(targetStr, "@") {
		return c.Reply("❌ Indica el destinatario con el formato @usuario")
	}
	targetUsername := strings.TrimPrefix(targetStr, "@")

	// Parse amount
	amount, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return c.Reply("❌ Monto inválido, usa un entero positivo")
	}

	if amount <= 0 {
		return c.Reply("❌ El monto debe ser mayor que 0")
	}

	// Get target user by username from message mention or reply
	var targetID int64

	// Check if message has entities (mentions)
	if c.Message() != nil && len(c.Message().Entities) > 0 {
		for _, entity := range c.Message().Entities {
			if entity.Type == tele.EntityMention && entity.User != nil {
				if entity.User.Username == targetUsername {
					targetID = entity.User.ID
					break
				}
			}
		}
	}

	// If no mention found, try to find user by reply
	if targetID == 0 && c.Message() != nil && c.Message().ReplyTo != nil {
		replyUser := c.Message().ReplyTo.Sender
		if replyUser != nil && replyUser.Username == targetUsername {
			targetID = replyUser.ID
		}
	}

	// Telegram doesn't allow looking up arbitrary users by username
	if targetID == 0 {
		return c.Reply("❌ No se encontró a @" + targetUsername + "\nAsegúrate de que haya usado el bot, o responde a uno de sus mensajes")
	}

	if sender.ID == targetID {
		return c.Reply("❌ No puedes transferirte a ti mismo")
	}

	// Ensure both users exist
	senderUsername := sender.Username
	if senderUsername == "" {
		senderUsername = sender.FirstName
	}
	_, _, err = h.accountService.EnsureUser(ctx, sender.ID, senderUsername)
	if err != nil {
		return c.Reply("❌ Operación fallida, intenta de nuevo")
	}

	// Acquire lock for sender
	h.userLock.Lock(sender.ID)
	defer h.userLock.Unlock(sender.ID)

	err = h.transferService.Transfer(ctx, sender.ID, targetID, amount)
	if err != nil {
		if errors.Is(err, service.ErrInsufficientBalance) {
			return c.Reply("❌ Saldo insuficiente")
		}
		if errors.Is(err, service.ErrInvalidAmount) {
			return c.Reply("❌ El monto debe ser mayor que 0")
		}
		if errors.Is(err, service.ErrSelfTransfer) {
			return c.Reply("❌ No puedes transferirte a ti mismo")
		}
		if errors.Is(err, service.ErrUserNotFound) {
			return c.Reply("❌ El destinatario no existe")
		}
		return c.Reply("❌ Transferencia fallida, intenta de nuevo")
	}

	// Get updated balance
	newBalance, _ := h.accountService.GetBalance(ctx, sender.ID)

	return c.Reply(fmt.Sprintf(
		"✅ ¡Transferencia realizada!\n\n"+
			"💸 Enviaste %d monedas a @%s\n"+
			"💰 Saldo actual: %d monedas",
		amount, targetUsername, newBalance,
	))
}

// HandlePayReply handles transfer via reply to a message.
// Format: /pay amount (as reply to target user's message)
func (h *TransferHandler) HandlePayReply(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	// Check if this is a reply
	if c.Message() == nil || c.Message().ReplyTo == nil {
		return nil
	}

	replyTo := c.Message().ReplyTo
	if replyTo.Sender == nil {
		return c.Reply("❌ No se pudo identificar al destinatario")
	}

	targetID := replyTo.Sender.ID
	targetUsername := replyTo.Sender.Username
	if targetUsername == "" {
		targetUsername = replyTo.Sender.FirstName
	}

	// Parse amount from args
	args := c.Args()
	if len(args) < 1 {
		return c.Reply("❌ Indica el monto\nUso: /pay monto (respondiendo al destinatario)")
	}

	amount, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return c.Reply("❌ Monto inválido, usa un entero positivo")
	}

	if amount <= 0 {
		return c.Reply("❌ El monto debe ser mayor que 0")
	}

	if sender.ID == targetID {
		return c.Reply("❌ No puedes transferirte a ti mismo")
	}

	// Ensure sender exists
	senderUsername := sender.Username
	if senderUsername == "" {
		senderUsername = sender.FirstName
	}
	_, _, err = h.accountService.EnsureUser(ctx, sender.ID, senderUsername)
	if err != nil {
		return c.Reply("❌ Operación fallida, intenta de nuevo")
	}

	// Acquire lock for sender
	h.userLock.Lock(sender.ID)
	defer h.userLock.Unlock(sender.ID)

	err = h.transferService.Transfer(ctx, sender.ID, targetID, amount)
	if err != nil {
		if errors.Is(err, service.ErrInsufficientBalance) {
			return c.Reply("❌ Saldo insuficiente")
		}
		if errors.Is(err, service.ErrUserNotFound) {
			return c.Reply("❌ El destinatario no existe, asegúrate de que haya usado el bot")
		}
		return c.Reply("❌ Transferencia fallida, intenta de nuevo")
	}

	newBalance, _ := h.accountService.GetBalance(ctx, sender.ID)

	return c.Reply(fmt.Sprintf(
		"✅ ¡Transferencia realizada!\n\n"+
			"💸 Enviaste %d monedas a @%s\n"+
			"💰 Saldo actual: %d monedas",
		amount, targetUsername, newBalance,
	))
}
