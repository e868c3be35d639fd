// Package handler provides Telegram bot command handlers.
package handler

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"casino-game-bot/internal/model"
	"casino-game-bot/internal/pkg/lock"
	"casino-game-bot/internal/service"
)

// AdminHandler handles admin-related commands.
type AdminHandler struct {
	accountService *service.AccountService
	userLock       *lock.UserLock
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(accountService *service.AccountService, userLock *lock.UserLock) *AdminHandler {
	return &AdminHandler{
		accountService: accountService,
		userLock:       userLock,
	}
}

// HandleAdminAdd handles the /admin_add command.
// Format: /admin_add <user_id> <amount>
func (h *AdminHandler) HandleAdminAdd(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	targetID, amount, err := h.parseAdminArgs(c)
	if err != nil {
		return c.Reply(err.Error())
	}

	if amount <= 0 {
		return c.Reply("❌ El monto debe ser mayor que 0")
	}

	h.userLock.Lock(targetID)
	defer h.userLock.Unlock(targetID)

	desc := fmt.Sprintf("agregado por el admin %d", sender.ID)
	user, err := h.accountService.UpdateBalance(ctx, targetID, amount, model.TxTypeAdminAdd, &desc)
	if err != nil {
		return c.Reply("❌ Operación fallida, el usuario no existe")
	}

	log.Info().
		Int64("admin_id", sender.ID).
		Int64("target_id", targetID).
		Int64("amount", amount).
		Str("operation", "admin_add").
		Msg("Admin operation executed")

	displayName := user.Username
	if displayName == "" {
		displayName = fmt.Sprintf("%d", targetID)
	}

	return c.Reply(fmt.Sprintf(
		"✅ Operación realizada\n\n"+
			"👤 Usuario: %s (ID: %d)\n"+
			"➕ Agregado: %d monedas\n"+
			"💰 Saldo actual: %d monedas",
		displayName, targetID, amount, user.Balance,
	))
}

// HandleAdminSub handles the /admin_sub command.
// Format: /admin_sub <user_id> <amount>
func (h *AdminHandler) HandleAdminSub(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	targetID, amount, err := h.parseAdminArgs(c)
	if err != nil {
		return c.Reply(err.Error())
	}

	if amount <= 0 {
		return c.Reply("❌ El monto debe ser mayor que 0")
	}

	h.userLock.Lock(targetID)
	defer h.userLock.Unlock(targetID)

	desc := fmt.Sprintf("descontado por el admin %d", sender.ID)
	user, err := h.accountService.UpdateBalance(ctx, targetID, -amount, model.TxTypeAdminSub, &desc)
	if err != nil {
		return c.Reply("❌ Operación fallida, el usuario no existe")
	}

	log.Info().
		Int64("admin_id", sender.ID).
		Int64("target_id", targetID).
		Int64("amount", amount).
		Str("operation", "admin_sub").
		Msg("Admin operation executed")

	displayName := user.Username
	if displayName == "" {
		displayName = fmt.Sprintf("%d", targetID)
	}

	return c.Reply(fmt.Sprintf(
		"✅ Operación realizada\n\n"+
			"👤 Usuario: %s (ID: %d)\n"+
			"➖ Descontado: %d monedas\n"+
			"💰 Saldo actual: %d monedas",
		displayName, targetID, amount, user.Balance,
	))
}

// HandleAdminSet handles the /admin_set command.
// Format: /admin_set <user_id> <amount>
func (h *AdminHandler) HandleAdminSet(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	targetID, newBalance, err := h.parseAdminArgs(c)
	if err != nil {
		return c.Reply(err.Error())
	}

	if newBalance < 0 {
		return c.Reply("❌ El saldo no puede ser negativo")
	}

	h.userLock.Lock(targetID)
	defer h.userLock.Unlock(targetID)

	currentBalance, err := h.accountService.GetBalance(ctx, targetID)
	if err != nil {
		return c.Reply("❌ El usuario no existe")
	}

	// Record the set as a delta so the transaction log stays additive.
	diff := newBalance - currentBalance
	desc := fmt.Sprintf("saldo fijado por el admin %d", sender.ID)
	user, err := h.accountService.UpdateBalance(ctx, targetID, diff, model.TxTypeAdminSet, &desc)
	if err != nil {
		return c.Reply("❌ Operación fallida, intenta de nuevo")
	}

	log.Info().
		Int64("admin_id", sender.ID).
		Int64("target_id", targetID).
		Int64("old_balance", currentBalance).
		Int64("new_balance", newBalance).
		Str("operation", "admin_set").
		Msg("Admin operation executed")

	displayName := user.Username
	if displayName == "" {
		displayName = fmt.Sprintf("%d", targetID)
	}

	return c.Reply(fmt.Sprintf(
		"✅ Operación realizada\n\n"+
			"👤 Usuario: %s (ID: %d)\n"+
			"📝 Saldo anterior: %d monedas\n"+
			"💰 Saldo nuevo: %d monedas",
		displayName, targetID, currentBalance, user.Balance,
	))
}

// parseAdminArgs parses admin command arguments.
// Format: <user_id> <amount>
func (h *AdminHandler) parseAdminArgs(c tele.Context) (int64, int64, error) {
	args := c.Args()
	if len(args) < 2 {
		return 0, 0, fmt.Errorf("❌ Uso: /admin_add <ID de usuario> <monto>\nEjemplo: /admin_add 123456789 100")
	}

	targetID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("❌ ID de usuario inválido, usa un número")
	}

	amount, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("❌ Monto inválido, usa un entero")
	}

	return targetID, amount, nil
}

// HandleAdminGiftAll handles the /admin_gift_all command.
// Format: /admin_gift_all amount
// Adds the specified amount to ALL users' balances.
func (h *AdminHandler) HandleAdminGiftAll(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	args := c.Args()
	if len(args) < 1 {
		return c.Reply("❌ Uso: /admin_gift_all monto\nEjemplo: /admin_gift_all 100")
	}

	amount, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || amount <= 0 {
		return c.Reply("❌ El monto debe ser un entero mayor que 0")
	}

	count, err := h.accountService.AddBalanceToAllUsers(ctx, amount)
	if err != nil {
		return c.Reply("❌ Operación fallida, intenta de nuevo")
	}

	log.Info().
		Int64("admin_id", sender.ID).
		Int64("amount", amount).
		Int64("user_count", count).
		Str("operation", "admin_gift_all").
		Msg("Admin gift all operation executed")

	return c.Reply(fmt.Sprintf(
		"✅ Regalo enviado\n\n"+
			"🎁 Monto: %d monedas\n"+
			"👥 Usuarios beneficiados: %d",
		amount, count,
	))
}
