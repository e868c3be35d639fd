// Package handler provides Telegram bot command handlers.
package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	tele "gopkg.in/telebot.v3"

	"casino-game-bot/internal/game/blackjack"
	"casino-game-bot/internal/service"
)

// BlackjackHandler handles the multiplayer blackjack commands. The
// round itself runs inside blackjack.Table; this handler only parses
// commands and routes decisions.
type BlackjackHandler struct {
	table          *blackjack.Table
	accountService *service.AccountService
}

// NewBlackjackHandler creates a new BlackjackHandler.
func NewBlackjackHandler(table *blackjack.Table, accountService *service.AccountService) *BlackjackHandler {
	return &BlackjackHandler{
		table:          table,
		accountService: accountService,
	}
}

// HandleBlackjack handles the /blackjack command.
// Format: /blackjack <min_stake>
// Opens a betting window in the chat and seats the opener.
func (h *BlackjackHandler) HandleBlackjack(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil || c.Chat() == nil {
		return nil
	}

	args := c.Args()
	if len(args) < 1 {
		return c.Reply("❌ Uso: /blackjack <apuesta mínima>\nEjemplo: /blackjack 100")
	}

	minStake, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || minStake <= 0 {
		return c.Reply("❌ La apuesta mínima debe ser un entero mayor que 0")
	}

	username := sender.Username
	if username == "" {
		username = sender.FirstName
	}
	_, _, err = h.accountService.EnsureUser(ctx, sender.ID, username)
	if err != nil {
		return c.Reply("❌ Operación fallida, intenta de nuevo")
	}

	_, err = h.table.Open(ctx, c.Chat().ID, minStake)
	if err != nil {
		if errors.Is(err, blackjack.ErrRoundActive) {
			return c.Reply("❌ Ya hay una ronda en curso en este chat")
		}
		return c.Reply("❌ No se pudo abrir la mesa")
	}

	// Seat the opener at the minimum stake; the window announcement
	// comes from the notifier.
	if err := h.table.Join(ctx, c.Chat().ID, sender.ID, username, minStake); err != nil {
		return h.replyJoinError(c, err)
	}
	return nil
}

// HandleJoin handles the /bj command.
// Format: /bj <stake>
// Seats the sender in the chat's open betting window.
func (h *BlackjackHandler) HandleJoin(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil || c.Chat() == nil {
		return nil
	}

	args := c.Args()
	if len(args) < 1 {
		return c.Reply("❌ Uso: /bj <apuesta>\nEjemplo: /bj 100")
	}

	stake, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || stake <= 0 {
		return c.Reply("❌ La apuesta debe ser un entero mayor que 0")
	}

	username := sender.Username
	if username == "" {
		username = sender.FirstName
	}
	_, _, err = h.accountService.EnsureUser(ctx, sender.ID, username)
	if err != nil {
		return c.Reply("❌ Operación fallida, intenta de nuevo")
	}

	if err := h.table.Join(ctx, c.Chat().ID, sender.ID, username, stake); err != nil {
		return h.replyJoinError(c, err)
	}
	return nil
}

// HandleHit handles the hit inline button.
func (h *BlackjackHandler) HandleHit(c tele.Context) error {
	return h.decide(c, blackjack.DecisionHit)
}

// HandleStand handles the stand inline button.
func (h *BlackjackHandler) HandleStand(c tele.Context) error {
	return h.decide(c, blackjack.DecisionStand)
}

func (h *BlackjackHandler) decide(c tele.Context, d blackjack.Decision) error {
	sender := c.Sender()
	if sender == nil || c.Chat() == nil {
		return nil
	}

	err := h.table.Decide(c.Chat().ID, sender.ID, d)
	switch {
	case err == nil:
		return c.Respond(&tele.CallbackResponse{})
	case errors.Is(err, blackjack.ErrNotYourTurn):
		return c.Respond(&tele.CallbackResponse{Text: "No es tu turno"})
	case errors.Is(err, blackjack.ErrTurnOver):
		return c.Respond(&tele.CallbackResponse{Text: "Tu turno ya terminó"})
	case errors.Is(err, blackjack.ErrNoOpenRound):
		return c.Respond(&tele.CallbackResponse{Text: "No hay ronda activa"})
	default:
		return c.Respond(&tele.CallbackResponse{Text: "Jugada rechazada"})
	}
}

func (h *BlackjackHandler) replyJoinError(c tele.Context, err error) error {
	switch {
	case errors.Is(err, blackjack.ErrNoOpenRound):
		return c.Reply("❌ No hay mesa abierta, abre una con /blackjack <apuesta mínima>")
	case errors.Is(err, blackjack.ErrAlreadyJoined):
		return c.Reply("❌ Ya estás sentado en esta ronda")
	case errors.Is(err, blackjack.ErrStakeTooLow):
		return c.Reply("❌ Tu apuesta no llega al mínimo de la mesa")
	case errors.Is(err, blackjack.ErrInsufficientFunds):
		return c.Reply("❌ Saldo insuficiente para esa apuesta")
	case errors.Is(err, blackjack.ErrUnknownUser):
		return c.Reply("❌ Primero crea tu cuenta con /start")
	default:
		return c.Reply(fmt.Sprintf("❌ No pudiste unirte: %v", err))
	}
}
