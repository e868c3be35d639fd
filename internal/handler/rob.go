// Package handler provides Telegram bot command handlers.
package handler

import (
	"context"
	"errors"
	"fmt"

	tele "gopkg.in/telebot.v3"

	"casino-game-bot/internal/game/rob"
	"casino-game-bot/internal/service"
)

// RobHandler handles the /rob command.
type RobHandler struct {
	game           *rob.Game
	accountService *service.AccountService
}

// NewRobHandler creates a new RobHandler.
func NewRobHandler(game *rob.Game, accountService *service.AccountService) *RobHandler {
	return &RobHandler{
		game:           game,
		accountService: accountService,
	}
}

// HandleRob handles the /rob command.
// The victim is taken from a reply or an inline mention; Telegram
// offers no username lookup, so a bare "@name" only works when the
// mention carries the user.
func (h *RobHandler) HandleRob(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	victim := h.resolveVictim(c)
	if victim == nil {
		return c.Reply("❌ Responde al mensaje de tu víctima con /rob, o menciónala: /rob @usuario")
	}

	username := sender.Username
	if username == "" {
		username = sender.FirstName
	}
	_, _, err := h.accountService.EnsureUser(ctx, sender.ID, username)
	if err != nil {
		return c.Reply("❌ Operación fallida, intenta de nuevo")
	}

	res, err := h.game.Rob(ctx, sender.ID, victim.ID)
	if err != nil {
		switch {
		case errors.Is(err, rob.ErrSelfRob):
			return c.Reply("❌ No puedes robarte a ti mismo")
		case errors.Is(err, rob.ErrCooldown):
			remaining, _ := h.game.CooldownRemaining(ctx, sender.ID)
			return c.Reply(fmt.Sprintf("⏰ Sigues escondido de la policía, espera %dm %ds",
				int(remaining.Minutes()), int(remaining.Seconds())%60))
		case errors.Is(err, rob.ErrVictimNotFound):
			return c.Reply("❌ La víctima no tiene cuenta en el bot")
		case errors.Is(err, rob.ErrVictimPoor):
			return c.Reply("❌ Esa víctima no tiene nada que robar")
		case errors.Is(err, rob.ErrNegativeBalance):
			return c.Reply("❌ Con saldo negativo no puedes salir a robar")
		default:
			return c.Reply("❌ Robo fallido, intenta de nuevo")
		}
	}

	if res.Outcome == rob.OutcomeSuccess {
		return c.Reply(fmt.Sprintf(
			"🦹 ¡Robo exitoso!\n\n"+
				"💰 Le robaste %d monedas a %s (%d%% de su saldo)\n"+
				"💳 Tu saldo: %d monedas",
			res.Amount, res.VictimName, res.Percent, res.RobberBalance,
		))
	}

	return c.Reply(fmt.Sprintf(
		"🚓 ¡Te atraparon!\n\n"+
			"Intentabas robar %d monedas a %s\n"+
			"💸 Multa pagada a la víctima: %d monedas\n"+
			"💳 Tu saldo: %d monedas",
		res.Attempted, res.VictimName, res.Amount, res.RobberBalance,
	))
}

func (h *RobHandler) resolveVictim(c tele.Context) *tele.User {
	msg := c.Message()
	if msg == nil {
		return nil
	}

	if msg.ReplyTo != nil && msg.ReplyTo.Sender != nil {
		return msg.ReplyTo.Sender
	}

	for _, entity := range msg.Entities {
		if entity.Type == tele.EntityMention && entity.User != nil {
			return entity.User
		}
	}
	return nil
}
