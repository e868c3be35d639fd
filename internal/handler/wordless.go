// Package handler provides Telegram bot command handlers.
package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v3"

	"casino-game-bot/internal/game/wordless"
	"casino-game-bot/internal/service"
)

// WordlessHandler handles the word guessing game commands.
type WordlessHandler struct {
	game           *wordless.Game
	accountService *service.AccountService
}

// NewWordlessHandler creates a new WordlessHandler.
func NewWordlessHandler(game *wordless.Game, accountService *service.AccountService) *WordlessHandler {
	return &WordlessHandler{
		game:           game,
		accountService: accountService,
	}
}

// HandleStart handles the /wordless command.
// Opens a solo session for the sender.
func (h *WordlessHandler) HandleStart(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	username := sender.Username
	if username == "" {
		username = sender.FirstName
	}
	_, _, err := h.accountService.EnsureUser(ctx, sender.ID, username)
	if err != nil {
		return c.Reply("❌ Operación fallida, intenta de nuevo")
	}

	_, err = h.game.Start(sender.ID)
	if err != nil {
		if errors.Is(err, wordless.ErrGameActive) {
			return c.Reply("❌ Ya tienes una partida activa\nSigue con /intento <palabra> o ríndete con /rendirse")
		}
		return c.Reply("❌ No se pudo abrir la partida")
	}

	return c.Reply(fmt.Sprintf(
		"🎯 ¡Partida de Wordless abierta!\n\n"+
			"• Adivina la palabra de %d letras\n"+
			"• Envía intentos con /intento <palabra>\n"+
			"• Tienes %d intentos\n"+
			"• Premios: 1er intento %d, 2do %d, después %d monedas\n\n"+
			"¡Suerte! 🍀",
		wordless.WordLength, wordless.MaxAttempts,
		wordless.RewardFirst, wordless.RewardSecond, wordless.RewardBase,
	))
}

// HandleGuess handles the /intento command.
// Format: /intento <word>
func (h *WordlessHandler) HandleGuess(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	args := c.Args()
	if len(args) < 1 {
		return c.Reply("❌ Uso: /intento <palabra>")
	}

	res, err := h.game.Guess(ctx, sender.ID, args[0])
	if err != nil {
		switch {
		case errors.Is(err, wordless.ErrNoGame):
			return c.Reply("❌ No tienes partida activa, abre una con /wordless")
		case errors.Is(err, wordless.ErrWrongLength):
			return c.Reply(fmt.Sprintf("❌ La palabra debe tener exactamente %d letras", wordless.WordLength))
		case errors.Is(err, wordless.ErrNotLetters):
			return c.Reply("❌ La palabra solo puede contener letras")
		default:
			return c.Reply("❌ Intento fallido, intenta de nuevo")
		}
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("🎯 Intento %d/%d\n\n", res.Session.Attempts, wordless.MaxAttempts))
	for i, g := range res.Session.Guesses {
		b.WriteString(fmt.Sprintf("%d. %s → %s\n", i+1, strings.ToUpper(g.Word), g.Result))
	}

	if res.Won {
		b.WriteString(fmt.Sprintf(
			"\n🎉 ¡GANASTE! La palabra era %s\n"+
				"🏆 Recompensa: %d monedas\n"+
				"💰 Saldo: %d monedas",
			strings.ToUpper(res.Session.Secret), res.Reward, res.NewBalance,
		))
	} else if res.Lost {
		b.WriteString(fmt.Sprintf(
			"\n💀 GAME OVER, sin intentos\n"+
				"La palabra era %s",
			strings.ToUpper(res.Session.Secret),
		))
	}

	return c.Reply(b.String())
}

// HandleForfeit handles the /rendirse command.
func (h *WordlessHandler) HandleForfeit(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	secret, err := h.game.Forfeit(sender.ID)
	if err != nil {
		return c.Reply("❌ No tienes partida activa")
	}

	return c.Reply(fmt.Sprintf("🏳️ Te rendiste, la palabra era %s", strings.ToUpper(secret)))
}
