// Package handler provides Telegram bot command handlers.
package handler

import (
	"context"
	"fmt"

	tele "gopkg.in/telebot.v3"

	"casino-game-bot/internal/pkg/lock"
	"casino-game-bot/internal/service"
)

// AccountHandler handles account-related commands.
type AccountHandler struct {
	accountService *service.AccountService
	rankingService *service.RankingService
	userLock       *lock.UserLock
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService *service.AccountService, rankingService *service.RankingService, userLock *lock.UserLock) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		rankingService: rankingService,
		userLock:       userLock,
	}
}

// HandleStart handles the /start command.
// Creates a new account with 1000 initial coins if user doesn't exist.
func (h *AccountHandler) HandleStart(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	username := sender.Username
	if username == "" {
		username = sender.FirstName
	}

	h.userLock.Lock(sender.ID)
	defer h.userLock.Unlock(sender.ID)

	user, created, err := h.accountService.EnsureUser(ctx, sender.ID, username)
	if err != nil {
		return c.Reply("❌ No se pudo crear la cuenta, intenta de nuevo")
	}

	if created {
		return c.Reply(fmt.Sprintf(
			"🎉 ¡Bienvenido @%s!\n\n"+
				"Tu cuenta fue creada con %d monedas iniciales\n\n"+
				"Comandos:\n"+
				"/balance - Ver saldo\n"+
				"/daily - Recompensa diaria\n"+
				"/top - Ranking de ricos\n"+
				"/blackjack <apuesta> - Abrir mesa de blackjack\n"+
				"/crypto - Mercado de criptomonedas\n"+
				"/wordless - Adivina la palabra\n"+
				"/rob @usuario - Intentar un robo\n"+
				"/pay @usuario <monto> - Transferir",
			username, user.Balance,
		))
	}

	return c.Reply(fmt.Sprintf(
		"👋 ¡Bienvenido de vuelta @%s!\n\n"+
			"Saldo actual: %d monedas",
		username, user.Balance,
	))
}

// HandleBalance handles the /balance command.
// Displays the user's current balance.
func (h *AccountHandler) HandleBalance(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	balance, err := h.accountService.GetBalance(ctx, sender.ID)
	if err != nil {
		// User might not exist, try to create
		username := sender.Username
		if username == "" {
			username = sender.FirstName
		}
		user, _, err := h.accountService.EnsureUser(ctx, sender.ID, username)
		if err != nil {
			return c.Reply("❌ No se pudo obtener el saldo, intenta de nuevo")
		}
		balance = user.Balance
	}

	return c.Reply(fmt.Sprintf("💰 Saldo actual: %d monedas", balance))
}

// HandleMy handles the /my command.
// Displays the user's account information.
func (h *AccountHandler) HandleMy(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	user, err := h.accountService.GetUser(ctx, sender.ID)
	if err != nil {
		// User might not exist, try to create
		username := sender.Username
		if username == "" {
			username = sender.FirstName
		}
		user, _, err = h.accountService.EnsureUser(ctx, sender.ID, username)
		if err != nil {
			return c.Reply("❌ No se pudo obtener la cuenta, intenta de nuevo")
		}
	}

	// Get daily profit
	dailyProfit, _ := h.rankingService.GetUserDailyProfit(ctx, sender.ID)

	profitStr := fmt.Sprintf("%d", dailyProfit)
	if dailyProfit > 0 {
		profitStr = "+" + profitStr
	}

	return c.Reply(fmt.Sprintf(
		"📊 Cuenta\n"+
			"━━━━━━━━━━━━━━━\n"+
			"👤 Usuario: @%s\n"+
			"💰 Saldo: %d monedas\n"+
			"🔥 Racha diaria: %d\n"+
			"📈 Ganancia de hoy: %s\n"+
			"━━━━━━━━━━━━━━━",
		user.Username, user.Balance, user.DailyStreak, profitStr,
	))
}

// HandleDaily handles the /daily command.
// Grants the streak-scaled daily reward if the cooldown has passed.
func (h *AccountHandler) HandleDaily(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	username := sender.Username
	if username == "" {
		username = sender.FirstName
	}

	h.userLock.Lock(sender.ID)
	defer h.userLock.Unlock(sender.ID)

	_, _, err := h.accountService.EnsureUser(ctx, sender.ID, username)
	if err != nil {
		return c.Reply("❌ Operación fallida, intenta de nuevo")
	}

	success, msg, err := h.accountService.ClaimDaily(ctx, sender.ID)
	if err != nil {
		return c.Reply("❌ No se pudo reclamar, intenta de nuevo")
	}

	if success {
		return c.Reply(fmt.Sprintf("✅ %s", msg))
	}

	return c.Reply(fmt.Sprintf("⏰ %s", msg))
}

// HandleTop handles the /top command.
// Displays the top 10 users by balance.
func (h *AccountHandler) HandleTop(c tele.Context) error {
	ctx := context.Background()

	users, err := h.rankingService.GetTopUsers(ctx, 10)
	if err != nil {
		return c.Reply("❌ No se pudo obtener el ranking, intenta de nuevo")
	}

	if len(users) == 0 {
		return c.Reply("📊 Sin datos de ranking todavía")
	}

	msg := "🏆 TOP 10 RICOS\n"
	msg += "━━━━━━━━━━━━━━━\n"

	medals := []string{"🥇", "🥈", "🥉"}
	for i, user := range users {
		rank := fmt.Sprintf("%d.", i+1)
		if i < 3 {
			rank = medals[i]
		}

		displayName := user.Username
		if displayName == "" {
			displayName = fmt.Sprintf("User%d", user.TelegramID)
		}

		msg += fmt.Sprintf("%s @%s: %d\n", rank, displayName, user.Balance)
	}

	msg += "━━━━━━━━━━━━━━━"

	return c.Reply(msg)
}
