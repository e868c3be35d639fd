// Package bot provides the Telegram bot initialization and handler registration.
package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"casino-game-bot/internal/config"
	"casino-game-bot/internal/game/blackjack"
	"casino-game-bot/internal/game/crypto"
	"casino-game-bot/internal/game/rob"
	"casino-game-bot/internal/game/wordless"
	"casino-game-bot/internal/handler"
	"casino-game-bot/internal/pkg/lock"
	"casino-game-bot/internal/service"
)

// Bot wraps the telebot instance with application dependencies.
type Bot struct {
	bot             *tele.Bot
	cfg             *config.Config
	accountService  *service.AccountService
	transferService *service.TransferService
	rankingService  *service.RankingService
	walletService   *service.WalletService
	table           *blackjack.Table
	robGame         *rob.Game
	wordlessGame    *wordless.Game
	cryptoMarket    *crypto.Market
	cryptoExchange  *crypto.Exchange
	userLock        *lock.UserLock

	// Handlers
	accountHandler   *handler.AccountHandler
	transferHandler  *handler.TransferHandler
	adminHandler     *handler.AdminHandler
	rankingHandler   *handler.RankingHandler
	blackjackHandler *handler.BlackjackHandler
	cryptoHandler    *handler.CryptoHandler
	wordlessHandler  *handler.WordlessHandler
	robHandler       *handler.RobHandler
}

// Dependencies holds all the dependencies needed by the bot handlers.
// The blackjack table is built here rather than injected because its
// notifier needs the live telebot instance.
type Dependencies struct {
	Config          *config.Config
	AccountService  *service.AccountService
	TransferService *service.TransferService
	RankingService  *service.RankingService
	WalletService   *service.WalletService
	RobGame         *rob.Game
	WordlessGame    *wordless.Game
	CryptoMarket    *crypto.Market
	CryptoExchange  *crypto.Exchange
	UserLock        *lock.UserLock
}

// New creates a new Bot instance with the given dependencies.
func New(deps *Dependencies) (*Bot, error) {
	if deps.Config.Bot.Token == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	pref := tele.Settings{
		Token:  deps.Config.Bot.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	teleBot, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	bjCfg := blackjack.Config{
		JoinWindow:  time.Duration(deps.Config.Games.Blackjack.JoinWindowSeconds) * time.Second,
		TurnTimeout: time.Duration(deps.Config.Games.Blackjack.TurnTimeoutSeconds) * time.Second,
		DealerPause: time.Duration(deps.Config.Games.Blackjack.DealerPauseSeconds) * time.Second,
	}
	table := blackjack.NewTable(bjCfg, deps.WalletService, NewTelegramNotifier(teleBot), nil)

	b := &Bot{
		bot:             teleBot,
		cfg:             deps.Config,
		accountService:  deps.AccountService,
		transferService: deps.TransferService,
		rankingService:  deps.RankingService,
		walletService:   deps.WalletService,
		table:           table,
		robGame:         deps.RobGame,
		wordlessGame:    deps.WordlessGame,
		cryptoMarket:    deps.CryptoMarket,
		cryptoExchange:  deps.CryptoExchange,
		userLock:        deps.UserLock,
	}

	// Initialize handlers
	b.accountHandler = handler.NewAccountHandler(deps.AccountService, deps.RankingService, deps.UserLock)
	b.transferHandler = handler.NewTransferHandler(deps.AccountService, deps.TransferService, deps.UserLock)
	b.adminHandler = handler.NewAdminHandler(deps.AccountService, deps.UserLock)
	b.rankingHandler = handler.NewRankingHandler(deps.RankingService)
	b.blackjackHandler = handler.NewBlackjackHandler(table, deps.AccountService)
	b.cryptoHandler = handler.NewCryptoHandler(deps.CryptoMarket, deps.CryptoExchange, deps.AccountService)
	b.wordlessHandler = handler.NewWordlessHandler(deps.WordlessGame, deps.AccountService)
	b.robHandler = handler.NewRobHandler(deps.RobGame, deps.AccountService)

	// Register middleware
	b.registerMiddleware()

	// Register handlers
	b.registerHandlers()

	return b, nil
}

// registerMiddleware registers all middleware.
func (b *Bot) registerMiddleware() {
	// Whitelist middleware - check if chat is allowed
	b.bot.Use(WhitelistMiddleware(b.cfg))

	// Logging middleware
	b.bot.Use(LoggingMiddleware())
}

// registerHandlers registers all command and callback handlers.
func (b *Bot) registerHandlers() {
	// Account handlers
	b.bot.Handle("/start", b.accountHandler.HandleStart)
	b.bot.Handle("/balance", b.accountHandler.HandleBalance)
	b.bot.Handle("/my", b.accountHandler.HandleMy)
	b.bot.Handle("/daily", b.accountHandler.HandleDaily)
	b.bot.Handle("/top", b.accountHandler.HandleTop)

	// Transfer handler
	b.bot.Handle("/pay", b.transferHandler.HandlePay)

	// Admin handlers (with admin middleware)
	adminGroup := b.bot.Group()
	adminGroup.Use(AdminMiddleware(b.cfg))
	adminGroup.Handle("/admin_add", b.adminHandler.HandleAdminAdd)
	adminGroup.Handle("/admin_sub", b.adminHandler.HandleAdminSub)
	adminGroup.Handle("/admin_set", b.adminHandler.HandleAdminSet)
	adminGroup.Handle("/admin_gift_all", b.adminHandler.HandleAdminGiftAll)

	// Ranking handler
	b.bot.Handle("/daily_top", b.rankingHandler.HandleDailyTop)

	// Blackjack handlers
	b.bot.Handle("/blackjack", b.blackjackHandler.HandleBlackjack)
	b.bot.Handle("/bj", b.blackjackHandler.HandleJoin)

	// Crypto handlers
	b.bot.Handle("/crypto", b.cryptoHandler.HandleCrypto)
	b.bot.Handle("/crypto_buy", b.cryptoHandler.HandleBuy)
	b.bot.Handle("/crypto_sell", b.cryptoHandler.HandleSell)
	b.bot.Handle("/portfolio", b.cryptoHandler.HandlePortfolio)

	// Wordless handlers
	b.bot.Handle("/wordless", b.wordlessHandler.HandleStart)
	b.bot.Handle("/intento", b.wordlessHandler.HandleGuess)
	b.bot.Handle("/rendirse", b.wordlessHandler.HandleForfeit)

	// Rob handler
	b.bot.Handle("/rob", b.robHandler.HandleRob)

	// Generic callback handler for inline buttons
	b.bot.Handle(tele.OnCallback, b.handleCallback)
}

// handleCallback routes callbacks to appropriate handlers
func (b *Bot) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		return nil
	}

	data := callback.Data
	// Telebot v3 may add a \f prefix to callback data
	data = strings.TrimPrefix(data, "\f")

	switch data {
	case BlackjackHitCallback:
		return b.blackjackHandler.HandleHit(c)
	case BlackjackStandCallback:
		return b.blackjackHandler.HandleStand(c)
	}

	log.Debug().Str("data", data).Msg("Unhandled callback")
	return c.Respond(&tele.CallbackResponse{})
}

// Start starts the bot polling and the crypto price ticker.
func (b *Bot) Start(ctx context.Context) {
	log.Info().Msg("Starting bot...")

	interval := time.Duration(b.cfg.Games.Crypto.TickIntervalMinutes) * time.Minute
	go b.cryptoMarket.StartTicker(ctx, interval)

	b.bot.Start()
}

// Stop stops the bot gracefully.
func (b *Bot) Stop() {
	log.Info().Msg("Stopping bot...")
	b.bot.Stop()
}

// GetBot returns the underlying telebot instance.
func (b *Bot) GetBot() *tele.Bot {
	return b.bot
}
