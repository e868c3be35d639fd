// Package main is the entry point for the casino game bot.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"casino-game-bot/internal/bot"
	"casino-game-bot/internal/config"
	"casino-game-bot/internal/game/crypto"
	"casino-game-bot/internal/game/rob"
	"casino-game-bot/internal/game/wordless"
	"casino-game-bot/internal/pkg/db"
	"casino-game-bot/internal/pkg/lock"
	"casino-game-bot/internal/repository"
	"casino-game-bot/internal/service"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().Msg("Configuration loaded successfully")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	dbPool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	// Run database migrations
	if err := runMigrations(ctx, dbPool); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(dbPool.Pool)
	txRepo := repository.NewTransactionRepository(dbPool.Pool)
	holdingRepo := repository.NewHoldingRepository(dbPool.Pool)

	// Initialize user lock
	userLock := lock.NewUserLock()

	// Initialize services
	accountService := service.NewAccountService(
		userRepo,
		txRepo,
		cfg.Daily.CooldownHours,
	)

	transferService := service.NewTransferService(userRepo, txRepo)

	rankingService := service.NewRankingService(userRepo, txRepo, time.Local)

	walletService := service.NewWalletService(userRepo, txRepo, userLock)

	// Initialize games
	robGame := rob.NewGame(userRepo, txRepo, userLock)

	wordlessGame := wordless.New(userRepo, txRepo)

	cryptoMarket := crypto.NewMarket()
	cryptoExchange := crypto.NewExchange(cryptoMarket, userRepo, txRepo, holdingRepo, userLock)

	// Create bot dependencies
	deps := &bot.Dependencies{
		Config:          cfg,
		AccountService:  accountService,
		TransferService: transferService,
		RankingService:  rankingService,
		WalletService:   walletService,
		RobGame:         robGame,
		WordlessGame:    wordlessGame,
		CryptoMarket:    cryptoMarket,
		CryptoExchange:  cryptoExchange,
		UserLock:        userLock,
	}

	// Initialize bot
	telegramBot, err := bot.New(deps)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create bot")
	}

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start bot in a goroutine
	go func() {
		log.Info().Msg("Bot is starting...")
		telegramBot.Start(ctx)
	}()

	// Wait for shutdown signal
	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	// Graceful shutdown
	cancel()
	telegramBot.Stop()
	log.Info().Msg("Bot stopped gracefully")
}

// runMigrations executes database migrations.
func runMigrations(ctx context.Context, pool *db.Pool) error {
	log.Info().Msg("Running database migrations...")

	// Migration 1: Create users table
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			telegram_id BIGINT PRIMARY KEY,
			username VARCHAR(255) NOT NULL,
			balance BIGINT NOT NULL DEFAULT 1000,
			last_daily_claim BIGINT DEFAULT 0,
			daily_streak INT NOT NULL DEFAULT 0,
			last_rob BIGINT DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_users_balance ON users(balance DESC);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 1: users table created")

	// Migration 2: Create transactions table
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS transactions (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(telegram_id) ON DELETE CASCADE,
			amount BIGINT NOT NULL,
			type VARCHAR(50) NOT NULL,
			description TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_transactions_user_time ON transactions(user_id, created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_transactions_type_time ON transactions(type, created_at DESC);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 2: transactions table created")

	// Migration 3: Create daily stats view
	_, err = pool.Exec(ctx, `
		CREATE OR REPLACE VIEW daily_game_stats AS
		SELECT
			user_id,
			SUM(amount) as net_profit,
			DATE(created_at) as game_date
		FROM transactions
		WHERE type IN ('blackjack_stake', 'blackjack_payout', 'crypto_buy', 'crypto_sell', 'wordless', 'rob', 'robbed')
		GROUP BY user_id, DATE(created_at);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 3: daily_game_stats view created")

	// Migration 4: Create crypto holdings table
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS holdings (
			user_id BIGINT NOT NULL REFERENCES users(telegram_id) ON DELETE CASCADE,
			coin VARCHAR(10) NOT NULL,
			amount BIGINT NOT NULL DEFAULT 0,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (user_id, coin)
		);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 4: holdings table created")

	log.Info().Msg("All migrations completed successfully")
	return nil
}
