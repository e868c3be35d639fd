// Package model defines the data models for the casino game bot.
package model

import "time"

// User represents a chat user account in the game system.
type User struct {
	TelegramID     int64     `db:"telegram_id"`
	Username       string    `db:"username"`
	Balance        int64     `db:"balance"`
	LastDailyClaim int64     `db:"last_daily_claim"`
	DailyStreak    int32     `db:"daily_streak"`
	LastRob        int64     `db:"last_rob"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// Transaction represents a balance change record.
type Transaction struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	Amount      int64     `db:"amount"`
	Type        string    `db:"type"`
	Description *string   `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

// Holding represents a user's position in one crypto coin.
type Holding struct {
	UserID    int64     `db:"user_id"`
	Coin      string    `db:"coin"`
	Amount    int64     `db:"amount"`
	UpdatedAt time.Time `db:"updated_at"`
}

// DailyRank represents a user's daily game performance for ranking.
// Used by the daily_game_stats view for winner/loser rankings.
type DailyRank struct {
	UserID    int64  `db:"user_id"`
	Username  string `db:"username"`
	NetProfit int64  `db:"net_profit"`
}

// Transaction types for categorizing balance changes.
const (
	TxTypeInitial         = "initial"          // Initial balance on account creation
	TxTypeDaily           = "daily"            // Daily reward claim
	TxTypeTransfer        = "transfer"         // User-to-user transfer
	TxTypeBlackjackStake  = "blackjack_stake"  // Blackjack stake debit at deal time
	TxTypeBlackjackPayout = "blackjack_payout" // Blackjack pot share credit
	TxTypeCryptoBuy       = "crypto_buy"       // Crypto purchase
	TxTypeCryptoSell      = "crypto_sell"      // Crypto sale
	TxTypeWordless        = "wordless"         // Wordless puzzle reward
	TxTypeAdminAdd        = "admin_add"        // Admin added balance
	TxTypeAdminSub        = "admin_sub"        // Admin subtracted balance
	TxTypeAdminSet        = "admin_set"        // Admin set balance
	TxTypeRob             = "rob"              // Robbery - robber gains coins
	TxTypeRobbed          = "robbed"           // Robbery - victim loses coins
)

// GameTransactionTypes returns the transaction types that count
// towards daily game rankings. Transfers and daily rewards are
// deliberately excluded.
func GameTransactionTypes() []string {
	return []string{
		TxTypeBlackjackStake,
		TxTypeBlackjackPayout,
		TxTypeCryptoBuy,
		TxTypeCryptoSell,
		TxTypeWordless,
		TxTypeRob,
		TxTypeRobbed,
	}
}
