package blackjack

import (
	"context"
	"errors"
)

// Errors the Wallet collaborator is expected to surface. The engine
// matches them with errors.Is, so adapters should wrap or return these
// sentinels directly.
var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUnknownUser       = errors.New("unknown user")
)

// Wallet is the external balance store. Debits and credits must be
// visible immediately; the engine performs no retries of its own.
type Wallet interface {
	// Balance returns the user's current balance.
	Balance(ctx context.Context, userID int64) (int64, error)

	// Adjust atomically applies a signed delta and returns the new
	// balance. A debit that would overdraw fails with
	// ErrInsufficientFunds and must leave the balance untouched.
	Adjust(ctx context.Context, userID int64, delta int64, reason string) (int64, error)
}

// Notifier receives round lifecycle events for presentation. Delivery
// is fire-and-forget: the engine does not depend on acknowledgment.
type Notifier interface {
	Announce(ctx context.Context, ev Event)
}
