package service

import (
	"context"
	"errors"
	"fmt"

	"casino-game-bot/internal/game/blackjack"
	"casino-game-bot/internal/model"
	"casino-game-bot/internal/pkg/lock"
	"casino-game-bot/internal/repository"
)

// WalletService adapts the user and transaction repositories to the
// blackjack engine's Wallet interface. All balance changes for a user
// go through that user's lock so a stake debit and a concurrent
// transfer cannot interleave.
type WalletService struct {
	userRepo *repository.UserRepository
	txRepo   *repository.TransactionRepository
	locks    *lock.UserLock
}

// NewWalletService creates a new WalletService instance.
func NewWalletService(
	userRepo *repository.UserRepository,
	txRepo *repository.TransactionRepository,
	locks *lock.UserLock,
) *WalletService {
	return &WalletService{
		userRepo: userRepo,
		txRepo:   txRepo,
		locks:    locks,
	}
}

// Balance returns the user's current balance.
func (s *WalletService) Balance(ctx context.Context, userID int64) (int64, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return 0, blackjack.ErrUnknownUser
		}
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return user.Balance, nil
}

// Adjust applies a signed delta to the user's balance and records the
// matching transaction. Debits that would overdraw are rejected with
// the engine's ErrInsufficientFunds and leave the balance untouched.
func (s *WalletService) Adjust(ctx context.Context, userID int64, delta int64, reason string) (int64, error) {
	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return 0, blackjack.ErrUnknownUser
		}
		return 0, fmt.Errorf("failed to get user: %w", err)
	}

	if delta < 0 && user.Balance+delta < 0 {
		return 0, blackjack.ErrInsufficientFunds
	}

	updated, err := s.userRepo.UpdateBalance(ctx, userID, delta)
	if err != nil {
		return 0, fmt.Errorf("failed to adjust balance: %w", err)
	}

	desc := reason
	_, err = s.txRepo.Create(ctx, userID, delta, txTypeForReason(reason), &desc)
	if err != nil {
		// Non-fatal, balance was already updated
	}

	return updated.Balance, nil
}

// txTypeForReason maps the engine's reason strings to transaction
// types. Unknown reasons are stored verbatim so nothing is lost.
func txTypeForReason(reason string) string {
	switch reason {
	case "blackjack stake":
		return model.TxTypeBlackjackStake
	case "blackjack payout":
		return model.TxTypeBlackjackPayout
	default:
		return reason
	}
}
