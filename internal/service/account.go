// Package service provides business logic implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"casino-game-bot/internal/model"
	"casino-game-bot/internal/repository"
)

// Common errors for account operations.
var (
	ErrDailyAlreadyClaimed = errors.New("daily reward already claimed")
)

// Daily reward tuning. Every claim pays the base plus a streak bonus
// of 10 per consecutive day; only the bonus is capped, with an extra
// bonus every seventh consecutive day.
const (
	DailyBaseReward     = 100
	DailyStreakBonus    = 10
	DailyStreakBonusCap = 200
	DailyWeeklyBonus    = 150
	DailyStreakWindow   = 48 * time.Hour
)

// DailyReward computes the reward for the given claim streak. The
// streak is 1-based: the first claim of a streak pays base + 10.
func DailyReward(streak int32) int64 {
	bonus := int64(streak) * DailyStreakBonus
	if bonus > DailyStreakBonusCap {
		bonus = DailyStreakBonusCap
	}
	reward := int64(DailyBaseReward) + bonus
	if streak > 0 && streak%7 == 0 {
		reward += DailyWeeklyBonus
	}
	return reward
}

// NextStreak computes the streak value for a claim happening now. A
// claim inside the streak window continues the streak; a longer gap
// or a first claim resets it to 1.
func NextStreak(lastClaim int64, currentStreak int32, now time.Time) int32 {
	if lastClaim == 0 {
		return 1
	}
	if now.Sub(time.Unix(lastClaim, 0)) > DailyStreakWindow {
		return 1
	}
	return currentStreak + 1
}

// AccountService handles user account operations.
type AccountService struct {
	userRepo    *repository.UserRepository
	txRepo      *repository.TransactionRepository
	cooldownHrs int
}

// NewAccountService creates a new AccountService instance.
func NewAccountService(
	userRepo *repository.UserRepository,
	txRepo *repository.TransactionRepository,
	cooldownHours int,
) *AccountService {
	return &AccountService{
		userRepo:    userRepo,
		txRepo:      txRepo,
		cooldownHrs: cooldownHours,
	}
}

// EnsureUser ensures a user exists, creating one if necessary.
// Returns the user and whether it was newly created.
func (s *AccountService) EnsureUser(ctx context.Context, telegramID int64, username string) (*model.User, bool, error) {
	user, created, err := s.userRepo.GetOrCreate(ctx, telegramID, username)
	if err != nil {
		return nil, false, fmt.Errorf("failed to ensure user: %w", err)
	}

	// Update username if it changed
	if !created && user.Username != username && username != "" {
		if err := s.userRepo.UpdateUsername(ctx, telegramID, username); err != nil {
			// Non-fatal error, just log it
			// The user still exists, so we can continue
		}
		user.Username = username
	}

	return user, created, nil
}

// GetBalance retrieves a user's current balance.
func (s *AccountService) GetBalance(ctx context.Context, telegramID int64) (int64, error) {
	user, err := s.userRepo.GetByID(ctx, telegramID)
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return user.Balance, nil
}

// GetUser retrieves a user by their Telegram ID.
func (s *AccountService) GetUser(ctx context.Context, telegramID int64) (*model.User, error) {
	return s.userRepo.GetByID(ctx, telegramID)
}

// UpdateBalance updates a user's balance by adding the specified amount.
// The amount can be negative to subtract from the balance.
// Also records a transaction for the balance change.
func (s *AccountService) UpdateBalance(ctx context.Context, telegramID int64, amount int64, txType string, description *string) (*model.User, error) {
	// Update the balance
	user, err := s.userRepo.UpdateBalance(ctx, telegramID, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}

	// Record the transaction
	_, err = s.txRepo.Create(ctx, telegramID, amount, txType, description)
	if err != nil {
		// Log error but don't fail - balance was already updated
		// In production, this should be in a database transaction
	}

	return user, nil
}

// AddBalanceToAllUsers credits every registered user the given amount.
// Used by the admin gift command.
func (s *AccountService) AddBalanceToAllUsers(ctx context.Context, amount int64) (int64, error) {
	count, err := s.userRepo.AddBalanceToAll(ctx, amount)
	if err != nil {
		return 0, fmt.Errorf("failed to gift all users: %w", err)
	}
	return count, nil
}

// ClaimDaily attempts to claim the daily reward for a user.
// Returns:
// - success: whether the claim was successful
// - message: a message describing the result (remaining time if failed)
// - error: any error that occurred
func (s *AccountService) ClaimDaily(ctx context.Context, telegramID int64) (bool, string, error) {
	// Check if user can claim
	canClaim, remaining, err := s.userRepo.CanClaimDaily(ctx, telegramID, s.cooldownHrs)
	if err != nil {
		return false, "", fmt.Errorf("failed to check daily claim eligibility: %w", err)
	}

	if !canClaim {
		// Format remaining time
		hours := int(remaining.Hours())
		minutes := int(remaining.Minutes()) % 60
		seconds := int(remaining.Seconds()) % 60
		msg := fmt.Sprintf("Espera %dh %dm %ds para reclamar de nuevo", hours, minutes, seconds)
		return false, msg, nil
	}

	user, err := s.userRepo.GetByID(ctx, telegramID)
	if err != nil {
		return false, "", fmt.Errorf("failed to get user for daily claim: %w", err)
	}

	now := time.Now()
	streak := NextStreak(user.LastDailyClaim, user.DailyStreak, now)
	reward := DailyReward(streak)

	// Update balance with daily reward
	_, err = s.userRepo.UpdateBalance(ctx, telegramID, reward)
	if err != nil {
		return false, "", fmt.Errorf("failed to add daily reward: %w", err)
	}

	// Record claim time and streak
	_, err = s.userRepo.UpdateDailyClaim(ctx, telegramID, now.Unix(), streak)
	if err != nil {
		return false, "", fmt.Errorf("failed to update daily claim time: %w", err)
	}

	// Record transaction
	desc := fmt.Sprintf("recompensa diaria, racha %d", streak)
	_, err = s.txRepo.Create(ctx, telegramID, reward, model.TxTypeDaily, &desc)
	if err != nil {
		// Non-fatal, balance was already updated
	}

	msg := fmt.Sprintf("Recompensa diaria reclamada: %d monedas (racha de %d dias)", reward, streak)
	if streak%7 == 0 {
		msg += fmt.Sprintf("\nBono semanal: +%d monedas", DailyWeeklyBonus)
	}
	return true, msg, nil
}

// CanClaimDaily checks if a user can claim their daily reward.
// Returns eligibility status and remaining time if not eligible.
func (s *AccountService) CanClaimDaily(ctx context.Context, telegramID int64) (bool, time.Duration, error) {
	return s.userRepo.CanClaimDaily(ctx, telegramID, s.cooldownHrs)
}

// GetTopUsers retrieves the top users by balance.
func (s *AccountService) GetTopUsers(ctx context.Context, limit int) ([]*model.User, error) {
	return s.userRepo.GetTopUsers(ctx, limit)
}
