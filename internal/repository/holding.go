package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"casino-game-bot/internal/model"
)

// HoldingRepository handles crypto holding persistence.
type HoldingRepository struct {
	pool *pgxpool.Pool
}

// NewHoldingRepository creates a new HoldingRepository instance.
func NewHoldingRepository(pool *pgxpool.Pool) *HoldingRepository {
	return &HoldingRepository{pool: pool}
}

// Add credits units of a coin to the user's holding, creating the row
// on first purchase.
func (r *HoldingRepository) Add(ctx context.Context, userID int64, coin string, amount int64) error {
	const query = `
		INSERT INTO holdings (user_id, coin, amount, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, coin)
		DO UPDATE SET amount = holdings.amount + $3, updated_at = NOW()
	`
	if _, err := r.pool.Exec(ctx, query, userID, coin, amount); err != nil {
		return fmt.Errorf("failed to add holding: %w", err)
	}
	return nil
}

// Deduct removes units of a coin from the user's holding. The update
// is guarded so a concurrent sell can never push the amount negative;
// it reports whether the deduction happened.
func (r *HoldingRepository) Deduct(ctx context.Context, userID int64, coin string, amount int64) (bool, error) {
	const query = `
		UPDATE holdings
		SET amount = amount - $3, updated_at = NOW()
		WHERE user_id = $1 AND coin = $2 AND amount >= $3
	`
	result, err := r.pool.Exec(ctx, query, userID, coin, amount)
	if err != nil {
		return false, fmt.Errorf("failed to deduct holding: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// Get returns how many units of a coin the user holds. A missing row
// means zero.
func (r *HoldingRepository) Get(ctx context.Context, userID int64, coin string) (int64, error) {
	const query = `
		SELECT amount FROM holdings
		WHERE user_id = $1 AND coin = $2
	`
	var amount int64
	err := r.pool.QueryRow(ctx, query, userID, coin).Scan(&amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get holding: %w", err)
	}
	return amount, nil
}

// GetByUser returns all of the user's non-empty holdings.
func (r *HoldingRepository) GetByUser(ctx context.Context, userID int64) ([]model.Holding, error) {
	const query = `
		SELECT user_id, coin, amount, updated_at
		FROM holdings
		WHERE user_id = $1 AND amount > 0
		ORDER BY coin
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get holdings: %w", err)
	}
	defer rows.Close()

	var holdings []model.Holding
	for rows.Next() {
		var h model.Holding
		if err := rows.Scan(&h.UserID, &h.Coin, &h.Amount, &h.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		holdings = append(holdings, h)
	}
	return holdings, rows.Err()
}
