// Package rob implements the robbery game: steal a balance-dependent
// share of another user's coins, or pay them a fine when it goes
// wrong.
package rob

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"casino-game-bot/internal/model"
	"casino-game-bot/internal/pkg/lock"
	"casino-game-bot/internal/repository"
)

// Robbery tuning. The steal percentage shrinks as the victim's
// balance grows, so big hoards are harder to drain in one hit.
const (
	SuccessRate    = 0.40
	Cooldown       = 30 * time.Minute
	PenaltyPercent = 25 // of the attempted amount
	PenaltyCapPct  = 50 // of the robber's balance
)

// Errors for rob game.
var (
	ErrSelfRob         = errors.New("cannot rob yourself")
	ErrVictimNotFound  = errors.New("victim is not registered")
	ErrVictimPoor      = errors.New("victim has nothing to steal")
	ErrNegativeBalance = errors.New("cannot rob with a negative balance")
	ErrCooldown        = errors.New("robbery on cooldown")
)

// Outcome is the result category of an attempt.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeFailed
)

// Result contains everything a handler needs to report an attempt.
type Result struct {
	Outcome       Outcome
	Amount        int64 // stolen on success, penalty paid on failure
	Attempted     int64
	Percent       int // steal percentage applied to the victim
	RobberBalance int64
	VictimName    string
}

// DigitCount returns the number of decimal digits in the amount.
func DigitCount(amount int64) int {
	if amount < 0 {
		amount = -amount
	}
	digits := 1
	for amount >= 10 {
		amount /= 10
		digits++
	}
	return digits
}

// StealPercent returns the percentage of the victim's balance at
// stake, keyed by how many digits the balance has. One-digit fortunes
// lose up to 70%, seven digits and beyond only 10%.
func StealPercent(victimBalance int64) int {
	switch DigitCount(victimBalance) {
	case 1:
		return 70
	case 2:
		return 60
	case 3:
		return 50
	case 4:
		return 40
	case 5:
		return 30
	case 6:
		return 20
	default:
		return 10
	}
}

// AttemptedAmount is the loot a robbery goes for: the percentage cut
// of the victim's balance, at least one coin, never more than they
// have.
func AttemptedAmount(victimBalance int64) int64 {
	amount := victimBalance * int64(StealPercent(victimBalance)) / 100
	if amount < 1 {
		amount = 1
	}
	if amount > victimBalance {
		amount = victimBalance
	}
	return amount
}

// PenaltyAmount is what a failed robber pays the victim: a quarter of
// the attempted loot, at least one coin, capped at half the robber's
// balance so one bad night is never catastrophic.
func PenaltyAmount(attempted, robberBalance int64) int64 {
	penalty := attempted * PenaltyPercent / 100
	if penalty < 1 {
		penalty = 1
	}
	limit := robberBalance * PenaltyCapPct / 100
	if limit < 1 {
		limit = 1
	}
	if penalty > limit {
		penalty = limit
	}
	return penalty
}

// Game manages the robbery game logic. The cooldown is persisted on
// the user row so it survives restarts.
type Game struct {
	userRepo *repository.UserRepository
	txRepo   *repository.TransactionRepository
	userLock *lock.UserLock

	// roll returns a uniform value in [0,1); injectable for tests.
	roll func() float64
}

// NewGame creates a new rob Game instance.
func NewGame(
	userRepo *repository.UserRepository,
	txRepo *repository.TransactionRepository,
	userLock *lock.UserLock,
) *Game {
	return &Game{
		userRepo: userRepo,
		txRepo:   txRepo,
		userLock: userLock,
		roll:     rand.Float64,
	}
}

// CooldownRemaining returns how long the robber must still wait. Zero
// means an attempt is allowed.
func (g *Game) CooldownRemaining(ctx context.Context, robberID int64) (time.Duration, error) {
	user, err := g.userRepo.GetByID(ctx, robberID)
	if err != nil {
		return 0, err
	}
	if user.LastRob == 0 {
		return 0, nil
	}
	elapsed := time.Since(time.Unix(user.LastRob, 0))
	if elapsed >= Cooldown {
		return 0, nil
	}
	return Cooldown - elapsed, nil
}

// Rob attempts a robbery. Both parties are locked in a fixed order to
// avoid deadlocks with concurrent attempts in the other direction.
// The cooldown is only consumed when an attempt actually happens.
func (g *Game) Rob(ctx context.Context, robberID, victimID int64) (*Result, error) {
	if robberID == victimID {
		return nil, ErrSelfRob
	}

	if remaining, err := g.CooldownRemaining(ctx, robberID); err != nil {
		return nil, err
	} else if remaining > 0 {
		return nil, fmt.Errorf("%w: %s left", ErrCooldown, remaining.Round(time.Second))
	}

	first, second := robberID, victimID
	if second < first {
		first, second = second, first
	}
	g.userLock.Lock(first)
	defer g.userLock.Unlock(first)
	g.userLock.Lock(second)
	defer g.userLock.Unlock(second)

	robber, err := g.userRepo.GetByID(ctx, robberID)
	if err != nil {
		return nil, err
	}
	victim, err := g.userRepo.GetByID(ctx, victimID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrVictimNotFound
		}
		return nil, err
	}

	if robber.Balance < 0 {
		return nil, ErrNegativeBalance
	}
	if victim.Balance < 1 {
		return nil, ErrVictimPoor
	}

	attempted := AttemptedAmount(victim.Balance)
	percent := StealPercent(victim.Balance)

	now := time.Now().Unix()
	if err := g.userRepo.UpdateLastRob(ctx, robberID, now); err != nil {
		return nil, err
	}

	if g.roll() <= SuccessRate {
		if _, err := g.userRepo.UpdateBalance(ctx, victimID, -attempted); err != nil {
			return nil, err
		}
		updated, err := g.userRepo.UpdateBalance(ctx, robberID, attempted)
		if err != nil {
			return nil, err
		}

		robDesc := fmt.Sprintf("robo exitoso a %s", victim.Username)
		robbedDesc := fmt.Sprintf("robado por %s", robber.Username)
		_, _ = g.txRepo.Create(ctx, robberID, attempted, model.TxTypeRob, &robDesc)
		_, _ = g.txRepo.Create(ctx, victimID, -attempted, model.TxTypeRobbed, &robbedDesc)

		return &Result{
			Outcome:       OutcomeSuccess,
			Amount:        attempted,
			Attempted:     attempted,
			Percent:       percent,
			RobberBalance: updated.Balance,
			VictimName:    victim.Username,
		}, nil
	}

	// Failed: the robber pays the victim a fine. This may push the
	// robber's balance negative, which blocks further attempts until
	// they recover.
	penalty := PenaltyAmount(attempted, robber.Balance)
	updated, err := g.userRepo.UpdateBalance(ctx, robberID, -penalty)
	if err != nil {
		return nil, err
	}
	if _, err := g.userRepo.UpdateBalance(ctx, victimID, penalty); err != nil {
		return nil, err
	}

	robDesc := fmt.Sprintf("multa por robo fallido a %s", victim.Username)
	robbedDesc := fmt.Sprintf("compensacion de %s", robber.Username)
	_, _ = g.txRepo.Create(ctx, robberID, -penalty, model.TxTypeRob, &robDesc)
	_, _ = g.txRepo.Create(ctx, victimID, penalty, model.TxTypeRobbed, &robbedDesc)

	return &Result{
		Outcome:       OutcomeFailed,
		Amount:        penalty,
		Attempted:     attempted,
		Percent:       percent,
		RobberBalance: updated.Balance,
		VictimName:    victim.Username,
	}, nil
}
