package blackjack

import (
	"context"
	"sync"
	"time"

	"casino-game-bot/internal/pkg/clock"
)

const (
	// DefaultJoinWindow is how long the betting window stays open.
	DefaultJoinWindow = 60 * time.Second

	// DefaultTurnTimeout is how long a player has to hit or stand
	// before the hand is forced to stand.
	DefaultTurnTimeout = 30 * time.Second

	// DefaultDealerPause is the cosmetic delay between the dealer's
	// draws.
	DefaultDealerPause = 2 * time.Second
)

// Config holds the round timers. The zero value falls back to the
// defaults above.
type Config struct {
	JoinWindow  time.Duration
	TurnTimeout time.Duration
	DealerPause time.Duration

	// NewDeck overrides deck creation; tests use it to stack the
	// deck. Nil means a fresh shuffled 52-card deck per round.
	NewDeck func() *Deck
}

func (c Config) withDefaults() Config {
	if c.JoinWindow <= 0 {
		c.JoinWindow = DefaultJoinWindow
	}
	if c.TurnTimeout <= 0 {
		c.TurnTimeout = DefaultTurnTimeout
	}
	if c.DealerPause < 0 {
		c.DealerPause = 0
	}
	return c
}

func (c Config) newDeck() *Deck {
	if c.NewDeck != nil {
		return c.NewDeck()
	}
	return NewDeck()
}

// Table manages at most one active round per chat. It is the only
// entry point handlers use: Open, Join and Decide.
type Table struct {
	cfg      Config
	wallet   Wallet
	notifier Notifier
	clock    clock.Clock

	mu     sync.Mutex
	rounds map[int64]*Round
}

// NewTable creates a Table using the given collaborators.
func NewTable(cfg Config, w Wallet, n Notifier, c clock.Clock) *Table {
	if c == nil {
		c = clock.New()
	}
	return &Table{
		cfg:      cfg.withDefaults(),
		wallet:   w,
		notifier: n,
		clock:    c,
		rounds:   make(map[int64]*Round),
	}
}

// Open starts a new round in the chat and returns it. The round runs
// in its own goroutine from the betting window through settlement and
// unregisters itself when done.
func (t *Table) Open(ctx context.Context, chatID, minStake int64) (*Round, error) {
	if minStake <= 0 {
		return nil, ErrInvalidStake
	}

	t.mu.Lock()
	if _, ok := t.rounds[chatID]; ok {
		t.mu.Unlock()
		return nil, ErrRoundActive
	}
	r := newRound(chatID, minStake, t.cfg, t.wallet, t.notifier, t.clock, func() {
		t.mu.Lock()
		delete(t.rounds, chatID)
		t.mu.Unlock()
	})
	t.rounds[chatID] = r
	t.mu.Unlock()

	go r.run(ctx)
	return r, nil
}

// Join adds a player to the chat's open round.
func (t *Table) Join(ctx context.Context, chatID, userID int64, name string, stake int64) error {
	r, ok := t.round(chatID)
	if !ok {
		return ErrNoOpenRound
	}
	return r.Join(ctx, userID, name, stake)
}

// Decide forwards a hit/stand decision to the chat's round.
func (t *Table) Decide(chatID, userID int64, d Decision) error {
	r, ok := t.round(chatID)
	if !ok {
		return ErrNoOpenRound
	}
	return r.Decide(userID, d)
}

// Active reports whether the chat has a round in progress.
func (t *Table) Active(chatID int64) bool {
	_, ok := t.round(chatID)
	return ok
}

func (t *Table) round(chatID int64) (*Round, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	r, ok := t.rounds[chatID]
	return r, ok
}
