// Package crypto implements the in-chat crypto market: three fake
// coins whose prices follow a clamped random walk, tradable against
// the coin balance.
package crypto

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"casino-game-bot/internal/model"
	"casino-game-bot/internal/pkg/lock"
	"casino-game-bot/internal/repository"
)

// DefaultTickInterval is how often prices move.
const DefaultTickInterval = 5 * time.Minute

// Coin describes one tradable coin. Volatility is the uniform factor
// range applied to the price on every tick; the price is clamped to
// [MinPrice, MaxPrice] afterwards.
type Coin struct {
	Symbol   string
	Name     string
	Emoji    string
	Base     int64
	MinPrice int64
	MaxPrice int64
	VolMin   float64
	VolMax   float64
}

// Coins is the traded set. DOG swings an order of magnitude harder
// than BTC.
var Coins = []Coin{
	{Symbol: "BTC", Name: "BitCord", Emoji: "₿", Base: 10000, MinPrice: 5000, MaxPrice: 20000, VolMin: 0.98, VolMax: 1.02},
	{Symbol: "ETH", Name: "Etherium", Emoji: "Ξ", Base: 3000, MinPrice: 1500, MaxPrice: 6000, VolMin: 0.95, VolMax: 1.05},
	{Symbol: "DOG", Name: "DoggoCoin", Emoji: "🐕", Base: 50, MinPrice: 10, MaxPrice: 200, VolMin: 0.85, VolMax: 1.15},
}

// CoinBySymbol looks up a coin by its symbol.
func CoinBySymbol(symbol string) (Coin, bool) {
	for _, c := range Coins {
		if c.Symbol == symbol {
			return c, true
		}
	}
	return Coin{}, false
}

// Errors for crypto trading.
var (
	ErrUnknownCoin          = errors.New("unknown coin")
	ErrInvalidUnits         = errors.New("units must be positive")
	ErrInsufficientFunds    = errors.New("insufficient balance")
	ErrInsufficientHoldings = errors.New("insufficient holdings")
)

// NextPrice computes one step of the random walk: the current price
// scaled by a uniform factor in the coin's volatility range, clamped
// to the coin's bounds. u must be uniform in [0, 1).
func NextPrice(current int64, c Coin, u float64) int64 {
	if current <= 0 {
		current = c.Base
	}
	factor := c.VolMin + u*(c.VolMax-c.VolMin)
	price := int64(math.Round(float64(current) * factor))
	if price < c.MinPrice {
		price = c.MinPrice
	}
	if price > c.MaxPrice {
		price = c.MaxPrice
	}
	return price
}

// PriceChange describes one coin's move on a tick.
type PriceChange struct {
	Symbol  string
	Old     int64
	New     int64
	Percent float64
}

// Market holds the current prices. Prices live in memory and reseed
// from the base values on restart.
type Market struct {
	mu     sync.RWMutex
	prices map[string]int64

	// uniform returns a value in [0,1); injectable for tests.
	uniform func() float64
}

// NewMarket creates a Market seeded with every coin's base price.
func NewMarket() *Market {
	prices := make(map[string]int64, len(Coins))
	for _, c := range Coins {
		prices[c.Symbol] = c.Base
	}
	return &Market{prices: prices, uniform: rand.Float64}
}

// Price returns the current price of a coin.
func (m *Market) Price(symbol string) (int64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.prices[symbol]
	return p, ok
}

// Prices returns a copy of all current prices.
func (m *Market) Prices() map[string]int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]int64, len(m.prices))
	for k, v := range m.prices {
		out[k] = v
	}
	return out
}

// Tick advances every price one volatility step and returns the moves
// that actually changed a price.
func (m *Market) Tick() []PriceChange {
	m.mu.Lock()
	defer m.mu.Unlock()

	var changes []PriceChange
	for _, c := range Coins {
		old := m.prices[c.Symbol]
		next := NextPrice(old, c, m.uniform())
		if next == old {
			continue
		}
		m.prices[c.Symbol] = next
		pct := 0.0
		if old > 0 {
			pct = (float64(next) - float64(old)) / float64(old) * 100
		}
		changes = append(changes, PriceChange{Symbol: c.Symbol, Old: old, New: next, Percent: pct})
	}
	return changes
}

// StartTicker moves prices on the given interval until the context is
// cancelled. Run it in its own goroutine.
func (m *Market) StartTicker(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info().Dur("interval", interval).Msg("Crypto price ticker started")

	for {
		select {
		case <-ticker.C:
			changes := m.Tick()
			for _, ch := range changes {
				log.Debug().
					Str("coin", ch.Symbol).
					Int64("old", ch.Old).
					Int64("new", ch.New).
					Float64("percent", ch.Percent).
					Msg("Crypto price moved")
			}
		case <-ctx.Done():
			log.Info().Msg("Crypto price ticker stopped")
			return
		}
	}
}

// TradeResult describes a completed buy or sell.
type TradeResult struct {
	Coin       Coin
	Units      int64
	UnitPrice  int64
	Total      int64
	NewBalance int64
	Held       int64
}

// Exchange executes trades against the market's current prices.
type Exchange struct {
	market   *Market
	userRepo *repository.UserRepository
	txRepo   *repository.TransactionRepository
	holdRepo *repository.HoldingRepository
	userLock *lock.UserLock
}

// NewExchange creates a new Exchange instance.
func NewExchange(
	market *Market,
	userRepo *repository.UserRepository,
	txRepo *repository.TransactionRepository,
	holdRepo *repository.HoldingRepository,
	userLock *lock.UserLock,
) *Exchange {
	return &Exchange{
		market:   market,
		userRepo: userRepo,
		txRepo:   txRepo,
		holdRepo: holdRepo,
		userLock: userLock,
	}
}

// Buy purchases units of a coin at the current price. The whole cost
// is debited up front; the trade is rejected if it would overdraw.
func (e *Exchange) Buy(ctx context.Context, userID int64, symbol string, units int64) (*TradeResult, error) {
	if units <= 0 {
		return nil, ErrInvalidUnits
	}
	coin, ok := CoinBySymbol(symbol)
	if !ok {
		return nil, ErrUnknownCoin
	}

	e.userLock.Lock(userID)
	defer e.userLock.Unlock(userID)

	price, _ := e.market.Price(symbol)
	cost := price * units

	user, err := e.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Balance < cost {
		return nil, ErrInsufficientFunds
	}

	updated, err := e.userRepo.UpdateBalance(ctx, userID, -cost)
	if err != nil {
		return nil, fmt.Errorf("failed to debit purchase: %w", err)
	}
	if err := e.holdRepo.Add(ctx, userID, symbol, units); err != nil {
		// Credit back; the purchase never happened.
		_, _ = e.userRepo.UpdateBalance(ctx, userID, cost)
		return nil, fmt.Errorf("failed to record holding: %w", err)
	}

	desc := fmt.Sprintf("compra de %d %s a %d", units, symbol, price)
	_, _ = e.txRepo.Create(ctx, userID, -cost, model.TxTypeCryptoBuy, &desc)

	held, _ := e.holdRepo.Get(ctx, userID, symbol)
	return &TradeResult{
		Coin:       coin,
		Units:      units,
		UnitPrice:  price,
		Total:      cost,
		NewBalance: updated.Balance,
		Held:       held,
	}, nil
}

// Sell liquidates units of a coin at the current price.
func (e *Exchange) Sell(ctx context.Context, userID int64, symbol string, units int64) (*TradeResult, error) {
	if units <= 0 {
		return nil, ErrInvalidUnits
	}
	coin, ok := CoinBySymbol(symbol)
	if !ok {
		return nil, ErrUnknownCoin
	}

	e.userLock.Lock(userID)
	defer e.userLock.Unlock(userID)

	price, _ := e.market.Price(symbol)
	proceeds := price * units

	deducted, err := e.holdRepo.Deduct(ctx, userID, symbol, units)
	if err != nil {
		return nil, fmt.Errorf("failed to deduct holding: %w", err)
	}
	if !deducted {
		return nil, ErrInsufficientHoldings
	}

	updated, err := e.userRepo.UpdateBalance(ctx, userID, proceeds)
	if err != nil {
		// Give the units back; the sale never happened.
		_ = e.holdRepo.Add(ctx, userID, symbol, units)
		return nil, fmt.Errorf("failed to credit sale: %w", err)
	}

	desc := fmt.Sprintf("venta de %d %s a %d", units, symbol, price)
	_, _ = e.txRepo.Create(ctx, userID, proceeds, model.TxTypeCryptoSell, &desc)

	held, _ := e.holdRepo.Get(ctx, userID, symbol)
	return &TradeResult{
		Coin:       coin,
		Units:      units,
		UnitPrice:  price,
		Total:      proceeds,
		NewBalance: updated.Balance,
		Held:       held,
	}, nil
}

// Position is one line of a user's portfolio valued at the current
// price.
type Position struct {
	Coin  Coin
	Units int64
	Value int64
}

// Portfolio returns the user's holdings valued at current prices.
func (e *Exchange) Portfolio(ctx context.Context, userID int64) ([]Position, int64, error) {
	holdings, err := e.holdRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	var positions []Position
	var total int64
	for _, h := range holdings {
		coin, ok := CoinBySymbol(h.Coin)
		if !ok {
			continue
		}
		price, _ := e.market.Price(h.Coin)
		value := price * h.Amount
		positions = append(positions, Position{Coin: coin, Units: h.Amount, Value: value})
		total += value
	}
	return positions, total, nil
}
