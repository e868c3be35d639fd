package crypto

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestCoinBySymbol(t *testing.T) {
	for _, c := range Coins {
		got, ok := CoinBySymbol(c.Symbol)
		require.True(t, ok)
		assert.Equal(t, c.Name, got.Name)
	}

	_, ok := CoinBySymbol("XRP")
	assert.False(t, ok)
}

func TestNextPriceClampsToBounds(t *testing.T) {
	btc, _ := CoinBySymbol("BTC")

	// At the floor a downward roll cannot go lower.
	assert.Equal(t, btc.MinPrice, NextPrice(btc.MinPrice, btc, 0.0))
	// At the ceiling an upward roll cannot go higher.
	assert.Equal(t, btc.MaxPrice, NextPrice(btc.MaxPrice, btc, 0.999999))
}

func TestNextPriceMidpointRoll(t *testing.T) {
	tests := []struct {
		symbol  string
		current int64
		u       float64
		want    int64
	}{
		// u=0.5 lands on the middle of the volatility range.
		{"BTC", 10000, 0.5, 10000}, // factor 1.00
		{"ETH", 3000, 0.5, 3000},   // factor 1.00
		{"DOG", 50, 0.5, 50},       // factor 1.00
		{"BTC", 10000, 0.0, 9800},  // factor 0.98
		{"DOG", 100, 1.0, 115},     // factor 1.15
	}

	for _, tt := range tests {
		coin, ok := CoinBySymbol(tt.symbol)
		require.True(t, ok)
		assert.Equal(t, tt.want, NextPrice(tt.current, coin, tt.u), "%s at %d with u=%v", tt.symbol, tt.current, tt.u)
	}
}

func TestNextPriceReseedsNonPositive(t *testing.T) {
	dog, _ := CoinBySymbol("DOG")
	// A broken price falls back to base before stepping.
	assert.Equal(t, dog.Base, NextPrice(0, dog, 0.5))
}

func TestNextPriceBoundsProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		coin := Coins[rapid.IntRange(0, len(Coins)-1).Draw(t, "coin")]
		current := rapid.Int64Range(coin.MinPrice, coin.MaxPrice).Draw(t, "current")
		u := rapid.Float64Range(0, 1).Draw(t, "u")

		next := NextPrice(current, coin, u)

		if next < coin.MinPrice || next > coin.MaxPrice {
			t.Fatalf("price %d escaped [%d, %d]", next, coin.MinPrice, coin.MaxPrice)
		}

		// The step never exceeds the volatility range (modulo rounding
		// and clamping).
		if next > coin.MinPrice && next < coin.MaxPrice {
			lo := math.Floor(float64(current) * coin.VolMin)
			hi := math.Ceil(float64(current) * coin.VolMax)
			if float64(next) < lo || float64(next) > hi {
				t.Fatalf("step to %d outside [%v, %v]", next, lo, hi)
			}
		}
	})
}

func TestNextPriceWalkStaysBoundedProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		coin := Coins[rapid.IntRange(0, len(Coins)-1).Draw(t, "coin")]
		rolls := rapid.SliceOfN(rapid.Float64Range(0, 1), 1, 200).Draw(t, "rolls")

		price := coin.Base
		for _, u := range rolls {
			price = NextPrice(price, coin, u)
			if price < coin.MinPrice || price > coin.MaxPrice {
				t.Fatalf("walk escaped bounds: %d", price)
			}
		}
	})
}

func TestMarketSeedsBasePrices(t *testing.T) {
	m := NewMarket()
	for _, c := range Coins {
		price, ok := m.Price(c.Symbol)
		require.True(t, ok)
		assert.Equal(t, c.Base, price)
	}

	_, ok := m.Price("XRP")
	assert.False(t, ok)
}

func TestMarketTickAppliesRoll(t *testing.T) {
	m := NewMarket()
	m.uniform = func() float64 { return 1.0 }

	changes := m.Tick()
	require.Len(t, changes, len(Coins))

	for _, ch := range changes {
		coin, _ := CoinBySymbol(ch.Symbol)
		assert.Equal(t, coin.Base, ch.Old)
		want := int64(math.Round(float64(coin.Base) * coin.VolMax))
		if want > coin.MaxPrice {
			want = coin.MaxPrice
		}
		assert.Equal(t, want, ch.New)
		assert.Greater(t, ch.Percent, 0.0)

		price, _ := m.Price(ch.Symbol)
		assert.Equal(t, want, price)
	}
}

func TestMarketTickSkipsUnchanged(t *testing.T) {
	m := NewMarket()
	// Midpoint roll leaves every price exactly where it was.
	m.uniform = func() float64 { return 0.5 }

	changes := m.Tick()
	assert.Empty(t, changes)
}

func TestMarketPricesReturnsCopy(t *testing.T) {
	m := NewMarket()
	prices := m.Prices()
	prices["BTC"] = 1

	got, _ := m.Price("BTC")
	assert.NotEqual(t, int64(1), got)
}
