package blackjack

import (
	"testing"

	"pgregory.net/rapid"
)

func card(rank string) Card {
	return Card{Rank: rank, Suit: "♠"}
}

func handOf(ranks ...string) Hand {
	h := make(Hand, 0, len(ranks))
	for _, r := range ranks {
		h = append(h, card(r))
	}
	return h
}

// TestHandValue covers the soft/hard ace semantics: aces count as 11
// unless that busts the hand, in which case they demote to 1 one at a
// time.
func TestHandValue(t *testing.T) {
	tests := []struct {
		name     string
		hand     Hand
		expected int
	}{
		{"empty hand", Hand{}, 0},
		{"single ace", handOf("A"), 11},
		{"blackjack", handOf("A", "K"), 21},
		{"two aces", handOf("A", "A"), 12},
		{"two aces and nine", handOf("A", "A", "9"), 21},
		{"three aces", handOf("A", "A", "A"), 13},
		{"soft seventeen", handOf("A", "6"), 17},
		{"soft becomes hard", handOf("A", "6", "10"), 17},
		{"all aces demoted", handOf("A", "A", "K", "Q"), 22},
		{"face cards", handOf("J", "Q"), 20},
		{"ten nine five busts", handOf("10", "9", "5"), 24},
		{"numeric ranks", handOf("2", "3", "4"), 9},
		{"twenty one exact", handOf("7", "7", "7"), 21},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.hand.Value(); got != tt.expected {
				t.Errorf("Value(%v) = %d, want %d", tt.hand, got, tt.expected)
			}
		})
	}
}

func TestHandBusted(t *testing.T) {
	if handOf("10", "9", "5").Busted() != true {
		t.Error("24 should be busted")
	}
	if handOf("A", "A", "9").Busted() {
		t.Error("soft 21 should not be busted")
	}
}

// TestHandValueBestAssignmentProperty checks that Value returns the
// highest total ≤ 21 achievable by assigning each ace to 1 or 11, or
// the minimum total (all aces as 1) when every assignment busts.
func TestHandValueBestAssignmentProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 8).Draw(t, "cards")
		h := make(Hand, 0, n)
		hard := 0
		aces := 0
		for i := 0; i < n; i++ {
			r := ranks[rapid.IntRange(0, len(ranks)-1).Draw(t, "rank")]
			h = append(h, card(r))
			if r == "A" {
				aces++
			} else {
				hard += card(r).Value()
			}
		}

		// Brute-force the best assignment over all ace splits.
		best := -1
		min := hard + aces
		for high := 0; high <= aces; high++ {
			total := hard + (aces-high)*1 + high*11
			if total <= 21 && total > best {
				best = total
			}
			if total < min {
				min = total
			}
		}
		want := best
		if want == -1 {
			want = min
		}

		if got := h.Value(); got != want {
			t.Fatalf("Value(%v) = %d, want %d", h, got, want)
		}
	})
}
