package blackjack

// Hand is the ordered sequence of cards held by one participant for the
// duration of a round. It only ever grows by appending drawn cards.
type Hand []Card

// Value computes the blackjack value of the hand. Aces start at 11 and
// are demoted to 1 one at a time while the total exceeds 21. The value
// is always recomputed from the full card sequence because appending a
// card can retroactively change how earlier aces count.
func (h Hand) Value() int {
	value, aces := 0, 0
	for _, c := range h {
		if c.Rank == "A" {
			aces++
		}
		value += c.Value()
	}
	for value > 21 && aces > 0 {
		value -= 10
		aces--
	}
	return value
}

// Busted reports whether the hand's value exceeds 21.
func (h Hand) Busted() bool {
	return h.Value() > 21
}

// String renders the hand like "A♠ | 10♥".
func (h Hand) String() string {
	return FormatCards(h)
}

// clone returns an independent copy, safe to hand out in events while
// the round keeps mutating the original.
func (h Hand) clone() Hand {
	out := make(Hand, len(h))
	copy(out, h)
	return out
}
