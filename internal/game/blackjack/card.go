// Package blackjack implements the multiplayer blackjack round engine:
// deck and hand model, the per-player turn state machine, the dealer
// draw policy and pot settlement. Message delivery and balance storage
// are consumed through the Wallet, Notifier and Clock interfaces so the
// engine stays independent of the chat platform and the database.
package blackjack

import (
	"errors"
	"math/rand"
	"strings"
)

// ErrEmptyDeck is returned by Draw when no cards remain. A single round
// never draws more than 52 cards at realistic table sizes, so hitting
// this ends the current draw phase and the round settles with the hands
// as they stand.
var ErrEmptyDeck = errors.New("deck is empty")

// Card is an immutable rank/suit pair. Cards compare by value.
type Card struct {
	Rank string
	Suit string
}

// String renders the card like "A♠" or "10♥".
func (c Card) String() string {
	return c.Rank + c.Suit
}

// Value returns the card's blackjack value. Aces count as 11 here;
// Hand.Value handles the demotion to 1.
func (c Card) Value() int {
	switch c.Rank {
	case "J", "Q", "K":
		return 10
	case "A":
		return 11
	case "10":
		return 10
	case "2", "3", "4", "5", "6", "7", "8", "9":
		return int(c.Rank[0] - '0')
	}
	return 0
}

var suits = []string{"♥", "♦", "♣", "♠"}

var ranks = []string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}

// Deck is an ordered sequence of cards owned by exactly one round.
// It is never replenished: the card count only decreases.
type Deck struct {
	cards []Card
}

// NewDeck returns a full 52-card deck in uniformly random order.
func NewDeck() *Deck {
	cards := make([]Card, 0, len(ranks)*len(suits))
	for _, r := range ranks {
		for _, s := range suits {
			cards = append(cards, Card{Rank: r, Suit: s})
		}
	}
	rand.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	return &Deck{cards: cards}
}

// NewStackedDeck builds a deck that deals the given cards in order.
// Intended for tests that need a known sequence of hands.
func NewStackedDeck(cards ...Card) *Deck {
	// Draw takes from the end, so store in reverse.
	rev := make([]Card, len(cards))
	for i, c := range cards {
		rev[len(cards)-1-i] = c
	}
	return &Deck{cards: rev}
}

// Draw removes and returns the top card.
func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrEmptyDeck
	}
	c := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return c, nil
}

// Len returns the number of cards remaining.
func (d *Deck) Len() int {
	return len(d.cards)
}

// FormatCards renders a card sequence like "A♠ | 10♥".
func FormatCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " | ")
}
