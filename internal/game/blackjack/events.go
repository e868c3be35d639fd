package blackjack

import "time"

// Event is a round lifecycle notification delivered to the Notifier.
// Hands carried inside events are copies; receivers may keep them.
type Event interface {
	event()
}

// RoundOpened announces a new betting window.
type RoundOpened struct {
	ChatID   int64
	MinStake int64
	Window   time.Duration
}

// PlayerJoined announces an accepted join.
type PlayerJoined struct {
	ChatID int64
	UserID int64
	Player string
	Stake  int64
}

// RoundCancelled announces that the betting window closed with no
// participants. Nothing was dealt or debited.
type RoundCancelled struct {
	ChatID int64
}

// RoundStarted announces the start of play after dealing.
type RoundStarted struct {
	ChatID  int64
	Players int
	Pot     int64
}

// ParticipantForfeited announces that a participant's stake could not
// be debited at deal time. They sit the round out with no stake taken.
type ParticipantForfeited struct {
	ChatID int64
	UserID int64
	Player string
	Stake  int64
}

// TurnPrompt asks a participant for a hit/stand decision. It is
// re-issued after every hit that does not bust.
type TurnPrompt struct {
	ChatID  int64
	UserID  int64
	Player  string
	Hand    Hand
	Value   int
	Stake   int64
	Timeout time.Duration
}

// TurnOutcome is the terminal state of one participant's turn.
type TurnOutcome int

const (
	// OutcomeStood means the participant chose to stand.
	OutcomeStood TurnOutcome = iota
	// OutcomeBusted means a hit pushed the hand past 21.
	OutcomeBusted
	// OutcomeTimedOut means no decision arrived in time; the hand
	// stands as held.
	OutcomeTimedOut
)

// TurnEnded announces the terminal state of a participant's turn.
type TurnEnded struct {
	ChatID  int64
	UserID  int64
	Player  string
	Hand    Hand
	Value   int
	Outcome TurnOutcome
}

// DealerDraw announces one card drawn by the dealer.
type DealerDraw struct {
	ChatID int64
	Card   Card
	Hand   Hand
	Value  int
}

// DealerDone announces the dealer's final hand.
type DealerDone struct {
	ChatID int64
	Hand   Hand
	Value  int
	Busted bool
}

// ResultKind classifies a participant's settlement outcome.
type ResultKind int

const (
	// ResultWon marks a pot winner.
	ResultWon ResultKind = iota
	// ResultBusted marks a participant who went over 21.
	ResultBusted
	// ResultBelowDealer marks a valid hand at or under the dealer's.
	ResultBelowDealer
	// ResultNotBest marks a valid hand beaten by another player's.
	ResultNotBest
)

// Result is one participant's line in the settlement summary.
type Result struct {
	UserID int64
	Player string
	Hand   Hand
	Value  int
	Stake  int64
	Payout int64
	Kind   ResultKind
}

// RoundSettled announces the final outcome of a round. DealerWins is
// true when no participant beat the dealer and the house keeps the pot.
type RoundSettled struct {
	ChatID       int64
	Pot          int64
	DealerHand   Hand
	DealerValue  int
	DealerBusted bool
	DealerWins   bool
	Results      []Result
}

func (RoundOpened) event()           {}
func (PlayerJoined) event()          {}
func (RoundCancelled) event()        {}
func (RoundStarted) event()          {}
func (ParticipantForfeited) event()  {}
func (TurnPrompt) event()            {}
func (TurnEnded) event()             {}
func (DealerDraw) event()            {}
func (DealerDone) event()            {}
func (RoundSettled) event()          {}
