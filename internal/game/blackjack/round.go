package blackjack

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"casino-game-bot/internal/pkg/clock"
)

// Errors surfaced to requesters. Every rejection carries its specific
// reason so players know whether retrying makes sense.
var (
	ErrInvalidStake  = errors.New("minimum stake must be positive")
	ErrRoundActive   = errors.New("a round is already in progress")
	ErrNoOpenRound   = errors.New("no round is accepting players")
	ErrAlreadyJoined = errors.New("already joined this round")
	ErrStakeTooLow   = errors.New("stake is below the round minimum")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrTurnOver      = errors.New("turn already over")
)

// Decision is a player's answer to a turn prompt.
type Decision int

const (
	// DecisionHit asks for one more card.
	DecisionHit Decision = iota
	// DecisionStand freezes the hand.
	DecisionStand
)

// Phase is the round's position in its lifecycle.
type Phase int

const (
	// PhaseOpen accepts joins until the betting window closes.
	PhaseOpen Phase = iota
	// PhaseDealing debits stakes and deals the initial hands.
	PhaseDealing
	// PhasePlayerTurns runs each participant's turn in join order.
	PhasePlayerTurns
	// PhaseDealerTurn plays out the dealer's hand.
	PhaseDealerTurn
	// PhaseSettlement computes winners and credits payouts.
	PhaseSettlement
	// PhaseDone is terminal; the round no longer reacts to input.
	PhaseDone
)

// Participant is one player's seat in a round, alive only for the
// round's duration.
type Participant struct {
	UserID int64
	Name   string
	Stake  int64
	Hand   Hand

	forfeited bool
	timedOut  bool
}

// turn is the live per-player decision state. Decisions race against
// the turn timer; once closed, late decisions are rejected.
type turn struct {
	userID    int64
	decisions chan Decision
	closed    bool
}

// Round is the aggregate for a single game: it exclusively owns the
// deck, the dealer hand and the pot until settlement. One Round is
// active per chat at a time; the Table enforces that.
type Round struct {
	chatID   int64
	minStake int64

	mu      sync.Mutex
	phase   Phase
	parts   []*Participant
	byID    map[int64]*Participant
	deck    *Deck
	dealer  Hand
	pot     int64
	turn    *turn
	noCards bool

	wallet   Wallet
	notifier Notifier
	clock    clock.Clock
	cfg      Config

	done     chan struct{}
	onFinish func()
}

func newRound(chatID, minStake int64, cfg Config, w Wallet, n Notifier, c clock.Clock, onFinish func()) *Round {
	return &Round{
		chatID:   chatID,
		minStake: minStake,
		phase:    PhaseOpen,
		byID:     make(map[int64]*Participant),
		wallet:   w,
		notifier: n,
		clock:    c,
		cfg:      cfg,
		done:     make(chan struct{}),
		onFinish: onFinish,
	}
}

// ChatID returns the chat this round belongs to.
func (r *Round) ChatID() int64 {
	return r.chatID
}

// MinStake returns the round's minimum stake.
func (r *Round) MinStake() int64 {
	return r.minStake
}

// Done is closed once the round has fully settled or was cancelled.
func (r *Round) Done() <-chan struct{} {
	return r.done
}

// Join seats a player in the betting window. The stake is only
// reserved here; the actual debit happens at deal time.
func (r *Round) Join(ctx context.Context, userID int64, name string, stake int64) error {
	r.mu.Lock()
	if r.phase != PhaseOpen {
		r.mu.Unlock()
		return ErrNoOpenRound
	}
	if _, ok := r.byID[userID]; ok {
		r.mu.Unlock()
		return ErrAlreadyJoined
	}
	if stake < r.minStake {
		r.mu.Unlock()
		return ErrStakeTooLow
	}
	r.mu.Unlock()

	// Soft balance check; the hard check is the debit in the dealing
	// phase, which revalidates whatever happened in between.
	balance, err := r.wallet.Balance(ctx, userID)
	if err != nil {
		return err
	}
	if balance < stake {
		return ErrInsufficientFunds
	}

	r.mu.Lock()
	if r.phase != PhaseOpen {
		r.mu.Unlock()
		return ErrNoOpenRound
	}
	if _, ok := r.byID[userID]; ok {
		r.mu.Unlock()
		return ErrAlreadyJoined
	}
	p := &Participant{UserID: userID, Name: name, Stake: stake}
	r.parts = append(r.parts, p)
	r.byID[userID] = p
	r.mu.Unlock()

	r.notifier.Announce(ctx, PlayerJoined{ChatID: r.chatID, UserID: userID, Player: name, Stake: stake})
	return nil
}

// Decide routes a hit/stand decision to the current turn. Decisions
// for a finished or foreign turn are rejected with no side effect.
// The send happens under the round lock so an accepted decision is
// always one the turn still honors: the timeout path drains the
// channel before closing the turn.
func (r *Round) Decide(userID int64, d Decision) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase != PhasePlayerTurns || r.turn == nil || r.turn.userID != userID {
		return ErrNotYourTurn
	}
	if r.turn.closed {
		return ErrTurnOver
	}
	select {
	case r.turn.decisions <- d:
		return nil
	default:
		return ErrTurnOver
	}
}

// run drives the round from the betting window to settlement. It is
// the only goroutine that mutates the deck, the dealer hand and the
// pot. Once dealing starts the round always reaches settlement.
func (r *Round) run(ctx context.Context) {
	defer r.finish()

	r.notifier.Announce(ctx, RoundOpened{ChatID: r.chatID, MinStake: r.minStake, Window: r.cfg.JoinWindow})

	select {
	case <-r.clock.After(r.cfg.JoinWindow):
	case <-ctx.Done():
		r.mu.Lock()
		r.phase = PhaseDone
		r.mu.Unlock()
		r.notifier.Announce(context.WithoutCancel(ctx), RoundCancelled{ChatID: r.chatID})
		return
	}

	r.mu.Lock()
	r.phase = PhaseDealing
	parts := r.parts
	r.mu.Unlock()

	if len(parts) == 0 {
		r.notifier.Announce(ctx, RoundCancelled{ChatID: r.chatID})
		return
	}

	r.deal(ctx, parts)

	r.mu.Lock()
	r.phase = PhasePlayerTurns
	r.mu.Unlock()

	for _, p := range parts {
		if p.forfeited {
			continue
		}
		r.playTurn(ctx, p)
	}

	r.mu.Lock()
	r.phase = PhaseDealerTurn
	r.mu.Unlock()

	r.dealerTurn(ctx)

	r.mu.Lock()
	r.phase = PhaseSettlement
	r.mu.Unlock()

	r.settle(ctx, parts)
}

// deal debits each stake and deals two cards per funded participant
// plus two to the dealer, all from one fresh shuffled deck. A failed
// debit forfeits that participant only; the round goes on.
func (r *Round) deal(ctx context.Context, parts []*Participant) {
	r.mu.Lock()
	r.deck = r.cfg.newDeck()
	r.mu.Unlock()

	active := 0
	for _, p := range parts {
		_, err := r.wallet.Adjust(ctx, p.UserID, -p.Stake, "blackjack stake")
		if err != nil {
			p.forfeited = true
			log.Warn().
				Err(err).
				Int64("chat_id", r.chatID).
				Int64("user_id", p.UserID).
				Int64("stake", p.Stake).
				Msg("Stake debit failed, participant forfeits the round")
			r.notifier.Announce(ctx, ParticipantForfeited{ChatID: r.chatID, UserID: p.UserID, Player: p.Name, Stake: p.Stake})
			continue
		}
		r.mu.Lock()
		r.pot += p.Stake
		r.mu.Unlock()
		active++
	}

	r.mu.Lock()
	for _, p := range parts {
		if p.forfeited {
			continue
		}
		for i := 0; i < 2; i++ {
			c, err := r.deck.Draw()
			if err != nil {
				r.noCards = true
				break
			}
			p.Hand = append(p.Hand, c)
		}
	}
	for i := 0; i < 2; i++ {
		c, err := r.deck.Draw()
		if err != nil {
			r.noCards = true
			break
		}
		r.dealer = append(r.dealer, c)
	}
	pot := r.pot
	r.mu.Unlock()

	if active > 0 {
		r.notifier.Announce(ctx, RoundStarted{ChatID: r.chatID, Players: active, Pot: pot})
	}
}

// playTurn runs one participant's decision loop. Every prompt races
// the player's decision against the turn timer; silence stands the
// hand rather than forfeiting it, so an absent player still settles
// normally.
func (r *Round) playTurn(ctx context.Context, p *Participant) {
	for {
		r.mu.Lock()
		if r.noCards {
			r.mu.Unlock()
			return
		}
		t := &turn{userID: p.UserID, decisions: make(chan Decision, 1)}
		r.turn = t
		hand := p.Hand.clone()
		r.mu.Unlock()

		r.notifier.Announce(ctx, TurnPrompt{
			ChatID:  r.chatID,
			UserID:  p.UserID,
			Player:  p.Name,
			Hand:    hand,
			Value:   hand.Value(),
			Stake:   p.Stake,
			Timeout: r.cfg.TurnTimeout,
		})

		var d Decision
		got := false
		cancelled := false
		select {
		case d = <-t.decisions:
			got = true
		case <-r.clock.After(r.cfg.TurnTimeout):
		case <-ctx.Done():
			cancelled = true
		}

		r.mu.Lock()
		if !got && !cancelled {
			// A decision accepted before the turn closes beats the
			// timer: Decide only buffers under this lock, so once
			// closed is set no further decision can land.
			select {
			case d = <-t.decisions:
				got = true
			default:
			}
		}
		t.closed = true
		r.turn = nil
		r.mu.Unlock()
		timedOut := !got

		if timedOut {
			p.timedOut = true
			r.endTurn(ctx, p, OutcomeTimedOut)
			return
		}

		if d == DecisionStand {
			r.endTurn(ctx, p, OutcomeStood)
			return
		}

		// Hit: draw one card and re-evaluate.
		r.mu.Lock()
		c, err := r.deck.Draw()
		if err != nil {
			r.noCards = true
			r.mu.Unlock()
			r.endTurn(ctx, p, OutcomeStood)
			return
		}
		p.Hand = append(p.Hand, c)
		busted := p.Hand.Busted()
		r.mu.Unlock()

		if busted {
			r.endTurn(ctx, p, OutcomeBusted)
			return
		}
	}
}

func (r *Round) endTurn(ctx context.Context, p *Participant, outcome TurnOutcome) {
	r.mu.Lock()
	hand := p.Hand.clone()
	r.mu.Unlock()
	r.notifier.Announce(ctx, TurnEnded{
		ChatID:  r.chatID,
		UserID:  p.UserID,
		Player:  p.Name,
		Hand:    hand,
		Value:   hand.Value(),
		Outcome: outcome,
	})
}

// dealerTurn draws deterministically while the dealer holds less than
// 17. The dealer never stops early to avoid busting, and the hand is
// played out even when every participant already busted.
func (r *Round) dealerTurn(ctx context.Context) {
	for {
		r.mu.Lock()
		value := r.dealer.Value()
		noCards := r.noCards
		r.mu.Unlock()

		if value >= 17 || noCards {
			break
		}

		if r.cfg.DealerPause > 0 {
			// Cosmetic pacing so spectators can follow the draws.
			select {
			case <-r.clock.After(r.cfg.DealerPause):
			case <-ctx.Done():
			}
		}

		r.mu.Lock()
		c, err := r.deck.Draw()
		if err != nil {
			r.noCards = true
			r.mu.Unlock()
			break
		}
		r.dealer = append(r.dealer, c)
		hand := r.dealer.clone()
		r.mu.Unlock()

		r.notifier.Announce(ctx, DealerDraw{ChatID: r.chatID, Card: c, Hand: hand, Value: hand.Value()})
	}

	r.mu.Lock()
	hand := r.dealer.clone()
	r.mu.Unlock()
	r.notifier.Announce(ctx, DealerDone{ChatID: r.chatID, Hand: hand, Value: hand.Value(), Busted: hand.Busted()})
}

// settle partitions participants into busted and valid hands, picks
// the winners against the dealer and splits the pot among them: each
// of W winners gets floor(pot/W) and the first winner in join order
// additionally receives the division remainder. A winner's share
// already contains their returned stake, so the credits total exactly
// the pot whenever there is at least one winner.
func (r *Round) settle(ctx context.Context, parts []*Participant) {
	r.mu.Lock()
	pot := r.pot
	dealerHand := r.dealer.clone()
	r.mu.Unlock()

	dealerValue := dealerHand.Value()
	dealerBusted := dealerValue > 21

	var valid []*Participant
	for _, p := range parts {
		if p.forfeited {
			continue
		}
		if !p.Hand.Busted() {
			valid = append(valid, p)
		}
	}

	var winners []*Participant
	if len(valid) > 0 {
		if dealerBusted {
			winners = valid
		} else {
			best := 0
			for _, p := range valid {
				if v := p.Hand.Value(); v > best {
					best = v
				}
			}
			if best > dealerValue {
				for _, p := range valid {
					if p.Hand.Value() == best {
						winners = append(winners, p)
					}
				}
			}
		}
	}

	payouts := make(map[int64]int64)
	if len(winners) > 0 {
		base := pot / int64(len(winners))
		remainder := pot % int64(len(winners))
		for i, w := range winners {
			share := base
			if i == 0 {
				share += remainder
			}
			payouts[w.UserID] = share
			if _, err := r.wallet.Adjust(ctx, w.UserID, share, "blackjack payout"); err != nil {
				// The payout decision stands even if the credit
				// transport fails; leave a reconcilable trace.
				log.Error().
					Err(err).
					Int64("chat_id", r.chatID).
					Int64("user_id", w.UserID).
					Int64("payout", share).
					Msg("Payout credit failed, manual reconciliation required")
			}
		}
	}

	isWinner := func(p *Participant) bool {
		_, ok := payouts[p.UserID]
		return ok
	}

	var results []Result
	for _, p := range parts {
		if p.forfeited {
			continue
		}
		value := p.Hand.Value()
		res := Result{
			UserID: p.UserID,
			Player: p.Name,
			Hand:   p.Hand.clone(),
			Value:  value,
			Stake:  p.Stake,
		}
		switch {
		case isWinner(p):
			res.Kind = ResultWon
			res.Payout = payouts[p.UserID]
		case value > 21:
			res.Kind = ResultBusted
		case !dealerBusted && value <= dealerValue:
			res.Kind = ResultBelowDealer
		default:
			res.Kind = ResultNotBest
		}
		results = append(results, res)
	}

	r.notifier.Announce(ctx, RoundSettled{
		ChatID:       r.chatID,
		Pot:          pot,
		DealerHand:   dealerHand,
		DealerValue:  dealerValue,
		DealerBusted: dealerBusted,
		DealerWins:   len(winners) == 0,
		Results:      results,
	})
}

func (r *Round) finish() {
	r.mu.Lock()
	r.phase = PhaseDone
	r.mu.Unlock()
	if r.onFinish != nil {
		r.onFinish()
	}
	close(r.done)
}
