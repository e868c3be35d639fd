// Package wordless implements a Wordle-style guessing game over a
// Spanish five-letter word list. Each user plays one solo session at
// a time; guessing the word pays out by attempt count.
package wordless

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"
	"unicode"

	"casino-game-bot/internal/model"
	"casino-game-bot/internal/repository"
)

// Game constants.
const (
	WordLength  = 5
	MaxAttempts = 6

	RewardFirst  int64 = 1000
	RewardSecond int64 = 500
	RewardBase   int64 = 100
)

// Board marks rendered per letter.
const (
	MarkExact  = "🟩"
	MarkMoved  = "🟨"
	MarkAbsent = "⬛"
)

// Errors for wordless sessions.
var (
	ErrGameActive  = errors.New("a game is already active")
	ErrNoGame      = errors.New("no active game")
	ErrWrongLength = errors.New("word must have exactly 5 letters")
	ErrNotLetters  = errors.New("word must contain only letters")
)

// Evaluate scores a guess against the secret. Exact matches are
// resolved first so that a repeated letter is only marked as moved
// when the secret still holds an unconsumed copy.
func Evaluate(guess, secret string) string {
	guessRunes := []rune(guess)
	secretRunes := []rune(secret)
	marks := make([]string, len(secretRunes))

	const consumed = rune(-1)

	for i := range marks {
		marks[i] = MarkAbsent
		if i < len(guessRunes) && guessRunes[i] == secretRunes[i] {
			marks[i] = MarkExact
			secretRunes[i] = consumed
			guessRunes[i] = consumed
		}
	}

	for i, g := range guessRunes {
		if g == consumed {
			continue
		}
		for j, s := range secretRunes {
			if s == g {
				marks[i] = MarkMoved
				secretRunes[j] = consumed
				break
			}
		}
	}

	return strings.Join(marks, "")
}

// Reward returns the payout for winning on the given attempt.
func Reward(attempts int) int64 {
	switch attempts {
	case 1:
		return RewardFirst
	case 2:
		return RewardSecond
	default:
		return RewardBase
	}
}

// Normalize lowercases and validates a guess.
func Normalize(word string) (string, error) {
	word = strings.ToLower(strings.TrimSpace(word))
	runes := []rune(word)
	if len(runes) != WordLength {
		return "", ErrWrongLength
	}
	for _, r := range runes {
		if !unicode.IsLetter(r) {
			return "", ErrNotLetters
		}
	}
	return word, nil
}

// GuessRecord is one scored guess in a session.
type GuessRecord struct {
	Word   string
	Result string
}

// Session is one user's in-progress game.
type Session struct {
	UserID    int64
	Secret    string
	Attempts  int
	Guesses   []GuessRecord
	StartedAt time.Time
}

// GuessResult describes the outcome of one guess.
type GuessResult struct {
	Session    *Session
	Result     string
	Won        bool
	Lost       bool
	Reward     int64
	NewBalance int64
}

// Game manages the per-user sessions.
type Game struct {
	mu       sync.Mutex
	sessions map[int64]*Session

	userRepo *repository.UserRepository
	txRepo   *repository.TransactionRepository

	// pick selects the secret word; injectable for tests.
	pick func() string
}

// New creates a Game instance.
func New(userRepo *repository.UserRepository, txRepo *repository.TransactionRepository) *Game {
	return &Game{
		sessions: make(map[int64]*Session),
		userRepo: userRepo,
		txRepo:   txRepo,
		pick:     func() string { return words[rand.Intn(len(words))] },
	}
}

// Start opens a new session for the user.
func (g *Game) Start(userID int64) (*Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.sessions[userID]; ok {
		return nil, ErrGameActive
	}

	s := &Session{
		UserID:    userID,
		Secret:    g.pick(),
		StartedAt: time.Now(),
	}
	g.sessions[userID] = s
	return s, nil
}

// Active returns the user's session, if any.
func (g *Game) Active(userID int64) (*Session, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok := g.sessions[userID]
	return s, ok
}

// Forfeit abandons the user's session and reveals the secret.
func (g *Game) Forfeit(userID int64) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	s, ok := g.sessions[userID]
	if !ok {
		return "", ErrNoGame
	}
	delete(g.sessions, userID)
	return s.Secret, nil
}

// Guess scores one attempt. A winning guess credits the reward and
// closes the session; running out of attempts closes it unpaid.
func (g *Game) Guess(ctx context.Context, userID int64, word string) (*GuessResult, error) {
	word, err := Normalize(word)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	s, ok := g.sessions[userID]
	if !ok {
		g.mu.Unlock()
		return nil, ErrNoGame
	}

	s.Attempts++
	result := Evaluate(word, s.Secret)
	s.Guesses = append(s.Guesses, GuessRecord{Word: word, Result: result})

	won := word == s.Secret
	lost := !won && s.Attempts >= MaxAttempts
	if won || lost {
		delete(g.sessions, userID)
	}
	g.mu.Unlock()

	out := &GuessResult{Session: s, Result: result, Won: won, Lost: lost}
	if won {
		out.Reward = Reward(s.Attempts)
		user, err := g.userRepo.UpdateBalance(ctx, userID, out.Reward)
		if err != nil {
			return nil, fmt.Errorf("failed to credit reward: %w", err)
		}
		out.NewBalance = user.Balance

		desc := fmt.Sprintf("wordless ganado en %d intentos", s.Attempts)
		_, _ = g.txRepo.Create(ctx, userID, out.Reward, model.TxTypeWordless, &desc)
	}
	return out, nil
}
