package wordless

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name   string
		guess  string
		secret string
		want   string
	}{
		{"all exact", "plato", "plato", "🟩🟩🟩🟩🟩"},
		{"all absent", "plato", "surge", "⬛⬛⬛⬛⬛"},
		{"all moved", "tarde", "edtar", "🟨🟨🟨🟨🟨"},
		{"mixed", "perro", "plato", "🟩⬛⬛⬛🟩"},
		// "l" appears once in the secret; the second "l" in the guess
		// must not be marked after the first consumes it.
		{"duplicate guess letter", "lilas", "plato", "🟨⬛⬛🟨⬛"},
		// The exact final "o" consumes the secret's only "o", so the
		// earlier ones stay absent.
		{"exact consumes before moved", "otono", "plato", "⬛🟨⬛⬛🟩"},
		{"repeated secret letter", "perro", "error", "⬛🟨🟩🟨🟨"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.guess, tt.secret))
		})
	}
}

func TestEvaluateGreensNeverExceedSecret(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		letters := rapid.SliceOfN(rapid.RuneFrom([]rune("abcde")), WordLength, WordLength)
		guess := string(rapid.SliceOfN(rapid.RuneFrom([]rune("abcde")), WordLength, WordLength).Draw(t, "guess"))
		secret := string(letters.Draw(t, "secret"))

		result := Evaluate(guess, secret)

		// Per letter, exact+moved marks never exceed the letter's
		// count in the secret.
		for _, letter := range "abcde" {
			inSecret := strings.Count(secret, string(letter))
			marked := 0
			for i, g := range []rune(guess) {
				if g != letter {
					continue
				}
				mark := []rune(result)[i]
				if string(mark) != "⬛" {
					marked++
				}
			}
			if marked > inSecret {
				t.Fatalf("letter %q marked %d times but secret %q holds %d", letter, marked, secret, inSecret)
			}
		}

		// A guess equal to the secret is all green.
		if guess == secret && result != strings.Repeat(MarkExact, WordLength) {
			t.Fatalf("exact guess not all green: %s", result)
		}
	})
}

func TestReward(t *testing.T) {
	assert.Equal(t, RewardFirst, Reward(1))
	assert.Equal(t, RewardSecond, Reward(2))
	assert.Equal(t, RewardBase, Reward(3))
	assert.Equal(t, RewardBase, Reward(MaxAttempts))
}

func TestNormalize(t *testing.T) {
	word, err := Normalize("  PlAtO ")
	require.NoError(t, err)
	assert.Equal(t, "plato", word)

	word, err = Normalize("SUEÑO")
	require.NoError(t, err)
	assert.Equal(t, "sueño", word)

	_, err = Normalize("gato")
	assert.ErrorIs(t, err, ErrWrongLength)

	_, err = Normalize("gat0s")
	assert.ErrorIs(t, err, ErrNotLetters)
}

func TestWordPoolIsValid(t *testing.T) {
	seen := make(map[string]bool, len(words))
	for _, w := range words {
		normalized, err := Normalize(w)
		require.NoError(t, err, "word %q", w)
		assert.Equal(t, w, normalized, "word %q not normalized", w)
		assert.False(t, seen[w], "duplicate word %q", w)
		seen[w] = true
	}
}

func newTestGame(secret string) *Game {
	g := New(nil, nil)
	g.pick = func() string { return secret }
	return g
}

func TestGameStartAndForfeit(t *testing.T) {
	g := newTestGame("plato")

	s, err := g.Start(42)
	require.NoError(t, err)
	assert.Equal(t, "plato", s.Secret)

	_, err = g.Start(42)
	assert.ErrorIs(t, err, ErrGameActive)

	// Another user can play concurrently.
	_, err = g.Start(43)
	require.NoError(t, err)

	secret, err := g.Forfeit(42)
	require.NoError(t, err)
	assert.Equal(t, "plato", secret)

	_, err = g.Forfeit(42)
	assert.ErrorIs(t, err, ErrNoGame)
}

func TestGameGuessValidation(t *testing.T) {
	g := newTestGame("plato")
	ctx := context.Background()

	_, err := g.Guess(ctx, 42, "plato")
	assert.ErrorIs(t, err, ErrNoGame)

	_, err = g.Start(42)
	require.NoError(t, err)

	_, err = g.Guess(ctx, 42, "gato")
	assert.ErrorIs(t, err, ErrWrongLength)

	// Invalid guesses do not consume attempts.
	s, ok := g.Active(42)
	require.True(t, ok)
	assert.Equal(t, 0, s.Attempts)
}

func TestGameLossClosesSessionUnpaid(t *testing.T) {
	g := newTestGame("plato")
	ctx := context.Background()

	_, err := g.Start(42)
	require.NoError(t, err)

	for i := 1; i <= MaxAttempts; i++ {
		res, err := g.Guess(ctx, 42, "surge")
		require.NoError(t, err)
		assert.False(t, res.Won)
		assert.Equal(t, i >= MaxAttempts, res.Lost)
		assert.Zero(t, res.Reward)
	}

	_, ok := g.Active(42)
	assert.False(t, ok)
}
