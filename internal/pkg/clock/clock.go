// Package clock provides time operations that can be injected into
// game logic and replaced in tests.
package clock

import "time"

// Clock abstracts wall-clock reads and timer creation.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// After returns a channel that fires once d has elapsed.
	After(d time.Duration) <-chan time.Time
}

// Real implements Clock using the system clock.
type Real struct{}

// New creates a new Real clock.
func New() *Real {
	return &Real{}
}

// Now returns the current system time.
func (c *Real) Now() time.Time {
	return time.Now()
}

// After wraps time.After.
func (c *Real) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}
