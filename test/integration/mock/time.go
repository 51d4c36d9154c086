//go:build integration

package mock

import (
	"sync"
	"time"
)

// Time is a movable clock. Until Set is called it follows the wall clock.
type Time struct {
	mu        sync.Mutex
	current   time.Time
	updatedAt time.Time
}

// NewTime creates a clock at the current time.
func NewTime() *Time {
	now := time.Now()
	return &Time{current: now, updatedAt: now}
}

// Set moves the clock to t. It keeps ticking from there.
func (t *Time) Set(current time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = current
	t.updatedAt = time.Now()
}

// Reset returns the clock to the wall clock.
func (t *Time) Reset() {
	t.Set(time.Now())
}

// Now returns the mocked current time.
func (t *Time) Now() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current.Add(time.Since(t.updatedAt))
}
