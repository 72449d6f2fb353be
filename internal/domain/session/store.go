package session

import (
	"context"
	"time"
)

// Store persists conversation state by session id. Get returns an error
// carrying errors.ErrCodeSessionNotFound when nothing is stored.
type Store interface {
	Get(ctx context.Context, sessionID string) (*State, error)
	Set(ctx context.Context, st *State) error
	Reset(ctx context.Context, sessionID string) error
}

// Debouncer rejects an identical message from the same session arriving
// inside a short window.
type Debouncer interface {
	// Seen records text and reports whether the same text was already
	// recorded for sessionID within the window.
	Seen(ctx context.Context, sessionID, text string) (bool, error)
}

// Locker serialises turns of one session across goroutines or processes.
type Locker interface {
	Lock(ctx context.Context, sessionID string) (unlock func(), err error)
}

// Clock is swapped in tests.
type Clock func() time.Time
