package session

import (
	"context"
	"crypto/sha256"
	"sync"
	"time"

	"github.com/turtacn/Joana-OrderBot/pkg/errors"
)

type memEntry struct {
	state     *State
	expiresAt time.Time
}

// MemoryStore keeps sessions in process memory with a sliding TTL.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memEntry
	ttl      time.Duration
	now      Clock
}

// NewMemoryStore creates a store; ttl <= 0 disables expiry.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{sessions: make(map[string]memEntry), ttl: ttl, now: time.Now}
}

// WithClock replaces the time source.
func (m *MemoryStore) WithClock(c Clock) *MemoryStore {
	m.now = c
	return m
}

func (m *MemoryStore) Get(_ context.Context, sessionID string) (*State, error) {
	m.mu.RLock()
	e, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if !ok || m.expired(e) {
		if ok {
			m.mu.Lock()
			delete(m.sessions, sessionID)
			m.mu.Unlock()
		}
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session not found").WithDetail(sessionID)
	}
	return e.state.Clone(), nil
}

func (m *MemoryStore) Set(_ context.Context, st *State) error {
	if st == nil || st.SessionID == "" {
		return errors.InvalidParam("session id is required")
	}
	e := memEntry{state: st.Clone()}
	if m.ttl > 0 {
		e.expiresAt = m.now().Add(m.ttl)
	}
	m.mu.Lock()
	m.sessions[st.SessionID] = e
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Reset(_ context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()
	return nil
}

// Len returns the number of live sessions.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, e := range m.sessions {
		if !m.expired(e) {
			n++
		}
	}
	return n
}

// Sweep drops expired sessions and returns how many were removed.
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.sessions {
		if m.expired(e) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

func (m *MemoryStore) expired(e memEntry) bool {
	return !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt)
}

// MemoryDebouncer is the in-process Debouncer.
type MemoryDebouncer struct {
	mu     sync.Mutex
	window time.Duration
	last   map[string]debounceMark
	swept  time.Time
	now    Clock
}

type debounceMark struct {
	sum [sha256.Size]byte
	at  time.Time
}

// NewMemoryDebouncer creates a debouncer; window <= 0 never reports duplicates.
func NewMemoryDebouncer(window time.Duration) *MemoryDebouncer {
	return &MemoryDebouncer{window: window, last: make(map[string]debounceMark), now: time.Now}
}

// WithClock replaces the time source.
func (d *MemoryDebouncer) WithClock(c Clock) *MemoryDebouncer {
	d.now = c
	return d
}

func (d *MemoryDebouncer) Seen(_ context.Context, sessionID, text string) (bool, error) {
	if d.window <= 0 {
		return false, nil
	}
	sum := sha256.Sum256([]byte(text))
	now := d.now()

	d.mu.Lock()
	defer d.mu.Unlock()
	d.evict(now)
	prev, ok := d.last[sessionID]
	d.last[sessionID] = debounceMark{sum: sum, at: now}
	return ok && prev.sum == sum && now.Sub(prev.at) < d.window, nil
}

// evict drops marks older than the window, at most once per window.
func (d *MemoryDebouncer) evict(now time.Time) {
	if now.Sub(d.swept) < d.window {
		return
	}
	d.swept = now
	for id, m := range d.last {
		if now.Sub(m.at) >= d.window {
			delete(d.last, id)
		}
	}
}

// MemoryLocker is a keyed mutex.
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[string]*keyedMutex
}

type keyedMutex struct {
	ch   chan struct{}
	refs int
}

// NewMemoryLocker creates an empty keyed mutex.
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{locks: make(map[string]*keyedMutex)}
}

// Lock blocks until sessionID is free or ctx is done.
func (l *MemoryLocker) Lock(ctx context.Context, sessionID string) (func(), error) {
	l.mu.Lock()
	km, ok := l.locks[sessionID]
	if !ok {
		km = &keyedMutex{ch: make(chan struct{}, 1)}
		l.locks[sessionID] = km
	}
	km.refs++
	l.mu.Unlock()

	select {
	case km.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(sessionID, km)
		return nil, errors.Wrap(ctx.Err(), errors.ErrCodeSessionLocked, "session is busy")
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-km.ch
			l.release(sessionID, km)
		})
	}, nil
}

func (l *MemoryLocker) release(sessionID string, km *keyedMutex) {
	l.mu.Lock()
	km.refs--
	if km.refs == 0 {
		delete(l.locks, sessionID)
	}
	l.mu.Unlock()
}
