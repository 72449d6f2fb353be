package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/Joana-OrderBot/internal/domain/session"
	"github.com/turtacn/Joana-OrderBot/pkg/errors"
)

// SessionStore keeps conversation state as JSON under <prefix>session:<id>,
// expiring after ttl of inactivity. It implements session.Store.
type SessionStore struct {
	client *Client
	prefix string
	ttl    time.Duration
}

func NewSessionStore(client *Client, prefix string, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *SessionStore) key(sessionID string) string {
	return s.prefix + "session:" + sessionID
}

func (s *SessionStore) Get(ctx context.Context, sessionID string) (*session.State, error) {
	data, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session not found").WithDetail(sessionID)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCacheError, "failed to read session")
	}
	var st session.State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "corrupt session payload").WithDetail(sessionID)
	}
	return &st, nil
}

func (s *SessionStore) Set(ctx context.Context, st *session.State) error {
	if st == nil || st.SessionID == "" {
		return errors.InvalidParam("session id is required")
	}
	data, err := json.Marshal(st)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode session")
	}
	if err := s.client.Set(ctx, s.key(st.SessionID), data, s.ttl).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to write session")
	}
	return nil
}

func (s *SessionStore) Reset(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to delete session")
	}
	return nil
}

// Debouncer drops an identical message repeated within window. The last
// message digest per session lives in a key that expires with the window.
// It implements session.Debouncer.
type Debouncer struct {
	client *Client
	prefix string
	window time.Duration
}

func NewDebouncer(client *Client, prefix string, window time.Duration) *Debouncer {
	return &Debouncer{client: client, prefix: prefix, window: window}
}

var debounceScript = redis.NewScript(`
	local prev = redis.call("GET", KEYS[1])
	redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[2])
	if prev == ARGV[1] then
		return 1
	end
	return 0
`)

func (d *Debouncer) Seen(ctx context.Context, sessionID, text string) (bool, error) {
	if d.window <= 0 {
		return false, nil
	}
	sum := sha256.Sum256([]byte(text))
	res, err := d.client.Run(ctx, debounceScript,
		[]string{d.prefix + "debounce:" + sessionID},
		hex.EncodeToString(sum[:]), d.window.Milliseconds(),
	).Int64()
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeCacheError, "debounce check failed")
	}
	return res == 1, nil
}
