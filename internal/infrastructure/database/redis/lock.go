package redis

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/turtacn/Joana-OrderBot/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/Joana-OrderBot/pkg/errors"
)

var (
	ErrLockNotAcquired = errors.New(errors.ErrCodeSessionLocked, "failed to acquire lock")
	ErrLockNotHeld     = errors.New(errors.ErrCodeConflict, "lock not held by this owner")
)

// DistributedLock is a single-owner Redis mutex.
type DistributedLock interface {
	Lock(ctx context.Context) error
	TryLock(ctx context.Context) (bool, error)
	Unlock(ctx context.Context) error
	TTL(ctx context.Context) (time.Duration, error)
}

type LockOption func(*lockConfig)

func WithLockTTL(ttl time.Duration) LockOption {
	return func(c *lockConfig) { c.ttl = ttl }
}

func WithRetryDelay(delay time.Duration) LockOption {
	return func(c *lockConfig) { c.retryDelay = delay }
}

func WithRetryCount(count int) LockOption {
	return func(c *lockConfig) { c.retryCount = count }
}

type lockConfig struct {
	ttl        time.Duration
	retryDelay time.Duration
	retryCount int
}

func defaultLockConfig() lockConfig {
	return lockConfig{
		ttl:        10 * time.Second,
		retryDelay: 50 * time.Millisecond,
		retryCount: 100,
	}
}

// LockFactory creates mutexes sharing one client and key prefix.
type LockFactory struct {
	client *Client
	prefix string
	log    logging.Logger
}

func NewLockFactory(client *Client, prefix string, log logging.Logger) *LockFactory {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &LockFactory{client: client, prefix: prefix, log: log}
}

func (f *LockFactory) NewMutex(name string, opts ...LockOption) DistributedLock {
	cfg := defaultLockConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &redisMutex{
		client: f.client,
		key:    f.prefix + "lock:" + name,
		value:  uuid.New().String(),
		config: cfg,
	}
}

type redisMutex struct {
	client *Client
	key    string
	value  string
	config lockConfig
}

var mutexUnlockScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`)

func (m *redisMutex) Lock(ctx context.Context) error {
	for i := 0; i <= m.config.retryCount; i++ {
		if ctx.Err() != nil {
			return errors.Wrap(ctx.Err(), errors.ErrCodeSessionLocked, "lock wait cancelled")
		}
		ok, err := m.TryLock(ctx)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if i == m.config.retryCount {
			break
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), errors.ErrCodeSessionLocked, "lock wait cancelled")
		case <-time.After(m.config.retryDelay):
		}
	}
	return ErrLockNotAcquired
}

func (m *redisMutex) TryLock(ctx context.Context) (bool, error) {
	ok, err := m.client.SetNX(ctx, m.key, m.value, m.config.ttl).Result()
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeCacheError, "failed to set lock")
	}
	return ok, nil
}

func (m *redisMutex) Unlock(ctx context.Context) error {
	res, err := m.client.Run(ctx, mutexUnlockScript, []string{m.key}, m.value).Int64()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to release lock")
	}
	if res == 0 {
		return ErrLockNotHeld
	}
	return nil
}

func (m *redisMutex) TTL(ctx context.Context) (time.Duration, error) {
	return m.client.PTTL(ctx, m.key).Result()
}

// SessionLocker serialises turns of a session across API replicas. It
// implements session.Locker.
type SessionLocker struct {
	factory *LockFactory
	opts    []LockOption
	logger  logging.Logger
}

func NewSessionLocker(client *Client, prefix string, ttl time.Duration, log logging.Logger) *SessionLocker {
	if log == nil {
		log = logging.NewNopLogger()
	}
	var opts []LockOption
	if ttl > 0 {
		opts = append(opts, WithLockTTL(ttl))
	}
	return &SessionLocker{
		factory: NewLockFactory(client, prefix, log),
		opts:    opts,
		logger:  log,
	}
}

func (l *SessionLocker) Lock(ctx context.Context, sessionID string) (func(), error) {
	m := l.factory.NewMutex("session:"+sessionID, l.opts...)
	if err := m.Lock(ctx); err != nil {
		if errors.IsCode(err, errors.ErrCodeSessionLocked) {
			return nil, errors.Wrap(err, errors.ErrCodeSessionLocked, "session is busy").WithDetail(sessionID)
		}
		return nil, err
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			// The turn context may already be done; release regardless.
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := m.Unlock(ctx); err != nil {
				l.logger.Warn("session lock release failed",
					logging.String("session_id", sessionID), logging.Err(err))
			}
		})
	}, nil
}
