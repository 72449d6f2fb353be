package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/Joana-OrderBot/pkg/errors"
)

func TestMutex_Lock_Unlock(t *testing.T) {
	mr, client := newMiniredisClient(t)
	factory := NewLockFactory(client, "t:", nil)
	ctx := context.Background()

	lock := factory.NewMutex("m1", WithLockTTL(time.Second))
	require.NoError(t, lock.Lock(ctx))
	assert.True(t, mr.Exists("t:lock:m1"))

	ttl, err := lock.TTL(ctx)
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, lock.Unlock(ctx))
	assert.False(t, mr.Exists("t:lock:m1"))
	assert.Equal(t, ErrLockNotHeld, lock.Unlock(ctx))
}

func TestMutex_Lock_Contention(t *testing.T) {
	_, client := newMiniredisClient(t)
	factory := NewLockFactory(client, "t:", nil)
	ctx := context.Background()

	lock1 := factory.NewMutex("m1", WithRetryCount(1), WithRetryDelay(5*time.Millisecond))
	lock2 := factory.NewMutex("m1", WithRetryCount(1), WithRetryDelay(5*time.Millisecond))

	require.NoError(t, lock1.Lock(ctx))
	assert.Equal(t, ErrLockNotAcquired, lock2.Lock(ctx))
	assert.Equal(t, ErrLockNotHeld, lock2.Unlock(ctx))

	require.NoError(t, lock1.Unlock(ctx))
	assert.NoError(t, lock2.Lock(ctx))
}

func TestMutex_ExpiresAfterTTL(t *testing.T) {
	mr, client := newMiniredisClient(t)
	factory := NewLockFactory(client, "t:", nil)
	ctx := context.Background()

	lock1 := factory.NewMutex("m1", WithLockTTL(time.Second))
	require.NoError(t, lock1.Lock(ctx))
	mr.FastForward(2 * time.Second)

	ok, err := factory.NewMutex("m1").TryLock(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSessionLocker_Serialises(t *testing.T) {
	_, client := newMiniredisClient(t)
	locker := NewSessionLocker(client, "t:", time.Second, nil)
	ctx := context.Background()

	var (
		mu      sync.Mutex
		inside  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(ctx, "s1")
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()
			time.Sleep(5 * time.Millisecond)
			mu.Lock()
			inside--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxSeen)
}

func TestSessionLocker_BusyWhenContextDone(t *testing.T) {
	_, client := newMiniredisClient(t)
	locker := NewSessionLocker(client, "t:", 5*time.Second, nil)

	unlock, err := locker.Lock(context.Background(), "s1")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, "s1")
	assert.True(t, errors.IsCode(err, errors.ErrCodeSessionLocked))
}
