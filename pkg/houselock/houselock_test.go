package houselock

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLocker_SerializesSameHouse(t *testing.T) {
	l := NewLocal()
	ctx := context.Background()

	unlock, err := l.Lock(ctx, 1)
	require.NoError(t, err)

	// Другой дом не блокируется
	unlockOther, err := l.Lock(ctx, 2)
	require.NoError(t, err)
	unlockOther()

	waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err = l.Lock(waitCtx, 1)
	assert.ErrorIs(t, err, ErrNotAcquired)

	unlock()
	unlock()

	unlock, err = l.Lock(ctx, 1)
	require.NoError(t, err)
	unlock()
}

func TestLocalLocker_WaiterAcquiresAfterRelease(t *testing.T) {
	l := NewLocal()
	ctx := context.Background()

	unlock, err := l.Lock(ctx, 1)
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		u, err := l.Lock(ctx, 1)
		if err == nil {
			u()
		}
		close(acquired)
	}()

	unlock()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("waiter did not acquire the lock")
	}
}

type recordingLogger struct {
	mu     sync.Mutex
	errors []string
}

func (l *recordingLogger) Warn(format string, v ...interface{}) {}

func (l *recordingLogger) Error(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, fmt.Sprintf(format, v...))
}

func (l *recordingLogger) Errors() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.errors...)
}

func newRedisLockerTTL(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, *RedisLocker, *recordingLogger) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	log := &recordingLogger{}
	return mr, NewRedis(client, "allotment:", ttl, 5*time.Millisecond, log), log
}

func newRedisLocker(t *testing.T) (*miniredis.Miniredis, *RedisLocker) {
	t.Helper()

	mr, l, _ := newRedisLockerTTL(t, time.Second)
	return mr, l
}

func TestRedisLocker_LockAndRelease(t *testing.T) {
	mr, l := newRedisLocker(t)
	ctx := context.Background()

	unlock, err := l.Lock(ctx, 42)
	require.NoError(t, err)
	assert.True(t, mr.Exists("allotment:house:42"))

	waitCtx, cancel := context.WithTimeout(ctx, 30*time.Millisecond)
	defer cancel()
	_, err = l.Lock(waitCtx, 42)
	assert.ErrorIs(t, err, ErrNotAcquired)

	unlock()
	assert.False(t, mr.Exists("allotment:house:42"))
}

func TestRedisLocker_ReleaseKeepsForeignToken(t *testing.T) {
	mr, l := newRedisLocker(t)
	ctx := context.Background()

	unlock, err := l.Lock(ctx, 7)
	require.NoError(t, err)

	// Ключ истёк и был взят другим владельцем
	require.NoError(t, mr.Set("allotment:house:7", "someone-else"))

	unlock()
	got, err := mr.Get("allotment:house:7")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}

func TestRedisLocker_BackendDown(t *testing.T) {
	mr, l := newRedisLocker(t)
	mr.Close()

	_, err := l.Lock(context.Background(), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLockBackend)
	assert.NotErrorIs(t, err, ErrNotAcquired)
}

func TestRedisLocker_ReleaseFailureIsLogged(t *testing.T) {
	mr, l, log := newRedisLockerTTL(t, time.Second)

	unlock, err := l.Lock(context.Background(), 3)
	require.NoError(t, err)

	mr.Close()
	unlock()

	errs := log.Errors()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "failed to release allotment:house:3")
}

func TestRedisLocker_RefreshesTTLWhileHeld(t *testing.T) {
	mr, l, _ := newRedisLockerTTL(t, 300*time.Millisecond)

	unlock, err := l.Lock(context.Background(), 5)
	require.NoError(t, err)

	// Без продления ключ истёк бы после второго сдвига
	mr.FastForward(200 * time.Millisecond)
	time.Sleep(200 * time.Millisecond)
	mr.FastForward(200 * time.Millisecond)

	assert.True(t, mr.Exists("allotment:house:5"))

	unlock()
	assert.False(t, mr.Exists("allotment:house:5"))
}
