package locker

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const syncLockKey = "index-sync:lock"

func newTestClient(t *testing.T) *redis.Client {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func TestRedsync_TryLock(t *testing.T) {
	client := newTestClient(t)
	first := NewRedsync(client, zap.NewNop())
	second := NewRedsync(client, zap.NewNop())
	ctx := context.Background()

	ok, err := first.TryLock(ctx, syncLockKey, 5*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = second.TryLock(ctx, syncLockKey, 5*time.Second)
	assert.False(t, ok, "the lock is held by the first instance")
}

func TestRedsync_UnlockAllowsRelock(t *testing.T) {
	client := newTestClient(t)
	l := NewRedsync(client, zap.NewNop())
	ctx := context.Background()

	ok, err := l.TryLock(ctx, syncLockKey, 5*time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, l.Unlock(ctx, syncLockKey))

	ok, err = l.TryLock(ctx, syncLockKey, 5*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedsync_UnlockNotHeld(t *testing.T) {
	client := newTestClient(t)
	owner := NewRedsync(client, zap.NewNop())
	other := NewRedsync(client, zap.NewNop())
	ctx := context.Background()

	ok, err := owner.TryLock(ctx, syncLockKey, 5*time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	assert.NoError(t, other.Unlock(ctx, syncLockKey))
	assert.NoError(t, owner.Unlock(ctx, syncLockKey))
	assert.NoError(t, owner.Unlock(ctx, "never-taken"))
}

func TestRedsync_SingleWinner(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	const instances = 5
	won := make(chan bool, instances)
	for range instances {
		go func() {
			ok, _ := NewRedsync(client, zap.NewNop()).TryLock(ctx, syncLockKey, 2*time.Second)
			won <- ok
		}()
	}

	winners := 0
	for range instances {
		if <-won {
			winners++
		}
	}

	assert.Equal(t, 1, winners)
}

func TestRedsync_CancelledContext(t *testing.T) {
	l := NewRedsync(newTestClient(t), zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ok, err := l.TryLock(ctx, syncLockKey, 5*time.Second)

	assert.Error(t, err)
	assert.False(t, ok)
}
