package locker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Redsync implements Locker on Redis with the Redlock algorithm.
type Redsync struct {
	rs     *redsync.Redsync
	logger *zap.Logger

	mu   sync.Mutex
	held map[string]*redsync.Mutex
}

// NewRedsync creates a Locker backed by client.
func NewRedsync(client *redis.Client, logger *zap.Logger) *Redsync {
	return &Redsync{
		rs:     redsync.New(goredis.NewPool(client)),
		logger: logger,
		held:   make(map[string]*redsync.Mutex),
	}
}

// TryLock makes a single attempt to take the lock.
func (l *Redsync) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	mutex := l.rs.NewMutex(key,
		redsync.WithExpiry(ttl),
		redsync.WithTries(1),
	)

	if err := mutex.LockContext(ctx); err != nil {
		if isTaken(err) {
			l.logger.Debug("lock held elsewhere", zap.String("key", key))
			return false, nil
		}

		return false, fmt.Errorf("taking lock %s: %w", key, err)
	}

	l.mu.Lock()
	l.held[key] = mutex
	l.mu.Unlock()

	l.logger.Debug("lock taken", zap.String("key", key), zap.Duration("ttl", ttl))

	return true, nil
}

// Unlock releases key if this instance holds it.
func (l *Redsync) Unlock(ctx context.Context, key string) error {
	l.mu.Lock()
	mutex, ok := l.held[key]
	delete(l.held, key)
	l.mu.Unlock()

	if !ok {
		return nil
	}

	released, err := mutex.UnlockContext(ctx)
	if err != nil {
		return fmt.Errorf("releasing lock %s: %w", key, err)
	}

	l.logger.Debug("lock released", zap.String("key", key), zap.Bool("owned", released))

	return nil
}

// isTaken reports whether err means another holder has the lock.
func isTaken(err error) bool {
	var taken *redsync.ErrTaken
	if errors.Is(err, redsync.ErrFailed) || errors.As(err, &taken) {
		return true
	}

	return strings.Contains(err.Error(), "lock already taken")
}
