// Package locker provides locks shared by every instance of the service.
package locker

import (
	"context"
	"time"
)

// Locker hands out named, expiring locks. Implementations must be safe for
// concurrent use.
type Locker interface {
	// TryLock takes the lock for key without waiting. It reports false when
	// another holder has it. The lock expires after ttl unless released.
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Unlock releases a lock taken by this instance. Releasing a lock held
	// elsewhere, or not held at all, is a no-op.
	Unlock(ctx context.Context, key string) error
}
