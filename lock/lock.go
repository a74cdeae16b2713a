// Package lock provides the lease-based try-lock that serializes cache
// rebuilds. It is a coalescing primitive, not a correctness-critical mutex:
// Unlock deletes the key unconditionally and no holder identity is
// recorded, so a holder that outlives its lease can delete a lock that has
// since been re-acquired by someone else. The worst case for rebuild
// coalescing is one extra concurrent rebuild, which the design accepts.
// Do not rely on this lock for exactly-once side effects.
package lock

import (
	"context"
	"time"
)

// Mutex is a non-blocking lease lock keyed by string.
type Mutex interface {
	// TryLock attempts one atomic set-if-absent of key with the given
	// lease. It returns (true, nil) iff this call created the key. There
	// is no retry and no wait; a losing caller decides what to do next
	// (the cache serves the stale value).
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Unlock deletes the key unconditionally (see the package note).
	Unlock(ctx context.Context, key string) error
}
