// Package provider defines the storage abstraction behind the cache.
//
// Implementations must be safe for concurrent use and byte-for-byte
// transparent: Get returns exactly the []byte previously passed to Set for
// the same key. No prepended metadata, no re-encoding, no mutation.
//
// The keyspaces "cache:", "lock:", "icr:" and "seckill:" are owned by this
// module; foreign writes under them may be treated as corruption by strict
// envelope validation and deleted.
package provider

import (
	"context"
	"time"
)

// Store is a minimal byte store with per-key TTLs.
type Store interface {
	// Get returns (value, true, nil) on hit and (nil, false, nil) on miss.
	// IO/remote errors come back as (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value with the given TTL. ttl <= 0 means no expiry.
	// ok=false reports that the store rejected the write under pressure.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) (ok bool, err error)

	// Del removes a key (best-effort).
	Del(ctx context.Context, key string) error

	// Close releases resources.
	Close(ctx context.Context) error
}
