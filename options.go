package flashsale

import (
	"context"
	"time"

	"github.com/unkn0wn-root/flashsale/codec"
	"github.com/unkn0wn-root/flashsale/lock"
	"github.com/unkn0wn-root/flashsale/provider"
)

// Loader fetches an entity from the backing store on a cache miss or
// during a rebuild. found=false means the entity does not exist; that is
// not an error.
type Loader[K comparable, V any] func(ctx context.Context, id K) (v V, found bool, err error)

// Options tune the cache for one entity namespace.
// Namespace, Store and Codec are required; everything else has defaults.
type Options[K comparable, V any] struct {
	// Required
	Namespace string // entity name, e.g. "shop" -> keys cache:shop:<id>, lock:shop:<id>
	Store     provider.Store
	Codec     codec.Codec[V]

	// Mutex guards logical-expiration rebuilds. nil => in-process lock.Local;
	// use lock.Redis whenever more than one process serves the namespace.
	Mutex lock.Mutex

	Logger Logger // nil => NopLogger
	Hooks  Hooks  // nil => NopHooks

	TTL     time.Duration // entry lifetime (store TTL for pass-through, logical for GetWithLogicalExpire); 0 => 30m
	NullTTL time.Duration // empty-marker lifetime; 0 => 2m
	LockTTL time.Duration // rebuild lease; 0 => 10s

	RebuildWorkers int // rebuild pool size; 0 => 10
	RebuildBacklog int // queued rebuild tasks before new ones are skipped; 0 => 256
}
