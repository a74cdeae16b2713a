package flashsale

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/unkn0wn-root/flashsale/codec"
	"github.com/unkn0wn-root/flashsale/internal/wire"
	"github.com/unkn0wn-root/flashsale/lock"
	"github.com/unkn0wn-root/flashsale/provider"
)

// Cache is the read-through/write-around cache wrapper for one entity
// namespace. Two query strategies are offered:
//
//   - GetWithPassThrough defends against penetration by caching the
//     absence of an entity (an empty marker with a short TTL).
//   - GetWithLogicalExpire defends against breakdown: entries carry an
//     embedded expiry, expired reads serve the stale value immediately and
//     at most one rebuild per key runs in the background under a lease.
type Cache[K comparable, V any] interface {
	GetWithPassThrough(ctx context.Context, id K, load Loader[K, V]) (V, error)
	GetWithLogicalExpire(ctx context.Context, id K, load Loader[K, V]) (V, error)

	// Set writes an entry with a store-level TTL (pass-through namespace).
	Set(ctx context.Context, id K, v V, ttl time.Duration) error
	// SetWithLogicalExpire pre-warms an entry with an embedded expiry and
	// no store-level TTL. GetWithLogicalExpire only serves pre-warmed keys.
	SetWithLogicalExpire(ctx context.Context, id K, v V, ttl time.Duration) error

	Invalidate(ctx context.Context, id K) error

	// Close stops the rebuild pool, waits for in-flight rebuilds and
	// closes the store. Callers must not issue reads after Close.
	Close(ctx context.Context) error
}

func New[K comparable, V any](opts Options[K, V]) (Cache[K, V], error) {
	return newClient[K, V](opts)
}

type client[K comparable, V any] struct {
	ns    string
	store provider.Store
	codec codec.Codec[V]
	mutex lock.Mutex
	log   Logger
	hooks Hooks

	ttl     time.Duration
	nullTTL time.Duration
	lockTTL time.Duration

	rebuilds chan func()
	wg       sync.WaitGroup

	closeMu   sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

func newClient[K comparable, V any](opts Options[K, V]) (*client[K, V], error) {
	if opts.Namespace == "" {
		return nil, fmt.Errorf("flashsale: namespace is required")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("flashsale: store is required")
	}
	if opts.Codec == nil {
		return nil, fmt.Errorf("flashsale: codec is required")
	}

	c := &client[K, V]{
		ns:    opts.Namespace,
		store: opts.Store,
		codec: opts.Codec,
	}

	// defaults
	c.mutex = opts.Mutex
	if c.mutex == nil {
		c.mutex = lock.NewLocal()
	}
	c.log = coalesce[Logger](opts.Logger, NopLogger{})
	c.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	c.ttl = coalesce[time.Duration](opts.TTL, 30*time.Minute)
	c.nullTTL = coalesce[time.Duration](opts.NullTTL, 2*time.Minute)
	c.lockTTL = coalesce[time.Duration](opts.LockTTL, 10*time.Second)

	workers := opts.RebuildWorkers
	if workers <= 0 {
		workers = 10
	}
	backlog := opts.RebuildBacklog
	if backlog <= 0 {
		backlog = 256
	}

	c.rebuilds = make(chan func(), backlog)
	c.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer c.wg.Done()
			for task := range c.rebuilds {
				task()
			}
		}()
	}
	return c, nil
}

func (c *client[K, V]) Close(ctx context.Context) error {
	c.closeOnce.Do(func() {
		c.closeMu.Lock()
		c.closed = true
		c.closeMu.Unlock()
		close(c.rebuilds)
		c.wg.Wait()
	})
	return c.store.Close(ctx)
}

// GetWithPassThrough reads id through the cache with null-caching.
// A cached empty marker answers "not found" without touching the loader;
// a loader miss writes the marker with a short TTL so repeated lookups of
// absent ids stop reaching the backing store.
func (c *client[K, V]) GetWithPassThrough(ctx context.Context, id K, load Loader[K, V]) (V, error) {
	var zero V
	key := c.cacheKey(id)

	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		return zero, err
	}
	if ok {
		if len(raw) == 0 {
			// cached "known absent"
			return zero, ErrNotFound
		}
		v, derr := c.codec.Decode(raw)
		if derr == nil {
			return v, nil
		}
		// malformed payload is a miss, never a caller-visible decode error
		c.hooks.SelfHeal(c.ns, key, "value_decode")
		_ = c.store.Del(ctx, key)
	}

	v, found, err := load(ctx, id)
	if err != nil {
		return zero, err
	}
	if !found {
		if _, serr := c.store.Set(ctx, key, nil, c.nullTTL); serr != nil {
			c.log.Warn("null-marker write failed", Fields{"key": key, "err": serr})
		}
		c.hooks.NullCached(c.ns, key)
		return zero, ErrNotFound
	}
	if serr := c.Set(ctx, id, v, c.ttl); serr != nil {
		// the value is in hand; a failed cache write only costs the next read
		c.log.Warn("cache write failed", Fields{"key": key, "err": serr})
	}
	return v, nil
}

// GetWithLogicalExpire reads a pre-warmed id. Misses return ErrNotFound
// without consulting the loader. Expired entries are served stale while a
// single background rebuild per key refreshes them under the lease.
func (c *client[K, V]) GetWithLogicalExpire(ctx context.Context, id K, load Loader[K, V]) (V, error) {
	var zero V
	key := c.cacheKey(id)

	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		return zero, err
	}
	if !ok {
		return zero, ErrNotFound
	}
	v, expireAt, ok := c.decodeLogical(ctx, key, raw)
	if !ok {
		return zero, ErrNotFound
	}
	if time.Now().Before(expireAt) {
		return v, nil
	}

	// Expired. The caller gets the stale value either way; the only
	// question is whether this reader schedules the rebuild.
	lockKey := c.lockKey(id)
	won, lerr := c.mutex.TryLock(ctx, lockKey, c.lockTTL)
	if lerr != nil {
		c.log.Warn("rebuild lease acquire failed", Fields{"key": key, "err": lerr})
		c.hooks.StaleServed(c.ns, key)
		return v, nil
	}
	if !won {
		// another rebuild is in flight somewhere
		c.hooks.LockContended(c.ns, key)
		c.hooks.StaleServed(c.ns, key)
		return v, nil
	}

	// Double check under the lease: the entry may have been rebuilt while
	// the lock was being acquired.
	if fresh, refreshed := c.recheck(ctx, key); refreshed {
		if uerr := c.mutex.Unlock(ctx, lockKey); uerr != nil {
			c.log.Warn("rebuild lease release failed", Fields{"key": key, "err": uerr})
		}
		c.hooks.RebuildSkipped(c.ns, key, "refreshed")
		return fresh, nil
	}

	if !c.submitRebuild(ctx, key, lockKey, id, load) {
		if uerr := c.mutex.Unlock(ctx, lockKey); uerr != nil {
			c.log.Warn("rebuild lease release failed", Fields{"key": key, "err": uerr})
		}
		c.hooks.RebuildSkipped(c.ns, key, "pool_saturated")
	}
	c.hooks.StaleServed(c.ns, key)
	return v, nil
}

func (c *client[K, V]) Set(ctx context.Context, id K, v V, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.ttl
	}
	payload, err := c.codec.Encode(v)
	if err != nil {
		return err
	}
	key := c.cacheKey(id)
	ok, err := c.store.Set(ctx, key, payload, ttl)
	if err != nil {
		return err
	}
	if !ok {
		c.log.Debug("store rejected write (pressure)", Fields{"key": key})
	}
	return nil
}

func (c *client[K, V]) SetWithLogicalExpire(ctx context.Context, id K, v V, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.ttl
	}
	payload, err := c.codec.Encode(v)
	if err != nil {
		return err
	}
	entry, err := wire.EncodeLogical(payload, time.Now().Add(ttl))
	if err != nil {
		return err
	}
	key := c.cacheKey(id)
	// no store TTL: expiry is judged against the embedded timestamp only
	ok, err := c.store.Set(ctx, key, entry, 0)
	if err != nil {
		return err
	}
	if !ok {
		c.log.Debug("store rejected write (pressure)", Fields{"key": key})
	}
	return nil
}

func (c *client[K, V]) Invalidate(ctx context.Context, id K) error {
	return c.store.Del(ctx, c.cacheKey(id))
}

// decodeLogical unwraps a logical envelope, self-healing anything that does
// not parse.
func (c *client[K, V]) decodeLogical(ctx context.Context, key string, raw []byte) (V, time.Time, bool) {
	var zero V
	payload, expireAt, err := wire.DecodeLogical(raw)
	if err != nil {
		c.hooks.SelfHeal(c.ns, key, "corrupt")
		_ = c.store.Del(ctx, key)
		return zero, time.Time{}, false
	}
	v, err := c.codec.Decode(payload)
	if err != nil {
		c.hooks.SelfHeal(c.ns, key, "value_decode")
		_ = c.store.Del(ctx, key)
		return zero, time.Time{}, false
	}
	return v, expireAt, true
}

// recheck re-reads key after the lease was won and reports whether a fresh
// entry already exists.
func (c *client[K, V]) recheck(ctx context.Context, key string) (V, bool) {
	var zero V
	raw, ok, err := c.store.Get(ctx, key)
	if err != nil || !ok {
		return zero, false
	}
	v, expireAt, ok := c.decodeLogical(ctx, key, raw)
	if !ok || !time.Now().Before(expireAt) {
		return zero, false
	}
	return v, true
}

// submitRebuild hands the rebuild to the pool. The task owns the lease and
// releases it no matter how the loader fares. Reports false when the pool
// backlog is full or the cache is closing; the caller then releases the
// lease itself.
func (c *client[K, V]) submitRebuild(ctx context.Context, key, lockKey string, id K, load Loader[K, V]) bool {
	// detach from the request: the rebuild must not die with the caller
	rctx := context.WithoutCancel(ctx)

	task := func() {
		defer func() {
			if err := c.mutex.Unlock(rctx, lockKey); err != nil {
				c.log.Warn("rebuild lease release failed", Fields{"key": key, "err": err})
			}
		}()

		v, found, err := load(rctx, id)
		if err != nil {
			rerr := &RebuildError{Key: key, Err: err}
			c.hooks.RebuildFailed(c.ns, key, err)
			c.log.Error("cache rebuild failed; stale entry stays", Fields{"key": key, "err": rerr})
			return
		}
		if !found {
			// the entity is gone from the backing store; drop the entry so
			// further reads become honest misses
			_ = c.store.Del(rctx, key)
			c.hooks.RebuildSkipped(c.ns, key, "loader_miss")
			return
		}
		payload, err := c.codec.Encode(v)
		if err != nil {
			c.hooks.RebuildFailed(c.ns, key, err)
			c.log.Error("cache rebuild encode failed", Fields{"key": key, "err": err})
			return
		}
		entry, err := wire.EncodeLogical(payload, time.Now().Add(c.ttl))
		if err != nil {
			c.hooks.RebuildFailed(c.ns, key, err)
			c.log.Error("cache rebuild encode failed", Fields{"key": key, "err": err})
			return
		}
		if _, err := c.store.Set(rctx, key, entry, 0); err != nil {
			c.hooks.RebuildFailed(c.ns, key, err)
			c.log.Error("cache rebuild write failed", Fields{"key": key, "err": err})
		}
	}

	c.closeMu.RLock()
	defer c.closeMu.RUnlock()
	if c.closed {
		return false
	}
	select {
	case c.rebuilds <- task:
		c.hooks.RebuildScheduled(c.ns, key)
		return true
	default:
		return false
	}
}

func (c *client[K, V]) cacheKey(id K) string {
	return "cache:" + c.ns + ":" + fmt.Sprint(id)
}

func (c *client[K, V]) lockKey(id K) string {
	return "lock:" + c.ns + ":" + fmt.Sprint(id)
}
