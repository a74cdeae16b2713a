// Package async wraps a flashsale.Hooks with a small worker pool so that
// slow hook sinks (metrics pushes, log writes) never block the cache or
// the order worker. Events are dropped when the event queue is full; hooks
// carry telemetry, not state.
package async

import (
	"sync"

	"github.com/unkn0wn-root/flashsale"
)

type Hooks struct {
	inner flashsale.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ flashsale.Hooks = (*Hooks)(nil)

func New(inner flashsale.Hooks, workers, backlog int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if backlog <= 0 {
		backlog = 1024
	}
	h := &Hooks{inner: inner, q: make(chan func(), backlog)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close flushes queued events and stops the workers. Call it after the
// cache and worker that publish into these hooks have stopped.
func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) NullCached(ns, key string)    { h.try(func() { h.inner.NullCached(ns, key) }) }
func (h *Hooks) StaleServed(ns, key string)   { h.try(func() { h.inner.StaleServed(ns, key) }) }
func (h *Hooks) LockContended(ns, key string) { h.try(func() { h.inner.LockContended(ns, key) }) }
func (h *Hooks) RebuildScheduled(ns, key string) {
	h.try(func() { h.inner.RebuildScheduled(ns, key) })
}
func (h *Hooks) RebuildSkipped(ns, key, reason string) {
	h.try(func() { h.inner.RebuildSkipped(ns, key, reason) })
}
func (h *Hooks) RebuildFailed(ns, key string, err error) {
	h.try(func() { h.inner.RebuildFailed(ns, key, err) })
}
func (h *Hooks) SelfHeal(ns, key, reason string) { h.try(func() { h.inner.SelfHeal(ns, key, reason) }) }
func (h *Hooks) QueueSaturated(promotionID, userID int64) {
	h.try(func() { h.inner.QueueSaturated(promotionID, userID) })
}
func (h *Hooks) OrderPersisted(orderID int64) { h.try(func() { h.inner.OrderPersisted(orderID) }) }
func (h *Hooks) OrderDropped(orderID int64, err error) {
	h.try(func() { h.inner.OrderDropped(orderID, err) })
}
