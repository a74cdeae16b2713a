// Package sloghooks logs flashsale hook events through log/slog, with
// counter-based sampling for the chatty ones. High-volume reads of a hot
// expired key fire StaleServed/LockContended on every request; logging one
// in N keeps the signal without flooding.
//
// Usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{
//	    StaleEvery:     100, // log ~every 100th stale read
//	    ContendedEvery: 100,
//	})
//	hooks := async.New(raw, 1, 1000)
//	defer hooks.Close()
package sloghooks

import (
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/flashsale"
)

type Options struct {
	StaleEvery     uint64 // 0 or 1 => log every StaleServed
	ContendedEvery uint64 // 0 or 1 => log every LockContended
	SelfHealEvery  uint64 // 0 or 1 => log every SelfHeal
}

type Hooks struct {
	log  *slog.Logger
	opts Options

	stale     atomic.Uint64
	contended atomic.Uint64
	selfHeal  atomic.Uint64
}

var _ flashsale.Hooks = (*Hooks)(nil)

func New(log *slog.Logger, opts Options) *Hooks {
	if log == nil {
		log = slog.Default()
	}
	return &Hooks{log: log, opts: opts}
}

func sampled(c *atomic.Uint64, every uint64) bool {
	if every <= 1 {
		return true
	}
	return c.Add(1)%every == 1
}

func (h *Hooks) NullCached(ns, key string) {
	h.log.Debug("null result cached", "namespace", ns, "key", key)
}

func (h *Hooks) StaleServed(ns, key string) {
	if sampled(&h.stale, h.opts.StaleEvery) {
		h.log.Debug("stale entry served", "namespace", ns, "key", key)
	}
}

func (h *Hooks) LockContended(ns, key string) {
	if sampled(&h.contended, h.opts.ContendedEvery) {
		h.log.Debug("rebuild lease contended", "namespace", ns, "key", key)
	}
}

func (h *Hooks) RebuildScheduled(ns, key string) {
	h.log.Debug("rebuild scheduled", "namespace", ns, "key", key)
}

func (h *Hooks) RebuildSkipped(ns, key, reason string) {
	h.log.Debug("rebuild skipped", "namespace", ns, "key", key, "reason", reason)
}

func (h *Hooks) RebuildFailed(ns, key string, err error) {
	h.log.Warn("rebuild failed", "namespace", ns, "key", key, "err", err)
}

func (h *Hooks) SelfHeal(ns, key, reason string) {
	if sampled(&h.selfHeal, h.opts.SelfHealEvery) {
		h.log.Warn("corrupt cache entry removed", "namespace", ns, "key", key, "reason", reason)
	}
}

func (h *Hooks) QueueSaturated(promotionID, userID int64) {
	h.log.Error("order queue saturated", "promotion", promotionID, "user", userID)
}

func (h *Hooks) OrderPersisted(orderID int64) {
	h.log.Debug("order persisted", "order", orderID)
}

func (h *Hooks) OrderDropped(orderID int64, err error) {
	h.log.Error("admitted order dropped", "order", orderID, "err", err)
}
