package seckill

import (
	"context"
	"errors"
	"fmt"

	"github.com/unkn0wn-root/flashsale"
)

// ErrDuplicateOrder is returned by Persistence implementations when the
// durable unique (user, promotion) constraint rejects the write. The gate
// already admitted the user once, so the worker treats this as "already
// persisted", not as a failure.
var ErrDuplicateOrder = errors.New("seckill: order already persisted for user and promotion")

// Persistence performs the idempotent durable write of an admitted order.
// Implementations must re-validate the (user, promotion) unique constraint;
// the durable constraint is authoritative for final state.
type Persistence interface {
	Create(ctx context.Context, o Order) error
}

// Worker drains the queue with exactly one goroutine and hands each order
// to Persistence once. A failed write is reported through hooks/logging and
// the record is dropped; there is no retry or dead-letter path.
type Worker struct {
	queue   *Queue
	persist Persistence
	log     flashsale.Logger
	hooks   flashsale.Hooks
}

type WorkerConfig struct {
	Queue       *Queue
	Persistence Persistence
	Logger      flashsale.Logger // nil => NopLogger
	Hooks       flashsale.Hooks  // nil => NopHooks
}

func NewWorker(cfg WorkerConfig) (*Worker, error) {
	if cfg.Queue == nil {
		return nil, fmt.Errorf("seckill: worker queue is required")
	}
	if cfg.Persistence == nil {
		return nil, fmt.Errorf("seckill: worker persistence is required")
	}
	w := &Worker{queue: cfg.Queue, persist: cfg.Persistence}
	w.log = cfg.Logger
	if w.log == nil {
		w.log = flashsale.NopLogger{}
	}
	w.hooks = cfg.Hooks
	if w.hooks == nil {
		w.hooks = flashsale.NopHooks{}
	}
	return w, nil
}

// Run blocks, popping one order at a time. When ctx is cancelled it stops
// waiting for new orders, drains whatever is already queued, then returns.
// Run is the composition root's shutdown hook: cancel and wait for it.
func (w *Worker) Run(ctx context.Context) {
	for {
		o, err := w.queue.Pop(ctx)
		if err != nil {
			w.drain(context.WithoutCancel(ctx))
			return
		}
		w.handle(ctx, o)
	}
}

func (w *Worker) drain(ctx context.Context) {
	n := 0
	for {
		o, ok := w.queue.TryPop()
		if !ok {
			break
		}
		w.handle(ctx, o)
		n++
	}
	if n > 0 {
		w.log.Info("order worker drained on shutdown", flashsale.Fields{"orders": n})
	}
}

func (w *Worker) handle(ctx context.Context, o Order) {
	err := w.persist.Create(ctx, o)
	switch {
	case err == nil:
		w.hooks.OrderPersisted(o.ID)
	case errors.Is(err, ErrDuplicateOrder):
		// the second safety net fired; the order is already durable
		w.log.Debug("order already persisted", flashsale.Fields{
			"order": o.ID, "user": o.UserID, "promotion": o.PromotionID,
		})
	default:
		// acknowledged gap: one attempt, then the record is gone
		w.hooks.OrderDropped(o.ID, err)
		w.log.Error("order persistence failed; record dropped", flashsale.Fields{
			"order": o.ID, "user": o.UserID, "promotion": o.PromotionID, "err": err,
		})
	}
}
