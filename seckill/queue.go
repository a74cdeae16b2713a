package seckill

import (
	"context"
	"errors"
)

// DefaultQueueCapacity is generous on purpose: hitting it means admission
// is outrunning persistence badly enough that the process should shed load.
const DefaultQueueCapacity = 1 << 20

// ErrQueueSaturated reports that the order queue is full. This is an
// overload condition to surface to callers as retryable/server-busy; the
// admitted order is NOT silently dropped - the caller sees the failure.
var ErrQueueSaturated = errors.New("seckill: order queue saturated")

// Order is an admitted purchase waiting for durable persistence.
type Order struct {
	ID          int64
	UserID      int64
	PromotionID int64
}

// Queue is the bounded FIFO between the fast admission path and the slow
// persistence path. Push never blocks; Pop blocks the (single) worker.
type Queue struct {
	ch chan Order
}

func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	return &Queue{ch: make(chan Order, capacity)}
}

// Push enqueues without blocking; ErrQueueSaturated when full.
func (q *Queue) Push(o Order) error {
	select {
	case q.ch <- o:
		return nil
	default:
		return ErrQueueSaturated
	}
}

// Pop blocks until an order arrives or ctx is done.
func (q *Queue) Pop(ctx context.Context) (Order, error) {
	select {
	case o := <-q.ch:
		return o, nil
	case <-ctx.Done():
		return Order{}, ctx.Err()
	}
}

// TryPop takes an order only if one is already queued.
func (q *Queue) TryPop() (Order, bool) {
	select {
	case o := <-q.ch:
		return o, true
	default:
		return Order{}, false
	}
}

// Len is a point-in-time queue depth (monitoring only).
func (q *Queue) Len() int { return len(q.ch) }
