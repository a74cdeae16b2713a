package seckill

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/unkn0wn-root/flashsale/idgen"
)

func newTestService(t *testing.T, q *Queue, h *recordHooks) (*Service, *LocalGate) {
	t.Helper()
	gate := NewLocalGate()
	gen, err := idgen.New(idgen.Config{Sequencer: idgen.NewLocalSequencer()})
	if err != nil {
		t.Fatalf("idgen.New: %v", err)
	}
	cfg := ServiceConfig{Gate: gate, Generator: gen, Queue: q}
	if h != nil {
		cfg.Hooks = h
	}
	s, err := NewService(cfg)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return s, gate
}

func TestPurchaseAcceptedEnqueuesOrder(t *testing.T) {
	ctx := context.Background()
	q := NewQueue(8)
	s, gate := newTestService(t, q, nil)

	now := time.Now()
	seedPromo(t, gate, 1, 5, now.Add(-time.Hour), now.Add(time.Hour))

	orderID, err := s.Purchase(ctx, 1, 100)
	if err != nil {
		t.Fatalf("Purchase: %v", err)
	}
	if orderID <= 0 {
		t.Fatalf("order id = %d, want positive", orderID)
	}

	o, err := q.Pop(ctx)
	if err != nil {
		t.Fatalf("Pop: %v", err)
	}
	if o != (Order{ID: orderID, UserID: 100, PromotionID: 1}) {
		t.Fatalf("queued order = %+v", o)
	}
}

func TestPurchaseRejectionsMapToErrors(t *testing.T) {
	ctx := context.Background()
	q := NewQueue(8)
	s, gate := newTestService(t, q, nil)

	now := time.Now()
	seedPromo(t, gate, 2, 1, now.Add(-time.Hour), now.Add(time.Hour))
	seedPromo(t, gate, 3, 1, now.Add(time.Hour), now.Add(2*time.Hour))
	seedPromo(t, gate, 4, 1, now.Add(-2*time.Hour), now.Add(-time.Hour))

	if _, err := s.Purchase(ctx, 3, 1); !errors.Is(err, ErrNotStarted) {
		t.Fatalf("future promotion: %v", err)
	}
	if _, err := s.Purchase(ctx, 4, 1); !errors.Is(err, ErrEnded) {
		t.Fatalf("past promotion: %v", err)
	}

	if _, err := s.Purchase(ctx, 2, 1); err != nil {
		t.Fatalf("first purchase: %v", err)
	}
	if _, err := s.Purchase(ctx, 2, 1); !errors.Is(err, ErrDuplicateUser) {
		t.Fatalf("repeat purchase: %v", err)
	}
	if _, err := s.Purchase(ctx, 2, 2); !errors.Is(err, ErrStockExhausted) {
		t.Fatalf("sold-out purchase: %v", err)
	}

	if q.Len() != 1 {
		t.Fatalf("queue depth = %d, rejections must not enqueue", q.Len())
	}
}

func TestPurchaseSurfacesQueueSaturation(t *testing.T) {
	ctx := context.Background()
	q := NewQueue(1)
	h := &recordHooks{}
	s, gate := newTestService(t, q, h)

	now := time.Now()
	seedPromo(t, gate, 5, 10, now.Add(-time.Hour), now.Add(time.Hour))

	if _, err := s.Purchase(ctx, 5, 1); err != nil {
		t.Fatalf("first purchase: %v", err)
	}
	// nobody drains the queue; the next admit hits the capacity wall
	_, err := s.Purchase(ctx, 5, 2)
	if !errors.Is(err, ErrQueueSaturated) {
		t.Fatalf("err = %v, want ErrQueueSaturated", err)
	}

	h.mu.Lock()
	saturated := h.saturated
	h.mu.Unlock()
	if saturated != 1 {
		t.Fatalf("saturation not reported through hooks")
	}
}
