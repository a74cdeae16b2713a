package seckill

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/unkn0wn-root/flashsale"
)

// fakePersistence records created orders and can fail on demand.
type fakePersistence struct {
	mu      sync.Mutex
	created []Order
	failFor map[int64]error // order id -> error
}

var _ Persistence = (*fakePersistence)(nil)

func newFakePersistence() *fakePersistence {
	return &fakePersistence{failFor: make(map[int64]error)}
}

func (p *fakePersistence) Create(_ context.Context, o Order) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err, ok := p.failFor[o.ID]; ok {
		return err
	}
	p.created = append(p.created, o)
	return nil
}

func (p *fakePersistence) createdIDs() []int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]int64, len(p.created))
	for i, o := range p.created {
		out[i] = o.ID
	}
	return out
}

// recordHooks counts the order-path hook events.
type recordHooks struct {
	flashsale.NopHooks
	mu        sync.Mutex
	persisted []int64
	dropped   []int64
	saturated int
}

func (h *recordHooks) OrderPersisted(id int64) {
	h.mu.Lock()
	h.persisted = append(h.persisted, id)
	h.mu.Unlock()
}

func (h *recordHooks) OrderDropped(id int64, _ error) {
	h.mu.Lock()
	h.dropped = append(h.dropped, id)
	h.mu.Unlock()
}

func (h *recordHooks) QueueSaturated(int64, int64) {
	h.mu.Lock()
	h.saturated++
	h.mu.Unlock()
}

func startWorker(t *testing.T, q *Queue, p Persistence, h flashsale.Hooks) (stop func()) {
	t.Helper()
	w, err := NewWorker(WorkerConfig{Queue: q, Persistence: p, Hooks: h})
	if err != nil {
		t.Fatalf("NewWorker: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(ctx)
	}()
	return func() {
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatalf("worker did not stop")
		}
	}
}

func waitUntil(t *testing.T, cond func() bool, what string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestWorkerPersistsQueuedOrders(t *testing.T) {
	q := NewQueue(16)
	p := newFakePersistence()
	h := &recordHooks{}
	stop := startWorker(t, q, p, h)
	defer stop()

	for i := int64(1); i <= 5; i++ {
		if err := q.Push(Order{ID: i, UserID: i * 10, PromotionID: 1}); err != nil {
			t.Fatalf("Push: %v", err)
		}
	}
	waitUntil(t, func() bool { return len(p.createdIDs()) == 5 }, "orders persisted")
}

func TestWorkerDropsFailedOrderAfterOneAttempt(t *testing.T) {
	q := NewQueue(16)
	p := newFakePersistence()
	p.failFor[2] = errors.New("db down")
	h := &recordHooks{}
	stop := startWorker(t, q, p, h)
	defer stop()

	for i := int64(1); i <= 3; i++ {
		if err := q.Push(Order{ID: i}); err != nil {
			t.Fatalf("Push: %v", err)
		}
	}

	waitUntil(t, func() bool {
		ids := p.createdIDs()
		return len(ids) == 2
	}, "surviving orders persisted")

	waitUntil(t, func() bool {
		h.mu.Lock()
		defer h.mu.Unlock()
		return len(h.dropped) == 1 && h.dropped[0] == 2
	}, "drop made observable")

	// the failed order is gone: nothing retries it
	time.Sleep(50 * time.Millisecond)
	if ids := p.createdIDs(); len(ids) != 2 {
		t.Fatalf("created = %v, the dropped order must not reappear", ids)
	}
}

func TestWorkerTreatsDuplicateAsDone(t *testing.T) {
	q := NewQueue(4)
	p := newFakePersistence()
	p.failFor[1] = ErrDuplicateOrder
	h := &recordHooks{}
	stop := startWorker(t, q, p, h)
	defer stop()

	if err := q.Push(Order{ID: 1}); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if err := q.Push(Order{ID: 2}); err != nil {
		t.Fatalf("Push: %v", err)
	}

	waitUntil(t, func() bool { return len(p.createdIDs()) == 1 }, "second order persisted")

	h.mu.Lock()
	dropped := len(h.dropped)
	h.mu.Unlock()
	if dropped != 0 {
		t.Fatalf("duplicate must not count as a drop")
	}
}

func TestWorkerDrainsOnShutdown(t *testing.T) {
	q := NewQueue(64)
	p := newFakePersistence()

	// queue filled before the worker ever runs
	for i := int64(1); i <= 20; i++ {
		if err := q.Push(Order{ID: i}); err != nil {
			t.Fatalf("Push: %v", err)
		}
	}

	w, err := NewWorker(WorkerConfig{Queue: q, Persistence: p})
	if err != nil {
		t.Fatalf("NewWorker: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // already cancelled: Run must still drain what is queued

	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(ctx)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("worker did not return")
	}

	if got := len(p.createdIDs()); got != 20 {
		t.Fatalf("drained %d orders, want 20", got)
	}
}
