package seckill

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestQueueFIFO(t *testing.T) {
	ctx := context.Background()
	q := NewQueue(8)

	for i := int64(1); i <= 3; i++ {
		if err := q.Push(Order{ID: i}); err != nil {
			t.Fatalf("Push %d: %v", i, err)
		}
	}
	for i := int64(1); i <= 3; i++ {
		o, err := q.Pop(ctx)
		if err != nil {
			t.Fatalf("Pop: %v", err)
		}
		if o.ID != i {
			t.Fatalf("Pop order %d, want %d (FIFO)", o.ID, i)
		}
	}
}

func TestQueueSaturationFailsFast(t *testing.T) {
	q := NewQueue(2)
	if err := q.Push(Order{ID: 1}); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if err := q.Push(Order{ID: 2}); err != nil {
		t.Fatalf("Push: %v", err)
	}

	start := time.Now()
	err := q.Push(Order{ID: 3})
	if !errors.Is(err, ErrQueueSaturated) {
		t.Fatalf("err = %v, want ErrQueueSaturated", err)
	}
	if time.Since(start) > 50*time.Millisecond {
		t.Fatalf("saturated Push must not block")
	}
}

func TestQueuePopBlocksUntilCancelled(t *testing.T) {
	q := NewQueue(1)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := q.Pop(ctx)
		done <- err
	}()

	select {
	case <-done:
		t.Fatalf("Pop returned on an empty queue")
	case <-time.After(20 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Pop err = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("Pop ignored cancellation")
	}
}

func TestQueueTryPop(t *testing.T) {
	q := NewQueue(1)
	if _, ok := q.TryPop(); ok {
		t.Fatalf("TryPop on empty queue returned an order")
	}
	if err := q.Push(Order{ID: 9}); err != nil {
		t.Fatalf("Push: %v", err)
	}
	o, ok := q.TryPop()
	if !ok || o.ID != 9 {
		t.Fatalf("TryPop = %v %v", o, ok)
	}
}
