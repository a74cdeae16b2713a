package lock

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestLocalTryLockContention(t *testing.T) {
	ctx := context.Background()
	m := NewLocal()

	won, err := m.TryLock(ctx, "lock:shop:1", time.Minute)
	if err != nil || !won {
		t.Fatalf("first TryLock: won=%v err=%v", won, err)
	}
	won, err = m.TryLock(ctx, "lock:shop:1", time.Minute)
	if err != nil || won {
		t.Fatalf("second TryLock should lose: won=%v err=%v", won, err)
	}

	// different key is a different lease
	won, err = m.TryLock(ctx, "lock:shop:2", time.Minute)
	if err != nil || !won {
		t.Fatalf("TryLock other key: won=%v err=%v", won, err)
	}
}

func TestLocalUnlockFreesLease(t *testing.T) {
	ctx := context.Background()
	m := NewLocal()

	if won, _ := m.TryLock(ctx, "k", time.Minute); !won {
		t.Fatalf("acquire failed")
	}
	if err := m.Unlock(ctx, "k"); err != nil {
		t.Fatalf("Unlock: %v", err)
	}
	if won, _ := m.TryLock(ctx, "k", time.Minute); !won {
		t.Fatalf("lease not freed by Unlock")
	}
}

func TestLocalLeaseExpires(t *testing.T) {
	ctx := context.Background()
	m := NewLocal()

	if won, _ := m.TryLock(ctx, "k", 20*time.Millisecond); !won {
		t.Fatalf("acquire failed")
	}
	time.Sleep(30 * time.Millisecond)
	if won, _ := m.TryLock(ctx, "k", time.Minute); !won {
		t.Fatalf("expired lease should be re-acquirable")
	}
}

func TestLocalSingleWinnerUnderConcurrency(t *testing.T) {
	ctx := context.Background()
	m := NewLocal()

	const attempts = 64
	var wins int32
	var mu sync.Mutex
	var wg sync.WaitGroup
	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			defer wg.Done()
			won, err := m.TryLock(ctx, "hot", time.Minute)
			if err != nil {
				t.Errorf("TryLock: %v", err)
			}
			if won {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if wins != 1 {
		t.Fatalf("wins = %d, want exactly 1", wins)
	}
}
