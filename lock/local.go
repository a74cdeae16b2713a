package lock

import (
	"context"
	"sync"
	"time"
)

// Local implements Mutex in-process. Suitable for single-process
// deployments and tests; it gives the same lease semantics as Redis but
// obviously cannot coalesce rebuilds across processes.
type Local struct {
	mu    sync.Mutex
	leases map[string]time.Time // expiry per held key
}

var _ Mutex = (*Local)(nil)

func NewLocal() *Local {
	return &Local{leases: make(map[string]time.Time)}
}

func (m *Local) TryLock(_ context.Context, key string, ttl time.Duration) (bool, error) {
	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	if exp, held := m.leases[key]; held && now.Before(exp) {
		return false, nil
	}
	m.leases[key] = now.Add(ttl)
	return true, nil
}

func (m *Local) Unlock(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.leases, key)
	m.mu.Unlock()
	return nil
}
