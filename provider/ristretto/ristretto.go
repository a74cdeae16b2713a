// Package ristretto adapts dgraph-io/ristretto to provider.Store for a
// process-local pass-through tier with real per-entry TTLs. Admission may
// reject writes under pressure; Set reports that as ok=false.
package ristretto

import (
	"context"
	"errors"
	"time"

	rc "github.com/dgraph-io/ristretto"

	"github.com/unkn0wn-root/flashsale/provider"
)

type Store struct {
	c *rc.Cache
}

var _ provider.Store = (*Store)(nil)

type Config struct {
	NumCounters int64
	MaxCostMB   int64
	BufferItems int64
	Metrics     bool
}

func New(cfg Config) (*Store, error) {
	if cfg.NumCounters <= 0 || cfg.MaxCostMB <= 0 {
		return nil, errors.New("ristretto store: NumCounters and MaxCostMB are required")
	}
	if cfg.BufferItems <= 0 {
		cfg.BufferItems = 64
	}
	c, err := rc.NewCache(&rc.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCostMB << 20,
		BufferItems: cfg.BufferItems,
		Metrics:     cfg.Metrics,
	})
	if err != nil {
		return nil, err
	}
	return &Store{c: c}, nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, ok := v.([]byte)
	if !ok {
		// unexpected entry shape; drop it
		s.c.Del(key)
		return nil, false, nil
	}
	return b, true, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	cost := int64(len(value))
	if cost == 0 {
		cost = 1 // null markers still occupy an admission slot
	}
	if ttl <= 0 {
		return s.c.Set(key, value, cost), nil
	}
	return s.c.SetWithTTL(key, value, cost, ttl), nil
}

func (s *Store) Del(_ context.Context, key string) error {
	s.c.Del(key)
	return nil
}

func (s *Store) Close(_ context.Context) error {
	s.c.Wait()
	s.c.Close()
	return nil
}

// Metrics exposes ristretto's counters when Config.Metrics is on.
func (s *Store) Metrics() *rc.Metrics { return s.c.Metrics }
