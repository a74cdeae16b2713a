package idgen

import (
	"context"
	"errors"
	"sync"

	goredis "github.com/redis/go-redis/v9"
)

// Sequencer hands out monotonically increasing counters per key. The first
// value for a key is 1. Uniqueness of generated ids derives entirely from
// the sequencer being shared by all producers for a purpose.
type Sequencer interface {
	Next(ctx context.Context, key string) (int64, error)
}

// RedisSequencer shares counters across processes via INCR.
type RedisSequencer struct {
	rdb goredis.UniversalClient
}

var _ Sequencer = (*RedisSequencer)(nil)

func NewRedisSequencer(client goredis.UniversalClient) (*RedisSequencer, error) {
	if client == nil {
		return nil, errors.New("idgen: nil redis client")
	}
	return &RedisSequencer{rdb: client}, nil
}

func (s *RedisSequencer) Next(ctx context.Context, key string) (int64, error) {
	return s.rdb.Incr(ctx, key).Result()
}

// LocalSequencer keeps counters in-process. Single-producer deployments
// and tests only: two processes with local sequencers will collide.
type LocalSequencer struct {
	mu       sync.Mutex
	counters map[string]int64
}

var _ Sequencer = (*LocalSequencer)(nil)

func NewLocalSequencer() *LocalSequencer {
	return &LocalSequencer{counters: make(map[string]int64)}
}

func (s *LocalSequencer) Next(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	s.counters[key]++
	n := s.counters[key]
	s.mu.Unlock()
	return n, nil
}
