package lock

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// sentinel stored under the lock key; its value is never inspected.
const lockSentinel = "1"

// Redis implements Mutex over SET NX PX against a shared redis. This is
// the implementation that makes rebuild coalescing hold across processes.
type Redis struct {
	rdb goredis.UniversalClient
}

var _ Mutex = (*Redis)(nil)

func NewRedis(client goredis.UniversalClient) (*Redis, error) {
	if client == nil {
		return nil, errors.New("lock: nil redis client")
	}
	return &Redis{rdb: client}, nil
}

func (m *Redis) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return m.rdb.SetNX(ctx, key, lockSentinel, ttl).Result()
}

func (m *Redis) Unlock(ctx context.Context, key string) error {
	return m.rdb.Del(ctx, key).Err()
}
