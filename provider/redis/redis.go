// Package redis adapts a go-redis client to the provider.Store interface.
// This is the store to use in shared deployments: the rebuild lease in
// package lock only coalesces work across processes when they all read and
// write the same cache.
package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/flashsale/provider"
)

var ErrNilClient = errors.New("redis store: nil client")

type Store struct {
	rdb       goredis.UniversalClient
	ownClient bool
}

var _ provider.Store = (*Store)(nil)

type Config struct {
	Client goredis.UniversalClient
	// OwnClient makes Close tear down the client. Set it only when this
	// store is the client's sole user.
	OwnClient bool
}

func New(cfg Config) (*Store, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	return &Store{rdb: cfg.Client, ownClient: cfg.OwnClient}, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	if ttl < 0 {
		ttl = 0 // non-positive means no expiry
	}
	if err := s.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) Del(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}

func (s *Store) Close(context.Context) error {
	if !s.ownClient {
		return nil
	}
	if err := s.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
		return err
	}
	return nil
}
