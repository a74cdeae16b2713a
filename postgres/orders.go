// Package postgres persists admitted orders with pgx. It is the durable
// side of the admission path: the redis gate is authoritative for fast
// rejection, the unique (user_id, promotion_id) constraint here is
// authoritative for final state.
//
// Expected schema:
//
//	CREATE TABLE seckill_promotions (
//	    id    BIGINT PRIMARY KEY,
//	    stock BIGINT NOT NULL CHECK (stock >= 0)
//	);
//	CREATE TABLE seckill_orders (
//	    id           BIGINT PRIMARY KEY,
//	    user_id      BIGINT NOT NULL,
//	    promotion_id BIGINT NOT NULL,
//	    created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
//	    UNIQUE (user_id, promotion_id)
//	);
package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/unkn0wn-root/flashsale/seckill"
)

const uniqueViolation = "23505"

// OrderStore implements seckill.Persistence over a pgx pool.
type OrderStore struct {
	pool *pgxpool.Pool
}

var _ seckill.Persistence = (*OrderStore)(nil)

func New(ctx context.Context, dsn string) (*OrderStore, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errors.Wrap(err, "postgres: parse dsn")
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "postgres: connect")
	}
	return &OrderStore{pool: pool}, nil
}

// NewWithPool wraps an existing pool; the caller keeps ownership.
func NewWithPool(pool *pgxpool.Pool) (*OrderStore, error) {
	if pool == nil {
		return nil, errors.New("postgres: nil pool")
	}
	return &OrderStore{pool: pool}, nil
}

func (s *OrderStore) Close() { s.pool.Close() }

// Create writes the order and decrements durable stock in one transaction.
// A unique violation on (user_id, promotion_id) comes back as
// seckill.ErrDuplicateOrder so the worker can treat it as already done.
func (s *OrderStore) Create(ctx context.Context, o seckill.Order) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "postgres: begin")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
        INSERT INTO seckill_orders (id, user_id, promotion_id)
        VALUES ($1, $2, $3)
    `, o.ID, o.UserID, o.PromotionID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return seckill.ErrDuplicateOrder
		}
		return errors.Wrapf(err, "postgres: insert order %d", o.ID)
	}

	// mirror of the gate's decrement; the stock > 0 guard keeps a redis/DB
	// divergence from driving durable stock negative
	ct, err := tx.Exec(ctx, `
        UPDATE seckill_promotions SET stock = stock - 1
        WHERE id = $1 AND stock > 0
    `, o.PromotionID)
	if err != nil {
		return errors.Wrapf(err, "postgres: decrement stock for promotion %d", o.PromotionID)
	}
	if ct.RowsAffected() == 0 {
		return errors.Newf("postgres: promotion %d has no durable stock left", o.PromotionID)
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "postgres: commit")
	}
	return nil
}
