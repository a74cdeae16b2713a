// Package seckill implements the flash-sale order-admission core: an
// atomic stock/dedup admission gate, a bounded queue that decouples fast
// admission from slow durable persistence, and the single worker that
// drains it.
//
// The gate's atomic mutation is the sole authority for "is this purchase
// allowed". Downstream persistence re-validates the one-order-per-user
// constraint, but as a second safety net for final state, not as a second
// gate.
package seckill

import (
	"context"
	"errors"
	"time"
)

// Verdict is the outcome of one admission attempt.
type Verdict int

const (
	Accepted Verdict = iota
	StockExhausted
	DuplicateUser
	NotStarted
	Ended
)

func (v Verdict) String() string {
	switch v {
	case Accepted:
		return "accepted"
	case StockExhausted:
		return "stock_exhausted"
	case DuplicateUser:
		return "duplicate_user"
	case NotStarted:
		return "not_started"
	case Ended:
		return "ended"
	default:
		return "unknown"
	}
}

// Business rejections, user-visible.
var (
	ErrStockExhausted = errors.New("seckill: stock exhausted")
	ErrDuplicateUser  = errors.New("seckill: user already purchased once")
	ErrNotStarted     = errors.New("seckill: promotion not started")
	ErrEnded          = errors.New("seckill: promotion ended")
)

// Err maps a rejection verdict to its exported error; Accepted maps to nil.
func (v Verdict) Err() error {
	switch v {
	case Accepted:
		return nil
	case StockExhausted:
		return ErrStockExhausted
	case DuplicateUser:
		return ErrDuplicateUser
	case NotStarted:
		return ErrNotStarted
	case Ended:
		return ErrEnded
	default:
		return errors.New("seckill: unknown verdict")
	}
}

// Promotion is the finite-stock, time-boxed sale window the gate enforces.
type Promotion struct {
	ID    int64
	Stock int64
	Begin time.Time
	End   time.Time
}

// Admitter atomically validates the time window, the per-user dedup
// constraint and the remaining stock, and on success decrements stock and
// records the user in one indivisible operation. No two concurrent calls
// for the same promotion may both observe the last unit and both succeed.
//
// The caller passes now explicitly; the gate reads no ambient state.
type Admitter interface {
	Admit(ctx context.Context, promotionID, userID int64, now time.Time) (Verdict, error)

	// Seed writes the promotion's stock and window into the gate's
	// backing keyspace (pre-warm). It does not clear dedup markers from a
	// previous run of the same promotion id.
	Seed(ctx context.Context, p Promotion) error
}
