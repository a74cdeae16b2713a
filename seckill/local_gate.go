package seckill

import (
	"context"
	"sync"
	"time"
)

// LocalGate is an in-process Admitter with the same verdict semantics as
// RedisGate. Single-process deployments and tests; it cannot enforce the
// global stock limit across processes.
type LocalGate struct {
	mu     sync.Mutex
	promos map[int64]*localPromo
}

type localPromo struct {
	stock  int64
	begin  time.Time
	end    time.Time
	bought map[int64]struct{}
}

var _ Admitter = (*LocalGate)(nil)

func NewLocalGate() *LocalGate {
	return &LocalGate{promos: make(map[int64]*localPromo)}
}

func (g *LocalGate) Admit(_ context.Context, promotionID, userID int64, now time.Time) (Verdict, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.promos[promotionID]
	if !ok || now.Before(p.begin) {
		return NotStarted, nil
	}
	if now.After(p.end) {
		return Ended, nil
	}
	if _, dup := p.bought[userID]; dup {
		return DuplicateUser, nil
	}
	if p.stock <= 0 {
		return StockExhausted, nil
	}
	p.stock--
	p.bought[userID] = struct{}{}
	return Accepted, nil
}

func (g *LocalGate) Seed(_ context.Context, p Promotion) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	cur, ok := g.promos[p.ID]
	if !ok {
		cur = &localPromo{bought: make(map[int64]struct{})}
		g.promos[p.ID] = cur
	}
	cur.stock = p.Stock
	cur.begin = p.Begin
	cur.end = p.End
	return nil
}
