// Package idgen produces globally unique, roughly time-ordered 64-bit ids
// without a central sequencer: a 31-bit relative second timestamp shifted
// over a 32-bit per-day counter obtained from a shared atomic increment.
//
// Ids are strictly increasing across seconds and increasing by counter
// order within a second. The counter key embeds the UTC calendar day, so
// it conceptually resets every day; callers must not allocate more than
// 2^32 ids per purpose per day.
package idgen

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// CounterBits is the width of the per-day sequence in the composed id.
const CounterBits = 32

// DefaultEpoch is the fixed origin the timestamp component is measured
// from. Changing it on a live system breaks id ordering; pick it once.
var DefaultEpoch = time.Date(2024, time.November, 15, 9, 32, 0, 0, time.UTC)

// Generator composes ids from the clock and a Sequencer.
type Generator struct {
	seq   Sequencer
	epoch int64 // unix seconds

	now func() time.Time
}

type Config struct {
	Sequencer Sequencer
	Epoch     time.Time // zero => DefaultEpoch
}

func New(cfg Config) (*Generator, error) {
	if cfg.Sequencer == nil {
		return nil, errors.New("idgen: sequencer is required")
	}
	epoch := cfg.Epoch
	if epoch.IsZero() {
		epoch = DefaultEpoch
	}
	return &Generator{
		seq:   cfg.Sequencer,
		epoch: epoch.Unix(),
		now:   time.Now,
	}, nil
}

// Next returns the next id for purpose (e.g. "order").
func (g *Generator) Next(ctx context.Context, purpose string) (int64, error) {
	now := g.now()
	ts := now.Unix() - g.epoch
	count, err := g.seq.Next(ctx, dayKey(purpose, now))
	if err != nil {
		return 0, fmt.Errorf("idgen: sequence for %q: %w", purpose, err)
	}
	return ts<<CounterBits | count, nil
}

// dayKey builds the daily counter key, icr:<purpose>:<yyyy:MM:dd> (UTC).
func dayKey(purpose string, now time.Time) string {
	return "icr:" + purpose + ":" + now.UTC().Format("2006:01:02")
}
