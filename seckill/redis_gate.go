package seckill

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// admitScript is the whole gate. Every check and both mutations run inside
// one EVAL, so no admission attempt for the same promotion can interleave.
//
// KEYS[1] seckill:promo:<id>   hash: stock, begin, end (unix seconds)
// KEYS[2] seckill:bought:<id>  set of user ids that already purchased
// ARGV[1] user id
// ARGV[2] now (unix seconds)
//
// returns 0 accepted, 1 stock exhausted, 2 duplicate user,
//         3 not started (or unknown promotion), 4 ended
const admitScript = `
local begin = tonumber(redis.call('HGET', KEYS[1], 'begin'))
local fin = tonumber(redis.call('HGET', KEYS[1], 'end'))
local now = tonumber(ARGV[2])
if begin == nil or now < begin then
    return 3
end
if fin == nil or now > fin then
    return 4
end
if redis.call('SISMEMBER', KEYS[2], ARGV[1]) == 1 then
    return 2
end
local stock = tonumber(redis.call('HGET', KEYS[1], 'stock'))
if stock == nil or stock <= 0 then
    return 1
end
redis.call('HINCRBY', KEYS[1], 'stock', -1)
redis.call('SADD', KEYS[2], ARGV[1])
return 0
`

// RedisGate is the shared-store Admitter. Use it whenever more than one
// process admits orders for the same promotions.
type RedisGate struct {
	rdb    goredis.UniversalClient
	script *goredis.Script
}

var _ Admitter = (*RedisGate)(nil)

func NewRedisGate(client goredis.UniversalClient) (*RedisGate, error) {
	if client == nil {
		return nil, errors.New("seckill: nil redis client")
	}
	return &RedisGate{
		rdb:    client,
		script: goredis.NewScript(admitScript),
	}, nil
}

func (g *RedisGate) Admit(ctx context.Context, promotionID, userID int64, now time.Time) (Verdict, error) {
	keys := []string{promoKey(promotionID), boughtKey(promotionID)}
	res, err := g.script.Run(ctx, g.rdb, keys,
		strconv.FormatInt(userID, 10),
		now.Unix(),
	).Int64()
	if err != nil {
		return 0, fmt.Errorf("seckill: admit script: %w", err)
	}
	switch res {
	case 0:
		return Accepted, nil
	case 1:
		return StockExhausted, nil
	case 2:
		return DuplicateUser, nil
	case 3:
		return NotStarted, nil
	case 4:
		return Ended, nil
	default:
		return 0, fmt.Errorf("seckill: admit script returned %d", res)
	}
}

func (g *RedisGate) Seed(ctx context.Context, p Promotion) error {
	err := g.rdb.HSet(ctx, promoKey(p.ID),
		"stock", p.Stock,
		"begin", p.Begin.Unix(),
		"end", p.End.Unix(),
	).Err()
	if err != nil {
		return fmt.Errorf("seckill: seed promotion %d: %w", p.ID, err)
	}
	return nil
}

func promoKey(id int64) string  { return "seckill:promo:" + strconv.FormatInt(id, 10) }
func boughtKey(id int64) string { return "seckill:bought:" + strconv.FormatInt(id, 10) }
