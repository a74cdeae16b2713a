// Package flashsale implements the read and admission hot paths of a
// flash-sale system: a generic cache wrapper that defends a slow backing
// store against penetration (null-caching) and breakdown (logical
// expiration with a lease-guarded background rebuild), plus the seckill
// admission core under flashsale/seckill.
//
// Components:
//   - provider.Store: byte store with TTL (Redis for shared deployments,
//     BigCache/Ristretto for process-local tiers).
//   - codec.Codec[V]: (de)serializes V <-> []byte.
//   - lock.Mutex: lease-based try-lock that serializes cache rebuilds.
//   - seckill: atomic stock admission, order queue/worker, id generation.
//
// Keys:
//
//	cache:<ns>:<id>  - cached entities (bare payload or logical envelope)
//	lock:<ns>:<id>   - rebuild leases
//	icr:<purpose>:<yyyy:MM:dd> - daily id counters
//	seckill:promo:<id>, seckill:bought:<id> - stock / dedup keyspace
//
// Read pattern:
//
//	v, err := cache.GetWithPassThrough(ctx, id, loadFromDB) // null-caching
//	v, err := cache.GetWithLogicalExpire(ctx, id, loadFromDB) // pre-warmed, stale-tolerant
package flashsale
