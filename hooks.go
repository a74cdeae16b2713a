package flashsale

// Hooks are lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking; the cache and the order
// worker call them on hot paths. Wrap with hooks/async to offload.
type Hooks interface {
	// A loader found nothing and an empty marker was cached (penetration defense).
	NullCached(namespace, key string)

	// A logically expired entry was returned to the caller.
	StaleServed(namespace, key string)

	// The rebuild lease was already held; no rebuild was scheduled.
	LockContended(namespace, key string)

	// A background rebuild task was handed to the rebuild pool.
	RebuildScheduled(namespace, key string)

	// A rebuild did not run.
	// reason ∈ {"pool_saturated", "refreshed", "loader_miss"}
	RebuildSkipped(namespace, key, reason string)

	// The loader failed during a background rebuild; the stale entry stays.
	RebuildFailed(namespace, key string, err error)

	// An entry was deleted by the cache on read.
	// reason ∈ {"corrupt", "value_decode"}
	SelfHeal(namespace, key, reason string)

	// The order queue rejected a push (overload back-pressure).
	QueueSaturated(promotionID, userID int64)

	// The worker durably persisted an admitted order.
	OrderPersisted(orderID int64)

	// The worker gave up on an admitted order after one attempt.
	OrderDropped(orderID int64, err error)
}

// NopHooks is the default no-op.
type NopHooks struct{}

func (NopHooks) NullCached(string, string)           {}
func (NopHooks) StaleServed(string, string)          {}
func (NopHooks) LockContended(string, string)        {}
func (NopHooks) RebuildScheduled(string, string)     {}
func (NopHooks) RebuildSkipped(string, string, string) {}
func (NopHooks) RebuildFailed(string, string, error) {}
func (NopHooks) SelfHeal(string, string, string)     {}
func (NopHooks) QueueSaturated(int64, int64)         {}
func (NopHooks) OrderPersisted(int64)                {}
func (NopHooks) OrderDropped(int64, error)           {}
