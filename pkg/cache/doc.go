// Package cache provides a generic, thread-safe compute-cache with built-in
// statistics and optional Prometheus metrics integration.
//
// # Overview
//
// A ComputeCache is a key/value store that lazily materializes values through
// a caller-supplied Provider, memoizes them, and guarantees each key's value
// is computed at most once even under concurrent access. It sits behind a
// read path that is fast for hits and a write path that never duplicates a
// possibly-expensive computation.
//
//	provider := func(ctx context.Context, key string) (*Schema, error) {
//	    return parseSchema(ctx, key)
//	}
//
//	c, err := cache.New[string, *Schema](cache.Config{
//	    Name:     "schema-cache",
//	    Capacity: 1024,
//	}, provider)
//	if err != nil { ... }
//
//	schema, err := c.Get(ctx, "sensor/v2")
//
// # Locking Protocol
//
// Each cache owns one reader/writer mutex guarding the backing store's
// existence and contents. Get follows an explicit two-phase protocol:
//
//  1. Acquire the read lock, probe the store, release. A hit returns
//     immediately (recency is refreshed under a brief write lock).
//  2. On a miss, acquire the write lock and re-probe: another goroutine may
//     have completed the computation while this one waited. This re-check is
//     mandatory; a hit here counts as a hit, never as a second miss.
//  3. If still missing, invoke the provider while holding the write lock,
//     box the result, insert, and record the miss.
//
// Running the provider under the write lock is a deliberate trade-off: it
// guarantees at most one provider invocation per key is ever in flight, at
// the cost of blocking all other access to the same cache instance for the
// duration of a slow call. WithPerKeyCompute switches the miss path to a
// per-key singleflight group that computes outside the cache lock, so a slow
// provider only stalls callers of the same key. The at-most-once guarantee
// holds in both modes.
//
// On the Get path, miss statistics track provider invocations exactly: under
// N concurrent Get calls for one cold key, the miss counter moves once. Peek
// records its probe outcome as a hit or miss as well, without ever invoking
// the provider.
//
// # Provider Contract
//
// Providers must not call back into the cache they serve; a reentrant call
// deadlocks on the write lock. Provider errors propagate to the caller of Get
// with no entry inserted, so the next Get retries - there are no poison
// entries and no internal retries. Lock acquisition itself is not
// interruptible in Go; context cancellation is honored at the provider
// boundary and surfaces as a classified transient error.
//
// # Eviction
//
// Two clearly distinct policies:
//
//   - Bounded (Capacity > 0): the store never holds more than Capacity
//     entries. Inserting past capacity deterministically evicts the
//     least-recently-accessed entry. Access order is refreshed on read hits
//     and inserts.
//   - Unbounded (Capacity <= 0): a high-watermark LRU with a generous default
//     (DefaultSoftLimit, overridable via SoftLimit). This is an explicit
//     stand-in for GC-integrated soft references, which Go cannot express;
//     entries past the watermark are evicted in LRU order rather than under
//     memory pressure, and entries are never guaranteed permanent.
//
// # Nil Values
//
// By default a provider returning nil (or Set storing nil) is rejected with
// ErrNilValue; the key stays absent and a later Get retries the provider.
// With AllowNilValues the nil is cached: the store wraps every value in a
// present/absent-nil box, so "missing" and "present but nil" stay
// unambiguous, and a cached nil is returned without re-invoking the provider.
//
// # Statistics and Metrics
//
// Statistics are always collected: hits, misses, sets, deletes, clears, and
// evictions, plus size tracking and hit-ratio derivation. Counters are atomic
// and independent of the cache's lock. WithMetrics additionally exports the
// counters, a size gauge, and a provider-duration histogram through a
// metric.MetricsRegistry for Prometheus scraping. The recorder is owned by
// the cache instance and exposed via Stats(); there is no process-wide
// registry of caches.
package cache
