package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/c360/streamkit/errors"
)

type flightGroup = singleflight.Group

// ComputeCache is a thread-safe cache that materializes values on demand
// through a Provider and memoizes them. Each key's value is computed at most
// once system-wide, even when many goroutines race on a cold key.
//
// One reader/writer mutex per instance guards the backing store's existence
// and contents. The read path probes under the read lock; the miss path
// re-checks under the write lock and, by default, invokes the provider while
// still holding it. This serializes writes and blocks all access to the
// instance for the duration of a slow provider call; WithPerKeyCompute trades
// that for per-key serialization.
//
// Providers must never call back into the same cache; a reentrant call
// deadlocks on the write lock. This is a contract on the provider, not
// something the cache works around.
type ComputeCache[K any, V any] struct {
	name     string
	capacity int
	soft     bool // capacity is a high-watermark, not configured
	allowNil bool
	mapKey   KeyMapper[K]
	provider Provider[K, V]

	mu    sync.RWMutex
	store *store[V] // lazily created on first write, nil until then

	flight *flightGroup // per-key compute, nil unless WithPerKeyCompute

	stats   *Statistics   // ALWAYS initialized
	metrics *cacheMetrics // Optional, if metrics enabled
	evictFn EvictCallback[V]
	logger  *slog.Logger
}

// Name returns the cache's configured identifier.
func (c *ComputeCache[K, V]) Name() string {
	return c.name
}

// Get returns the cached value for key, computing and memoizing it through
// the configured provider on a miss. Provider errors propagate to the caller
// and leave no entry behind, so the next Get retries.
func (c *ComputeCache[K, V]) Get(ctx context.Context, key K) (V, error) {
	return c.get(ctx, key, c.provider)
}

// GetOrCompute behaves like Get but uses the supplied provider for this call.
// Useful for caches constructed without a provider.
func (c *ComputeCache[K, V]) GetOrCompute(ctx context.Context, key K, provider Provider[K, V]) (V, error) {
	return c.get(ctx, key, provider)
}

func (c *ComputeCache[K, V]) get(ctx context.Context, key K, provider Provider[K, V]) (V, error) {
	var zero V

	ikey := c.mapKey(key)
	if ikey == "" {
		// Not cacheable: compute without touching the store or statistics.
		if provider == nil {
			return zero, errors.WrapInvalid(ErrNoProvider, componentName, "Get", "lookup of uncacheable key")
		}
		value, _, err := c.compute(ctx, key, provider)
		return value, err
	}

	// Fast path: read-locked probe.
	c.mu.RLock()
	if c.store != nil {
		if box, ok := c.store.lookup(ikey); ok {
			c.mu.RUnlock()
			c.recordHit(ikey)
			return box.unwrap(), nil
		}
	}
	c.mu.RUnlock()

	if c.flight != nil {
		return c.computePerKey(ctx, key, ikey, provider)
	}
	return c.computeLocked(ctx, key, ikey, provider)
}

// computeLocked is the default miss path: re-check and provider invocation
// both happen under the write lock, guaranteeing at most one in-flight
// computation per cache instance.
func (c *ComputeCache[K, V]) computeLocked(ctx context.Context, key K, ikey string, provider Provider[K, V]) (V, error) {
	var zero V

	c.mu.Lock()

	// Mandatory re-check: another goroutine may have completed the
	// computation while this one waited for the lock. A hit here counts as
	// a hit, never as a second miss.
	if c.store != nil {
		if box, ok := c.store.lookup(ikey); ok {
			c.store.touch(ikey)
			c.mu.Unlock()
			c.stats.Hit()
			if c.metrics != nil {
				c.metrics.recordHit()
			}
			return box.unwrap(), nil
		}
	}

	if provider == nil {
		c.mu.Unlock()
		c.stats.Miss()
		if c.metrics != nil {
			c.metrics.recordMiss()
		}
		return zero, errors.WrapInvalid(ErrNoProvider, componentName, "Get", "miss without provider")
	}

	// Locks are not interruptible; cancellation is honored at the provider
	// boundary instead.
	if err := ctx.Err(); err != nil {
		c.mu.Unlock()
		return zero, errors.WrapTransient(err, componentName, "Get", "lock acquisition")
	}

	value, box, err := c.compute(ctx, key, provider)
	if err != nil {
		c.mu.Unlock()
		return zero, err
	}

	if c.store == nil {
		c.store = newStore[V]()
	}
	c.store.insert(ikey, box)
	evicted := c.enforceCapacityLocked()
	size := c.store.size()
	c.mu.Unlock()

	c.stats.Miss()
	c.stats.UpdateSize(int64(size))
	if c.metrics != nil {
		c.metrics.recordMiss()
		c.metrics.updateSize(size)
	}
	c.finishEvictions(evicted)

	return value, nil
}

// computePerKey is the optional miss path: a singleflight group keyed on the
// internal key collapses concurrent misses into one provider call, executed
// outside the cache lock. Waiters share the winner's result (and error).
//
// The flight carries the entryBox rather than the raw value: a permitted nil
// of an interface-typed V would otherwise flatten to a nil any inside
// singleflight, and the type assertion on the way out would fail.
func (c *ComputeCache[K, V]) computePerKey(ctx context.Context, key K, ikey string, provider Provider[K, V]) (V, error) {
	var zero V

	result, err, _ := c.flight.Do(ikey, func() (any, error) {
		// Re-check: a previous flight may have already filled the entry.
		c.mu.RLock()
		if c.store != nil {
			if box, ok := c.store.lookup(ikey); ok {
				c.mu.RUnlock()
				c.recordHit(ikey)
				return box, nil
			}
		}
		c.mu.RUnlock()

		if provider == nil {
			c.stats.Miss()
			if c.metrics != nil {
				c.metrics.recordMiss()
			}
			return nil, errors.WrapInvalid(ErrNoProvider, componentName, "Get", "miss without provider")
		}

		if err := ctx.Err(); err != nil {
			return nil, errors.WrapTransient(err, componentName, "Get", "context check before compute")
		}

		_, box, err := c.compute(ctx, key, provider)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if c.store == nil {
			c.store = newStore[V]()
		}
		c.store.insert(ikey, box)
		evicted := c.enforceCapacityLocked()
		size := c.store.size()
		c.mu.Unlock()

		c.stats.Miss()
		c.stats.UpdateSize(int64(size))
		if c.metrics != nil {
			c.metrics.recordMiss()
			c.metrics.updateSize(size)
		}
		c.finishEvictions(evicted)

		return box, nil
	})
	if err != nil {
		return zero, err
	}
	return result.(entryBox[V]).unwrap(), nil
}

// compute runs the provider and applies the nil-value policy. The error for a
// provider failure wraps the original so callers can unwrap it.
func (c *ComputeCache[K, V]) compute(ctx context.Context, key K, provider Provider[K, V]) (V, entryBox[V], error) {
	var zero V

	start := time.Now()
	value, err := provider(ctx, key)
	if c.metrics != nil {
		c.metrics.observeCompute(time.Since(start))
	}
	if err != nil {
		return zero, entryBox[V]{}, errors.Wrap(err, componentName, "Get", "value provider")
	}

	box, err := c.boxValue("Get", value)
	if err != nil {
		return zero, entryBox[V]{}, err
	}
	return value, box, nil
}

// boxValue validates the nil policy and wraps value for storage.
func (c *ComputeCache[K, V]) boxValue(op string, value V) (entryBox[V], error) {
	if !isNilValue(value) {
		return entryBox[V]{value: value}, nil
	}
	if !c.allowNil {
		if c.logger != nil {
			c.logger.Warn("nil value rejected", "cache", c.name, "op", op)
		}
		return entryBox[V]{}, errors.WrapInvalid(ErrNilValue, componentName, op, "nil value policy check")
	}
	return entryBox[V]{isNil: true}, nil
}

// recordHit refreshes recency for a read hit and records the hit. The brief
// write lock only moves the entry to the front of the LRU order; the entry
// may have been removed in the meantime, in which case touch is a no-op.
func (c *ComputeCache[K, V]) recordHit(ikey string) {
	c.mu.Lock()
	if c.store != nil {
		c.store.touch(ikey)
	}
	c.mu.Unlock()

	c.stats.Hit()
	if c.metrics != nil {
		c.metrics.recordHit()
	}
}

// enforceCapacityLocked evicts least-recently-used entries until the store is
// within capacity. Must be called with the write lock held; returned entries
// are handed to finishEvictions after the lock is released.
func (c *ComputeCache[K, V]) enforceCapacityLocked() []storeEntry[V] {
	if c.store == nil {
		return nil
	}
	var evicted []storeEntry[V]
	for c.store.size() > c.capacity {
		entry, ok := c.store.evictOldest()
		if !ok {
			break
		}
		evicted = append(evicted, entry)
	}
	return evicted
}

// finishEvictions records eviction statistics and runs callbacks outside the
// cache lock.
func (c *ComputeCache[K, V]) finishEvictions(evicted []storeEntry[V]) {
	for _, entry := range evicted {
		c.stats.Eviction()
		if c.metrics != nil {
			c.metrics.recordEviction()
		}
		if c.soft && c.logger != nil {
			c.logger.Debug("soft watermark eviction", "cache", c.name, "key", entry.key)
		}
		if c.evictFn != nil {
			c.evictFn(entry.key, entry.box.unwrap())
		}
	}
}

// Peek returns the cached value for key without computing on a miss and
// without refreshing LRU recency. Hit and miss statistics are still recorded.
func (c *ComputeCache[K, V]) Peek(key K) (V, bool) {
	var zero V

	ikey := c.mapKey(key)
	if ikey == "" {
		return zero, false
	}

	c.mu.RLock()
	var box entryBox[V]
	var ok bool
	if c.store != nil {
		box, ok = c.store.lookup(ikey)
	}
	c.mu.RUnlock()

	if !ok {
		c.stats.Miss()
		if c.metrics != nil {
			c.metrics.recordMiss()
		}
		return zero, false
	}

	c.stats.Hit()
	if c.metrics != nil {
		c.metrics.recordHit()
	}
	return box.unwrap(), true
}

// Contains reports whether key is currently cached. No statistics move.
func (c *ComputeCache[K, V]) Contains(key K) bool {
	ikey := c.mapKey(key)
	if ikey == "" {
		return false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.store == nil {
		return false
	}
	_, ok := c.store.lookup(ikey)
	return ok
}

// Set stores a value for key, creating the backing store on first write.
// Returns true if a new entry was created, false if an existing entry was
// overwritten. Only the set counter moves; hits, misses, deletes, and clears
// are untouched by Set.
func (c *ComputeCache[K, V]) Set(key K, value V) (bool, error) {
	ikey := c.mapKey(key)
	if ikey == "" {
		return false, errNotCacheable("Set")
	}

	box, err := c.boxValue("Set", value)
	if err != nil {
		return false, err
	}

	c.mu.Lock()
	if c.store == nil {
		c.store = newStore[V]()
	}
	isNew := c.store.insert(ikey, box)
	evicted := c.enforceCapacityLocked()
	size := c.store.size()
	c.mu.Unlock()

	c.stats.Set()
	c.stats.UpdateSize(int64(size))
	if c.metrics != nil {
		c.metrics.recordSet()
		c.metrics.updateSize(size)
	}
	c.finishEvictions(evicted)

	return isNew, nil
}

// Delete removes the entry for key. Returns true if the key was present; the
// removal counter moves exactly once in that case and not at all otherwise.
func (c *ComputeCache[K, V]) Delete(key K) (bool, error) {
	ikey := c.mapKey(key)
	if ikey == "" {
		return false, errNotCacheable("Delete")
	}

	c.mu.Lock()
	if c.store == nil {
		c.mu.Unlock()
		return false, nil
	}
	box, existed := c.store.remove(ikey)
	size := c.store.size()
	c.mu.Unlock()

	if !existed {
		return false, nil
	}

	c.stats.Delete()
	c.stats.UpdateSize(int64(size))
	if c.metrics != nil {
		c.metrics.recordDelete()
		c.metrics.updateSize(size)
	}
	if c.evictFn != nil {
		c.evictFn(ikey, box.unwrap())
	}

	return true, nil
}

// Clear removes all entries. Returns true if the cache held any entries; the
// clear counter moves exactly once in that case. Clearing an absent or empty
// store returns false and records nothing.
func (c *ComputeCache[K, V]) Clear() bool {
	c.mu.Lock()
	if c.store == nil || c.store.size() == 0 {
		c.mu.Unlock()
		return false
	}
	drained := c.store.drain()
	c.mu.Unlock()

	c.stats.Clear()
	c.stats.UpdateSize(0)
	if c.metrics != nil {
		c.metrics.recordClear()
		c.metrics.updateSize(0)
	}
	if c.evictFn != nil {
		for _, entry := range drained {
			c.evictFn(entry.key, entry.box.unwrap())
		}
	}

	return true
}

// Size returns the current number of entries, zero before the first write.
func (c *ComputeCache[K, V]) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.store == nil {
		return 0
	}
	return c.store.size()
}

// IsEmpty reports whether the cache holds no entries.
func (c *ComputeCache[K, V]) IsEmpty() bool {
	return c.Size() == 0
}

// Keys returns all internal keys in LRU order (most recently used first).
func (c *ComputeCache[K, V]) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.store == nil {
		return nil
	}
	return c.store.keys()
}

// Stats returns the cache's statistics tracker. Never nil.
func (c *ComputeCache[K, V]) Stats() *Statistics {
	return c.stats
}

// Close shuts down the cache. The compute-cache has no background goroutines,
// so this is a no-op kept for interface symmetry with other kit caches.
func (c *ComputeCache[K, V]) Close() error {
	return nil
}
