package cache

import (
	"log/slog"

	"github.com/c360/streamkit/metric"
)

// Option configures cache behavior using the functional options pattern.
type Option[K any, V any] func(*cacheOptions[K, V])

// cacheOptions holds internal configuration for cache instances.
// Stats are ALWAYS collected - they are not optional.
// Metrics are optional and exposed via WithMetrics().
type cacheOptions[K any, V any] struct {
	// metricsReg is optional - if provided, cache stats are also exposed as Prometheus metrics
	metricsReg *metric.MetricsRegistry

	// metricsPrefix is used as the component label for Prometheus metrics
	metricsPrefix string

	// evictCallback is called when items leave the cache
	evictCallback EvictCallback[V]

	// keyMapper overrides the built-in external-to-internal key mapping
	keyMapper KeyMapper[K]

	// logger receives nil-policy warnings and soft-eviction debug events
	logger *slog.Logger

	// perKeyCompute routes misses through a per-key singleflight group so a
	// slow provider only blocks callers of the same key
	perKeyCompute bool
}

// WithMetrics enables Prometheus metrics export for cache statistics.
// If registry is nil or prefix is empty, this option is ignored.
func WithMetrics[K any, V any](registry *metric.MetricsRegistry, prefix string) Option[K, V] {
	return func(opts *cacheOptions[K, V]) {
		if registry != nil && prefix != "" {
			opts.metricsReg = registry
			opts.metricsPrefix = prefix
		}
	}
}

// WithEvictionCallback sets a callback function that is called when items
// leave the cache through eviction, deletion, or clearing. The callback runs
// outside the cache lock.
func WithEvictionCallback[K any, V any](callback EvictCallback[V]) Option[K, V] {
	return func(opts *cacheOptions[K, V]) {
		opts.evictCallback = callback
	}
}

// WithKeyMapper sets the external-to-internal key mapping. Required for key
// types other than string and fmt.Stringer.
func WithKeyMapper[K any, V any](mapper KeyMapper[K]) Option[K, V] {
	return func(opts *cacheOptions[K, V]) {
		if mapper != nil {
			opts.keyMapper = mapper
		}
	}
}

// WithLogger sets the logger for nil-policy violations and eviction events.
// If logger is nil, the cache stays silent.
func WithLogger[K any, V any](logger *slog.Logger) Option[K, V] {
	return func(opts *cacheOptions[K, V]) {
		opts.logger = logger
	}
}

// WithPerKeyCompute switches the miss path from compute-under-write-lock to a
// per-key singleflight group. The at-most-once guarantee is preserved, but a
// slow provider no longer blocks readers and writers of other keys. The
// provider reentrancy contract is unchanged.
func WithPerKeyCompute[K any, V any]() Option[K, V] {
	return func(opts *cacheOptions[K, V]) {
		opts.perKeyCompute = true
	}
}

// applyOptions applies functional options to create final cache configuration.
func applyOptions[K any, V any](options ...Option[K, V]) *cacheOptions[K, V] {
	opts := &cacheOptions[K, V]{}

	for _, opt := range options {
		if opt != nil {
			opt(opts)
		}
	}

	return opts
}
