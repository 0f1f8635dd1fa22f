package cache

import (
	"encoding/json"
	"fmt"

	"github.com/c360/streamkit/errors"
)

// DefaultSoftLimit is the high-watermark applied to unbounded caches
// (Capacity <= 0). Entries past the watermark are evicted in LRU order.
// This replaces the soft-reference eviction of GC-integrated caches, which
// has no portable equivalent: an unbounded cache here is "unbounded up to a
// generous cap", never "grows without limit".
const DefaultSoftLimit = 65536

// Config contains configuration for cache creation.
type Config struct {
	// Name identifies the cache in diagnostics and statistics. Required.
	Name string `json:"name" schema:"editable,type:string,description:Cache identifier for diagnostics"`

	// Capacity is the maximum number of entries. A value <= 0 means
	// unbounded, in which case SoftLimit applies instead.
	Capacity int `json:"capacity" schema:"editable,type:int,description:Maximum number of entries (<=0 for unbounded)"`

	// SoftLimit overrides DefaultSoftLimit for unbounded caches. Ignored
	// when Capacity > 0.
	SoftLimit int `json:"soft_limit" schema:"editable,type:int,description:High-watermark for unbounded caches,min:1"`

	// AllowNilValues permits providers and Set to store nil values. When
	// false (the default), a nil value is a configuration error.
	AllowNilValues bool `json:"allow_nil_values" schema:"editable,type:bool,description:Permit caching nil values"`
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.Name == "" {
		return errors.WrapInvalid(errors.ErrMissingConfig, "cache", "Validate",
			"name must not be empty")
	}
	if c.SoftLimit < 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "cache", "Validate",
			fmt.Sprintf("soft_limit must not be negative, got %d", c.SoftLimit))
	}
	return nil
}

// effectiveCapacity resolves the entry bound and whether it is a soft
// watermark rather than a configured hard capacity.
func (c Config) effectiveCapacity() (capacity int, soft bool) {
	if c.Capacity > 0 {
		return c.Capacity, false
	}
	if c.SoftLimit > 0 {
		return c.SoftLimit, true
	}
	return DefaultSoftLimit, true
}

// New creates a compute-cache from the provided configuration. The provider
// may be nil for caches populated exclusively through Set; such caches return
// ErrNoProvider from Get on a miss unless a per-call provider is supplied via
// GetOrCompute.
//
// Key types other than string and fmt.Stringer require WithKeyMapper.
func New[K any, V any](cfg Config, provider Provider[K, V], options ...Option[K, V]) (*ComputeCache[K, V], error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.WrapInvalid(err, "cache", "New", "config validation")
	}

	opts := applyOptions(options...)

	mapper := opts.keyMapper
	if mapper == nil {
		builtin, ok := defaultKeyMapper[K]()
		if !ok {
			return nil, errors.WrapInvalid(errors.ErrMissingConfig, "cache", "New",
				fmt.Sprintf("key type %T needs an explicit key mapper", *new(K)))
		}
		mapper = builtin
	}

	var metrics *cacheMetrics
	if opts.metricsReg != nil && opts.metricsPrefix != "" {
		var err error
		metrics, err = newCacheMetrics(opts.metricsReg, opts.metricsPrefix)
		if err != nil {
			return nil, errors.WrapTransient(err, "cache", "New", "metrics registration")
		}
	}

	capacity, soft := cfg.effectiveCapacity()

	c := &ComputeCache[K, V]{
		name:     cfg.Name,
		capacity: capacity,
		soft:     soft,
		allowNil: cfg.AllowNilValues,
		mapKey:   mapper,
		provider: provider,
		stats:    NewStatistics(),
		metrics:  metrics,
		evictFn:  opts.evictCallback,
		logger:   opts.logger,
	}
	if opts.perKeyCompute {
		c.flight = new(flightGroup)
	}
	return c, nil
}

// NewFromConfig builds a cache from a raw JSON configuration block, the form
// in which platform components receive their config.
func NewFromConfig[K any, V any](raw json.RawMessage, provider Provider[K, V], options ...Option[K, V]) (*ComputeCache[K, V], error) {
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, errors.WrapInvalid(err, "cache", "NewFromConfig", "config parsing")
	}
	return New(cfg, provider, options...)
}
