package metric

import (
	"fmt"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/streamkit/errors"
)

func TestNewMetricsRegistry(t *testing.T) {
	registry := NewMetricsRegistry()

	assert.NotNil(t, registry)
	assert.NotNil(t, registry.PrometheusRegistry())
}

func gatheredNames(t *testing.T, registry *MetricsRegistry) map[string]bool {
	t.Helper()

	metricFamilies, err := registry.PrometheusRegistry().Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(metricFamilies))
	for _, mf := range metricFamilies {
		names[mf.GetName()] = true
	}
	return names
}

func TestMetricsRegistry_RegisterCounter(t *testing.T) {
	registry := NewMetricsRegistry()

	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "test_counter",
		Help: "A test counter",
	})

	err := registry.RegisterCounter("test-component", "test_counter", counter)
	require.NoError(t, err)

	counter.Inc()

	assert.True(t, gatheredNames(t, registry)["test_counter"],
		"Counter should be registered in Prometheus registry")
}

func TestMetricsRegistry_RegisterGauge(t *testing.T) {
	registry := NewMetricsRegistry()

	gauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "test_gauge",
		Help: "A test gauge",
	})

	err := registry.RegisterGauge("test-component", "test_gauge", gauge)
	require.NoError(t, err)

	gauge.Set(42.0)

	assert.True(t, gatheredNames(t, registry)["test_gauge"],
		"Gauge should be registered in Prometheus registry")
}

func TestMetricsRegistry_RegisterHistogram(t *testing.T) {
	registry := NewMetricsRegistry()

	histogram := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "test_histogram",
		Help:    "A test histogram",
		Buckets: prometheus.DefBuckets,
	})

	err := registry.RegisterHistogram("test-component", "test_histogram", histogram)
	require.NoError(t, err)

	histogram.Observe(0.5)

	assert.True(t, gatheredNames(t, registry)["test_histogram"],
		"Histogram should be registered in Prometheus registry")
}

func TestMetricsRegistry_DuplicateRegistration(t *testing.T) {
	registry := NewMetricsRegistry()

	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dup_counter",
		Help: "A counter registered twice",
	})

	require.NoError(t, registry.RegisterCounter("comp", "dup_counter", counter))

	err := registry.RegisterCounter("comp", "dup_counter", counter)
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err), "duplicate registration should classify as invalid")
}

func TestMetricsRegistry_PrometheusConflict(t *testing.T) {
	registry := NewMetricsRegistry()

	first := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "conflict_counter",
		Help: "collides at the prometheus level",
	})
	second := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "conflict_counter",
		Help: "collides at the prometheus level",
	})

	require.NoError(t, registry.RegisterCounter("comp-a", "counter", first))

	// Different registry key, same prometheus identity
	err := registry.RegisterCounter("comp-b", "counter", second)
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
}

func TestMetricsRegistry_Unregister(t *testing.T) {
	registry := NewMetricsRegistry()

	gauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "removable_gauge",
		Help: "A gauge to unregister",
	})

	require.NoError(t, registry.RegisterGauge("comp", "removable_gauge", gauge))

	assert.True(t, registry.Unregister("comp", "removable_gauge"))
	assert.False(t, registry.Unregister("comp", "removable_gauge"),
		"second unregister should report missing metric")

	// Name is free for reuse after unregistering
	replacement := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "removable_gauge",
		Help: "A gauge to unregister",
	})
	assert.NoError(t, registry.RegisterGauge("comp", "removable_gauge", replacement))
}

func TestMetricsRegistry_ConcurrentRegistration(t *testing.T) {
	registry := NewMetricsRegistry()

	const workers = 16
	var wg sync.WaitGroup
	wg.Add(workers)

	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		go func(id int) {
			defer wg.Done()
			counter := prometheus.NewCounter(prometheus.CounterOpts{
				Name: fmt.Sprintf("concurrent_counter_%d", id),
				Help: "registered concurrently",
			})
			errs[id] = registry.RegisterCounter("comp", fmt.Sprintf("counter_%d", id), counter)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "registration %d failed", i)
	}
}
