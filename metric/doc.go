// Package metric provides Prometheus metrics registration and HTTP exposition
// for StreamKit consumers.
//
// # Overview
//
// The package wraps a dedicated prometheus.Registry with per-component
// bookkeeping so that every metric is registered exactly once under a
// "component.metric" key. Go runtime and process collectors are registered
// automatically.
//
// # Usage
//
// Create a registry and hand it to instrumented components:
//
//	registry := metric.NewMetricsRegistry()
//
//	cache, err := cache.New[string, Snapshot](cfg, provider,
//	    cache.WithMetrics[string, Snapshot](registry, "snapshot_cache"))
//
// Expose the metrics over HTTP:
//
//	server := metric.NewServer(9090, "/metrics", registry, logger)
//	go server.Start()
//	defer server.Stop()
//
// # Registration Rules
//
// Duplicate registrations are rejected with a classified Invalid error, both
// when the same component/metric pair is reused and when the underlying
// Prometheus registry reports a collision. Unregister removes a metric and
// frees its name for reuse.
//
// Components should register metrics at construction time and treat a
// registration failure as a construction failure, not a runtime condition.
//
// # Scraping
//
// The HTTP server serves OpenMetrics-capable output at the configured path
// (default /metrics, port 9090) plus a trivial /health endpoint:
//
//	scrape_configs:
//	  - job_name: 'streamkit'
//	    static_configs:
//	      - targets: ['localhost:9090']
//
// # Thread Safety
//
// MetricsRegistry and Server are safe for concurrent use.
package metric
