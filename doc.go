// Package streamkit is the shared library layer extracted from the SemStreams
// platform: generic, infrastructure-level building blocks with no streaming,
// messaging, or domain assumptions baked in.
//
// # What belongs here
//
// StreamKit packages are pure in-process library code:
//
//   - pkg/cache: generic, thread-safe compute-cache with LRU and soft-watermark
//     eviction, lazy value materialization, and at-most-once computation
//   - pkg/retry: exponential backoff retry with jitter
//   - errors: classified error handling (transient / invalid / fatal)
//   - metric: Prometheus metrics registry and HTTP exposition
//
// StreamKit MUST NOT contain:
//
//   - Network protocols or messaging clients (NATS, WebSocket, HTTP inputs)
//   - Persistence or storage backends
//   - Domain-specific logic of any kind
//
// Anything with a wire format or a broker connection belongs in the platform
// modules that consume this kit, not here.
//
// # Conventions
//
// All packages follow the same discipline:
//
//   - Errors are classified via streamkit/errors and wrapped with
//     "component.method: action failed" context
//   - Observability is not optional: statistics are always collected, and
//     Prometheus export is a functional option away
//   - Logging uses log/slog; packages accept a *slog.Logger rather than
//     creating their own
//   - Blocking operations take a context.Context
package streamkit
