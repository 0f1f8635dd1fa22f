// Package errors provides standardized error handling patterns for StreamKit packages.
//
// # Overview
//
// The errors package implements a three-class error classification system:
// Transient (temporary, retryable), Invalid (bad input, non-retryable), and
// Fatal (unrecoverable, stop processing).
//
// This classification enables intelligent error handling strategies throughout
// StreamKit, allowing callers to make informed decisions about retries, graceful
// degradation, and failure recovery without hardcoded error string matching.
//
// # Error Classification
//
// Errors are automatically classified based on their type or content:
//
//   - Transient: timeouts, temporary unavailability, cancellation (retry recommended)
//   - Invalid: malformed input, validation failures, bad configuration (do not retry)
//   - Fatal: resource exhaustion, unrecoverable states (stop processing)
//
// The classification system integrates with Go's standard error handling,
// supporting errors.Is(), errors.As(), and error wrapping chains.
//
// # Quick Start
//
// Use standard error variables for known conditions:
//
//	if cfg.Name == "" {
//	    return errors.ErrMissingConfig
//	}
//
// Wrap errors with context for debugging:
//
//	if err := provider(ctx, key); err != nil {
//	    return errors.Wrap(err, "ComputeCache", "Get", "value provider")
//	}
//
// Check classification for retry logic:
//
//	if err := operation(); err != nil {
//	    if errors.IsTransient(err) {
//	        config := errors.DefaultRetryConfig()
//	        if config.ShouldRetry(err, attempt) {
//	            time.Sleep(config.BackoffDelay(attempt))
//	            // retry operation
//	        }
//	    } else if errors.IsFatal(err) {
//	        log.Fatalf("Unrecoverable error: %v", err)
//	    }
//	}
//
// # Error Wrapping Pattern
//
// All error wrapping follows the standardized format:
//
//	"component.method: action failed: %w"
//
// This format enables consistent log parsing, debugging, and operational
// monitoring across every module that consumes the kit. The Wrap family of
// functions applies this pattern while preserving error classification
// through the chain.
//
// Three wrapper functions provide classification-aware wrapping:
//
//	errors.WrapTransient(err, "Component", "Method", "action")  // For retryable errors
//	errors.WrapInvalid(err, "Component", "Method", "action")    // For validation errors
//	errors.WrapFatal(err, "Component", "Method", "action")      // For unrecoverable errors
//
// The generic Wrap() function adds context without assigning a class:
//
//	errors.Wrap(err, "Component", "Method", "action")
//
// # Retry Integration
//
// RetryConfig bridges error classification into pkg/retry:
//
//	cfg := errors.DefaultRetryConfig()
//	err := retry.Do(ctx, cfg.ToRetryConfig(), func() error {
//	    return connectToResource()
//	})
//
// ShouldRetry() combines attempt counting with transience checks so callers
// never retry an Invalid or Fatal error.
//
// # Thread Safety
//
// All functions in this package are safe for concurrent use. ClassifiedError
// values are immutable after creation.
package errors
