package cache

import (
	"context"
	stderrors "errors"
	"fmt"
	"reflect"

	"github.com/c360/streamkit/errors"
)

// componentName is used for classified error wrapping across the package.
const componentName = "ComputeCache"

// Sentinel errors surfaced by cache operations.
var (
	// ErrNilValue is returned when a provider or Set supplies a nil value
	// and the cache was not configured with AllowNilValues.
	ErrNilValue = stderrors.New("nil value not allowed")

	// ErrNoProvider is returned by Get on a miss when the cache has no
	// configured value provider and none was supplied per-call.
	ErrNoProvider = stderrors.New("no value provider configured")
)

// Provider computes the value for a key on a cache miss. It may be expensive
// or fallible; its error propagates to the caller of Get and nothing is
// inserted for the key, so a subsequent Get retries.
//
// A provider must not call back into the cache it serves: by default it runs
// while the cache's write lock is held and a reentrant call deadlocks. It must
// not return nil unless the cache allows nil values.
type Provider[K any, V any] func(ctx context.Context, key K) (V, error)

// KeyMapper maps a caller-visible key to the internal storage key. It must be
// a pure function. Returning the empty string marks the key as not cacheable:
// Get computes such keys without touching the store, Set and Delete reject
// them.
type KeyMapper[K any] func(key K) string

// EvictCallback is called when an entry leaves the cache through eviction,
// deletion, or clearing. It receives the internal key and the stored value
// (the zero value for a cached nil). Callbacks run outside the cache lock.
type EvictCallback[V any] func(key string, value V)

// entryBox wraps a stored value together with a nil marker, so the store can
// distinguish "present but nil" from "absent". Map presence itself encodes
// absence; the box only disambiguates the nil case.
type entryBox[V any] struct {
	value V
	isNil bool
}

// unwrap returns the stored value; a boxed nil yields the zero value.
func (b entryBox[V]) unwrap() V {
	if b.isNil {
		var zero V
		return zero
	}
	return b.value
}

// defaultKeyMapper returns the built-in mapper for key types the package can
// convert to a storage key on its own: string keys and fmt.Stringer
// implementations. Any other key type requires an explicit KeyMapper.
func defaultKeyMapper[K any]() (KeyMapper[K], bool) {
	var zero K
	if _, ok := any(zero).(string); ok {
		return func(k K) string { return any(k).(string) }, true
	}
	if _, ok := any(zero).(fmt.Stringer); ok {
		return func(k K) string { return any(k).(fmt.Stringer).String() }, true
	}
	return nil, false
}

// isNilValue reports whether v is nil in any of the ways a Go value can be:
// a nil interface, or a nil pointer/map/slice/chan/func behind one.
func isNilValue(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

// errNotCacheable builds the classified error for keys the mapper rejected.
func errNotCacheable(op string) error {
	return errors.WrapInvalid(errors.ErrInvalidData, componentName, op, "key maps to empty storage key")
}
