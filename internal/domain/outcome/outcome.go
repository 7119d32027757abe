// Package outcome carries collaborator lookups together with where the value came from.
package outcome

// Source labels the provenance of a looked-up value.
type Source string

const (
	Live     Source = "live"
	Cached   Source = "cache"
	Fallback Source = "fallback"
)

// Result is a value that is always usable. When the upstream lookup failed the
// value holds a documented default and Source is Fallback.
type Result[T any] struct {
	Value  T
	Source Source
	Reason string
}

// FromLive wraps a value obtained from the upstream system.
func FromLive[T any](v T) Result[T] {
	return Result[T]{Value: v, Source: Live}
}

// FromCache wraps a value served from a cache of upstream data.
func FromCache[T any](v T) Result[T] {
	return Result[T]{Value: v, Source: Cached}
}

// FromFallback wraps a default used in place of upstream data.
func FromFallback[T any](v T, reason string) Result[T] {
	return Result[T]{Value: v, Source: Fallback, Reason: reason}
}

// Degraded reports whether the value is a fallback.
func (r Result[T]) Degraded() bool {
	return r.Source == Fallback || r.Source == ""
}
