package service

// Result is the outcome of a lookup: either a value, or the reason nothing
// matched. Not-found is an expected outcome, not an error; callers decide how
// to present Reason.
type Result[T any] struct {
	Value  T
	Reason string
	found  bool
}

// Found wraps a value.
func Found[T any](v T) Result[T] {
	return Result[T]{Value: v, found: true}
}

// NotFound records why no value was produced.
func NotFound[T any](reason string) Result[T] {
	return Result[T]{Reason: reason}
}

// Found reports whether the result holds a value.
func (r Result[T]) Found() bool { return r.found }
