package report

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedResult is reported when a query succeeds but its rows cannot
	// be interpreted.
	ErrMalformedResult = errors.New("malformed query result")
	// ErrNotComputed marks metrics that have no backing query.
	ErrNotComputed = errors.New("metric has no backing query")
)

// Metric is the tagged outcome of one metric computation: either the live
// value, or a fallback value together with the cause of the failure.
type Metric[T any] struct {
	Value    T
	Degraded bool
	Cause    error
}

// Ok wraps a successfully computed value.
func Ok[T any](v T) Metric[T] {
	return Metric[T]{Value: v}
}

// Fallback wraps a substituted value and the failure that caused it.
func Fallback[T any](v T, cause error) Metric[T] {
	return Metric[T]{Value: v, Degraded: true, Cause: cause}
}

// attempt runs fn and converts both returned errors and panics into a
// fallback, so a failing metric never escapes its own computation.
func attempt[T any](fn func() (T, error), fallback func() T) (m Metric[T]) {
	defer func() {
		if r := recover(); r != nil {
			m = Fallback(fallback(), fmt.Errorf("metric panicked: %v", r))
		}
	}()

	v, err := fn()
	if err != nil {
		return Fallback(fallback(), err)
	}
	return Ok(v)
}
