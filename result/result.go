// Package result provides Result, a value that is either a Success carrying
// a T or a Failure carrying an E.
//
// Bind short-circuits within a single chain: the first Failure is carried to
// the end and no later function runs. To keep the outcome of independent
// inputs apart, build one Result per input (see MapEach) instead of threading
// one Result through all of them.
package result

import (
	"errors"
	"fmt"
)

// ErrWrongVariant is returned when the value of the inactive variant is
// requested.
var ErrWrongVariant = errors.New("result: access to inactive variant")

type Result[E, T any] struct {
	err   E
	value T
	ok    bool
}

func Success[E, T any](v T) Result[E, T] { return Result[E, T]{value: v, ok: true} }

func Failure[E, T any](e E) Result[E, T] { return Result[E, T]{err: e} }

// FromPair adapts a (value, error) return.
func FromPair[T any](v T, err error) Result[error, T] {
	if err != nil {
		return Failure[error, T](err)
	}
	return Success[error](v)
}

func (r Result[E, T]) IsSuccess() bool { return r.ok }
func (r Result[E, T]) IsFailure() bool { return !r.ok }

func (r Result[E, T]) SuccessValue() (T, error) {
	if !r.ok {
		var zero T
		return zero, fmt.Errorf("success value of failure: %w", ErrWrongVariant)
	}
	return r.value, nil
}

func (r Result[E, T]) FailureValue() (E, error) {
	if r.ok {
		var zero E
		return zero, fmt.Errorf("failure value of success: %w", ErrWrongVariant)
	}
	return r.err, nil
}

func (r Result[E, T]) String() string {
	if r.ok {
		return fmt.Sprintf("Success(%v)", r.value)
	}
	return fmt.Sprintf("Failure(%v)", r.err)
}

// Bind returns the Failure unchanged without calling f, or f(v) for Success(v).
func Bind[E, T, U any](r Result[E, T], f func(T) Result[E, U]) Result[E, U] {
	if !r.ok {
		return Failure[E, U](r.err)
	}
	return f(r.value)
}

func Map[E, T, U any](r Result[E, T], f func(T) U) Result[E, U] {
	if !r.ok {
		return Failure[E, U](r.err)
	}
	return Success[E](f(r.value))
}

func MapError[E, F, T any](r Result[E, T], f func(E) F) Result[F, T] {
	if r.ok {
		return Success[F](r.value)
	}
	return Failure[F, T](f(r.err))
}

func Fold[E, T, U any](r Result[E, T], onFailure func(E) U, onSuccess func(T) U) U {
	if r.ok {
		return onSuccess(r.value)
	}
	return onFailure(r.err)
}

// MapEach applies f to every input independently; a Failure for one input
// never affects the others.
func MapEach[A, E, T any](xs []A, f func(A) Result[E, T]) []Result[E, T] {
	out := make([]Result[E, T], 0, len(xs))
	for _, x := range xs {
		out = append(out, f(x))
	}
	return out
}

// Partition splits rs into success values and failure values, each in input
// order.
func Partition[E, T any](rs []Result[E, T]) ([]T, []E) {
	var values []T
	var errs []E
	for _, r := range rs {
		if r.ok {
			values = append(values, r.value)
		} else {
			errs = append(errs, r.err)
		}
	}
	return values, errs
}
