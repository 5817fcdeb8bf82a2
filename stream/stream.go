// Package stream is a lazy element pipeline. Intermediate operations only
// describe stages; nothing runs until a terminal operation is called.
//
// Stages after Parallel receive elements concurrently. Sorted is a barrier:
// everything after it sees elements one at a time, in order.
package stream

import (
	"github.com/kabu1204/go-monad/types"
)

type Stream[T any] struct {
	s *stage
}

// stateless (nothing to do with elements order)

func (s Stream[T]) Filter(p types.Predicate[T]) Stream[T] {
	return Stream[T]{s: s.s.filter(func(e any) bool { return p(cast[T](e)) })}
}

func (s Stream[T]) Peek(f types.Consumer[T]) Stream[T] {
	return Stream[T]{s: s.s.peek(func(e any) { f(cast[T](e)) })}
}

// Parallel hands elements to n workers.
func (s Stream[T]) Parallel(n int) Stream[T] {
	return Stream[T]{s: s.s.parallel(n)}
}

func Map[T, R any](s Stream[T], f types.Function[T, R]) Stream[R] {
	return Stream[R]{s: s.s.mapTo(func(e any) any { return f(cast[T](e)) })}
}

func FlatMap[T, R any](s Stream[T], f func(T) Stream[R]) Stream[R] {
	return Stream[R]{s: s.s.flatMap(func(e any) *stage { return f(cast[T](e)).s })}
}

// stateful

// Distinct drops elements whose hash was already seen, so with Parallel
// upstream the survivor among duplicates is whichever arrives first.
func (s Stream[T]) Distinct(hash types.IntFunction[T]) Stream[T] {
	return Stream[T]{s: s.s.distinct(func(e any) int { return hash(cast[T](e)) })}
}

// Sorted is stable for sequential input.
func (s Stream[T]) Sorted(cmp types.Comparator[T]) Stream[T] {
	return Stream[T]{s: s.s.sorted(func(a, b any) int { return cmp(cast[T](a), cast[T](b)) })}
}

// Limit keeps the first n elements.
func (s Stream[T]) Limit(n int64) Stream[T] {
	return Stream[T]{s: s.s.limit(n)}
}

// Skip drops the first n elements.
func (s Stream[T]) Skip(n int64) Stream[T] {
	return Stream[T]{s: s.s.skip(n)}
}
