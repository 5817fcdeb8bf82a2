package stream

import (
	"sync"
	"sync/atomic"

	"github.com/kabu1204/go-monad/optional"
	"github.com/kabu1204/go-monad/types"
)

func (s Stream[T]) ForEach(f types.Consumer[T]) {
	s.s.forEach(func(e any) { f(cast[T](e)) })
}

func (s Stream[T]) ToSlice() []T {
	var mu sync.Mutex
	var slice []T
	wrapper := func(next *stage) []Option {
		settler := func(sz int64) {
			slice = make([]T, 0, max(sz, 0))
		}
		consumer := func(e any) {
			mu.Lock()
			slice = append(slice, cast[T](e))
			mu.Unlock()
		}
		return append(defaultWrapper(next), wrapConsumer(consumer), wrapSettler(settler))
	}
	newStage(s.s, wrapper, "ToSlice").terminate()
	return slice
}

func (s Stream[T]) AnyMatch(p types.Predicate[T]) bool {
	var flag atomic.Bool
	s.s.until("AnyMatch", func(e any) bool {
		if p(cast[T](e)) {
			flag.Store(true)
		}
		return flag.Load()
	})
	return flag.Load()
}

func (s Stream[T]) AllMatch(p types.Predicate[T]) bool {
	return !s.AnyMatch(func(e T) bool { return !p(e) })
}

func (s Stream[T]) NoneMatch(p types.Predicate[T]) bool {
	return !s.AnyMatch(p)
}

// Reduce folds the elements with accumulator, returning None for an empty
// stream. After Parallel the accumulator must be associative and commutative.
func (s Stream[T]) Reduce(accumulator types.BinaryOperator[T]) optional.Optional[T] {
	var mu sync.Mutex
	var result T
	none := true
	s.s.forEach(func(e any) {
		mu.Lock()
		defer mu.Unlock()
		if none {
			result = cast[T](e)
			none = false
		} else {
			result = accumulator(result, cast[T](e))
		}
	})
	if none {
		return optional.None[T]()
	}
	return optional.Some(result)
}

// Fold is Reduce with an initial value of a possibly different type.
func Fold[T, R any](s Stream[T], initValue R, accumulator func(R, T) R) R {
	var mu sync.Mutex
	result := initValue
	s.s.forEach(func(e any) {
		mu.Lock()
		result = accumulator(result, cast[T](e))
		mu.Unlock()
	})
	return result
}

func (s Stream[T]) FindFirst() optional.Optional[T] {
	return s.FindFirstMatch(func(T) bool { return true })
}

func (s Stream[T]) FindFirstMatch(p types.Predicate[T]) optional.Optional[T] {
	var mu sync.Mutex
	var result optional.Optional[T]
	s.s.until("FindFirstMatch", func(e any) bool {
		v := cast[T](e)
		if !p(v) {
			return false
		}
		mu.Lock()
		defer mu.Unlock()
		if result.IsEmpty() {
			result = optional.Some(v)
		}
		return true
	})
	return result
}

func (s Stream[T]) Count() int64 {
	var cnt atomic.Int64
	s.s.forEach(func(any) { cnt.Add(1) })
	return cnt.Load()
}
