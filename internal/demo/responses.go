package demo

import (
	"github.com/kabu1204/go-monad/result"
	"github.com/kabu1204/go-monad/stream"
)

const ErrEmptyArray = "Error: Empty array."

func LastElement(xs []int) int { return xs[len(xs)-1] }

// Either guards f against an empty input.
func Either(f func([]int) int, xs []int) result.Result[string, int] {
	if len(xs) == 0 {
		return result.Failure[string, int](ErrEmptyArray)
	}
	return result.Success[string](f(xs))
}

// LastElements maps every response on its own, so one empty response does
// not hide the others.
func LastElements(responses [][]int) []result.Result[string, int] {
	return stream.Map(stream.Of(responses...), func(xs []int) result.Result[string, int] {
		return Either(LastElement, xs)
	}).ToSlice()
}
