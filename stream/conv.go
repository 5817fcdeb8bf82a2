package stream

import (
	"github.com/kabu1204/go-monad/types"
)

type anyIterator[T any] struct {
	it types.Iterator[T]
}

func (a anyIterator[T]) Next() (any, bool) { return a.it.Next() }
func (a anyIterator[T]) Len() int          { return a.it.Len() }

// Of streams elems. The stream can be terminated any number of times.
func Of[T any](elems ...T) Stream[T] {
	return newSource(func() types.Iterator[T] { return types.SliceIterator(elems) }, "Of")
}

// FromIterator streams it. Since it is consumed, only the first terminal
// operation sees its elements.
func FromIterator[T any](it types.Iterator[T]) Stream[T] {
	return newSource(func() types.Iterator[T] { return it }, "FromIterator")
}

func newSource[T any](open func() types.Iterator[T], name string) Stream[T] {
	return Stream[T]{s: &stage{
		source:  func() iterator { return anyIterator[T]{it: open()} },
		prev:    nil,
		wrapper: defaultWrapper,
		Name:    name,
	}}
}

// cast maps a nil element back to T's zero value.
func cast[T any](e any) T {
	v, _ := e.(T)
	return v
}
