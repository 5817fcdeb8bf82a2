// Package deferred provides Deferred, a value that becomes available after
// asynchronous completion.
//
// A Deferred starts pending and settles exactly once, to fulfilled with a
// value or to rejected with an error. Continuations registered with Bind,
// Map, Recover or Subscribe run once each, in registration order, on the
// Deferred's Loop, whether they were registered before or after settlement.
//
// Rejections are forwarded, never raised. A rejection nobody consumes is
// simply never reported. There is no cancellation; a timeout is layered on
// top with Race or Timeout.
package deferred

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/emirpasic/gods/lists/singlylinkedlist"
)

var (
	// ErrNilRejection replaces a nil error passed to reject.
	ErrNilRejection = errors.New("deferred: rejected with nil error")
	// ErrNilDeferred rejects the output of Bind or Recover when the bound
	// function returns nil.
	ErrNilDeferred = errors.New("deferred: bound function returned nil")
	ErrTimeout     = errors.New("deferred: timed out")
)

type State int32

const (
	StatePending State = iota
	StateFulfilled
	StateRejected
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "Pending"
	case StateFulfilled:
		return "Fulfilled"
	case StateRejected:
		return "Rejected"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

type Deferred[T any] struct {
	loop *Loop

	mu       sync.Mutex
	state    State
	value    T
	err      error
	handlers *singlylinkedlist.List
	done     chan struct{}
}

func newDeferred[T any](loop *Loop) *Deferred[T] {
	return &Deferred[T]{
		loop:     loop,
		handlers: singlylinkedlist.New(),
		done:     make(chan struct{}),
	}
}

// New runs producer once, synchronously, handing it the only means to settle
// the returned Deferred. The producer may settle right away or pass the
// callbacks on to a timer, goroutine or I/O completion.
func New[T any](producer func(resolve func(T), reject func(error))) *Deferred[T] {
	return NewOn(Default(), producer)
}

// NewOn is New with continuations scheduled on loop.
func NewOn[T any](loop *Loop, producer func(resolve func(T), reject func(error))) *Deferred[T] {
	d := newDeferred[T](loop)
	producer(d.resolve, d.reject)
	return d
}

// WithResolvers returns a pending Deferred together with its settle
// callbacks. Only the first call among resolve and reject takes effect.
func WithResolvers[T any]() (*Deferred[T], func(T), func(error)) {
	d := newDeferred[T](Default())
	return d, d.resolve, d.reject
}

func Resolved[T any](v T) *Deferred[T] { return resolvedOn(Default(), v) }

func Rejected[T any](err error) *Deferred[T] { return rejectedOn[T](Default(), err) }

func resolvedOn[T any](loop *Loop, v T) *Deferred[T] {
	d := newDeferred[T](loop)
	d.resolve(v)
	return d
}

func rejectedOn[T any](loop *Loop, err error) *Deferred[T] {
	d := newDeferred[T](loop)
	d.reject(err)
	return d
}

func (d *Deferred[T]) resolve(v T) {
	d.settle(StateFulfilled, v, nil)
}

func (d *Deferred[T]) reject(err error) {
	if err == nil {
		err = ErrNilRejection
	}
	var zero T
	d.settle(StateRejected, zero, err)
}

func (d *Deferred[T]) settle(state State, v T, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != StatePending {
		return
	}
	d.state, d.value, d.err = state, v, err

	it := d.handlers.Iterator()
	for it.Next() {
		d.loop.Schedule(it.Value().(func()))
	}
	d.handlers.Clear()
	close(d.done)
}

// subscribe registers h to run on the loop once d is settled.
func (d *Deferred[T]) subscribe(h func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == StatePending {
		d.handlers.Add(h)
		return
	}
	d.loop.Schedule(h)
}

// forward settles d the same way src settled. src must be settled.
func (d *Deferred[T]) forward(src *Deferred[T]) {
	if src.state == StateRejected {
		d.reject(src.err)
		return
	}
	d.resolve(src.value)
}

func (d *Deferred[T]) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Done is closed once d settles.
func (d *Deferred[T]) Done() <-chan struct{} { return d.done }

// Await blocks until d settles or ctx is done.
func (d *Deferred[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-d.done:
		if d.state == StateRejected {
			var zero T
			return zero, d.err
		}
		return d.value, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Subscribe consumes the settled outcome. Either callback may be nil.
// Callbacks run on d's Loop and must not Await a Deferred that settles
// through the same Loop.
func (d *Deferred[T]) Subscribe(onFulfilled func(T), onRejected func(error)) {
	d.subscribe(func() {
		switch {
		case d.state == StateFulfilled && onFulfilled != nil:
			onFulfilled(d.value)
		case d.state == StateRejected && onRejected != nil:
			onRejected(d.err)
		}
	})
}

// Recover is the rejection-path counterpart of Bind: a rejection is handed to
// f and the output follows f's Deferred, while a fulfilment passes through
// without calling f.
func (d *Deferred[T]) Recover(f func(error) *Deferred[T]) *Deferred[T] {
	out := newDeferred[T](d.loop)
	d.subscribe(func() {
		if d.state == StateFulfilled {
			out.resolve(d.value)
			return
		}
		next := f(d.err)
		if next == nil {
			out.reject(ErrNilDeferred)
			return
		}
		next.subscribe(func() { out.forward(next) })
	})
	return out
}

// Bind returns a Deferred that follows f(v) once d fulfils with v. If d
// rejects, the output rejects with the same error and f is never called.
// f runs on d's Loop; awaiting a Deferred on that Loop from inside f blocks
// the Loop until that Await gives up.
func Bind[T, U any](d *Deferred[T], f func(T) *Deferred[U]) *Deferred[U] {
	out := newDeferred[U](d.loop)
	d.subscribe(func() {
		if d.state == StateRejected {
			out.reject(d.err)
			return
		}
		next := f(d.value)
		if next == nil {
			out.reject(ErrNilDeferred)
			return
		}
		next.subscribe(func() { out.forward(next) })
	})
	return out
}

func Map[T, U any](d *Deferred[T], f func(T) U) *Deferred[U] {
	return Bind(d, func(v T) *Deferred[U] { return resolvedOn(d.loop, f(v)) })
}

// After fulfils with v once dur has elapsed.
func After[T any](dur time.Duration, v T) *Deferred[T] {
	return New(func(resolve func(T), _ func(error)) {
		time.AfterFunc(dur, func() { resolve(v) })
	})
}

// Race settles like whichever input settles first. With no inputs it stays
// pending.
func Race[T any](ds ...*Deferred[T]) *Deferred[T] {
	out := newDeferred[T](loopOf(ds))
	for _, d := range ds {
		d := d
		d.subscribe(func() { out.forward(d) })
	}
	return out
}

// Timeout rejects with ErrTimeout unless d settles within dur.
func Timeout[T any](d *Deferred[T], dur time.Duration) *Deferred[T] {
	timer := NewOn(d.loop, func(_ func(T), reject func(error)) {
		time.AfterFunc(dur, func() { reject(ErrTimeout) })
	})
	return Race(d, timer)
}

// All fulfils with every value in input order, or rejects with the first
// rejection observed.
func All[T any](ds ...*Deferred[T]) *Deferred[[]T] {
	out := newDeferred[[]T](loopOf(ds))
	if len(ds) == 0 {
		out.resolve([]T{})
		return out
	}

	var mu sync.Mutex
	values := make([]T, len(ds))
	remaining := len(ds)
	for i, d := range ds {
		i, d := i, d
		d.subscribe(func() {
			if d.state == StateRejected {
				out.reject(d.err)
				return
			}
			mu.Lock()
			values[i] = d.value
			remaining--
			last := remaining == 0
			mu.Unlock()
			if last {
				out.resolve(values)
			}
		})
	}
	return out
}

func loopOf[T any](ds []*Deferred[T]) *Loop {
	if len(ds) == 0 {
		return Default()
	}
	return ds[0].loop
}
