package stream

import (
	"sync"
	"sync/atomic"

	"github.com/cornelk/hashmap"
	"github.com/emirpasic/gods/maps/treemap"
	"github.com/panjf2000/ants/v2"
)

// source <- Filter <- Map <- ... <- terminal
//
// Every stage holds a wrapper. Terminating a pipeline walks it back to the
// source, letting each wrapper install the closures that feed the next stage.

type Option func(*stage)
type wrapperType func(next *stage) []Option

type stage struct {
	source    func() iterator
	prev      *stage
	wrapper   wrapperType
	consumer  func(any)
	settler   func(capacity int64)
	cleaner   func()
	canceller func() bool
	Name      string
}

type iterator interface {
	Next() (any, bool)
	Len() int
}

func (s *stage) terminate() {
	head := s.setFunctor()
	it := s.source()
	head.settler(int64(it.Len()))
	for v, ok := it.Next(); ok && !head.canceller(); v, ok = it.Next() {
		head.consumeOne(v)
	}
	head.cleaner()
}

func (s *stage) consumeOne(e any) {
	s.consumer(e)
}

func (s *stage) unwrap(next *stage) {
	opts := s.wrapper(next)
	for _, o := range opts {
		o(s)
	}
}

func wrapConsumer(c func(any)) Option    { return func(s *stage) { s.consumer = c } }
func wrapSettler(c func(int64)) Option   { return func(s *stage) { s.settler = c } }
func wrapCleaner(c func()) Option        { return func(s *stage) { s.cleaner = c } }
func wrapCanceller(c func() bool) Option { return func(s *stage) { s.canceller = c } }

// setFunctor wires a private copy of the pipeline and returns its head. The
// stages a Stream holds are never mutated, so one Stream can be terminated
// concurrently.
func (s *stage) setFunctor() *stage {
	tail := s.instantiate()
	tail.unwrap(&stage{
		source:    tail.source,
		prev:      tail,
		consumer:  func(_ any) {},
		settler:   func(_ int64) {},
		cleaner:   func() {},
		canceller: func() bool { return false },
		Name:      "DummyTail",
	})
	p := tail
	for ; p.prev != nil; p = p.prev {
		p.prev.unwrap(p)
	}
	return p
}

// instantiate copies the chain ending at s.
func (s *stage) instantiate() *stage {
	tail := &stage{source: s.source, prev: s.prev, wrapper: s.wrapper, Name: s.Name}
	for p := tail; p.prev != nil; p = p.prev {
		prev := p.prev
		p.prev = &stage{source: prev.source, prev: prev.prev, wrapper: prev.wrapper, Name: prev.Name}
	}
	return tail
}

func newStage(prev *stage, wrapper wrapperType, name string) *stage {
	return &stage{
		source:  prev.source,
		prev:    prev,
		wrapper: wrapper,
		Name:    name,
	}
}

// stateless

func (s *stage) filter(p func(any) bool) *stage {
	wrapper := func(next *stage) []Option {
		consumer := func(e any) {
			if p(e) {
				next.consumeOne(e)
			}
		}
		return append(defaultWrapper(next), wrapConsumer(consumer))
	}
	return newStage(s, wrapper, "Filter")
}

func (s *stage) mapTo(f func(any) any) *stage {
	wrapper := func(next *stage) []Option {
		consumer := func(e any) {
			next.consumeOne(f(e))
		}
		return append(defaultWrapper(next), wrapConsumer(consumer))
	}
	return newStage(s, wrapper, "Map")
}

func (s *stage) flatMap(f func(any) *stage) *stage {
	wrapper := func(next *stage) []Option {
		consumer := func(e any) {
			f(e).forEach(next.consumeOne)
		}
		return append(defaultWrapper(next), wrapConsumer(consumer))
	}
	return newStage(s, wrapper, "FlatMap")
}

func (s *stage) peek(f func(any)) *stage {
	wrapper := func(next *stage) []Option {
		consumer := func(e any) {
			f(e)
			next.consumeOne(e)
		}
		return append(defaultWrapper(next), wrapConsumer(consumer))
	}
	return newStage(s, wrapper, "Peek")
}

func (s *stage) parallel(n int) *stage {
	wrapper := func(next *stage) []Option {
		var wg sync.WaitGroup
		var pool *ants.Pool
		settler := func(sz int64) {
			pool, _ = ants.NewPool(max(n, 1))
			next.settler(sz)
		}
		consumer := func(e any) {
			if pool == nil {
				next.consumeOne(e)
				return
			}
			wg.Add(1)
			f := func() {
				defer wg.Done()
				next.consumeOne(e)
			}
			if err := pool.Submit(f); err != nil {
				f()
			}
		}
		cleaner := func() {
			wg.Wait()
			if pool != nil {
				pool.Release()
				pool = nil
			}
			next.cleaner()
		}
		return append(defaultWrapper(next), wrapSettler(settler), wrapConsumer(consumer), wrapCleaner(cleaner))
	}
	return newStage(s, wrapper, "Parallel")
}

// stateful

func (s *stage) distinct(f func(any) int) *stage {
	wrapper := func(next *stage) []Option {
		var set *hashmap.HashMap
		settler := func(sz int64) {
			set = &hashmap.HashMap{}
			next.settler(sz)
		}
		consumer := func(e any) {
			if _, exist := set.GetOrInsert(f(e), struct{}{}); !exist {
				next.consumeOne(e)
			}
		}
		cleaner := func() {
			set = nil
			next.cleaner()
		}
		return append(defaultWrapper(next), wrapSettler(settler), wrapConsumer(consumer), wrapCleaner(cleaner))
	}
	return newStage(s, wrapper, "Distinct")
}

// sorted buffers every element, so downstream is settled and fed only once
// the upstream is exhausted. Elements comparing equal keep arrival order.
func (s *stage) sorted(cmp func(a, b any) int) *stage {
	wrapper := func(next *stage) []Option {
		var mu sync.Mutex
		var mp *treemap.Map
		var size int64
		settler := func(_ int64) {
			mp = treemap.NewWith(cmp)
			size = 0
		}
		consumer := func(e any) {
			mu.Lock()
			defer mu.Unlock()
			if bucket, ok := mp.Get(e); ok {
				mp.Put(e, append(bucket.([]any), e))
			} else {
				mp.Put(e, []any{e})
			}
			size++
		}
		cleaner := func() {
			next.settler(size)
			it := mp.Iterator()
			for it.Next() && !next.canceller() {
				for _, e := range it.Value().([]any) {
					next.consumeOne(e)
				}
			}
			mp.Clear()
			mp = nil
			next.cleaner()
		}
		canceller := func() bool { return false }
		return append(defaultWrapper(next), wrapSettler(settler), wrapConsumer(consumer),
			wrapCleaner(cleaner), wrapCanceller(canceller))
	}
	return newStage(s, wrapper, "Sorted")
}

func (s *stage) limit(N int64) *stage {
	wrapper := func(next *stage) []Option {
		cnt := new(int64)
		consumer := func(e any) {
			for old := atomic.LoadInt64(cnt); old < N; old = atomic.LoadInt64(cnt) {
				if atomic.CompareAndSwapInt64(cnt, old, old+1) {
					next.consumeOne(e)
					break
				}
			}
		}
		canceller := func() bool {
			return atomic.LoadInt64(cnt) >= N || next.canceller()
		}
		return append(defaultWrapper(next), wrapConsumer(consumer), wrapCanceller(canceller))
	}
	return newStage(s, wrapper, "Limit")
}

func (s *stage) skip(N int64) *stage {
	wrapper := func(next *stage) []Option {
		cnt := new(int64)
		consumer := func(e any) {
			for old := atomic.LoadInt64(cnt); old < N; old = atomic.LoadInt64(cnt) {
				if atomic.CompareAndSwapInt64(cnt, old, old+1) {
					return
				}
			}
			next.consumeOne(e)
		}
		return append(defaultWrapper(next), wrapConsumer(consumer))
	}
	return newStage(s, wrapper, "Skip")
}

// termination

func (s *stage) forEach(f func(any)) {
	wrapper := func(next *stage) []Option {
		return append(defaultWrapper(next), wrapConsumer(f))
	}
	newStage(s, wrapper, "ForEach").terminate()
}

// until feeds f until it reports true, then cancels the pipeline.
func (s *stage) until(name string, f func(any) bool) {
	var stop atomic.Bool
	wrapper := func(next *stage) []Option {
		consumer := func(e any) {
			if !stop.Load() && f(e) {
				stop.Store(true)
			}
		}
		canceller := func() bool { return stop.Load() }
		return append(defaultWrapper(next), wrapConsumer(consumer), wrapCanceller(canceller))
	}
	newStage(s, wrapper, name).terminate()
}
