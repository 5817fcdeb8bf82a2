package deferred

import (
	"sync"

	"github.com/emirpasic/gods/lists/singlylinkedlist"
	"github.com/panjf2000/ants/v2"
)

// Loop is a single logical task queue. Tasks run one at a time, in the order
// they were scheduled, on a worker borrowed from an ants pool. A task must not
// block waiting on a Deferred scheduled on the same Loop.
type Loop struct {
	mu       sync.Mutex
	idle     *sync.Cond
	queue    *singlylinkedlist.List
	running  bool
	pool     *ants.Pool
	released bool
}

func NewLoop() (*Loop, error) {
	pool, err := ants.NewPool(1)
	if err != nil {
		return nil, err
	}
	l := &Loop{
		queue: singlylinkedlist.New(),
		pool:  pool,
	}
	l.idle = sync.NewCond(&l.mu)
	return l, nil
}

var (
	defaultLoop     *Loop
	defaultLoopOnce sync.Once
)

// Default returns the process-wide loop used by New, Resolved and Rejected.
func Default() *Loop {
	defaultLoopOnce.Do(func() {
		l, err := NewLoop()
		if err != nil {
			panic(err)
		}
		defaultLoop = l
	})
	return defaultLoop
}

// Schedule enqueues task. It never runs task on the caller's stack.
func (l *Loop) Schedule(task func()) {
	l.mu.Lock()
	l.queue.Add(task)
	start := !l.running
	if start {
		l.running = true
	}
	released := l.released
	l.mu.Unlock()

	if !start {
		return
	}
	if released {
		go l.drain()
		return
	}
	if err := l.pool.Submit(l.drain); err != nil {
		go l.drain()
	}
}

func (l *Loop) drain() {
	for {
		l.mu.Lock()
		v, ok := l.queue.Get(0)
		if !ok {
			l.running = false
			l.idle.Broadcast()
			l.mu.Unlock()
			return
		}
		l.queue.Remove(0)
		l.mu.Unlock()

		v.(func())()
	}
}

// Wait blocks until the queue is empty and no task is running.
func (l *Loop) Wait() {
	l.mu.Lock()
	for l.running {
		l.idle.Wait()
	}
	l.mu.Unlock()
}

// Close waits for queued tasks and releases the worker pool. Tasks scheduled
// afterwards still run, on a plain goroutine.
func (l *Loop) Close() {
	l.Wait()
	l.mu.Lock()
	l.released = true
	l.mu.Unlock()
	l.pool.Release()
}
