package deferred

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func await[T any](t *testing.T, d *Deferred[T]) (T, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	v, err := d.Await(ctx)
	require.False(t, errors.Is(err, context.DeadlineExceeded), "deferred never settled")
	return v, err
}

func TestMap(t *testing.T) {
	d := Map(Resolved(5), func(x int) int { return x + 1 })

	v, err := await(t, d)
	require.NoError(t, err)
	assert.Equal(t, 6, v)
	assert.Equal(t, StateFulfilled, d.State())
}

func TestResolveTwiceKeepsFirstValue(t *testing.T) {
	d, resolve, reject := WithResolvers[int]()
	assert.Equal(t, StatePending, d.State())

	resolve(1)
	resolve(2)
	reject(errors.New("late"))

	v, err := await(t, d)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestConcurrentSettleOnlyFirstWins(t *testing.T) {
	d, resolve, reject := WithResolvers[int]()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			resolve(i)
		}(i)
		go func() {
			defer wg.Done()
			reject(errors.New("rejected"))
		}()
	}
	wg.Wait()

	first, firstErr := await(t, d)
	for i := 0; i < 10; i++ {
		v, err := await(t, d)
		assert.Equal(t, first, v)
		assert.Equal(t, firstErr, err)
	}
}

func TestContinuationsFireInRegistrationOrder(t *testing.T) {
	d, resolve, _ := WithResolvers[int]()

	var mu sync.Mutex
	var order []string
	record := func(name string) func(int) {
		return func(int) {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
		}
	}

	d.Subscribe(record("before-1"), nil)
	d.Subscribe(record("before-2"), nil)
	resolve(3)
	d.Subscribe(record("after-1"), nil)
	d.Subscribe(record("after-2"), nil)

	marker := Map(d, func(int) int { return 0 })
	_, err := await(t, marker)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"before-1", "before-2", "after-1", "after-2"}, order)
}

func TestSettledContinuationsAreNotRunInline(t *testing.T) {
	d := Resolved(1)

	ran := make(chan struct{})
	var mu sync.Mutex
	mu.Lock()
	d.Subscribe(func(int) {
		mu.Lock()
		defer mu.Unlock()
		close(ran)
	}, nil)
	// Subscribe returned while mu is still held, so the continuation was queued.
	mu.Unlock()

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("continuation dropped")
	}
}

func TestBindRejectedShortCircuits(t *testing.T) {
	cause := errors.New("e")
	called := false

	out := Bind(Rejected[int](cause), func(x int) *Deferred[int] {
		called = true
		return Resolved(x)
	})

	_, err := await(t, out)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, StateRejected, out.State())
	assert.False(t, called)
}

func TestBindForwardsInnerRejection(t *testing.T) {
	cause := errors.New("inner")
	out := Bind(Resolved(1), func(int) *Deferred[string] { return Rejected[string](cause) })

	_, err := await(t, out)
	assert.ErrorIs(t, err, cause)
}

func TestBindAsyncProducer(t *testing.T) {
	d := New(func(resolve func(int), _ func(error)) {
		go func() {
			time.Sleep(10 * time.Millisecond)
			resolve(20)
		}()
	})
	out := Bind(d, func(x int) *Deferred[int] { return After(5*time.Millisecond, x+1) })

	v, err := await(t, out)
	require.NoError(t, err)
	assert.Equal(t, 21, v)
}

func TestBindNilDeferred(t *testing.T) {
	out := Bind(Resolved(1), func(int) *Deferred[int] { return nil })
	_, err := await(t, out)
	assert.ErrorIs(t, err, ErrNilDeferred)
}

func TestRecover(t *testing.T) {
	out := Rejected[int](errors.New("boom")).Recover(func(err error) *Deferred[int] {
		return Resolved(len(err.Error()))
	})
	v, err := await(t, out)
	require.NoError(t, err)
	assert.Equal(t, 4, v)

	called := false
	out = Resolved(7).Recover(func(error) *Deferred[int] {
		called = true
		return Resolved(0)
	})
	v, err = await(t, out)
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.False(t, called)
}

func TestRejectNil(t *testing.T) {
	_, err := await(t, Rejected[int](nil))
	assert.ErrorIs(t, err, ErrNilRejection)
}

func TestAwaitContext(t *testing.T) {
	d, _, _ := WithResolvers[int]()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Await(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StatePending, d.State())
}

func TestSubscribeRejected(t *testing.T) {
	cause := errors.New("x")
	got := make(chan error, 1)
	Rejected[int](cause).Subscribe(func(int) { t.Error("fulfilled callback called") }, func(err error) { got <- err })

	select {
	case err := <-got:
		assert.ErrorIs(t, err, cause)
	case <-time.After(5 * time.Second):
		t.Fatal("rejection callback not called")
	}
}

func TestRaceAndTimeout(t *testing.T) {
	v, err := await(t, Race(After(time.Hour, 1), After(time.Millisecond, 2)))
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	_, err = await(t, Timeout(After(time.Hour, 1), 10*time.Millisecond))
	assert.ErrorIs(t, err, ErrTimeout)

	v, err = await(t, Timeout(Resolved(3), time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}

func TestAll(t *testing.T) {
	vs, err := await(t, All(After(20*time.Millisecond, 1), Resolved(2), After(time.Millisecond, 3)))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, vs)

	cause := errors.New("second")
	_, err = await(t, All(Resolved(1), Rejected[int](cause)))
	assert.ErrorIs(t, err, cause)

	vs, err = await(t, All[int]())
	require.NoError(t, err)
	assert.Empty(t, vs)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "Pending", StatePending.String())
	assert.Equal(t, "Fulfilled", StateFulfilled.String())
	assert.Equal(t, "Rejected", StateRejected.String())
	assert.Equal(t, "State(9)", State(9).String())
}

func TestAwaitInsideContinuationOnSameLoop(t *testing.T) {
	l, err := NewLoop()
	require.NoError(t, err)
	defer l.Close()

	src := NewOn(l, func(resolve func(int), _ func(error)) { resolve(1) })
	got := make(chan error, 1)
	src.Subscribe(func(int) {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, err := Map(src, func(x int) int { return x + 1 }).Await(ctx)
		got <- err
	}, nil)

	select {
	case err := <-got:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(5 * time.Second):
		t.Fatal("continuation never ran")
	}
}
