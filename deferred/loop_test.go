package deferred

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoopRunsTasksInOrder(t *testing.T) {
	l, err := NewLoop()
	require.NoError(t, err)
	defer l.Close()

	var got []int
	for i := 0; i < 100; i++ {
		i := i
		l.Schedule(func() { got = append(got, i) })
	}
	l.Wait()

	require.Len(t, got, 100)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestLoopRunsOneTaskAtATime(t *testing.T) {
	l, err := NewLoop()
	require.NoError(t, err)
	defer l.Close()

	var active, maxActive int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Schedule(func() {
				n := atomic.AddInt32(&active, 1)
				if n > atomic.LoadInt32(&maxActive) {
					atomic.StoreInt32(&maxActive, n)
				}
				atomic.AddInt32(&active, -1)
			})
		}()
	}
	wg.Wait()
	l.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&maxActive))
}

func TestLoopNestedSchedule(t *testing.T) {
	l, err := NewLoop()
	require.NoError(t, err)
	defer l.Close()

	var got []string
	l.Schedule(func() {
		l.Schedule(func() {
			got = append(got, "outer")
			l.Schedule(func() { got = append(got, "inner") })
		})
		l.Schedule(func() { got = append(got, "second") })
	})
	l.Wait()

	assert.Equal(t, []string{"outer", "second", "inner"}, got)
}

func TestLoopScheduleAfterClose(t *testing.T) {
	l, err := NewLoop()
	require.NoError(t, err)
	l.Close()

	done := make(chan struct{})
	l.Schedule(func() { close(done) })
	<-done
	l.Wait()
}
