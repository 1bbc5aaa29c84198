package workerpool_test

import (
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/rowmul/workerpool"
)

func TestNewDefault(t *testing.T) {
	pool := workerpool.New(0)
	defer pool.Close()

	require.Equal(t, runtime.GOMAXPROCS(0), pool.NumWorkers())
}

// TestRunVisitsEveryTaskOnce runs more tasks than workers and checks each index once.
func TestRunVisitsEveryTaskOnce(t *testing.T) {
	pool := workerpool.New(3)
	defer pool.Close()

	const tasks = 100
	hits := make([]int32, tasks)
	pool.Run(tasks, func(task int) {
		atomic.AddInt32(&hits[task], 1)
	})

	for i, h := range hits {
		require.Equal(t, int32(1), h, "task %d", i)
	}
}

// TestRunJoinPublishesWrites writes without atomics; the join must make them visible.
func TestRunJoinPublishesWrites(t *testing.T) {
	pool := workerpool.New(4)
	defer pool.Close()

	out := make([]int, 64)
	for round := 0; round < 10; round++ {
		pool.Run(len(out), func(task int) {
			out[task] = task * round
		})
		for i, v := range out {
			require.Equal(t, i*round, v)
		}
	}
}

func TestRunZeroTasks(t *testing.T) {
	pool := workerpool.New(2)
	defer pool.Close()

	called := false
	pool.Run(0, func(int) { called = true })
	require.False(t, called)
}

func TestRunAfterClose(t *testing.T) {
	pool := workerpool.New(2)
	pool.Close()
	pool.Close() // idempotent

	sum := 0
	pool.Run(5, func(task int) { sum += task }) // sequential fallback, no race
	require.Equal(t, 10, sum)
}
