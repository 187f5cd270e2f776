package executor

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSequential(t *testing.T) {
	var order []int
	tasks := make([]Task, 0, 5)
	for i := range 5 {
		tasks = append(tasks, func(context.Context) { order = append(order, i) })
	}

	Sequential().Run(context.Background(), tasks)
	require.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestConcurrent(t *testing.T) {
	t.Run("waits for every task", func(t *testing.T) {
		var done atomic.Int32
		tasks := make([]Task, 0, 10)
		for range 10 {
			tasks = append(tasks, func(context.Context) {
				time.Sleep(5 * time.Millisecond)
				done.Add(1)
			})
		}

		Concurrent(0).Run(context.Background(), tasks)
		require.Equal(t, int32(10), done.Load())
	})

	t.Run("respects the limit", func(t *testing.T) {
		var mu sync.Mutex
		running, peak := 0, 0
		tasks := make([]Task, 0, 12)
		for range 12 {
			tasks = append(tasks, func(context.Context) {
				mu.Lock()
				running++
				peak = max(peak, running)
				mu.Unlock()

				time.Sleep(5 * time.Millisecond)

				mu.Lock()
				running--
				mu.Unlock()
			})
		}

		Concurrent(3).Run(context.Background(), tasks)
		require.LessOrEqual(t, peak, 3)
		require.Positive(t, peak)
	})

	t.Run("empty batch returns immediately", func(t *testing.T) {
		require.NotPanics(t, func() {
			Concurrent(2).Run(context.Background(), nil)
		})
	})
}
