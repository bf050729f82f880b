package concurrent

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunProcessesEveryItem(t *testing.T) {
	pool := NewPool[int, int](PoolConfig{MaxConcurrency: 3})

	items := []int{1, 2, 3, 4, 5}
	result := pool.Run(context.Background(), items, func(_ context.Context, n int) (int, error) {
		return n * 2, nil
	})

	require.Len(t, result.Outcomes, 5)
	assert.Equal(t, 0, result.Failed)

	sum := 0
	for _, o := range result.Outcomes {
		require.NoError(t, o.Err)
		sum += o.Result
	}
	assert.Equal(t, 30, sum)
}

func TestRunCountsFailures(t *testing.T) {
	pool := NewPool[int, int](PoolConfig{MaxConcurrency: 2})
	failure := errors.New("boom")

	result := pool.Run(context.Background(), []int{1, 2, 3}, func(_ context.Context, n int) (int, error) {
		if n == 2 {
			return 0, failure
		}
		return n, nil
	})

	assert.Equal(t, 1, result.Failed)

	failed := 0
	for _, o := range result.Outcomes {
		if o.Err != nil {
			failed++
			assert.Equal(t, 2, o.Item)
		}
	}
	assert.Equal(t, 1, failed)
}

func TestRunRespectsMaxConcurrency(t *testing.T) {
	pool := NewPool[int, struct{}](PoolConfig{MaxConcurrency: 2})

	var active, peak int32
	result := pool.Run(context.Background(), make([]int, 20), func(_ context.Context, _ int) (struct{}, error) {
		n := atomic.AddInt32(&active, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&active, -1)
		return struct{}{}, nil
	})

	require.Len(t, result.Outcomes, 20)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestRunJobTimeout(t *testing.T) {
	pool := NewPool[int, struct{}](PoolConfig{
		MaxConcurrency: 1,
		JobTimeout:     20 * time.Millisecond,
	})

	result := pool.Run(context.Background(), []int{1}, func(ctx context.Context, _ int) (struct{}, error) {
		select {
		case <-ctx.Done():
			return struct{}{}, ctx.Err()
		case <-time.After(time.Second):
			return struct{}{}, nil
		}
	})

	require.Len(t, result.Outcomes, 1)
	assert.Equal(t, 1, result.Failed)
	assert.True(t, result.Outcomes[0].TimedOut())
}

func TestRunDeadlineAppliedWhenJobIgnoresContext(t *testing.T) {
	pool := NewPool[int, struct{}](PoolConfig{JobTimeout: 10 * time.Millisecond})

	result := pool.Run(context.Background(), []int{1}, func(_ context.Context, _ int) (struct{}, error) {
		time.Sleep(30 * time.Millisecond)
		return struct{}{}, nil
	})

	require.Len(t, result.Outcomes, 1)
	assert.True(t, result.Outcomes[0].TimedOut())
}

func TestRunEmptyInput(t *testing.T) {
	pool := NewPool[int, int](PoolConfig{})
	result := pool.Run(context.Background(), nil, func(_ context.Context, n int) (int, error) {
		return n, nil
	})

	assert.Empty(t, result.Outcomes)
	assert.Equal(t, 0, result.Failed)
}
