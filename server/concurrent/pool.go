package concurrent

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

// JobFunc is one unit of work. The context carries the pool's per-job
// deadline; jobs are expected to pass it through to their I/O.
type JobFunc[T any, R any] func(ctx context.Context, item T) (R, error)

// PoolConfig configures a bounded worker pool.
type PoolConfig struct {
	MaxConcurrency int           // 0 means unlimited
	JobTimeout     time.Duration // 0 means no per-job deadline
	LogPrefix      string
}

// Pool fans items out across bounded workers and collects per-item outcomes.
// The pool enforces the per-job timeout, not the job body; a timed-out job is
// reported as failed and never retried here.
type Pool[T any, R any] struct {
	config PoolConfig
}

func NewPool[T any, R any](config PoolConfig) *Pool[T, R] {
	if config.LogPrefix == "" {
		config.LogPrefix = "Pool"
	}
	return &Pool[T, R]{config: config}
}

// Outcome pairs one input item with its result or error.
type Outcome[T any, R any] struct {
	Item   T
	Result R
	Err    error
}

// RunResult aggregates a full run. A failed item never aborts its siblings.
type RunResult[T any, R any] struct {
	Outcomes []Outcome[T, R]
	Failed   int
}

// TimedOut reports whether an outcome error was the pool's deadline rather
// than a job-level failure.
func (o Outcome[T, R]) TimedOut() bool {
	return errors.Is(o.Err, context.DeadlineExceeded)
}

// Run executes the job for every item, bounded by MaxConcurrency, and blocks
// until all outcomes are collected. Outcomes arrive in completion order.
func (p *Pool[T, R]) Run(ctx context.Context, items []T, job JobFunc[T, R]) RunResult[T, R] {
	if len(items) == 0 {
		return RunResult[T, R]{Outcomes: []Outcome[T, R]{}}
	}

	outcomes := make(chan Outcome[T, R])

	var collectorWg sync.WaitGroup
	var result RunResult[T, R]
	collectorWg.Add(1)
	go func() {
		defer collectorWg.Done()
		for outcome := range outcomes {
			if outcome.Err != nil {
				result.Failed++
				p.logInfo(fmt.Sprintf("job failed: %v", outcome.Err))
			}
			result.Outcomes = append(result.Outcomes, outcome)
		}
	}()

	var throttle chan struct{}
	if p.config.MaxConcurrency > 0 {
		throttle = make(chan struct{}, p.config.MaxConcurrency)
	}

	var workersWg sync.WaitGroup
	for _, item := range items {
		workersWg.Add(1)

		if throttle != nil {
			throttle <- struct{}{}
		}

		go func(item T) {
			defer workersWg.Done()
			if throttle != nil {
				defer func() { <-throttle }()
			}

			outcomes <- p.runOne(ctx, item, job)
		}(item)
	}

	workersWg.Wait()
	close(outcomes)
	collectorWg.Wait()

	return result
}

func (p *Pool[T, R]) runOne(ctx context.Context, item T, job JobFunc[T, R]) Outcome[T, R] {
	jobCtx := ctx
	if p.config.JobTimeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(ctx, p.config.JobTimeout)
		defer cancel()
	}

	result, err := job(jobCtx, item)
	if err == nil && jobCtx.Err() != nil {
		err = jobCtx.Err()
	}

	return Outcome[T, R]{Item: item, Result: result, Err: err}
}

func (p *Pool[T, R]) logInfo(message string) {
	log.Info(fmt.Sprintf("%s: %s", p.config.LogPrefix, message))
}
