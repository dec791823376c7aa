// Package jobs runs independent batch recomputations with bounded
// parallelism. Each job reads a disjoint slice of historical data and writes
// only its own entity, so jobs never need cross-job locking.
package jobs

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"github.com/okian/harrier/pkg/logger"
)

// defaultWorkers bounds parallelism when no option is given.
var defaultWorkers = runtime.NumCPU()

// Job is one named unit of batch work.
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// Option applies a configuration option to the Runner.
type Option func(*Runner)

// WithWorkers sets the maximum number of jobs running at once.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithLogger sets a custom logger for the runner.
func WithLogger(log logger.Logger) Option {
	return func(r *Runner) {
		if log != nil {
			r.logger = log
		}
	}
}

// Runner fans jobs out over a bounded worker set.
type Runner struct {
	workers int
	logger  logger.Logger
}

// NewRunner creates a Runner with default configuration.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{workers: defaultWorkers}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logger.Get().Named("jobs")
	}
	return r
}

// RunAll executes every job, at most workers at a time, and returns the
// joined errors of the jobs that failed. A canceled context stops new jobs
// from starting; jobs already running finish on their own.
func (r *Runner) RunAll(ctx context.Context, batch []Job) error {
	sem := make(chan struct{}, r.workers)
	var wg sync.WaitGroup

	var mu sync.Mutex
	var failures []error

	for _, job := range batch {
		if ctx.Err() != nil {
			break
		}
		sem <- struct{}{}
		wg.Add(1)
		go func(job Job) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := job.Run(ctx); err != nil {
				r.logger.Error(ctx, "job failed",
					logger.String("job", job.Name),
					logger.Error(err),
				)
				mu.Lock()
				failures = append(failures, err)
				mu.Unlock()
				return
			}
			r.logger.Debug(ctx, "job finished", logger.String("job", job.Name))
		}(job)
	}
	wg.Wait()

	return errors.Join(failures...)
}
