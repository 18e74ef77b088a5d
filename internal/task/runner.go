package task

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Runner executes fire-and-forget jobs that outlive the request that started
// them. Jobs run on a context detached from the caller's cancellation but
// bounded by their own timeout.
type Runner struct {
	wg     sync.WaitGroup
	logger *zap.Logger
}

func NewRunner(logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{logger: logger}
}

// Go starts fn in the background. The returned channel is closed once fn has
// returned, whatever the outcome. Errors and panics are logged, never
// propagated.
func (r *Runner) Go(ctx context.Context, name string, timeout time.Duration, fn func(context.Context) error) <-chan struct{} {
	done := make(chan struct{})
	jobCtx := context.WithoutCancel(ctx)
	cancel := context.CancelFunc(func() {})
	if timeout > 0 {
		jobCtx, cancel = context.WithTimeout(jobCtx, timeout)
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer close(done)
		defer cancel()
		defer func() {
			if p := recover(); p != nil {
				r.logger.Error("background task panicked", zap.String("task", name), zap.Any("panic", p))
			}
		}()

		start := time.Now()
		if err := fn(jobCtx); err != nil {
			r.logger.Error("background task failed", zap.String("task", name), zap.Duration("elapsed", time.Since(start)), zap.Error(err))
			return
		}
		r.logger.Info("background task finished", zap.String("task", name), zap.Duration("elapsed", time.Since(start)))
	}()
	return done
}

// Wait blocks until every started task has finished or ctx is done.
func (r *Runner) Wait(ctx context.Context) error {
	finished := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(finished)
	}()
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
