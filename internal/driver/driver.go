// Package driver submits batches of tasks to an executor pool and keeps one
// outcome per task, in submission order.
package driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aryankumar/taskpool/internal/executor"
	"github.com/aryankumar/taskpool/internal/task"
	"github.com/aryankumar/taskpool/internal/util"
)

// Submission is the outcome of submitting one task: a handle or an error
type Submission[T any] struct {
	Task   task.Task[T]
	Handle *executor.Handle[T]
	Err    error
}

// Accepted reports whether the task reached the pool
func (s Submission[T]) Accepted() bool {
	return s.Err == nil && s.Handle != nil
}

// StatusLine describes the submission for console output
func (s Submission[T]) StatusLine() string {
	id := util.ShortID(s.Task.ID().String())
	if !s.Accepted() {
		return fmt.Sprintf("Task %s [%s] not submitted: %v", id, s.Task.Kind(), s.Err)
	}
	return fmt.Sprintf("Task %s [%s] done=%t", id, s.Task.Kind(), s.Handle.IsDone())
}

// Driver owns the pool it submits to
type Driver struct {
	pool     *executor.Pool
	logger   *slog.Logger
	blocking bool
}

// New creates a driver. When blocking is true tasks go through the pool's
// throttle via SubmitBlocking.
func New(pool *executor.Pool, logger *slog.Logger, blocking bool) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{
		pool:     pool,
		logger:   logger,
		blocking: blocking,
	}
}

// Pool returns the pool the driver submits to
func (d *Driver) Pool() *executor.Pool {
	return d.pool
}

// SubmitAll submits tasks in order from the calling goroutine.
// Every task gets a Submission. After an interrupt no further tasks are
// attempted and each of the rest gets its own util.ErrInterrupted.
func SubmitAll[T any](ctx context.Context, d *Driver, tasks []task.Task[T]) []Submission[T] {
	submissions := make([]Submission[T], 0, len(tasks))

	interrupted := false
	for i, t := range tasks {
		if interrupted {
			err := fmt.Errorf("%w: not submitted", util.ErrInterrupted)
			submissions = append(submissions, Submission[T]{Task: t, Err: err})
			continue
		}

		var h *executor.Handle[T]
		var err error
		if d.blocking {
			h, err = executor.SubmitBlocking(ctx, d.pool, t)
		} else {
			h, err = executor.Submit(d.pool, t)
		}

		if err != nil {
			d.logger.Error("submission failed", "task_id", t.ID().String(), "index", i, "error", err)
			interrupted = errors.Is(err, util.ErrInterrupted)
		} else {
			d.logger.Debug("submitted", "task_id", t.ID().String(), "kind", t.Kind().String(), "index", i)
		}

		submissions = append(submissions, Submission[T]{Task: t, Handle: h, Err: err})
	}

	return submissions
}

// Futures returns the handles of accepted submissions, in order
func Futures[T any](submissions []Submission[T]) []executor.Future {
	futures := make([]executor.Future, 0, len(submissions))
	for _, s := range submissions {
		if s.Accepted() {
			futures = append(futures, s.Handle)
		}
	}
	return futures
}

// Err combines the submission errors, each tagged with its task id
func Err[T any](submissions []Submission[T]) error {
	errs := &util.MultiError{}
	for _, s := range submissions {
		errs.Add(util.WrapTaskError(s.Task.ID().String(), s.Err))
	}
	return errs.ErrorOrNil()
}
