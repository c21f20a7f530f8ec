package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aryankumar/taskpool/internal/task"
	"github.com/aryankumar/taskpool/internal/util"
)

// State is the lifecycle stage of a pool
type State int32

const (
	// StateOpen accepts submissions
	StateOpen State = iota
	// StateDraining rejects submissions while queued and running tasks finish
	StateDraining
	// StateClosed is terminal: all workers stopped and the queue is empty
	StateClosed
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateDraining:
		return "draining"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// WorkersFor returns the worker count used for a given parallelism: one less
// than the number of processors, and never fewer than one.
func WorkersFor(parallelism int) int {
	if parallelism-1 < 1 {
		return 1
	}
	return parallelism - 1
}

// DefaultWorkers returns WorkersFor the current machine
func DefaultWorkers() int {
	return WorkersFor(runtime.NumCPU())
}

// Stats is a point-in-time view of pool activity
type Stats struct {
	Workers   int
	Submitted int64
	Completed int64
	Failed    int64
	Queued    int
	State     State
}

// Option configures a Pool
type Option func(*Pool)

// WithThrottle sets the delay and mode used by SubmitBlocking
func WithThrottle(delay time.Duration, mode ThrottleMode) Option {
	return func(p *Pool) {
		p.throttle = NewThrottle(delay, mode, p.logger)
	}
}

// Pool runs submitted tasks on a fixed set of worker goroutines fed by one
// unbounded FIFO queue. Workers start with the pool and live until Shutdown
// has drained the queue.
type Pool struct {
	// workers is the fixed number of worker goroutines
	workers int

	// queue feeds the workers
	queue *queue

	// throttle delays SubmitBlocking callers
	throttle *Throttle

	// logger for structured logging
	logger *slog.Logger

	// state is the current State
	state atomic.Int32

	// wg tracks running workers
	wg sync.WaitGroup

	// drained is closed once every worker has exited
	drained chan struct{}

	submitted atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
}

// NewPool creates a pool and starts its workers.
// workers <= 0 selects DefaultWorkers.
func NewPool(workers int, logger *slog.Logger, opts ...Option) *Pool {
	if workers <= 0 {
		workers = DefaultWorkers()
	}

	if logger == nil {
		logger = slog.Default()
	}

	p := &Pool{
		workers: workers,
		queue:   newQueue(),
		logger:  logger,
		drained: make(chan struct{}),
	}
	p.throttle = NewThrottle(DefaultThrottleDelay, ThrottleSerialized, logger)

	for _, opt := range opts {
		opt(p)
	}

	p.logger.Debug("starting workers",
		"count", p.workers,
		"throttle", p.throttle.Delay(),
		"throttle_mode", p.throttle.Mode().String())

	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go p.worker(i)
	}

	return p
}

// Submit enqueues t and returns its handle without waiting for it to run.
// It fails with util.ErrInvalidArgument for an unset task and with
// util.ErrPoolClosed once Shutdown has been called.
func Submit[T any](p *Pool, t task.Task[T]) (*Handle[T], error) {
	if p == nil {
		return nil, util.NewValidationError("pool", nil, "pool must not be nil")
	}
	if t.IsZero() {
		return nil, util.NewValidationError("task", nil, "task must be built with task.New")
	}

	h := newHandle(t)
	j := &job{
		taskID: t.ID().String(),
		kind:   t.Kind().String(),
		run: func() error {
			start := time.Now()
			value, err := invoke(t)
			h.resolve(value, err, time.Since(start))
			return err
		},
	}

	p.submitted.Add(1)
	if !p.queue.push(j) {
		p.submitted.Add(-1)
		return nil, fmt.Errorf("cannot submit task %s: %w", t.ID(), util.ErrPoolClosed)
	}

	p.logger.Debug("task submitted",
		"task_id", j.taskID,
		"group", t.Group().String(),
		"kind", j.kind,
		"queued", p.queue.len())

	return h, nil
}

// SubmitBlocking waits out the pool's throttle on the calling goroutine and
// then submits t. If ctx ends during the wait the task is not submitted and
// the error matches util.ErrInterrupted.
func SubmitBlocking[T any](ctx context.Context, p *Pool, t task.Task[T]) (*Handle[T], error) {
	if p == nil {
		return nil, util.NewValidationError("pool", nil, "pool must not be nil")
	}
	if t.IsZero() {
		return nil, util.NewValidationError("task", nil, "task must be built with task.New")
	}
	if p.IsShutdown() {
		return nil, fmt.Errorf("cannot submit task %s: %w", t.ID(), util.ErrPoolClosed)
	}

	var h *Handle[T]
	err := p.throttle.Do(ctx, func() error {
		var err error
		h, err = Submit(p, t)
		return err
	})
	if err != nil {
		return nil, err
	}

	return h, nil
}

// invoke runs the task, turning a panic into an error
func invoke[T any](t task.Task[T]) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return t.Run()
}

// worker pulls jobs until the queue is closed and empty
func (p *Pool) worker(workerID int) {
	defer p.wg.Done()

	p.logger.Debug("worker started", "worker_id", workerID)

	for {
		j, ok := p.queue.pop()
		if !ok {
			p.logger.Debug("worker finished (queue drained)", "worker_id", workerID)
			return
		}

		p.execute(workerID, j)
	}
}

// execute runs one job to completion and records the outcome
func (p *Pool) execute(workerID int, j *job) {
	startTime := time.Now()

	p.logger.Debug("executing task", "worker_id", workerID, "task_id", j.taskID, "kind", j.kind)

	err := j.run()
	duration := time.Since(startTime)
	p.completed.Add(1)

	if err != nil {
		p.failed.Add(1)
		p.logger.Warn("task failed",
			"worker_id", workerID,
			"task_id", j.taskID,
			"error", err,
			"duration", duration)
		return
	}

	p.logger.Debug("task succeeded",
		"worker_id", workerID,
		"task_id", j.taskID,
		"duration", duration)
}

// Shutdown stops accepting submissions and waits for queued and running tasks
// to finish. If ctx ends first it returns an error matching
// util.ErrShutdownTimeout (deadline) or util.ErrInterrupted (cancellation);
// the workers keep draining in the background and the pool still reaches
// StateClosed. Calling Shutdown again waits on the same drain.
func (p *Pool) Shutdown(ctx context.Context) error {
	if p.queue.close() {
		p.state.Store(int32(StateDraining))
		p.logger.Info("shutting down worker pool", "queued", p.queue.len())

		go func() {
			p.wg.Wait()
			p.state.Store(int32(StateClosed))
			close(p.drained)
		}()
	}

	// A drained pool reports success even if ctx has already ended
	select {
	case <-p.drained:
		return nil
	default:
	}

	if deadline, ok := ctx.Deadline(); ok {
		p.logger.Debug("waiting for workers to drain", "deadline", deadline)
	}

	select {
	case <-p.drained:
		p.logger.Info("worker pool shut down successfully",
			"completed", p.completed.Load(),
			"failed", p.failed.Load())
		return nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w with %d tasks queued: %w", util.ErrShutdownTimeout, p.queue.len(), ctx.Err())
		}
		return fmt.Errorf("%w while waiting for shutdown: %w", util.ErrInterrupted, ctx.Err())
	}
}

// Drained returns a channel closed once the pool reaches StateClosed
func (p *Pool) Drained() <-chan struct{} {
	return p.drained
}

// State returns the current lifecycle state
func (p *Pool) State() State {
	return State(p.state.Load())
}

// IsShutdown returns true once Shutdown has been called
func (p *Pool) IsShutdown() bool {
	return p.State() != StateOpen
}

// WorkerCount returns the number of workers in the pool
func (p *Pool) WorkerCount() int {
	return p.workers
}

// QueueLength returns the number of tasks waiting for a worker
func (p *Pool) QueueLength() int {
	return p.queue.len()
}

// Throttle returns the throttle used by SubmitBlocking
func (p *Pool) Throttle() *Throttle {
	return p.throttle
}

// Stats returns a snapshot of pool counters
func (p *Pool) Stats() Stats {
	return Stats{
		Workers:   p.workers,
		Submitted: p.submitted.Load(),
		Completed: p.completed.Load(),
		Failed:    p.failed.Load(),
		Queued:    p.queue.len(),
		State:     p.State(),
	}
}
