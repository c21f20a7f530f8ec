// Package executor runs typed tasks on a fixed-size pool of worker goroutines
// and hands back a future-like Handle for each submission.
//
// The package implements a worker pool with a fixed worker count, one shared
// unbounded FIFO queue, an optional submission throttle, and graceful shutdown.
//
// # Key Features
//
//   - Fixed worker set sized max(1, NumCPU-1) by default
//   - Non-blocking Submit returning a write-once Handle
//   - SubmitBlocking with a configurable, optionally serialized throttle
//   - Task failures and panics captured in the handle, never in the worker
//   - Open -> Draining -> Closed lifecycle with a bounded Shutdown wait
//   - Result aggregation utilities
//
// # Basic Usage
//
//	pool := executor.NewPool(0, logger)
//
//	t, err := task.NewSelfGrouped(task.KindRead, func() (string, error) {
//	    return "READ", nil
//	})
//	if err != nil {
//	    return err
//	}
//
//	h, err := executor.Submit(pool, t)
//	if err != nil {
//	    return err // util.ErrPoolClosed after Shutdown
//	}
//
//	value, err := h.Get(ctx)
//
// # Throttled Submission
//
// SubmitBlocking sleeps on the caller's goroutine before enqueuing. In
// ThrottleSerialized mode concurrent callers pass through one at a time; in
// ThrottleConcurrent mode each caller waits independently:
//
//	pool := executor.NewPool(0, logger,
//	    executor.WithThrottle(2*time.Second, executor.ThrottleSerialized))
//
//	h, err := executor.SubmitBlocking(ctx, pool, t)
//	if errors.Is(err, util.ErrInterrupted) {
//	    // ctx ended during the delay; the task was not submitted
//	}
//
// # Graceful Shutdown
//
//	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
//	defer cancel()
//
//	if err := pool.Shutdown(shutdownCtx); err != nil {
//	    log.Printf("shutdown error: %v", err)
//	}
//
// Queued tasks still run after Shutdown is called. If the wait times out the
// workers keep draining in the background; Drained reports when they are done.
//
// # Error Handling
//
// A task returning an error or panicking resolves its handle with a
// *TaskFailedError, which matches util.ErrTaskFailed and unwraps to the cause:
//
//	if _, err := h.Get(ctx); errors.Is(err, util.ErrTaskFailed) {
//	    log.Printf("task %s failed: %v", h.TaskID(), err)
//	}
//
// # Thread Safety
//
// Submit, SubmitBlocking, Shutdown and all accessors may be called from any
// goroutine. Tasks submitted by one goroutine are queued in call order; there
// is no ordering across submitters or across workers.
package executor
