package executor

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/aryankumar/taskpool/internal/task"
	"github.com/aryankumar/taskpool/internal/util"
)

// TaskFailedError is stored in a handle when the task's computation returns
// an error or panics. It matches util.ErrTaskFailed and unwraps to the cause.
type TaskFailedError struct {
	TaskID task.ID
	Cause  error
}

// Error implements the error interface
func (e *TaskFailedError) Error() string {
	return fmt.Sprintf("task %s failed: %v", e.TaskID, e.Cause)
}

// Unwrap exposes both the failure kind and the original cause
func (e *TaskFailedError) Unwrap() []error {
	return []error{util.ErrTaskFailed, e.Cause}
}

// Future is the type-erased view of a Handle used for result collection
type Future interface {
	// TaskID returns the id of the task behind the handle
	TaskID() task.ID

	// Done is closed once the handle is resolved
	Done() <-chan struct{}

	// IsDone reports whether the handle is resolved
	IsDone() bool

	// Result returns a snapshot of the outcome; ok is false while pending
	Result() (result Result, ok bool)
}

// Handle is the eventual result of a submitted task.
// Exactly one worker resolves it, exactly once; any number of goroutines may
// poll or wait on it. Once resolved it never changes.
type Handle[T any] struct {
	id    task.ID
	group task.Group
	kind  task.Kind

	resolved atomic.Bool
	done     chan struct{}

	// written once before done is closed
	value    T
	err      error
	duration time.Duration
}

func newHandle[T any](t task.Task[T]) *Handle[T] {
	return &Handle[T]{
		id:    t.ID(),
		group: t.Group(),
		kind:  t.Kind(),
		done:  make(chan struct{}),
	}
}

// resolve stores the outcome. It returns false if the handle was already resolved.
func (h *Handle[T]) resolve(value T, cause error, duration time.Duration) bool {
	if !h.resolved.CompareAndSwap(false, true) {
		return false
	}

	if cause != nil {
		h.err = &TaskFailedError{TaskID: h.id, Cause: cause}
	} else {
		h.value = value
	}
	h.duration = duration
	close(h.done)

	return true
}

// TaskID returns the id of the submitted task
func (h *Handle[T]) TaskID() task.ID { return h.id }

// Group returns the group of the submitted task
func (h *Handle[T]) Group() task.Group { return h.group }

// Kind returns the kind of the submitted task
func (h *Handle[T]) Kind() task.Kind { return h.kind }

// Done returns a channel closed when the handle resolves
func (h *Handle[T]) Done() <-chan struct{} {
	return h.done
}

// IsDone reports whether the handle has resolved
func (h *Handle[T]) IsDone() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the handle resolves or ctx ends.
// A context ending first yields util.ErrInterrupted; the task itself is unaffected.
func (h *Handle[T]) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w waiting for task %s: %w", util.ErrInterrupted, h.id, ctx.Err())
	}
}

// Get waits for the handle and returns the computed value or the task failure
func (h *Handle[T]) Get(ctx context.Context) (T, error) {
	if err := h.Wait(ctx); err != nil {
		var zero T
		return zero, err
	}
	return h.value, h.err
}

// Err returns the task failure, or nil while pending or on success
func (h *Handle[T]) Err() error {
	if !h.IsDone() {
		return nil
	}
	return h.err
}

// Result returns a snapshot of the outcome; ok is false while pending
func (h *Handle[T]) Result() (Result, bool) {
	if !h.IsDone() {
		return Result{}, false
	}

	r := Result{
		TaskID:   h.id,
		Group:    h.group,
		Kind:     h.kind,
		Error:    h.err,
		Duration: h.duration,
	}
	if h.err == nil {
		r.Value = h.value
	}
	return r, true
}

// String describes the handle for logs and status lines
func (h *Handle[T]) String() string {
	state := "pending"
	if h.IsDone() {
		state = "done"
		if h.err != nil {
			state = "failed"
		}
	}
	return fmt.Sprintf("Handle{%s %s %s}", h.kind, h.id, state)
}
