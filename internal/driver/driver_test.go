package driver

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryankumar/taskpool/internal/executor"
	"github.com/aryankumar/taskpool/internal/task"
	"github.com/aryankumar/taskpool/internal/util"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newPool(t *testing.T, delay time.Duration) *executor.Pool {
	t.Helper()

	pool := executor.NewPool(2, quietLogger(), executor.WithThrottle(delay, executor.ThrottleSerialized))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		pool.Shutdown(ctx)
	})
	return pool
}

func TestSubmitAll_DemoBatch(t *testing.T) {
	pool := newPool(t, time.Millisecond)
	d := New(pool, quietLogger(), true)

	tasks, err := SampleTasks(DefaultSampleKinds, 0)
	require.NoError(t, err)

	submissions := SubmitAll(context.Background(), d, tasks)
	require.Len(t, submissions, 4)
	require.NoError(t, Err(submissions))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, pool.Shutdown(ctx))

	results, err := executor.Collect(context.Background(), Futures(submissions))
	require.NoError(t, err)

	want := []string{"READ", "WRITE", "READ", "WRITE"}
	for i, r := range results {
		assert.Equal(t, want[i], r.Value)
		assert.Equal(t, submissions[i].Task.ID(), r.TaskID)
		assert.True(t, submissions[i].Handle.IsDone())
		assert.Contains(t, submissions[i].StatusLine(), "done=true")
	}
}

func TestSubmitAll_NonBlocking(t *testing.T) {
	pool := newPool(t, time.Hour)
	d := New(pool, quietLogger(), false)

	tasks, err := SampleTasks(RepeatKinds(DefaultSampleKinds, 10), 0)
	require.NoError(t, err)

	start := time.Now()
	submissions := SubmitAll(context.Background(), d, tasks)
	assert.Less(t, time.Since(start), time.Second, "non-blocking submission must skip the throttle")
	assert.Len(t, Futures(submissions), 10)
}

func TestSubmitAll_InterruptStopsLoop(t *testing.T) {
	pool := newPool(t, 50*time.Millisecond)
	d := New(pool, quietLogger(), true)

	tasks, err := SampleTasks(RepeatKinds(DefaultSampleKinds, 6), 0)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 75*time.Millisecond)
	defer cancel()

	submissions := SubmitAll(ctx, d, tasks)
	require.Len(t, submissions, 6)

	assert.True(t, submissions[0].Accepted(), "first task fits before the deadline")
	for _, s := range submissions[2:] {
		assert.False(t, s.Accepted())
		assert.ErrorIs(t, s.Err, util.ErrInterrupted)
		assert.Contains(t, s.StatusLine(), "not submitted")
	}

	err = Err(submissions)
	require.Error(t, err)
	assert.ErrorIs(t, err, util.ErrInterrupted)

	var taskErr *util.TaskError
	require.True(t, errors.As(err, &taskErr))
}

func TestSubmitAll_SkippedTasksNameOnlyThemselves(t *testing.T) {
	pool := newPool(t, time.Hour)
	d := New(pool, quietLogger(), true)

	tasks, err := SampleTasks(DefaultSampleKinds, 0)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	submissions := SubmitAll(ctx, d, tasks)
	require.Len(t, submissions, len(tasks))

	first := tasks[0].ID().String()
	for i, s := range submissions[1:] {
		require.Error(t, s.Err)
		assert.ErrorIs(t, s.Err, util.ErrInterrupted)
		assert.NotContains(t, s.Err.Error(), first, "skipped task %d must not carry the first task's error", i+1)
	}
	assert.NotSame(t, submissions[1].Err, submissions[2].Err)

	var multi *util.MultiError
	require.True(t, errors.As(Err(submissions), &multi))
	require.Len(t, multi.Errors, len(tasks))

	for i, e := range multi.Errors {
		msg := e.Error()
		assert.Equal(t, 1, strings.Count(msg, "task "+tasks[i].ID().String()), "error %d: %s", i, msg)
		for j, other := range tasks {
			if j != i {
				assert.NotContains(t, msg, other.ID().String(), "error %d names task %d", i, j)
			}
		}
	}
}

func TestSubmitAll_AfterShutdown(t *testing.T) {
	pool := newPool(t, 0)
	require.NoError(t, pool.Shutdown(context.Background()))

	tasks, err := SampleTasks(DefaultSampleKinds, 0)
	require.NoError(t, err)

	submissions := SubmitAll(context.Background(), New(pool, nil, true), tasks)
	for _, s := range submissions {
		assert.ErrorIs(t, s.Err, util.ErrPoolClosed)
	}
	assert.Empty(t, Futures(submissions))
}

func TestSampleTasks_FailEvery(t *testing.T) {
	pool := newPool(t, 0)
	d := New(pool, quietLogger(), false)

	tasks, err := SampleTasks(RepeatKinds(DefaultSampleKinds, 6), 3)
	require.NoError(t, err)

	submissions := SubmitAll(context.Background(), d, tasks)
	results, err := executor.Collect(context.Background(), Futures(submissions))
	require.NoError(t, err)

	for i, r := range results {
		if (i+1)%3 == 0 {
			assert.ErrorIs(t, r.Error, ErrSampleFailure)
			assert.ErrorIs(t, r.Error, util.ErrTaskFailed)
			continue
		}
		assert.NoError(t, r.Error)
	}
	assert.Equal(t, 2, executor.CountFailed(results))
}

func TestSampleTasks_UniqueSelfGroupedIDs(t *testing.T) {
	tasks, err := SampleTasks(DefaultSampleKinds, 0)
	require.NoError(t, err)

	seen := map[task.ID]bool{}
	for _, tk := range tasks {
		assert.Equal(t, tk.ID(), tk.Group().ID)
		assert.False(t, seen[tk.ID()])
		seen[tk.ID()] = true
	}
}

func TestRepeatKinds(t *testing.T) {
	assert.Nil(t, RepeatKinds(nil, 3))
	assert.Nil(t, RepeatKinds(DefaultSampleKinds, 0))

	got := RepeatKinds([]task.Kind{task.KindRead, task.KindWrite}, 5)
	assert.Equal(t, []task.Kind{task.KindRead, task.KindWrite, task.KindRead, task.KindWrite, task.KindRead}, got)
}

func TestStatusLine_ShortID(t *testing.T) {
	tasks, err := SampleTasks([]task.Kind{task.KindWrite}, 0)
	require.NoError(t, err)

	s := Submission[string]{Task: tasks[0], Err: util.ErrPoolClosed}
	line := s.StatusLine()
	assert.True(t, strings.HasPrefix(line, "Task "+tasks[0].ID().String()[:8]+" [WRITE]"), line)
}
