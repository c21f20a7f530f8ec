package driver

import (
	"errors"

	"github.com/aryankumar/taskpool/internal/task"
)

// DefaultSampleKinds is the demo batch: two reads and two writes, interleaved
var DefaultSampleKinds = []task.Kind{task.KindRead, task.KindWrite, task.KindRead, task.KindWrite}

// ErrSampleFailure is returned by sample tasks chosen to fail
var ErrSampleFailure = errors.New("boom")

// SampleTasks builds one self-grouped task per kind whose action returns the
// kind's name. With failEvery > 0, every failEvery-th task fails with
// ErrSampleFailure instead.
func SampleTasks(kinds []task.Kind, failEvery int) ([]task.Task[string], error) {
	tasks := make([]task.Task[string], 0, len(kinds))

	for i, kind := range kinds {
		name := kind.String()
		fail := failEvery > 0 && (i+1)%failEvery == 0

		t, err := task.NewSelfGrouped(kind, func() (string, error) {
			if fail {
				return "", ErrSampleFailure
			}
			return name, nil
		})
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}

	return tasks, nil
}

// RepeatKinds cycles kinds until count entries are produced
func RepeatKinds(kinds []task.Kind, count int) []task.Kind {
	if len(kinds) == 0 || count <= 0 {
		return nil
	}

	out := make([]task.Kind, count)
	for i := range out {
		out[i] = kinds[i%len(kinds)]
	}
	return out
}
