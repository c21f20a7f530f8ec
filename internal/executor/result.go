package executor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aryankumar/taskpool/internal/task"
)

// Result is a snapshot of a resolved handle
type Result struct {
	// TaskID identifies the task this result is from
	TaskID task.ID

	// Group is the task's group
	Group task.Group

	// Kind is the task's kind
	Kind task.Kind

	// Value is the computed value (nil if the task failed)
	Value interface{}

	// Error is the stored *TaskFailedError (nil if successful)
	Error error

	// Duration is how long the computation ran
	Duration time.Duration
}

// Collect waits for every future in order and returns their results.
// If ctx ends first, the results gathered so far are returned with the error.
func Collect(ctx context.Context, futures []Future) ([]Result, error) {
	results := make([]Result, 0, len(futures))
	for _, f := range futures {
		select {
		case <-f.Done():
		case <-ctx.Done():
			return results, fmt.Errorf("collecting task %s: %w", f.TaskID(), ctx.Err())
		}

		r, _ := f.Result()
		results = append(results, r)
	}
	return results, nil
}

// CountSuccessful returns the number of successful results (no error)
func CountSuccessful(results []Result) int {
	count := 0
	for _, r := range results {
		if r.Error == nil {
			count++
		}
	}
	return count
}

// CountFailed returns the number of failed results (has error)
func CountFailed(results []Result) int {
	return len(results) - CountSuccessful(results)
}

// FilterFailed returns only the failed results
func FilterFailed(results []Result) []Result {
	filtered := make([]Result, 0, len(results))
	for _, r := range results {
		if r.Error != nil {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// FilterByKind returns results of one task kind
func FilterByKind(results []Result, kind task.Kind) []Result {
	filtered := make([]Result, 0)
	for _, r := range results {
		if r.Kind == kind {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// GroupByGroup groups results by task group
func GroupByGroup(results []Result) map[task.Group][]Result {
	grouped := make(map[task.Group][]Result)
	for _, r := range results {
		grouped[r.Group] = append(grouped[r.Group], r)
	}
	return grouped
}

// AverageDuration calculates the average duration of all results
func AverageDuration(results []Result) time.Duration {
	if len(results) == 0 {
		return 0
	}

	var total time.Duration
	for _, r := range results {
		total += r.Duration
	}

	return total / time.Duration(len(results))
}

// MaxDuration returns the maximum duration among all results
func MaxDuration(results []Result) time.Duration {
	if len(results) == 0 {
		return 0
	}

	max := results[0].Duration
	for _, r := range results {
		if r.Duration > max {
			max = r.Duration
		}
	}
	return max
}

// MinDuration returns the minimum duration among all results
func MinDuration(results []Result) time.Duration {
	if len(results) == 0 {
		return 0
	}

	min := results[0].Duration
	for _, r := range results {
		if r.Duration < min {
			min = r.Duration
		}
	}
	return min
}

// GetErrors extracts all errors from results
func GetErrors(results []Result) []error {
	errs := make([]error, 0)
	for _, r := range results {
		if r.Error != nil {
			errs = append(errs, r.Error)
		}
	}
	return errs
}

// Summary provides a summary of execution results
type Summary struct {
	Total       int
	Successful  int
	Failed      int
	Reads       int
	Writes      int
	Groups      int
	SuccessRate float64
	AvgDuration time.Duration
	MaxDuration time.Duration
	MinDuration time.Duration
}

// Summarize creates a summary of the results
func Summarize(results []Result) Summary {
	return Summary{
		Total:       len(results),
		Successful:  CountSuccessful(results),
		Failed:      CountFailed(results),
		Reads:       len(FilterByKind(results, task.KindRead)),
		Writes:      len(FilterByKind(results, task.KindWrite)),
		Groups:      len(GroupByGroup(results)),
		SuccessRate: SuccessRate(results),
		AvgDuration: AverageDuration(results),
		MaxDuration: MaxDuration(results),
		MinDuration: MinDuration(results),
	}
}

// String returns a human-readable string representation of the summary
func (s Summary) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Total: %d (read %d, write %d), ", s.Total, s.Reads, s.Writes))
	sb.WriteString(fmt.Sprintf("Successful: %d, ", s.Successful))
	sb.WriteString(fmt.Sprintf("Failed: %d", s.Failed))

	if s.Total > 0 {
		sb.WriteString(fmt.Sprintf(", Success rate: %.1f%%", s.SuccessRate))
		sb.WriteString(fmt.Sprintf(", Avg: %s", s.AvgDuration.Round(time.Microsecond)))
		sb.WriteString(fmt.Sprintf(", Max: %s", s.MaxDuration.Round(time.Microsecond)))
		sb.WriteString(fmt.Sprintf(", Min: %s", s.MinDuration.Round(time.Microsecond)))
	}

	return sb.String()
}

// HasErrors returns true if any results contain errors
func HasErrors(results []Result) bool {
	for _, r := range results {
		if r.Error != nil {
			return true
		}
	}
	return false
}

// AllSuccessful returns true if all results are successful
func AllSuccessful(results []Result) bool {
	return !HasErrors(results)
}

// SuccessRate returns the success rate as a percentage (0.0 to 100.0)
func SuccessRate(results []Result) float64 {
	if len(results) == 0 {
		return 0.0
	}
	return float64(CountSuccessful(results)) / float64(len(results)) * 100.0
}
