package util

import (
	"errors"
	"fmt"
	"strings"
)

// Common error kinds for the task pool
var (
	// ErrInvalidArgument indicates a task or argument is missing a required field
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrPoolClosed indicates a submission after shutdown was initiated
	ErrPoolClosed = errors.New("pool closed")

	// ErrTaskFailed indicates a task's own computation failed
	ErrTaskFailed = errors.New("task failed")

	// ErrInterrupted indicates a blocking call was interrupted by its context
	ErrInterrupted = errors.New("interrupted")

	// ErrShutdownTimeout indicates shutdown gave up waiting for workers to drain
	ErrShutdownTimeout = errors.New("shutdown timed out")

	// ErrInvalidConfig indicates a configuration error
	ErrInvalidConfig = errors.New("invalid configuration")
)

// TaskError wraps an error with task context
type TaskError struct {
	TaskID string
	Err    error
}

// Error implements the error interface
func (e *TaskError) Error() string {
	return fmt.Sprintf("task %s: %v", e.TaskID, e.Err)
}

// Unwrap returns the wrapped error for errors.Is/As compatibility
func (e *TaskError) Unwrap() error {
	return e.Err
}

// WrapTaskError wraps an error with task context
func WrapTaskError(taskID string, err error) error {
	if err == nil {
		return nil
	}
	return &TaskError{
		TaskID: taskID,
		Err:    err,
	}
}

// MultiError aggregates multiple errors
type MultiError struct {
	Errors []error
}

// Error implements the error interface
func (m *MultiError) Error() string {
	if len(m.Errors) == 0 {
		return "no errors"
	}
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors occurred:", len(m.Errors)))
	for i, err := range m.Errors {
		if i < 10 {
			sb.WriteString(fmt.Sprintf("\n  %d. %v", i+1, err))
		} else {
			sb.WriteString(fmt.Sprintf("\n  ... and %d more errors", len(m.Errors)-10))
			break
		}
	}
	return sb.String()
}

// Unwrap returns the errors for errors.Is/As compatibility
func (m *MultiError) Unwrap() []error {
	return m.Errors
}

// Add adds an error to the multi-error
func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

// ErrorOrNil returns nil if no errors were added, otherwise returns the MultiError
func (m *MultiError) ErrorOrNil() error {
	if len(m.Errors) == 0 {
		return nil
	}
	return m
}

// NewMultiError creates a new MultiError from a slice of errors
// It filters out nil errors
func NewMultiError(errs []error) *MultiError {
	m := &MultiError{
		Errors: make([]error, 0, len(errs)),
	}
	for _, err := range errs {
		m.Add(err)
	}
	return m
}

// ValidationError represents a validation failure on a single field.
// It matches ErrInvalidArgument unless Kind says otherwise.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
	Kind    error
}

// Error implements the error interface
func (v *ValidationError) Error() string {
	if v.Value != nil {
		return fmt.Sprintf("validation failed for field %q (value: %v): %s", v.Field, v.Value, v.Message)
	}
	return fmt.Sprintf("validation failed for field %q: %s", v.Field, v.Message)
}

// Unwrap returns the error kind
func (v *ValidationError) Unwrap() error {
	if v.Kind == nil {
		return ErrInvalidArgument
	}
	return v.Kind
}

// NewValidationError creates a new validation error of kind ErrInvalidArgument
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// NewConfigError creates a validation error of kind ErrInvalidConfig
func NewConfigError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
		Kind:    ErrInvalidConfig,
	}
}

// IsInvalidArgument checks if an error is an invalid argument error
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsPoolClosed checks if an error is a pool closed error
func IsPoolClosed(err error) bool {
	return errors.Is(err, ErrPoolClosed)
}

// IsTaskFailed checks if an error is a task failure
func IsTaskFailed(err error) bool {
	return errors.Is(err, ErrTaskFailed)
}

// IsInterrupted checks if an error is an interruption
func IsInterrupted(err error) bool {
	return errors.Is(err, ErrInterrupted)
}

// FriendlyError converts technical errors to user-friendly messages
func FriendlyError(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case IsInterrupted(err):
		return "Operation was interrupted."
	case errors.Is(err, ErrShutdownTimeout):
		return "Workers did not finish in time. Increase the limit with --shutdown-timeout."
	case IsPoolClosed(err):
		return "The pool is shutting down and no longer accepts tasks."
	case errors.Is(err, ErrInvalidConfig):
		return "Invalid configuration. Please check your config file and command-line flags."
	case IsInvalidArgument(err):
		return "Invalid task. Every task needs an id, a group, a kind and an action."
	default:
		return err.Error()
	}
}

// CombineErrors combines multiple errors into a single error
// Returns nil if all errors are nil
func CombineErrors(errs ...error) error {
	return NewMultiError(errs).ErrorOrNil()
}
