// Package task defines the typed unit of work accepted by the executor pool.
package task

import (
	"github.com/google/uuid"

	"github.com/aryankumar/taskpool/internal/util"
)

// ID uniquely identifies a task within the process
type ID = uuid.UUID

// NewID returns a fresh random task ID
func NewID() ID {
	return uuid.New()
}

// Group ties related tasks together. It carries no scheduling meaning.
type Group struct {
	ID uuid.UUID
}

// NewGroup creates a group, rejecting the nil UUID
func NewGroup(id uuid.UUID) (Group, error) {
	if id == uuid.Nil {
		return Group{}, util.NewValidationError("group", nil, "group id must be set")
	}
	return Group{ID: id}, nil
}

// IsZero reports whether the group is unset
func (g Group) IsZero() bool {
	return g.ID == uuid.Nil
}

// String returns the group id
func (g Group) String() string {
	return g.ID.String()
}

// Action is the computation a task performs
type Action[T any] func() (T, error)

// Task is an immutable, fully populated description of work producing a T.
// Values are only obtainable through New and its helpers, so an observable
// Task always has its id, group, kind and action set.
type Task[T any] struct {
	id     ID
	group  Group
	kind   Kind
	action Action[T]
}

// New builds a task, failing with util.ErrInvalidArgument when any field is unset.
// Every missing field is reported.
func New[T any](id ID, group Group, kind Kind, action Action[T]) (Task[T], error) {
	errs := &util.MultiError{}

	if id == uuid.Nil {
		errs.Add(util.NewValidationError("id", nil, "task id must be set"))
	}
	if group.IsZero() {
		errs.Add(util.NewValidationError("group", nil, "task group must be set"))
	}
	if !kind.Valid() {
		errs.Add(util.NewValidationError("kind", kind, "task kind must be READ or WRITE"))
	}
	if action == nil {
		errs.Add(util.NewValidationError("action", nil, "task action must be set"))
	}

	if err := errs.ErrorOrNil(); err != nil {
		return Task[T]{}, err
	}

	return Task[T]{
		id:     id,
		group:  group,
		kind:   kind,
		action: action,
	}, nil
}

// NewWithFreshID builds a task in an existing group with a generated id
func NewWithFreshID[T any](group Group, kind Kind, action Action[T]) (Task[T], error) {
	return New(NewID(), group, kind, action)
}

// NewSelfGrouped builds a task whose group id equals its own freshly generated id
func NewSelfGrouped[T any](kind Kind, action Action[T]) (Task[T], error) {
	id := NewID()
	return New(id, Group{ID: id}, kind, action)
}

// ID returns the task id
func (t Task[T]) ID() ID { return t.id }

// Group returns the task group
func (t Task[T]) Group() Group { return t.group }

// Kind returns the task kind
func (t Task[T]) Kind() Kind { return t.kind }

// Action returns the task computation
func (t Task[T]) Action() Action[T] { return t.action }

// IsZero reports whether t is the zero Task, which New never returns
func (t Task[T]) IsZero() bool {
	return t.id == uuid.Nil || t.action == nil
}

// Run executes the task computation on the calling goroutine
func (t Task[T]) Run() (T, error) {
	return t.action()
}

// String returns a short description for logs
func (t Task[T]) String() string {
	return "Task{" + t.kind.String() + " " + t.id.String() + "}"
}
