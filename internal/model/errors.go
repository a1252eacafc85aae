package model

import "errors"

// Domain error taxonomy. Controllers map these onto HTTP statuses; the
// repositories and services return them wrapped with context.
var (
	// ErrNotFound means a referenced project, assignment or task id does not resolve.
	ErrNotFound = errors.New("not found")

	// ErrPermission means the caller is not the current claim holder of the task.
	ErrPermission = errors.New("user is not the current claim holder")

	// ErrNotAvailable means no unclaimed task exists in the requested queue.
	// Expected under normal operation, never logged as an error.
	ErrNotAvailable = errors.New("queue empty")

	// ErrInvalidTarget means the requested transition target is not an
	// assignment of the owning project.
	ErrInvalidTarget = errors.New("target is not an assignment of the project")

	// ErrStageNotEmpty blocks deleting an assignment that still holds tasks,
	// so tasks are never silently orphaned in a stage that no longer exists.
	ErrStageNotEmpty = errors.New("assignment still holds tasks")
)
