package domain

import "time"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh:
		return true
	}
	return false
}

// Todo is a single item on a user's list. OwnerID never changes after creation.
type Todo struct {
	ID          int64
	OwnerID     int64
	Title       string
	Description string
	Completed   bool
	Priority    Priority
	DueDate     *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TodoFields carries the optional fields of a create payload or an update patch.
// A nil field is absent. DueDate is stored as sent; ClearDueDate marks an
// explicit null and wins over DueDate.
type TodoFields struct {
	Title        *string
	Description  *string
	Completed    *bool
	Priority     *Priority
	DueDate      *string
	ClearDueDate bool
}

// Apply merges the present fields over todo.
func (f TodoFields) Apply(todo *Todo) {
	if f.Title != nil {
		todo.Title = *f.Title
	}
	if f.Description != nil {
		todo.Description = *f.Description
	}
	if f.Completed != nil {
		todo.Completed = *f.Completed
	}
	if f.Priority != nil {
		todo.Priority = *f.Priority
	}
	switch {
	case f.ClearDueDate:
		todo.DueDate = nil
	case f.DueDate != nil:
		due := *f.DueDate
		todo.DueDate = &due
	}
}
