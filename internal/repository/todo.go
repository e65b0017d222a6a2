package repository

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"todo-backend/internal/domain"
)

// ErrNotFound is returned when a record does not exist or is not owned by the caller.
var ErrNotFound = errors.New("not found")

// TodoRepository exposes owner-scoped persistence operations for Todo items.
type TodoRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, ownerID int64, fields domain.TodoFields) (*domain.Todo, error)
	Update(ctx context.Context, id, ownerID int64, patch domain.TodoFields) (*domain.Todo, error)
	Delete(ctx context.Context, id, ownerID int64) error
	Get(ctx context.Context, id, ownerID int64) (*domain.Todo, error)
	List(ctx context.Context, ownerID int64, filter TodoFilter) ([]domain.Todo, error)
}

// TodoFilter narrows List results. Zero values mean "no constraint".
type TodoFilter struct {
	Completed *bool
	Priority  *domain.Priority
	Search    string
}

// Matches reports whether todo passes every present constraint. Ownership is
// checked by the repository, not here.
func (f TodoFilter) Matches(todo domain.Todo) bool {
	if f.Completed != nil && todo.Completed != *f.Completed {
		return false
	}
	if f.Priority != nil && todo.Priority != *f.Priority {
		return false
	}
	if f.Search != "" {
		hay := strings.ToLower(todo.Title + " " + todo.Description)
		if !strings.Contains(hay, strings.ToLower(f.Search)) {
			return false
		}
	}
	return true
}

// SortByRecency orders todos by UpdatedAt descending, newest id first on ties.
func SortByRecency(todos []domain.Todo) {
	sort.Slice(todos, func(i, j int) bool {
		if !todos[i].UpdatedAt.Equal(todos[j].UpdatedAt) {
			return todos[i].UpdatedAt.After(todos[j].UpdatedAt)
		}
		return todos[i].ID > todos[j].ID
	})
}

// NewTodo builds a todo with defaults applied to absent fields.
func NewTodo(ownerID int64, fields domain.TodoFields) domain.Todo {
	todo := domain.Todo{
		OwnerID:  ownerID,
		Priority: domain.PriorityNormal,
	}
	fields.Apply(&todo)
	return todo
}

// NextStamp returns the UpdatedAt for a modification made at now, keeping it
// strictly after prev even when the clock has not advanced.
func NextStamp(now, prev time.Time) time.Time {
	if now.After(prev) {
		return now
	}
	return prev.Add(time.Microsecond)
}
