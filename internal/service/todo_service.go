package service

import (
	"context"
	"errors"
	"fmt"

	"todo-backend/internal/domain"
	"todo-backend/internal/repository"
)

// ListQuery holds list parameters exactly as they arrived. Completed is nil
// when the parameter was not sent at all.
type ListQuery struct {
	Completed *string
	Search    string
	Priority  string
}

// TodoService runs todo operations on behalf of a single owner.
type TodoService interface {
	// Create stores payload for ownerID. A title is required. Other fields are
	// taken as sent, except that a priority outside low, normal and high is
	// rejected with ErrValidation so stored todos always carry a known priority.
	Create(ctx context.Context, ownerID int64, payload domain.TodoFields) (*domain.Todo, error)
	Update(ctx context.Context, ownerID, id int64, patch domain.TodoFields) (*domain.Todo, error)
	Remove(ctx context.Context, ownerID, id int64) error
	Get(ctx context.Context, ownerID, id int64) (*domain.Todo, error)
	List(ctx context.Context, ownerID int64, query ListQuery) ([]domain.Todo, error)
}

type todoService struct {
	todos repository.TodoRepository
}

func NewTodoService(todos repository.TodoRepository) TodoService {
	return &todoService{todos: todos}
}

func (s *todoService) Create(ctx context.Context, ownerID int64, payload domain.TodoFields) (*domain.Todo, error) {
	if payload.Title == nil || *payload.Title == "" {
		return nil, validationError("title is required")
	}
	if err := validatePriority(payload.Priority); err != nil {
		return nil, err
	}

	todo, err := s.todos.Create(ctx, ownerID, payload)
	if err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}
	return todo, nil
}

func (s *todoService) Update(ctx context.Context, ownerID, id int64, patch domain.TodoFields) (*domain.Todo, error) {
	if patch.Title != nil && *patch.Title == "" {
		return nil, validationError("title must not be empty")
	}
	if err := validatePriority(patch.Priority); err != nil {
		return nil, err
	}

	todo, err := s.todos.Update(ctx, id, ownerID, patch)
	if err != nil {
		return nil, translate(err)
	}
	return todo, nil
}

func (s *todoService) Remove(ctx context.Context, ownerID, id int64) error {
	return translate(s.todos.Delete(ctx, id, ownerID))
}

func (s *todoService) Get(ctx context.Context, ownerID, id int64) (*domain.Todo, error) {
	todo, err := s.todos.Get(ctx, id, ownerID)
	if err != nil {
		return nil, translate(err)
	}
	return todo, nil
}

func (s *todoService) List(ctx context.Context, ownerID int64, query ListQuery) ([]domain.Todo, error) {
	todos, err := s.todos.List(ctx, ownerID, query.filter())
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

// filter decodes the raw parameters. Only the literal "true" selects completed
// todos; every other value sent for completed, "false" included, selects open ones.
func (q ListQuery) filter() repository.TodoFilter {
	var f repository.TodoFilter
	if q.Completed != nil {
		completed := *q.Completed == "true"
		f.Completed = &completed
	}
	if q.Priority != "" {
		p := domain.Priority(q.Priority)
		f.Priority = &p
	}
	f.Search = q.Search
	return f
}

func validatePriority(p *domain.Priority) error {
	if p != nil && !p.Valid() {
		return validationError(fmt.Sprintf("priority must be one of low, normal, high (got %q)", *p))
	}
	return nil
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
