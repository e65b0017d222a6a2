// Package memory keeps users and todos in process memory. All state is lost on restart.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"todo-backend/internal/domain"
	"todo-backend/internal/repository"
)

// Store owns both entity tables and their id counters behind a single lock.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	userSeq      int64
	users        map[int64]domain.User
	usersByEmail map[string]int64

	todoSeq int64
	todos   map[int64]domain.Todo
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		now:          time.Now,
		users:        make(map[int64]domain.User),
		usersByEmail: make(map[string]int64),
		todos:        make(map[int64]domain.Todo),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Users returns the user view of the store.
func (s *Store) Users() repository.UserRepository {
	return &userRepository{s: s}
}

// Todos returns the todo view of the store.
func (s *Store) Todos() repository.TodoRepository {
	return &todoRepository{s: s}
}

func (s *Store) stamp() time.Time {
	return s.now().UTC()
}

type userRepository struct {
	s *Store
}

func (r *userRepository) Init(context.Context) error { return nil }

func (r *userRepository) Create(_ context.Context, user *domain.User) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.userSeq++
	now := r.s.stamp()
	user.Name = repository.DisplayName(user.Email, user.Name)
	user.ID = r.s.userSeq
	user.CreatedAt = now
	user.UpdatedAt = now

	r.s.users[user.ID] = *user
	r.s.usersByEmail[strings.ToLower(user.Email)] = user.ID
	return user.ID, nil
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.usersByEmail[strings.ToLower(email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	user, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (r *userRepository) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	user, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

type todoRepository struct {
	s *Store
}

func (r *todoRepository) Init(context.Context) error { return nil }

func (r *todoRepository) Create(_ context.Context, ownerID int64, fields domain.TodoFields) (*domain.Todo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	todo := repository.NewTodo(ownerID, fields)
	r.s.todoSeq++
	now := r.s.stamp()
	todo.ID = r.s.todoSeq
	todo.CreatedAt = now
	todo.UpdatedAt = now

	r.s.todos[todo.ID] = todo
	return &todo, nil
}

func (r *todoRepository) Update(_ context.Context, id, ownerID int64, patch domain.TodoFields) (*domain.Todo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	todo, ok := r.s.todos[id]
	if !ok || todo.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	patch.Apply(&todo)
	todo.UpdatedAt = repository.NextStamp(r.s.stamp(), todo.UpdatedAt)

	r.s.todos[id] = todo
	return &todo, nil
}

func (r *todoRepository) Delete(_ context.Context, id, ownerID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	todo, ok := r.s.todos[id]
	if !ok || todo.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(r.s.todos, id)
	return nil
}

func (r *todoRepository) Get(_ context.Context, id, ownerID int64) (*domain.Todo, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	todo, ok := r.s.todos[id]
	if !ok || todo.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	return &todo, nil
}

func (r *todoRepository) List(_ context.Context, ownerID int64, filter repository.TodoFilter) ([]domain.Todo, error) {
	r.s.mu.RLock()
	result := make([]domain.Todo, 0)
	for _, todo := range r.s.todos {
		if todo.OwnerID != ownerID || !filter.Matches(todo) {
			continue
		}
		result = append(result, todo)
	}
	r.s.mu.RUnlock()

	repository.SortByRecency(result)
	return result, nil
}
