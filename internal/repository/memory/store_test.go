package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"todo-backend/internal/domain"
	"todo-backend/internal/repository"
)

func strPtr(s string) *string { return &s }

func TestUserRepositoryLookup(t *testing.T) {
	ctx := context.Background()
	users := NewStore().Users()

	user := &domain.User{Email: "Alice@Example.com", PasswordHash: "h"}
	id, err := users.Create(ctx, user)
	require.NoError(t, err)
	require.Equal(t, int64(1), id)
	require.Equal(t, "Alice", user.Name)
	require.False(t, user.CreatedAt.IsZero())
	require.Equal(t, user.CreatedAt, user.UpdatedAt)

	got, err := users.GetByEmail(ctx, "alice@example.COM")
	require.NoError(t, err)
	require.Equal(t, id, got.ID)

	got, err = users.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Alice@Example.com", got.Email)

	_, err = users.GetByEmail(ctx, "bob@example.com")
	require.ErrorIs(t, err, repository.ErrNotFound)
	_, err = users.GetByID(ctx, 99)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTodoOwnershipIsolation(t *testing.T) {
	ctx := context.Background()
	todos := NewStore().Todos()

	todo, err := todos.Create(ctx, 1, domain.TodoFields{Title: strPtr("mine")})
	require.NoError(t, err)

	_, err = todos.Get(ctx, todo.ID, 2)
	require.ErrorIs(t, err, repository.ErrNotFound)
	_, err = todos.Update(ctx, todo.ID, 2, domain.TodoFields{Title: strPtr("stolen")})
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.ErrorIs(t, todos.Delete(ctx, todo.ID, 2), repository.ErrNotFound)

	got, err := todos.Get(ctx, todo.ID, 1)
	require.NoError(t, err)
	require.Equal(t, "mine", got.Title)

	list, err := todos.List(ctx, 2, repository.TodoFilter{})
	require.NoError(t, err)
	require.Empty(t, list)

	require.NoError(t, todos.Delete(ctx, todo.ID, 1))
	_, err = todos.Get(ctx, todo.ID, 1)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTodoUpdateMergesAndAdvancesUpdatedAt(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	todos := NewStore(WithClock(func() time.Time { return fixed })).Todos()

	todo, err := todos.Create(ctx, 1, domain.TodoFields{Title: strPtr("T1"), Description: strPtr("d")})
	require.NoError(t, err)

	done := true
	updated, err := todos.Update(ctx, todo.ID, 1, domain.TodoFields{Completed: &done})
	require.NoError(t, err)
	require.True(t, updated.Completed)
	require.Equal(t, "T1", updated.Title)
	require.Equal(t, "d", updated.Description)
	require.Equal(t, todo.CreatedAt, updated.CreatedAt)
	require.True(t, updated.UpdatedAt.After(todo.CreatedAt))
}

func TestTodoListOrdersByUpdatedAt(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		now = now.Add(time.Second)
		return now
	}
	todos := NewStore(WithClock(clock)).Todos()

	first, err := todos.Create(ctx, 1, domain.TodoFields{Title: strPtr("first")})
	require.NoError(t, err)
	second, err := todos.Create(ctx, 1, domain.TodoFields{Title: strPtr("second")})
	require.NoError(t, err)

	list, err := todos.List(ctx, 1, repository.TodoFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, second.ID, list[0].ID)

	_, err = todos.Update(ctx, first.ID, 1, domain.TodoFields{Description: strPtr("touched")})
	require.NoError(t, err)

	list, err = todos.List(ctx, 1, repository.TodoFilter{})
	require.NoError(t, err)
	require.Equal(t, first.ID, list[0].ID)
}

func TestConcurrentCreatesGetDistinctIDs(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	todos := store.Todos()

	const n = 64
	ids := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			todo, err := todos.Create(ctx, 1, domain.TodoFields{Title: strPtr("t")})
			if err != nil {
				t.Error(err)
				return
			}
			ids <- todo.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = true
	}
	require.Len(t, seen, n)
}

func TestDeleteDoesNotReuseIDs(t *testing.T) {
	ctx := context.Background()
	todos := NewStore().Todos()

	a, err := todos.Create(ctx, 1, domain.TodoFields{Title: strPtr("a")})
	require.NoError(t, err)
	require.NoError(t, todos.Delete(ctx, a.ID, 1))

	b, err := todos.Create(ctx, 1, domain.TodoFields{Title: strPtr("b")})
	require.NoError(t, err)
	require.Greater(t, b.ID, a.ID)

	err = todos.Delete(ctx, a.ID, 1)
	require.True(t, errors.Is(err, repository.ErrNotFound))
}
