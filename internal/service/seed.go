package service

import (
	"context"
	"errors"
	"fmt"

	"todo-backend/internal/domain"
	"todo-backend/internal/repository"
)

const (
	DemoEmail    = "demo@example.com"
	DemoPassword = "password"
)

// SeedDemo creates the demo account with one welcome todo unless it already
// exists. It reports whether anything was created.
func SeedDemo(ctx context.Context, users repository.UserRepository, todos repository.TodoRepository, hasher PasswordHasher) (bool, error) {
	if _, err := users.GetByEmail(ctx, DemoEmail); err == nil {
		return false, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return false, fmt.Errorf("lookup demo user: %w", err)
	}

	secret, err := hasher.Hash(DemoPassword)
	if err != nil {
		return false, err
	}
	demo := &domain.User{Email: DemoEmail, PasswordHash: secret, Name: "Demo User"}
	if _, err := users.Create(ctx, demo); err != nil {
		return false, fmt.Errorf("create demo user: %w", err)
	}

	title := "Welcome to your todo list"
	description := "This is your first task"
	priority := domain.PriorityHigh
	if _, err := todos.Create(ctx, demo.ID, domain.TodoFields{
		Title:       &title,
		Description: &description,
		Priority:    &priority,
	}); err != nil {
		return false, fmt.Errorf("create demo todo: %w", err)
	}
	return true, nil
}
