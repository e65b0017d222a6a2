package repository

import (
	"context"
	"strings"

	"todo-backend/internal/domain"
)

// UserRepository defines persistence operations for User entities.
// Create does not check email uniqueness; callers must look the email up first.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// DisplayName returns name, or the local part of email when name is blank.
func DisplayName(email, name string) string {
	if strings.TrimSpace(name) != "" {
		return name
	}
	local, _, _ := strings.Cut(email, "@")
	return local
}
