package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"todo-backend/internal/domain"
	"todo-backend/internal/repository"
)

// Profile is the public view of a user. It never carries the password secret.
type Profile struct {
	ID    int64
	Email string
	Name  string
}

// AuthResult is returned by a successful register or login.
type AuthResult struct {
	Token string
	User  Profile
}

// UserService describes registration, login and bearer token resolution.
type UserService interface {
	Register(ctx context.Context, email, password, name string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Authenticate(ctx context.Context, token string) (*Profile, error)
}

type userService struct {
	users  repository.UserRepository
	hasher PasswordHasher
	tokens *TokenService

	// registerMu makes the email check and the insert one step; the store
	// itself does not enforce uniqueness.
	registerMu sync.Mutex
}

func NewUserService(users repository.UserRepository, hasher PasswordHasher, tokens *TokenService) UserService {
	return &userService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

func (s *userService) Register(ctx context.Context, email, password, name string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, validationError("email and password are required")
	}

	s.registerMu.Lock()
	defer s.registerMu.Unlock()

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrConflict
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	secret, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: secret,
		Name:         strings.TrimSpace(name),
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.issue(user)
}

func (s *userService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, validationError("email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

// Authenticate resolves a bearer token to a live user. A valid token whose
// user no longer exists is rejected like any other bad token.
func (s *userService) Authenticate(ctx context.Context, token string) (*Profile, error) {
	identity, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	profile := profileOf(user)
	return &profile, nil
}

func (s *userService) issue(user *domain.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(*user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{Token: token, User: profileOf(user)}, nil
}

func profileOf(user *domain.User) Profile {
	return Profile{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
	}
}
