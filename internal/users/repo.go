package users

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when a registration reuses an email.
	ErrEmailTaken = errors.New("email already registered")
)

// Repo defines persistence operations for users.
type Repo interface {
	Create(ctx context.Context, user User) error
	GetByID(ctx context.Context, userID string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	// EnsureExists creates a minimal placeholder record when userID is
	// unknown, so ingestion can satisfy the ownership constraint in
	// environments where identity provisioning lags behind.
	EnsureExists(ctx context.Context, userID string) error
}
