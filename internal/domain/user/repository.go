package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for user persistence
type Repository interface {
	// Create inserts a new user
	Create(ctx context.Context, u *User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*User, error)
}
