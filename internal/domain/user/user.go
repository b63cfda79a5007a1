package user

import (
	"strings"
	"time"

	"github.com/cassiomorais/fintrack/internal/domain/errors"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User represents a registered account holder.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// NormalizeEmail canonicalizes an email address for storage and lookup.
// Registration and login must agree on this form, otherwise a user who
// typed mixed case at signup can never authenticate.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// New creates a user with a bcrypt-hashed password.
func New(name, email, password string) (*User, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)

	if name == "" {
		return nil, errors.NewValidationError("name", "cannot be empty")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, errors.NewValidationError("email", "must be a valid email address")
	}
	if len(password) < 6 {
		return nil, errors.NewValidationError("password", "must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}, nil
}

// CheckPassword reports whether the given password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
