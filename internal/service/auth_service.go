package service

import (
	"context"
	"errors"
	"time"

	domainErrors "github.com/cassiomorais/fintrack/internal/domain/errors"
	"github.com/cassiomorais/fintrack/internal/domain/user"
	"github.com/cassiomorais/fintrack/internal/middleware"
	"github.com/golang-jwt/jwt/v5"
)

// AuthService registers users and exchanges credentials for signed
// tokens. It is the only component that sees passwords.
type AuthService struct {
	users     user.Repository
	jwtSecret string
	jwtExpiry time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(users user.Repository, jwtSecret string, jwtExpiry time.Duration) *AuthService {
	if jwtExpiry <= 0 {
		jwtExpiry = 24 * time.Hour
	}
	return &AuthService{
		users:     users,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
	}
}

// Register creates a user and returns it with a fresh token.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*user.User, string, error) {
	u, err := user.New(name, email, password)
	if err != nil {
		return nil, "", err
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, "", err
	}
	token, err := s.issueToken(u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Login verifies credentials and returns the user with a fresh token.
// An unknown email and a wrong password are indistinguishable.
func (s *AuthService) Login(ctx context.Context, email, password string) (*user.User, string, error) {
	u, err := s.users.GetByEmail(ctx, user.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domainErrors.ErrUserNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !u.CheckPassword(password) {
		return nil, "", domainErrors.ErrInvalidCredentials
	}
	token, err := s.issueToken(u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *AuthService) issueToken(u *user.User) (string, error) {
	now := time.Now()
	claims := middleware.Claims{
		UserID: u.ID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
