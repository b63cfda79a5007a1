package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey string

const OwnerIDKey contextKey = "owner_id"

type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// RequireAuth validates the bearer token and stores the resolved owner
// ID in the request context.
func RequireAuth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeAuthError(w, "missing authorization header", "auth_required")
				return
			}

			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeAuthError(w, "invalid authorization scheme", "auth_invalid_scheme")
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method")
				}
				return []byte(jwtSecret), nil
			})

			if err != nil || !token.Valid {
				writeAuthError(w, "invalid token", "auth_invalid")
				return
			}

			ownerID, err := uuid.Parse(claims.UserID)
			if err != nil {
				writeAuthError(w, "invalid token subject", "auth_invalid")
				return
			}

			ctx := context.WithValue(r.Context(), OwnerIDKey, ownerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetOwnerID returns the authenticated owner ID from the context.
func GetOwnerID(ctx context.Context) (uuid.UUID, bool) {
	ownerID, ok := ctx.Value(OwnerIDKey).(uuid.UUID)
	return ownerID, ok
}

func writeAuthError(w http.ResponseWriter, msg, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{
		"error": msg,
		"code":  code,
	})
}
