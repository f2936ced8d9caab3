package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/jswain/turfsplit/internal/api/apierr"
	"github.com/jswain/turfsplit/internal/model"
	"github.com/jswain/turfsplit/internal/services/identity"
)

type contextKey string

const (
	identityContextKey contextKey = "identity"
	tokenContextKey    contextKey = "token"
)

// Auth creates authentication middleware
func Auth(identityService *identity.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			value := extractToken(r)
			if value == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			token, err := identityService.ValidateToken(value)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, tokenContextKey, token)
			ctx = context.WithValue(ctx, identityContextKey, token.Identity)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth extracts the identity if a valid token is present but
// doesn't require one; anonymous viewers see sessions without acting on
// them
func OptionalAuth(identityService *identity.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if value := extractToken(r); value != "" {
				if token, err := identityService.ValidateToken(value); err == nil {
					ctx := r.Context()
					ctx = context.WithValue(ctx, tokenContextKey, token)
					ctx = context.WithValue(ctx, identityContextKey, token.Identity)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractToken extracts the auth token from the request
func extractToken(r *http.Request) string {
	// Check Authorization header first
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	// Fall back to cookie
	cookie, err := r.Cookie("token")
	if err == nil {
		return cookie.Value
	}

	return ""
}

// GetIdentity returns the authenticated identity from the request context,
// or the empty identity if the request is anonymous
func GetIdentity(ctx context.Context) model.Identity {
	id, _ := ctx.Value(identityContextKey).(model.Identity)
	return id
}

// GetToken returns the token from the request context
func GetToken(ctx context.Context) *identity.Token {
	token, _ := ctx.Value(tokenContextKey).(*identity.Token)
	return token
}

// MustGetIdentity returns the authenticated identity or panics
func MustGetIdentity(ctx context.Context) model.Identity {
	id := GetIdentity(ctx)
	if id == "" {
		panic("no identity in context - auth middleware not applied?")
	}
	return id
}
