package middleware

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/ledgerly/ledgerly-backend/internal/auth"
	"github.com/rs/zerolog/log"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// ClaimsKey is the context key for the verified session claims
	ClaimsKey contextKey = "claims"
	// UserIDKey is the context key for the authenticated user ID
	UserIDKey contextKey = "user_id"
	// UsernameKey is the context key for the authenticated username
	UsernameKey contextKey = "username"
)

// TokenVerifier verifies bearer session tokens
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*auth.Claims, error)
}

// AuthMiddleware provides session token validation middleware
type AuthMiddleware struct {
	verifier TokenVerifier
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// Authenticate returns an Echo middleware that requires a valid bearer token
func (m *AuthMiddleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return unauthorizedError(c, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || strings.TrimSpace(parts[1]) == "" {
				return unauthorizedError(c, "invalid authorization header format")
			}

			claims, err := m.verifier.Verify(c.Request().Context(), strings.TrimSpace(parts[1]))
			if err != nil {
				log.Debug().Err(err).Msg("Token validation failed")
				return unauthorizedError(c, "invalid or expired token")
			}

			c.SetRequest(c.Request().WithContext(WithClaims(c.Request().Context(), claims)))

			return next(c)
		}
	}
}

// WithClaims stores the verified identity in a context
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	ctx = context.WithValue(ctx, ClaimsKey, claims)
	ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
	return context.WithValue(ctx, UsernameKey, claims.Username)
}

// GetUserID extracts the authenticated user ID from the context
func GetUserID(c echo.Context) uuid.UUID {
	if id, ok := c.Request().Context().Value(UserIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// GetUsername extracts the authenticated username from the context
func GetUsername(c echo.Context) string {
	if name, ok := c.Request().Context().Value(UsernameKey).(string); ok {
		return name
	}
	return ""
}

// GetClaims extracts the verified claims from the context
func GetClaims(c echo.Context) *auth.Claims {
	if claims, ok := c.Request().Context().Value(ClaimsKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}
