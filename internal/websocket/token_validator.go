package websocket

import (
	"context"
	"errors"

	"github.com/ledgerly/ledgerly-backend/internal/auth"
)

// ErrInvalidToken is returned when session token validation fails
var ErrInvalidToken = errors.New("invalid token")

// SessionVerifier verifies session tokens
type SessionVerifier interface {
	Verify(ctx context.Context, token string) (*auth.Claims, error)
}

// SessionTokenValidator authenticates WebSocket connections with a session token
type SessionTokenValidator struct {
	verifier SessionVerifier
}

// NewSessionTokenValidator creates a new SessionTokenValidator
func NewSessionTokenValidator(verifier SessionVerifier) *SessionTokenValidator {
	return &SessionTokenValidator{verifier: verifier}
}

// ValidateToken validates a session token and returns the session it carries
func (v *SessionTokenValidator) ValidateToken(ctx context.Context, token string) (Session, error) {
	if token == "" {
		return Session{}, ErrInvalidToken
	}
	claims, err := v.verifier.Verify(ctx, token)
	if err != nil {
		return Session{}, ErrInvalidToken
	}
	return Session{UserID: claims.UserID, ExpiresAt: claims.ExpiresAt}, nil
}
