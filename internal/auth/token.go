package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/google/uuid"
	"github.com/ledgerly/ledgerly-backend/internal/domain"
	jose "gopkg.in/go-jose/go-jose.v2"
	"gopkg.in/go-jose/go-jose.v2/jwt"
)

// Claims is the verified identity carried by a session token
type Claims struct {
	UserID    uuid.UUID
	Username  string
	ExpiresAt time.Time
}

// CustomClaims contains the application claims embedded in session tokens
type CustomClaims struct {
	Username string `json:"username"`
}

// Validate implements validator.CustomClaims
func (c *CustomClaims) Validate(ctx context.Context) error {
	if c.Username == "" {
		return errors.New("missing username claim")
	}
	return nil
}

// TokenManager issues and verifies HS256 session tokens
type TokenManager struct {
	signer    jose.Signer
	validator *validator.Validator
	issuer    string
	audience  string
	ttl       time.Duration
	now       func() time.Time
}

// NewTokenManager creates a TokenManager for the given shared secret
func NewTokenManager(secret, issuer, audience string, ttl time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("token secret is required")
	}
	if ttl <= 0 {
		return nil, errors.New("session ttl must be positive")
	}
	key := []byte(secret)

	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.HS256, Key: key},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return nil, fmt.Errorf("create token signer: %w", err)
	}

	jwtValidator, err := validator.New(
		func(ctx context.Context) (interface{}, error) {
			return key, nil
		},
		validator.HS256,
		issuer,
		[]string{audience},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &CustomClaims{}
		}),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, fmt.Errorf("create token validator: %w", err)
	}

	return &TokenManager{
		signer:    signer,
		validator: jwtValidator,
		issuer:    issuer,
		audience:  audience,
		ttl:       ttl,
		now:       time.Now,
	}, nil
}

// TTL returns the lifetime of issued tokens
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a session token for the user
func (m *TokenManager) Issue(userID uuid.UUID, username string) (string, time.Time, error) {
	issuedAt := m.now().UTC()
	expiresAt := issuedAt.Add(m.ttl)

	registered := jwt.Claims{
		Subject:  userID.String(),
		Issuer:   m.issuer,
		Audience: jwt.Audience{m.audience},
		IssuedAt: jwt.NewNumericDate(issuedAt),
		Expiry:   jwt.NewNumericDate(expiresAt),
		ID:       uuid.NewString(),
	}

	token, err := jwt.Signed(m.signer).
		Claims(registered).
		Claims(CustomClaims{Username: username}).
		CompactSerialize()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return token, expiresAt, nil
}

// Verify validates a session token and returns its identity
func (m *TokenManager) Verify(ctx context.Context, token string) (*Claims, error) {
	raw, err := m.validator.ValidateToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	validated, ok := raw.(*validator.ValidatedClaims)
	if !ok {
		return nil, domain.ErrInvalidToken
	}
	custom, ok := validated.CustomClaims.(*CustomClaims)
	if !ok {
		return nil, domain.ErrInvalidToken
	}

	userID, err := uuid.Parse(validated.RegisteredClaims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", domain.ErrInvalidToken)
	}

	return &Claims{
		UserID:    userID,
		Username:  custom.Username,
		ExpiresAt: time.Unix(validated.RegisteredClaims.Expiry, 0).UTC(),
	}, nil
}
