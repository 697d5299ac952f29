package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/ledgerly/ledgerly-backend/internal/domain"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer signs session tokens
type TokenIssuer interface {
	Issue(userID uuid.UUID, username string) (string, time.Time, error)
}

// AuthService handles signup, signin and session lookups
type AuthService struct {
	userRepo     domain.UserRepository
	settingsRepo domain.SettingsRepository
	tokens       TokenIssuer
	hashCost     int
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo domain.UserRepository, settingsRepo domain.SettingsRepository, tokens TokenIssuer) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		settingsRepo: settingsRepo,
		tokens:       tokens,
		hashCost:     bcrypt.DefaultCost,
	}
}

// SignupInput contains input for creating an account
type SignupInput struct {
	Username string
	Email    string
	Password string
}

// SigninResult is a freshly issued session
type SigninResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// Signup validates the input, hashes the password and creates the user with default settings
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*domain.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if username == "" {
		return nil, domain.ErrUsernameRequired
	}
	if n := utf8.RuneCountInString(username); n < domain.MinUsernameLength || n > domain.MaxUsernameLength {
		return nil, domain.ErrUsernameInvalid
	}
	if email == "" {
		return nil, domain.ErrEmailRequired
	}
	if !isPlausibleEmail(email) || len(email) > domain.MaxEmailLength {
		return nil, domain.ErrEmailInvalid
	}
	if input.Password == "" {
		return nil, domain.ErrPasswordRequired
	}
	if utf8.RuneCountInString(input.Password) < domain.MinPasswordLength {
		return nil, domain.ErrPasswordTooShort
	}
	// bcrypt only looks at the first 72 bytes
	if len(input.Password) > domain.MaxPasswordLength {
		return nil, domain.ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.hashCost)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.Create(ctx, &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.settingsRepo.Upsert(ctx, domain.DefaultSettings(user.ID)); err != nil {
		// Settings fall back to defaults on read, so the account is still usable
		log.Warn().Err(err).Str("user_id", user.ID.String()).Msg("Failed to create default settings")
	}

	log.Info().Str("user_id", user.ID.String()).Str("username", user.Username).Msg("User signed up")
	return user, nil
}

// Signin checks credentials and issues a session token
func (s *AuthService) Signin(ctx context.Context, username, password string) (*SigninResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Debug().Str("user_id", user.ID.String()).Msg("Password mismatch")
		return nil, domain.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, err
	}

	log.Info().Str("user_id", user.ID.String()).Msg("User signed in")
	return &SigninResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// GetUserByID retrieves a user by their ID
func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func isPlausibleEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t\r\n")
}
