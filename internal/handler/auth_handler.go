package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/ledgerly/ledgerly-backend/internal/domain"
	"github.com/ledgerly/ledgerly-backend/internal/middleware"
	"github.com/ledgerly/ledgerly-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles signup, signin and session HTTP requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// SignupRequest represents the signup request body
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SigninRequest represents the signin request body
type SigninRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}

// SigninResponse carries a freshly issued session token
type SigninResponse struct {
	Token     string       `json:"token"`
	ExpiresAt string       `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// Signup godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignupRequest true "Account details"
// @Success 201 {object} UserResponse
// @Failure 400 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Failure 429 {object} ProblemDetails
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}

	user, err := h.authService.Signup(c.Request().Context(), service.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return respondError(c, err, "Failed to create account")
	}

	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Signin godoc
// @Summary Sign in with username and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SigninRequest true "Credentials"
// @Success 200 {object} SigninResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 429 {object} ProblemDetails
// @Router /auth/signin [post]
func (h *AuthHandler) Signin(c echo.Context) error {
	var req SigninRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}

	var errs []ValidationError
	if req.Username == "" {
		errs = append(errs, ValidationError{Field: "username", Message: "Username is required"})
	}
	if req.Password == "" {
		errs = append(errs, ValidationError{Field: "password", Message: "Password is required"})
	}
	if len(errs) > 0 {
		return NewValidationError(c, "Validation failed", errs)
	}

	result, err := h.authService.Signin(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return respondError(c, err, "Failed to sign in")
	}

	return c.JSON(http.StatusOK, SigninResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt.UTC().Format(time.RFC3339),
		User:      toUserResponse(result.User),
	})
}

// Me godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 401 {object} ProblemDetails
// @Router /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	user, err := h.authService.GetUserByID(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Token outlived its account
			return NewUnauthorizedError(c, "Account no longer exists")
		}
		return respondError(c, err, "Failed to get user")
	}

	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Signout acknowledges a signout. Tokens are stateless, so the client discards its copy.
// POST /auth/signout
func (h *AuthHandler) Signout(c echo.Context) error {
	log.Info().Str("user_id", middleware.GetUserID(c).String()).Msg("User signed out")
	return c.JSON(http.StatusOK, MessageResponse{Message: "Signed out"})
}

func toUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID.String(),
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt.UTC().Format(time.RFC3339),
	}
}
