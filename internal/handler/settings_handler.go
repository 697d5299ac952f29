package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/ledgerly/ledgerly-backend/internal/domain"
	"github.com/ledgerly/ledgerly-backend/internal/middleware"
	"github.com/ledgerly/ledgerly-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// SettingsHandler handles user settings HTTP requests
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// UpdateSettingsRequest represents the update settings request body; omitted fields are unchanged
type UpdateSettingsRequest struct {
	Currency             *string `json:"currency,omitempty"`
	Theme                *string `json:"theme,omitempty"`
	NotificationsEnabled *bool   `json:"notificationsEnabled,omitempty"`
	WeeklyReports        *bool   `json:"weeklyReports,omitempty"`
}

// SettingsResponse represents user settings in API responses
type SettingsResponse struct {
	Currency             string  `json:"currency"`
	Theme                string  `json:"theme"`
	NotificationsEnabled bool    `json:"notificationsEnabled"`
	WeeklyReports        bool    `json:"weeklyReports"`
	AvatarURL            *string `json:"avatarUrl"`
	UpdatedAt            *string `json:"updatedAt,omitempty"`
}

// GetSettings godoc
// @Summary Get user settings
// @Description Returns defaults when the user never saved settings
// @Tags settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SettingsResponse
// @Failure 401 {object} ProblemDetails
// @Router /settings [get]
func (h *SettingsHandler) GetSettings(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	settings, err := h.settingsService.GetSettings(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err, "Failed to get settings")
	}
	return c.JSON(http.StatusOK, toSettingsResponse(settings))
}

// UpdateSettings godoc
// @Summary Update user settings
// @Tags settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateSettingsRequest true "Changed settings"
// @Success 200 {object} SettingsResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /settings [put]
func (h *SettingsHandler) UpdateSettings(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req UpdateSettingsRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}

	input := service.UpdateSettingsInput{
		Currency:             req.Currency,
		NotificationsEnabled: req.NotificationsEnabled,
		WeeklyReports:        req.WeeklyReports,
	}
	if req.Theme != nil {
		theme := domain.Theme(*req.Theme)
		input.Theme = &theme
	}

	settings, err := h.settingsService.UpdateSettings(c.Request().Context(), userID, input)
	if err != nil {
		return respondError(c, err, "Failed to update settings")
	}
	return c.JSON(http.StatusOK, toSettingsResponse(settings))
}

// UploadAvatar godoc
// @Summary Upload an avatar
// @Description JPEG or PNG, at most 5MB and at least 50x50. Stored as a 256px square.
// @Tags settings
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image"
// @Success 200 {object} SettingsResponse
// @Failure 400 {object} ProblemDetails
// @Failure 503 {object} ProblemDetails
// @Router /settings/avatar [post]
func (h *SettingsHandler) UploadAvatar(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return NewValidationError(c, "No file provided", []ValidationError{
			{Field: "file", Message: "File is required"},
		})
	}
	if file.Size > service.MaxImageSize {
		message, _ := avatarValidationMessage(service.ErrImageTooLarge)
		return NewValidationError(c, "Validation failed", []ValidationError{{Field: "file", Message: message}})
	}

	src, err := file.Open()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open uploaded file")
		return NewInternalError(c, "Failed to process file")
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, service.MaxImageSize+1))
	if err != nil {
		log.Error().Err(err).Msg("Failed to read uploaded file")
		return NewInternalError(c, "Failed to read file")
	}

	settings, err := h.settingsService.UploadAvatar(c.Request().Context(), userID, data, file.Filename)
	if err != nil {
		if message, ok := avatarValidationMessage(err); ok {
			return NewValidationError(c, "Validation failed", []ValidationError{{Field: "file", Message: message}})
		}
		return respondError(c, err, "Failed to upload avatar")
	}

	return c.JSON(http.StatusOK, toSettingsResponse(settings))
}

// avatarValidationMessage reports the user-facing message for image validation failures
func avatarValidationMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, service.ErrImageTooLarge):
		return "File too large. Maximum size is 5MB", true
	case errors.Is(err, service.ErrInvalidFormat):
		return "Invalid format. Supported: JPEG, PNG", true
	case errors.Is(err, service.ErrImageTooSmall):
		return "Image too small. Minimum 50x50 pixels", true
	case errors.Is(err, service.ErrImageDimensions):
		return "Image dimensions too large. Maximum 8000x8000 pixels", true
	case errors.Is(err, service.ErrInvalidImageData):
		return "Invalid image data", true
	}
	return "", false
}

func toSettingsResponse(s *service.SettingsView) SettingsResponse {
	response := SettingsResponse{
		Currency:             s.Currency,
		Theme:                string(s.Theme),
		NotificationsEnabled: s.NotificationsEnabled,
		WeeklyReports:        s.WeeklyReports,
	}
	if s.AvatarURL != "" {
		response.AvatarURL = &s.AvatarURL
	}
	if !s.UpdatedAt.IsZero() {
		updatedAt := s.UpdatedAt.UTC().Format(time.RFC3339)
		response.UpdatedAt = &updatedAt
	}
	return response
}
