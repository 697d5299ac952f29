package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/ledgerly/ledgerly-backend/internal/domain"
	"github.com/ledgerly/ledgerly-backend/internal/util"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error types
const (
	ErrorTypeValidation   = "https://ledgerly.app/errors/validation"
	ErrorTypeNotFound     = "https://ledgerly.app/errors/not-found"
	ErrorTypeUnauthorized = "https://ledgerly.app/errors/unauthorized"
	ErrorTypeForbidden    = "https://ledgerly.app/errors/forbidden"
	ErrorTypeConflict     = "https://ledgerly.app/errors/conflict"
	ErrorTypeUnavailable  = "https://ledgerly.app/errors/service-unavailable"
	ErrorTypeInternal     = "https://ledgerly.app/errors/internal"
)

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, detail string, errors []ValidationError) error {
	return c.JSON(http.StatusBadRequest, ProblemDetails{
		Type:     ErrorTypeValidation,
		Title:    "Validation Error",
		Status:   http.StatusBadRequest,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errors,
	})
}

// NewNotFoundError creates a not found error response
func NewNotFoundError(c echo.Context, detail string) error {
	return c.JSON(http.StatusNotFound, ProblemDetails{
		Type:     ErrorTypeNotFound,
		Title:    "Not Found",
		Status:   http.StatusNotFound,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewUnauthorizedError creates an unauthorized error response
func NewUnauthorizedError(c echo.Context, detail string) error {
	return c.JSON(http.StatusUnauthorized, ProblemDetails{
		Type:     ErrorTypeUnauthorized,
		Title:    "Unauthorized",
		Status:   http.StatusUnauthorized,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewForbiddenError creates a forbidden error response
func NewForbiddenError(c echo.Context, detail string) error {
	return c.JSON(http.StatusForbidden, ProblemDetails{
		Type:     ErrorTypeForbidden,
		Title:    "Forbidden",
		Status:   http.StatusForbidden,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewConflictError creates a conflict error response
func NewConflictError(c echo.Context, detail string) error {
	return c.JSON(http.StatusConflict, ProblemDetails{
		Type:     ErrorTypeConflict,
		Title:    "Conflict",
		Status:   http.StatusConflict,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewServiceUnavailableError creates a service unavailable error response
func NewServiceUnavailableError(c echo.Context, detail string) error {
	return c.JSON(http.StatusServiceUnavailable, ProblemDetails{
		Type:     ErrorTypeUnavailable,
		Title:    "Service Unavailable",
		Status:   http.StatusServiceUnavailable,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, detail string) error {
	return c.JSON(http.StatusInternalServerError, ProblemDetails{
		Type:     ErrorTypeInternal,
		Title:    "Internal Server Error",
		Status:   http.StatusInternalServerError,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// fieldErrors maps validation sentinels to the request field they concern
var fieldErrors = map[error]string{
	domain.ErrUsernameRequired:    "username",
	domain.ErrUsernameInvalid:     "username",
	domain.ErrEmailRequired:       "email",
	domain.ErrEmailInvalid:        "email",
	domain.ErrPasswordRequired:    "password",
	domain.ErrPasswordTooShort:    "password",
	domain.ErrPasswordTooLong:     "password",
	domain.ErrInvalidAmount:       "amount",
	domain.ErrNegativeAmount:      "amount",
	domain.ErrAmountTooLarge:      "amount",
	domain.ErrBudgetExceedsIncome: "amount",
	domain.ErrIncomeNotSet:        "amount",
	domain.ErrCategoryRequired:    "category",
	domain.ErrCategoryTooLong:     "category",
	domain.ErrNoBudgetForCategory: "category",
	domain.ErrInvalidFrequency:    "frequency",
	domain.ErrDescriptionTooLong:  "description",
	domain.ErrInvalidDate:         "date",
	domain.ErrInvalidDateRange:    "to",
	domain.ErrUnsupportedCurrency: "currency",
	domain.ErrInvalidTheme:        "theme",
	domain.ErrNameRequired:        "name",
	domain.ErrNameTooLong:         "name",
	domain.ErrTargetDateInPast:    "targetDate",
	domain.ErrUnsupportedFormat:   "format",
}

// validationMessages overrides the sentinel text where users need more guidance
var validationMessages = map[error]string{
	domain.ErrIncomeNotSet:        "Set your income before creating budgets",
	domain.ErrNoBudgetForCategory: "No budget exists for this category. Create a budget first",
}

// respondError maps a service error to its problem response.
// Unknown errors are logged and returned as a generic 500 with the given detail.
func respondError(c echo.Context, err error, internalDetail string) error {
	switch {
	case errors.Is(err, domain.ErrForbidden):
		return NewForbiddenError(c, "You do not have access to this resource")
	case errors.Is(err, domain.ErrBudgetNotFound),
		errors.Is(err, domain.ErrExpenseNotFound),
		errors.Is(err, domain.ErrGoalNotFound),
		errors.Is(err, domain.ErrReportNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrNotFound):
		return NewNotFoundError(c, capitalize(rootError(err).Error()))
	case errors.Is(err, domain.ErrUsernameTaken),
		errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrBudgetAlreadyExists),
		errors.Is(err, domain.ErrGoalCompleted),
		errors.Is(err, domain.ErrAlreadyExists):
		return NewConflictError(c, capitalize(rootError(err).Error()))
	case errors.Is(err, domain.ErrInvalidCredentials):
		return NewUnauthorizedError(c, "Invalid username or password")
	case errors.Is(err, domain.ErrStorageNotConfigured):
		return NewServiceUnavailableError(c, "File storage is not configured")
	}

	for sentinel, field := range fieldErrors {
		if errors.Is(err, sentinel) {
			message, ok := validationMessages[sentinel]
			if !ok {
				// Typed errors such as BudgetExceedsIncomeError carry the amounts
				message = capitalize(err.Error())
			}
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: field, Message: message},
			})
		}
	}

	log.Error().Err(err).Str("path", c.Request().URL.Path).Msg(internalDetail)
	return NewInternalError(c, internalDetail)
}

func rootError(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// bindError is the response for a malformed request body
func bindError(c echo.Context) error {
	return NewValidationError(c, "Invalid request body", nil)
}

// requestError is a malformed request input detected before the service is called
type requestError struct {
	detail string
	errors []ValidationError
}

func (e *requestError) Error() string {
	return e.detail
}

func invalidField(detail, field, message string) *requestError {
	return &requestError{detail: detail, errors: []ValidationError{{Field: field, Message: message}}}
}

// invalidRequest writes the validation response for a requestError
func invalidRequest(c echo.Context, err error) error {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		return NewValidationError(c, reqErr.detail, reqErr.errors)
	}
	return NewValidationError(c, "Invalid request", nil)
}

// parseID reads a positive int32 path parameter
func parseID(c echo.Context, name string) (int32, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 32)
	if err != nil || id <= 0 {
		return 0, invalidField("Invalid "+name, name, "Must be a positive integer")
	}
	return int32(id), nil
}

// parseDateQuery reads an optional YYYY-MM-DD query parameter
func parseDateQuery(c echo.Context, name string) (*time.Time, error) {
	raw := c.QueryParam(name)
	return parseDateField(name, &raw)
}

// parseDateField parses an optional YYYY-MM-DD body field, treating blank as absent
func parseDateField(name string, raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	date, err := util.ParseDate(*raw)
	if err != nil {
		return nil, invalidField("Invalid date format", name, "Must be in YYYY-MM-DD format")
	}
	return &date, nil
}

// MessageResponse is a plain acknowledgement
type MessageResponse struct {
	Message string `json:"message"`
}

// requireAmount dereferences a decoded amount field, reporting it as missing when absent
func requireAmount(field string, amount *decimal.Decimal) (decimal.Decimal, error) {
	if amount == nil {
		return decimal.Zero, invalidField("Validation failed", field, "Amount is required")
	}
	return *amount, nil
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func formatDate(t time.Time) string {
	return t.Format(util.DateLayout)
}
