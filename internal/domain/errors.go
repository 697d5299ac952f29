package domain

import "errors"

// Domain errors
var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")

	// Users and sessions
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameRequired   = errors.New("username is required")
	ErrUsernameInvalid    = errors.New("username must be 3-50 characters")
	ErrEmailRequired      = errors.New("email is required")
	ErrEmailInvalid       = errors.New("email is invalid")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordTooShort   = errors.New("password is too short")
	ErrPasswordTooLong    = errors.New("password is too long")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")

	// Income
	ErrIncomeNotSet   = errors.New("income not set")
	ErrInvalidAmount  = errors.New("amount must be greater than zero")
	ErrNegativeAmount = errors.New("amount cannot be negative")
	ErrAmountTooLarge = errors.New("amount exceeds the maximum of 999999999999.99")

	// Budgets
	ErrBudgetNotFound      = errors.New("budget not found")
	ErrBudgetAlreadyExists = errors.New("budget already exists for this category")
	ErrBudgetExceedsIncome = errors.New("budget amount exceeds income")
	ErrCategoryRequired    = errors.New("category is required")
	ErrCategoryTooLong     = errors.New("category exceeds maximum length")
	ErrInvalidFrequency    = errors.New("invalid budget frequency")
	ErrNoBudgetForCategory = errors.New("no budget exists for this category")

	// Expenses
	ErrExpenseNotFound    = errors.New("expense not found")
	ErrDescriptionTooLong = errors.New("description exceeds maximum length")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidDateRange   = errors.New("invalid date range")

	// Settings
	ErrSettingsNotFound    = errors.New("settings not found")
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	ErrInvalidTheme        = errors.New("invalid theme")

	// Saving goals
	ErrGoalNotFound     = errors.New("saving goal not found")
	ErrGoalCompleted    = errors.New("saving goal already completed")
	ErrNameRequired     = errors.New("name is required")
	ErrNameTooLong      = errors.New("name exceeds maximum length")
	ErrTargetDateInPast = errors.New("target date is in the past")

	// Reports and exports
	ErrReportNotFound       = errors.New("report not found")
	ErrUnsupportedFormat    = errors.New("unsupported export format")
	ErrStorageNotConfigured = errors.New("object storage not configured")
)

// Validation constants
const (
	MinUsernameLength    = 3
	MaxUsernameLength    = 50
	MinPasswordLength    = 8
	MaxPasswordLength    = 72
	MaxEmailLength       = 255
	MaxCategoryLength    = 100
	MaxDescriptionLength = 500
	MaxGoalNameLength    = 100
	MaxReportRangeDays   = 366
)
