package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Theme is the UI colour scheme preference
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// IsValid reports whether t is a known theme
func (t Theme) IsValid() bool {
	return t == ThemeLight || t == ThemeDark || t == ThemeSystem
}

// DefaultCurrency is used until a user picks one
const DefaultCurrency = "USD"

// UserSettings holds per-user preferences
type UserSettings struct {
	UserID               uuid.UUID `json:"userId"`
	Currency             string    `json:"currency"`
	Theme                Theme     `json:"theme"`
	NotificationsEnabled bool      `json:"notificationsEnabled"`
	WeeklyReports        bool      `json:"weeklyReports"`
	AvatarKey            *string   `json:"-"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// DefaultSettings returns the preferences of a user who never saved any
func DefaultSettings(userID uuid.UUID) *UserSettings {
	return &UserSettings{
		UserID:               userID,
		Currency:             DefaultCurrency,
		Theme:                ThemeSystem,
		NotificationsEnabled: true,
	}
}

// SettingsRepository defines persistence for user settings
type SettingsRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (*UserSettings, error)
	Upsert(ctx context.Context, settings *UserSettings) (*UserSettings, error)
	SetAvatar(ctx context.Context, userID uuid.UUID, key string) (*UserSettings, error)
	ListWeeklyReportUserIDs(ctx context.Context) ([]uuid.UUID, error)
}
