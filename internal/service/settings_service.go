package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/ledgerly/ledgerly-backend/internal/domain"
	"github.com/ledgerly/ledgerly-backend/internal/websocket"
	"github.com/rs/zerolog/log"
)

// SettingsService manages user preferences and the profile picture
type SettingsService struct {
	settingsRepo   domain.SettingsRepository
	currency       *CurrencyService
	avatars        *AvatarService
	eventPublisher websocket.EventPublisher
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(settingsRepo domain.SettingsRepository, currency *CurrencyService, avatars *AvatarService) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		currency:     currency,
		avatars:      avatars,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *SettingsService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *SettingsService) publishEvent(userID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(userID, event)
	}
}

// SettingsView is the stored settings plus a temporary avatar link
type SettingsView struct {
	*domain.UserSettings
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// UpdateSettingsInput holds a partial settings update; nil fields are left unchanged
type UpdateSettingsInput struct {
	Currency             *string
	Theme                *domain.Theme
	NotificationsEnabled *bool
	WeeklyReports        *bool
}

// GetSettings returns the user's settings, or the defaults when none were saved
func (s *SettingsService) GetSettings(ctx context.Context, userID uuid.UUID) (*SettingsView, error) {
	settings, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, settings), nil
}

// UpdateSettings validates and stores a settings change
func (s *SettingsService) UpdateSettings(ctx context.Context, userID uuid.UUID, input UpdateSettingsInput) (*SettingsView, error) {
	settings, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Currency != nil {
		code := strings.ToUpper(strings.TrimSpace(*input.Currency))
		if !s.currency.IsSupported(ctx, code) {
			return nil, domain.ErrUnsupportedCurrency
		}
		settings.Currency = code
	}
	if input.Theme != nil {
		if !input.Theme.IsValid() {
			return nil, domain.ErrInvalidTheme
		}
		settings.Theme = *input.Theme
	}
	if input.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *input.NotificationsEnabled
	}
	if input.WeeklyReports != nil {
		settings.WeeklyReports = *input.WeeklyReports
	}

	updated, err := s.settingsRepo.Upsert(ctx, settings)
	if err != nil {
		return nil, err
	}

	view := s.view(ctx, updated)
	s.publishEvent(userID, websocket.SettingsUpdated(view))
	return view, nil
}

// UploadAvatar stores a new profile picture and removes the previous one
func (s *SettingsService) UploadAvatar(ctx context.Context, userID uuid.UUID, data []byte, filename string) (*SettingsView, error) {
	if !s.avatars.IsEnabled() {
		return nil, domain.ErrStorageNotConfigured
	}

	previous, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	key, err := s.avatars.Upload(ctx, userID, data, filename)
	if err != nil {
		return nil, err
	}

	updated, err := s.settingsRepo.SetAvatar(ctx, userID, key)
	if err != nil {
		if delErr := s.avatars.Delete(ctx, key); delErr != nil {
			log.Warn().Err(delErr).Str("key", key).Msg("failed to remove orphaned avatar")
		}
		return nil, err
	}

	if previous.AvatarKey != nil && *previous.AvatarKey != key {
		if err := s.avatars.Delete(ctx, *previous.AvatarKey); err != nil {
			log.Warn().Err(err).Str("key", *previous.AvatarKey).Msg("failed to remove previous avatar")
		}
	}

	view := s.view(ctx, updated)
	s.publishEvent(userID, websocket.SettingsUpdated(view))
	return view, nil
}

// BaseCurrency returns the currency the user's amounts are recorded in
func (s *SettingsService) BaseCurrency(ctx context.Context, userID uuid.UUID) (string, error) {
	settings, err := s.load(ctx, userID)
	if err != nil {
		return "", err
	}
	return settings.Currency, nil
}

func (s *SettingsService) load(ctx context.Context, userID uuid.UUID) (*domain.UserSettings, error) {
	settings, err := s.settingsRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrSettingsNotFound) {
			return domain.DefaultSettings(userID), nil
		}
		return nil, err
	}
	return settings, nil
}

func (s *SettingsService) view(ctx context.Context, settings *domain.UserSettings) *SettingsView {
	view := &SettingsView{UserSettings: settings}
	if settings.AvatarKey != nil {
		url, err := s.avatars.URL(ctx, *settings.AvatarKey)
		if err != nil {
			log.Warn().Err(err).Str("user_id", settings.UserID.String()).Msg("failed to sign avatar url")
		}
		view.AvatarURL = url
	}
	return view
}
