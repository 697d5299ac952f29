package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ledgerly/ledgerly-backend/db/sqlc"
	"github.com/ledgerly/ledgerly-backend/internal/domain"
)

// SettingsRepository implements domain.SettingsRepository using PostgreSQL
type SettingsRepository struct {
	pool    *pgxpool.Pool
	queries *sqlc.Queries
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{
		pool:    pool,
		queries: sqlc.New(pool),
	}
}

// Get retrieves the user's saved settings
func (r *SettingsRepository) Get(ctx context.Context, userID uuid.UUID) (*domain.UserSettings, error) {
	settings, err := r.queries.GetUserSettings(ctx, uuidToPg(userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSettingsNotFound
		}
		return nil, err
	}
	return sqlcSettingsToDomain(settings), nil
}

// Upsert saves the user's preferences, leaving the avatar untouched
func (r *SettingsRepository) Upsert(ctx context.Context, settings *domain.UserSettings) (*domain.UserSettings, error) {
	saved, err := r.queries.UpsertUserSettings(ctx, sqlc.UpsertUserSettingsParams{
		UserID:               uuidToPg(settings.UserID),
		Currency:             settings.Currency,
		Theme:                string(settings.Theme),
		NotificationsEnabled: settings.NotificationsEnabled,
		WeeklyReports:        settings.WeeklyReports,
	})
	if err != nil {
		return nil, err
	}
	return sqlcSettingsToDomain(saved), nil
}

// SetAvatar stores the object key of the user's avatar
func (r *SettingsRepository) SetAvatar(ctx context.Context, userID uuid.UUID, key string) (*domain.UserSettings, error) {
	saved, err := r.queries.SetUserAvatar(ctx, sqlc.SetUserAvatarParams{
		UserID:    uuidToPg(userID),
		AvatarKey: stringToPgText(key),
	})
	if err != nil {
		return nil, err
	}
	return sqlcSettingsToDomain(saved), nil
}

// ListWeeklyReportUserIDs returns users that opted into weekly reports
func (r *SettingsRepository) ListWeeklyReportUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	ids, err := r.queries.ListWeeklyReportUserIDs(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]uuid.UUID, len(ids))
	for i, id := range ids {
		result[i] = pgToUUID(id)
	}
	return result, nil
}

func sqlcSettingsToDomain(s sqlc.UserSetting) *domain.UserSettings {
	return &domain.UserSettings{
		UserID:               pgToUUID(s.UserID),
		Currency:             s.Currency,
		Theme:                domain.Theme(s.Theme),
		NotificationsEnabled: s.NotificationsEnabled,
		WeeklyReports:        s.WeeklyReports,
		AvatarKey:            pgTextToStringPtr(s.AvatarKey),
		UpdatedAt:            s.UpdatedAt.Time,
	}
}
