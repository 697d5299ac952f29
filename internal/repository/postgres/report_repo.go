package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ledgerly/ledgerly-backend/db/sqlc"
	"github.com/ledgerly/ledgerly-backend/internal/domain"
)

// ReportRepository implements domain.ReportRepository using PostgreSQL
type ReportRepository struct {
	pool    *pgxpool.Pool
	queries *sqlc.Queries
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{
		pool:    pool,
		queries: sqlc.New(pool),
	}
}

// Upsert stores a report snapshot, replacing one for the same period
func (r *ReportRepository) Upsert(ctx context.Context, report *domain.Report) (*domain.Report, error) {
	data, err := json.Marshal(report.Summary)
	if err != nil {
		return nil, fmt.Errorf("encode report summary: %w", err)
	}
	saved, err := r.queries.UpsertReport(ctx, sqlc.UpsertReportParams{
		UserID:      uuidToPg(report.UserID),
		PeriodStart: timeToPgDate(report.PeriodStart),
		PeriodEnd:   timeToPgDate(report.PeriodEnd),
		Data:        data,
	})
	if err != nil {
		return nil, err
	}
	return sqlcReportToDomain(saved)
}

// GetByID retrieves a stored report regardless of owner
func (r *ReportRepository) GetByID(ctx context.Context, id int32) (*domain.Report, error) {
	report, err := r.queries.GetReportByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReportNotFound
		}
		return nil, err
	}
	return sqlcReportToDomain(report)
}

// ListByUser retrieves the user's most recent reports
func (r *ReportRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int32) ([]*domain.Report, error) {
	reports, err := r.queries.ListReportsByUser(ctx, sqlc.ListReportsByUserParams{
		UserID: uuidToPg(userID),
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}
	result := make([]*domain.Report, 0, len(reports))
	for _, rep := range reports {
		report, err := sqlcReportToDomain(rep)
		if err != nil {
			return nil, err
		}
		result = append(result, report)
	}
	return result, nil
}

func sqlcReportToDomain(r sqlc.Report) (*domain.Report, error) {
	report := &domain.Report{
		ID:          r.ID,
		UserID:      pgToUUID(r.UserID),
		PeriodStart: pgDateToTime(r.PeriodStart),
		PeriodEnd:   pgDateToTime(r.PeriodEnd),
		CreatedAt:   r.CreatedAt.Time,
	}
	if err := json.Unmarshal(r.Data, &report.Summary); err != nil {
		return nil, fmt.Errorf("decode report %d: %w", r.ID, err)
	}
	return report, nil
}
