package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ledgerly/ledgerly-backend/db/sqlc"
	"github.com/ledgerly/ledgerly-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// IncomeRepository implements domain.IncomeRepository using PostgreSQL
type IncomeRepository struct {
	pool    *pgxpool.Pool
	queries *sqlc.Queries
}

// NewIncomeRepository creates a new IncomeRepository
func NewIncomeRepository(pool *pgxpool.Pool) *IncomeRepository {
	return &IncomeRepository{
		pool:    pool,
		queries: sqlc.New(pool),
	}
}

// Get retrieves the user's income
func (r *IncomeRepository) Get(ctx context.Context, userID uuid.UUID) (*domain.Income, error) {
	income, err := r.queries.GetIncomeByUser(ctx, uuidToPg(userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrIncomeNotSet
		}
		return nil, err
	}
	return sqlcIncomeToDomain(income), nil
}

// Upsert creates or replaces the user's income
func (r *IncomeRepository) Upsert(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*domain.Income, error) {
	pgAmount, err := decimalToPgNumeric(amount)
	if err != nil {
		return nil, err
	}
	income, err := r.queries.UpsertIncome(ctx, sqlc.UpsertIncomeParams{
		UserID: uuidToPg(userID),
		Amount: pgAmount,
	})
	if err != nil {
		return nil, err
	}
	return sqlcIncomeToDomain(income), nil
}

func sqlcIncomeToDomain(i sqlc.Income) *domain.Income {
	return &domain.Income{
		UserID:    pgToUUID(i.UserID),
		Amount:    pgNumericToDecimal(i.Amount),
		UpdatedAt: i.UpdatedAt.Time,
	}
}
