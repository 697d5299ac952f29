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

// SavingGoalRepository implements domain.SavingGoalRepository using PostgreSQL
type SavingGoalRepository struct {
	pool    *pgxpool.Pool
	queries *sqlc.Queries
}

// NewSavingGoalRepository creates a new SavingGoalRepository
func NewSavingGoalRepository(pool *pgxpool.Pool) *SavingGoalRepository {
	return &SavingGoalRepository{
		pool:    pool,
		queries: sqlc.New(pool),
	}
}

// Create creates a new saving goal
func (r *SavingGoalRepository) Create(ctx context.Context, goal *domain.SavingGoal) (*domain.SavingGoal, error) {
	target, err := decimalToPgNumeric(goal.TargetAmount)
	if err != nil {
		return nil, err
	}
	created, err := r.queries.CreateSavingGoal(ctx, sqlc.CreateSavingGoalParams{
		UserID:       uuidToPg(goal.UserID),
		Name:         goal.Name,
		TargetAmount: target,
		TargetDate:   timePtrToPgDate(goal.TargetDate),
	})
	if err != nil {
		return nil, err
	}
	return sqlcSavingGoalToDomain(created), nil
}

// GetByID retrieves a saving goal regardless of owner
func (r *SavingGoalRepository) GetByID(ctx context.Context, id int32) (*domain.SavingGoal, error) {
	goal, err := r.queries.GetSavingGoalByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGoalNotFound
		}
		return nil, err
	}
	return sqlcSavingGoalToDomain(goal), nil
}

// ListByUser retrieves the user's goals, active ones first
func (r *SavingGoalRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.SavingGoal, error) {
	goals, err := r.queries.ListSavingGoalsByUser(ctx, uuidToPg(userID))
	if err != nil {
		return nil, err
	}
	result := make([]*domain.SavingGoal, len(goals))
	for i, g := range goals {
		result[i] = sqlcSavingGoalToDomain(g)
	}
	return result, nil
}

// Update changes a goal's name, target and date; status is re-derived from the new target
func (r *SavingGoalRepository) Update(ctx context.Context, goal *domain.SavingGoal) (*domain.SavingGoal, error) {
	target, err := decimalToPgNumeric(goal.TargetAmount)
	if err != nil {
		return nil, err
	}
	updated, err := r.queries.UpdateSavingGoal(ctx, sqlc.UpdateSavingGoalParams{
		ID:           goal.ID,
		UserID:       uuidToPg(goal.UserID),
		Name:         goal.Name,
		TargetAmount: target,
		TargetDate:   timePtrToPgDate(goal.TargetDate),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGoalNotFound
		}
		return nil, err
	}
	return sqlcSavingGoalToDomain(updated), nil
}

// AddContribution adds to an active goal in a single statement
func (r *SavingGoalRepository) AddContribution(ctx context.Context, userID uuid.UUID, id int32, amount decimal.Decimal) (*domain.SavingGoal, error) {
	pgAmount, err := decimalToPgNumeric(amount)
	if err != nil {
		return nil, err
	}
	updated, err := r.queries.AddSavingGoalContribution(ctx, sqlc.AddSavingGoalContributionParams{
		Amount: pgAmount,
		ID:     id,
		UserID: uuidToPg(userID),
	})
	if err == nil {
		return sqlcSavingGoalToDomain(updated), nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	// No row updated: tell a missing goal apart from a completed one
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.UserID != userID {
		return nil, domain.ErrGoalNotFound
	}
	return nil, domain.ErrGoalCompleted
}

// Delete removes a goal owned by the user
func (r *SavingGoalRepository) Delete(ctx context.Context, userID uuid.UUID, id int32) error {
	return r.queries.DeleteSavingGoal(ctx, sqlc.DeleteSavingGoalParams{
		ID:     id,
		UserID: uuidToPg(userID),
	})
}

func sqlcSavingGoalToDomain(g sqlc.SavingGoal) *domain.SavingGoal {
	return &domain.SavingGoal{
		ID:            g.ID,
		UserID:        pgToUUID(g.UserID),
		Name:          g.Name,
		TargetAmount:  pgNumericToDecimal(g.TargetAmount),
		CurrentAmount: pgNumericToDecimal(g.CurrentAmount),
		TargetDate:    pgDateToTimePtr(g.TargetDate),
		Status:        domain.GoalStatus(g.Status),
		CreatedAt:     g.CreatedAt.Time,
		UpdatedAt:     g.UpdatedAt.Time,
	}
}
