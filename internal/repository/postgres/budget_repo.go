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

// BudgetRepository implements domain.BudgetRepository using PostgreSQL
type BudgetRepository struct {
	pool    *pgxpool.Pool
	queries *sqlc.Queries
}

// NewBudgetRepository creates a new BudgetRepository
func NewBudgetRepository(pool *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{
		pool:    pool,
		queries: sqlc.New(pool),
	}
}

// Create creates a new budget
func (r *BudgetRepository) Create(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	amount, err := decimalToPgNumeric(budget.Amount)
	if err != nil {
		return nil, err
	}
	created, err := r.queries.CreateBudget(ctx, sqlc.CreateBudgetParams{
		UserID:    uuidToPg(budget.UserID),
		Category:  budget.Category,
		Frequency: string(budget.Frequency),
		Amount:    amount,
	})
	if err != nil {
		// budgets_user_category_key closes the race between two concurrent creates
		if isPgUniqueViolation(err) {
			return nil, domain.ErrBudgetAlreadyExists
		}
		return nil, err
	}
	return sqlcBudgetToDomain(created), nil
}

// GetByID retrieves a budget regardless of owner
func (r *BudgetRepository) GetByID(ctx context.Context, id int32) (*domain.Budget, error) {
	budget, err := r.queries.GetBudgetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, err
	}
	return sqlcBudgetToDomain(budget), nil
}

// GetByCategory retrieves the user's budget for a category
func (r *BudgetRepository) GetByCategory(ctx context.Context, userID uuid.UUID, category string) (*domain.Budget, error) {
	budget, err := r.queries.GetBudgetByCategory(ctx, sqlc.GetBudgetByCategoryParams{
		UserID:   uuidToPg(userID),
		Category: category,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, err
	}
	return sqlcBudgetToDomain(budget), nil
}

// ListByUser retrieves all budgets of a user ordered by category
func (r *BudgetRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Budget, error) {
	budgets, err := r.queries.ListBudgetsByUser(ctx, uuidToPg(userID))
	if err != nil {
		return nil, err
	}
	result := make([]*domain.Budget, len(budgets))
	for i, b := range budgets {
		result[i] = sqlcBudgetToDomain(b)
	}
	return result, nil
}

// Update changes a budget's frequency and amount
func (r *BudgetRepository) Update(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	amount, err := decimalToPgNumeric(budget.Amount)
	if err != nil {
		return nil, err
	}
	updated, err := r.queries.UpdateBudget(ctx, sqlc.UpdateBudgetParams{
		ID:        budget.ID,
		UserID:    uuidToPg(budget.UserID),
		Frequency: string(budget.Frequency),
		Amount:    amount,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, err
	}
	return sqlcBudgetToDomain(updated), nil
}

// Delete removes a budget owned by the user
func (r *BudgetRepository) Delete(ctx context.Context, userID uuid.UUID, id int32) error {
	return r.queries.DeleteBudget(ctx, sqlc.DeleteBudgetParams{
		ID:     id,
		UserID: uuidToPg(userID),
	})
}

func sqlcBudgetToDomain(b sqlc.Budget) *domain.Budget {
	return &domain.Budget{
		ID:        b.ID,
		UserID:    pgToUUID(b.UserID),
		Category:  b.Category,
		Frequency: domain.Frequency(b.Frequency),
		Amount:    pgNumericToDecimal(b.Amount),
		CreatedAt: b.CreatedAt.Time,
		UpdatedAt: b.UpdatedAt.Time,
	}
}
