package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ledgerly/ledgerly-backend/db/sqlc"
	"github.com/ledgerly/ledgerly-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// ExpenseRepository implements domain.ExpenseRepository using PostgreSQL
type ExpenseRepository struct {
	pool    *pgxpool.Pool
	queries *sqlc.Queries
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{
		pool:    pool,
		queries: sqlc.New(pool),
	}
}

// CreateWithinBudget records an expense against the user's budget for its category.
// The budget row stays locked until commit so concurrent expenses for the
// same category observe each other's spend.
func (r *ExpenseRepository) CreateWithinBudget(ctx context.Context, expense *domain.Expense) (*domain.ExpenseCreation, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	qtx := r.queries.WithTx(tx)
	userID := uuidToPg(expense.UserID)

	// 1. Lock the budget
	locked, err := qtx.LockBudgetByCategory(ctx, sqlc.LockBudgetByCategoryParams{
		UserID:   userID,
		Category: expense.Category,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNoBudgetForCategory
		}
		return nil, err
	}
	budget := sqlcBudgetToDomain(locked)

	// 2. Insert the expense under the budget's canonical category spelling
	amount, err := decimalToPgNumeric(expense.Amount)
	if err != nil {
		return nil, err
	}
	created, err := qtx.CreateExpense(ctx, sqlc.CreateExpenseParams{
		UserID:      userID,
		Category:    budget.Category,
		Description: expense.Description,
		ExpenseDate: timeToPgDate(expense.Date),
		Amount:      amount,
	})
	if err != nil {
		return nil, err
	}

	// 3. Sum the period spend including the new row
	start, end := budget.Period(expense.Date)
	total, err := qtx.SumExpensesForCategory(ctx, sqlc.SumExpensesForCategoryParams{
		UserID:   userID,
		Category: budget.Category,
		FromDate: timeToPgDate(start),
		ToDate:   timeToPgDate(end),
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &domain.ExpenseCreation{
		Expense: sqlcExpenseToDomain(created),
		Budget:  budget,
		Spent:   pgNumericToDecimal(total),
	}, nil
}

// GetByID retrieves an expense regardless of owner
func (r *ExpenseRepository) GetByID(ctx context.Context, id int32) (*domain.Expense, error) {
	expense, err := r.queries.GetExpenseByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}
	return sqlcExpenseToDomain(expense), nil
}

// List retrieves the user's expenses, newest first
func (r *ExpenseRepository) List(ctx context.Context, userID uuid.UUID, filter domain.ExpenseFilter) ([]*domain.Expense, error) {
	params := sqlc.ListExpensesByUserParams{
		UserID:   uuidToPg(userID),
		Category: stringToPgText(filter.Category),
		FromDate: timePtrToPgDate(filter.From),
		ToDate:   timePtrToPgDate(filter.To),
	}
	expenses, err := r.queries.ListExpensesByUser(ctx, params)
	if err != nil {
		return nil, err
	}
	result := make([]*domain.Expense, len(expenses))
	for i, e := range expenses {
		result[i] = sqlcExpenseToDomain(e)
	}
	return result, nil
}

// SumForCategory totals the user's spend in a category between two dates, inclusive
func (r *ExpenseRepository) SumForCategory(ctx context.Context, userID uuid.UUID, category string, from, to time.Time) (decimal.Decimal, error) {
	total, err := r.queries.SumExpensesForCategory(ctx, sqlc.SumExpensesForCategoryParams{
		UserID:   uuidToPg(userID),
		Category: category,
		FromDate: timeToPgDate(from),
		ToDate:   timeToPgDate(to),
	})
	if err != nil {
		return decimal.Zero, err
	}
	return pgNumericToDecimal(total), nil
}

// Delete removes an expense owned by the user
func (r *ExpenseRepository) Delete(ctx context.Context, userID uuid.UUID, id int32) error {
	return r.queries.DeleteExpense(ctx, sqlc.DeleteExpenseParams{
		ID:     id,
		UserID: uuidToPg(userID),
	})
}

func sqlcExpenseToDomain(e sqlc.Expense) *domain.Expense {
	return &domain.Expense{
		ID:          e.ID,
		UserID:      pgToUUID(e.UserID),
		Category:    e.Category,
		Description: e.Description,
		Date:        pgDateToTime(e.ExpenseDate),
		Amount:      pgNumericToDecimal(e.Amount),
		CreatedAt:   e.CreatedAt.Time,
	}
}
