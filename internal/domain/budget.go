package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Frequency is the period a budget amount covers
type Frequency string

const (
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// IsValid reports whether f is a known frequency
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// Budget caps spending for one category of one user
type Budget struct {
	ID        int32           `json:"id"`
	UserID    uuid.UUID       `json:"userId"`
	Category  string          `json:"category"`
	Frequency Frequency       `json:"frequency"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Period returns the budget period containing the given date
func (b *Budget) Period(at time.Time) (time.Time, time.Time) {
	return b.Frequency.PeriodContaining(at)
}

// BudgetRepository defines persistence for budgets.
// Category lookups are case-insensitive.
type BudgetRepository interface {
	Create(ctx context.Context, budget *Budget) (*Budget, error)
	GetByID(ctx context.Context, id int32) (*Budget, error)
	GetByCategory(ctx context.Context, userID uuid.UUID, category string) (*Budget, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Budget, error)
	Update(ctx context.Context, budget *Budget) (*Budget, error)
	Delete(ctx context.Context, userID uuid.UUID, id int32) error
}

// BudgetExceedsIncomeError reports a budget amount above the user's income.
// It matches ErrBudgetExceedsIncome with errors.Is.
type BudgetExceedsIncomeError struct {
	Amount decimal.Decimal
	Income decimal.Decimal
}

func (e *BudgetExceedsIncomeError) Error() string {
	return fmt.Sprintf("budget amount %s exceeds income %s", e.Amount.StringFixed(2), e.Income.StringFixed(2))
}

func (e *BudgetExceedsIncomeError) Unwrap() error {
	return ErrBudgetExceedsIncome
}
