package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense is a single spending entry under a budgeted category
type Expense struct {
	ID          int32           `json:"id"`
	UserID      uuid.UUID       `json:"userId"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ExpenseFilter narrows an expense listing. Zero values mean no filter.
type ExpenseFilter struct {
	Category string
	From     *time.Time
	To       *time.Time
}

// ExpenseGroup totals the expenses of one category
type ExpenseGroup struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
	Expenses []*Expense      `json:"expenses"`
}

// ExpenseCreation is the outcome of recording an expense: the stored row,
// the budget it was charged to, and the period spend including it.
type ExpenseCreation struct {
	Expense *Expense
	Budget  *Budget
	Spent   decimal.Decimal
}

// ExpenseRepository defines persistence for expenses
type ExpenseRepository interface {
	// CreateWithinBudget locks the budget for the expense's category, inserts
	// the expense and sums the category spend for the budget period, atomically.
	// Returns ErrNoBudgetForCategory when the user has no such budget.
	CreateWithinBudget(ctx context.Context, expense *Expense) (*ExpenseCreation, error)
	GetByID(ctx context.Context, id int32) (*Expense, error)
	List(ctx context.Context, userID uuid.UUID, filter ExpenseFilter) ([]*Expense, error)
	SumForCategory(ctx context.Context, userID uuid.UUID, category string, from, to time.Time) (decimal.Decimal, error)
	Delete(ctx context.Context, userID uuid.UUID, id int32) error
}
