package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategoryReport compares spend against budget for one category
type CategoryReport struct {
	Category    string          `json:"category"`
	Budgeted    decimal.Decimal `json:"budgeted"`
	Spent       decimal.Decimal `json:"spent"`
	Utilization decimal.Decimal `json:"utilization"`
	Count       int             `json:"count"`
}

// MonthlyTotal is the spend of one calendar month
type MonthlyTotal struct {
	Month string          `json:"month"`
	Spent decimal.Decimal `json:"spent"`
}

// ReportSummary is the computed content of a spending report
type ReportSummary struct {
	From          time.Time        `json:"from"`
	To            time.Time        `json:"to"`
	Income        decimal.Decimal  `json:"income"`
	TotalSpent    decimal.Decimal  `json:"totalSpent"`
	Savings       decimal.Decimal  `json:"savings"`
	SavingsRate   decimal.Decimal  `json:"savingsRate"`
	Categories    []CategoryReport `json:"categories"`
	MonthlyTotals []MonthlyTotal   `json:"monthlyTotals"`
	ExpenseCount  int              `json:"expenseCount"`
}

// Report is a stored report snapshot
type Report struct {
	ID          int32         `json:"id"`
	UserID      uuid.UUID     `json:"userId"`
	PeriodStart time.Time     `json:"periodStart"`
	PeriodEnd   time.Time     `json:"periodEnd"`
	Summary     ReportSummary `json:"summary"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// ReportRepository defines persistence for stored reports
type ReportRepository interface {
	Upsert(ctx context.Context, report *Report) (*Report, error)
	GetByID(ctx context.Context, id int32) (*Report, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int32) ([]*Report, error)
}
