package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategorySummary is one budgeted (or unbudgeted) category on the dashboard
type CategorySummary struct {
	Category     string          `json:"category"`
	Frequency    Frequency       `json:"frequency,omitempty"`
	Budget       decimal.Decimal `json:"budget"`
	Spent        decimal.Decimal `json:"spent"`
	Remaining    decimal.Decimal `json:"remaining"`
	Utilization  decimal.Decimal `json:"utilization"`
	Warning      BudgetWarning   `json:"warning,omitempty"`
	ExpenseCount int             `json:"expenseCount"`
}

// ChartPoint is a labelled value for pie and line charts
type ChartPoint struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

// BarPoint pairs budget and spend for one category
type BarPoint struct {
	Label  string          `json:"label"`
	Budget decimal.Decimal `json:"budget"`
	Spent  decimal.Decimal `json:"spent"`
}

// DashboardCharts holds the chart series derived from the summary
type DashboardCharts struct {
	Pie  []ChartPoint `json:"pie"`
	Bar  []BarPoint   `json:"bar"`
	Line []ChartPoint `json:"line"`
}

// DashboardSummary is the canonical aggregate of income, budgets and spend.
// TotalSpent and Savings cover the current calendar month; each category row
// reports spend over its budget's own period.
type DashboardSummary struct {
	Currency      string            `json:"currency"`
	IncomeSet     bool              `json:"incomeSet"`
	Income        decimal.Decimal   `json:"income"`
	TotalBudgeted decimal.Decimal   `json:"totalBudgeted"`
	TotalSpent    decimal.Decimal   `json:"totalSpent"`
	Unbudgeted    decimal.Decimal   `json:"unbudgeted"`
	Savings       decimal.Decimal   `json:"savings"`
	Categories    []CategorySummary `json:"categories"`
	Charts        DashboardCharts   `json:"charts"`
	GeneratedAt   time.Time         `json:"generatedAt"`
}
