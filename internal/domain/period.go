package domain

import (
	"time"

	"github.com/ledgerly/ledgerly-backend/internal/util"
	"github.com/shopspring/decimal"
)

// BudgetWarning flags how close spending is to a budget limit
type BudgetWarning string

const (
	WarningNone        BudgetWarning = ""
	WarningApproaching BudgetWarning = "approaching"
	WarningExceeded    BudgetWarning = "exceeded"
)

// WarningThreshold is the utilization at which a budget starts warning
var WarningThreshold = decimal.RequireFromString("0.80")

// PeriodContaining returns the first and last day of the period holding t
func (f Frequency) PeriodContaining(t time.Time) (time.Time, time.Time) {
	switch f {
	case FrequencyWeekly:
		return util.WeekBounds(t)
	case FrequencyYearly:
		return util.YearBounds(t)
	default:
		return util.MonthBounds(t)
	}
}

// BudgetStatus summarizes spending against a budget in one period
type BudgetStatus struct {
	Budget      *Budget         `json:"budget"`
	PeriodStart time.Time       `json:"periodStart"`
	PeriodEnd   time.Time       `json:"periodEnd"`
	Spent       decimal.Decimal `json:"spent"`
	Remaining   decimal.Decimal `json:"remaining"`
	Utilization decimal.Decimal `json:"utilization"`
	Warning     BudgetWarning   `json:"warning,omitempty"`
}

// NewBudgetStatus evaluates spent against the budget for the period holding at
func NewBudgetStatus(budget *Budget, spent decimal.Decimal, at time.Time) *BudgetStatus {
	start, end := budget.Period(at)
	utilization, warning := EvaluateUtilization(spent, budget.Amount)
	return &BudgetStatus{
		Budget:      budget,
		PeriodStart: start,
		PeriodEnd:   end,
		Spent:       spent,
		Remaining:   budget.Amount.Sub(spent),
		Utilization: utilization,
		Warning:     warning,
	}
}

// EvaluateUtilization returns spent/limit and the warning level it triggers.
// At or above 80% warns as approaching; strictly above 100% is exceeded.
func EvaluateUtilization(spent, limit decimal.Decimal) (decimal.Decimal, BudgetWarning) {
	if !limit.IsPositive() {
		if spent.IsPositive() {
			return decimal.NewFromInt(1), WarningExceeded
		}
		return decimal.Zero, WarningNone
	}
	ratio := spent.Div(limit)
	switch {
	case ratio.GreaterThan(decimal.NewFromInt(1)):
		return ratio.Round(4), WarningExceeded
	case ratio.GreaterThanOrEqual(WarningThreshold):
		return ratio.Round(4), WarningApproaching
	default:
		return ratio.Round(4), WarningNone
	}
}
