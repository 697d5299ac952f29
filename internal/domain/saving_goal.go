package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GoalStatus tracks whether a saving goal is still being funded
type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusCompleted GoalStatus = "completed"
)

// SavingGoal is a target amount a user is saving towards
type SavingGoal struct {
	ID            int32           `json:"id"`
	UserID        uuid.UUID       `json:"userId"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	TargetDate    *time.Time      `json:"targetDate,omitempty"`
	Status        GoalStatus      `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// ApplyContribution adds amount to the goal and completes it once the target is reached
func (g *SavingGoal) ApplyContribution(amount decimal.Decimal) {
	g.CurrentAmount = g.CurrentAmount.Add(amount)
	g.RefreshStatus()
}

// RefreshStatus derives the status from current and target amounts
func (g *SavingGoal) RefreshStatus() {
	if g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount) {
		g.Status = GoalStatusCompleted
		return
	}
	g.Status = GoalStatusActive
}

// Progress returns current/target as a fraction capped at 1
func (g *SavingGoal) Progress() decimal.Decimal {
	if !g.TargetAmount.IsPositive() {
		return decimal.Zero
	}
	p := g.CurrentAmount.Div(g.TargetAmount)
	if p.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.NewFromInt(1)
	}
	return p.Round(4)
}

// SavingGoalRepository defines persistence for saving goals
type SavingGoalRepository interface {
	Create(ctx context.Context, goal *SavingGoal) (*SavingGoal, error)
	GetByID(ctx context.Context, id int32) (*SavingGoal, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*SavingGoal, error)
	Update(ctx context.Context, goal *SavingGoal) (*SavingGoal, error)
	// AddContribution atomically adds to an active goal.
	// Returns ErrGoalCompleted when the goal is no longer active.
	AddContribution(ctx context.Context, userID uuid.UUID, id int32, amount decimal.Decimal) (*SavingGoal, error)
	Delete(ctx context.Context, userID uuid.UUID, id int32) error
}
