package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSavingGoalApplyContribution(t *testing.T) {
	goal := &SavingGoal{
		TargetAmount:  decimal.NewFromInt(1000),
		CurrentAmount: decimal.NewFromInt(600),
		Status:        GoalStatusActive,
	}

	goal.ApplyContribution(decimal.NewFromInt(300))
	if goal.Status != GoalStatusActive {
		t.Errorf("Expected active after partial contribution, got %s", goal.Status)
	}

	goal.ApplyContribution(decimal.NewFromInt(100))
	if goal.Status != GoalStatusCompleted {
		t.Errorf("Expected completed once target reached, got %s", goal.Status)
	}
	if !goal.CurrentAmount.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("Expected current amount 1000, got %s", goal.CurrentAmount)
	}
}

func TestSavingGoalProgress(t *testing.T) {
	goal := &SavingGoal{TargetAmount: decimal.NewFromInt(200), CurrentAmount: decimal.NewFromInt(50)}
	if !goal.Progress().Equal(decimal.RequireFromString("0.25")) {
		t.Errorf("Expected progress 0.25, got %s", goal.Progress())
	}

	goal.CurrentAmount = decimal.NewFromInt(500)
	if !goal.Progress().Equal(decimal.NewFromInt(1)) {
		t.Errorf("Expected progress capped at 1, got %s", goal.Progress())
	}
}
