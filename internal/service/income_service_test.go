package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/ledgerly/ledgerly-backend/internal/domain"
	"github.com/ledgerly/ledgerly-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

func TestGetIncome_NotSet(t *testing.T) {
	service := NewIncomeService(testutil.NewMockIncomeRepository())

	view, err := service.GetIncome(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if view.IsSet {
		t.Error("Expected IsSet to be false")
	}
	if !view.Amount.IsZero() {
		t.Errorf("Expected zero income, got %s", view.Amount)
	}
}

func TestUpdateIncome_Upserts(t *testing.T) {
	incomeRepo := testutil.NewMockIncomeRepository()
	publisher := testutil.NewMockEventPublisher()
	service := NewIncomeService(incomeRepo)
	service.SetEventPublisher(publisher)
	userID := uuid.New()
	ctx := context.Background()

	if _, err := service.UpdateIncome(ctx, userID, decimal.RequireFromString("1000")); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	income, err := service.UpdateIncome(ctx, userID, decimal.RequireFromString("1250.555"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if income.Amount.StringFixed(2) != "1250.56" {
		t.Errorf("Expected amount rounded to 1250.56, got %s", income.Amount.StringFixed(2))
	}

	view, _ := service.GetIncome(ctx, userID)
	if !view.IsSet || !view.Amount.Equal(income.Amount) {
		t.Errorf("Expected stored income %s, got %s", income.Amount, view.Amount)
	}

	if types := publisher.Types(); len(types) != 2 || types[1] != "income.updated" {
		t.Errorf("Expected two income.updated events, got %v", types)
	}
}

func TestUpdateIncome_Negative(t *testing.T) {
	service := NewIncomeService(testutil.NewMockIncomeRepository())

	_, err := service.UpdateIncome(context.Background(), uuid.New(), decimal.NewFromInt(-1))
	if !errors.Is(err, domain.ErrNegativeAmount) {
		t.Errorf("Expected ErrNegativeAmount, got %v", err)
	}
}

func TestUpdateIncome_TooLarge(t *testing.T) {
	repo := testutil.NewMockIncomeRepository()
	service := NewIncomeService(repo)
	userID := uuid.New()

	_, err := service.UpdateIncome(context.Background(), userID, decimal.RequireFromString("1000000000000"))
	if !errors.Is(err, domain.ErrAmountTooLarge) {
		t.Errorf("Expected ErrAmountTooLarge, got %v", err)
	}
	if _, ok := repo.Incomes[userID]; ok {
		t.Error("Expected nothing to be stored")
	}
}

func TestUpdateIncome_ZeroAllowed(t *testing.T) {
	service := NewIncomeService(testutil.NewMockIncomeRepository())

	income, err := service.UpdateIncome(context.Background(), uuid.New(), decimal.Zero)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !income.Amount.IsZero() {
		t.Errorf("Expected zero, got %s", income.Amount)
	}
}
