package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/ledgerly/ledgerly-backend/internal/domain"
	"github.com/ledgerly/ledgerly-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

// BudgetService handles budget business logic
type BudgetService struct {
	budgetRepo     domain.BudgetRepository
	incomeRepo     domain.IncomeRepository
	expenseRepo    domain.ExpenseRepository
	eventPublisher websocket.EventPublisher
	now            func() time.Time
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(
	budgetRepo domain.BudgetRepository,
	incomeRepo domain.IncomeRepository,
	expenseRepo domain.ExpenseRepository,
) *BudgetService {
	return &BudgetService{
		budgetRepo:  budgetRepo,
		incomeRepo:  incomeRepo,
		expenseRepo: expenseRepo,
		now:         time.Now,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *BudgetService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *BudgetService) publishEvent(userID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(userID, event)
	}
}

// CreateBudgetInput contains input for creating a budget
type CreateBudgetInput struct {
	Category  string
	Frequency domain.Frequency
	Amount    decimal.Decimal
}

// UpdateBudgetInput contains input for updating a budget
type UpdateBudgetInput struct {
	Frequency domain.Frequency
	Amount    decimal.Decimal
}

// BudgetPayload is the payload for budget events
type BudgetPayload struct {
	ID        int32  `json:"id"`
	Category  string `json:"category"`
	Frequency string `json:"frequency,omitempty"`
	Amount    string `json:"amount,omitempty"`
}

// CreateBudget creates a budget for a category the user has not budgeted yet
func (s *BudgetService) CreateBudget(ctx context.Context, userID uuid.UUID, input CreateBudgetInput) (*domain.Budget, error) {
	category, err := normalizeCategory(input.Category)
	if err != nil {
		return nil, err
	}
	frequency, err := normalizeFrequency(input.Frequency)
	if err != nil {
		return nil, err
	}
	amount, err := s.checkAmountAgainstIncome(ctx, userID, input.Amount)
	if err != nil {
		return nil, err
	}

	// The unique index catches a concurrent duplicate; this gives the common case a clean error
	if _, err := s.budgetRepo.GetByCategory(ctx, userID, category); err == nil {
		return nil, domain.ErrBudgetAlreadyExists
	} else if !isNotFound(err) {
		return nil, err
	}

	created, err := s.budgetRepo.Create(ctx, &domain.Budget{
		UserID:    userID,
		Category:  category,
		Frequency: frequency,
		Amount:    amount,
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(userID, websocket.BudgetCreated(budgetPayload(created)))
	return created, nil
}

// ListBudgets returns the user's budgets ordered by category with current-period spend
func (s *BudgetService) ListBudgets(ctx context.Context, userID uuid.UUID) ([]*domain.BudgetStatus, error) {
	budgets, err := s.budgetRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	result := make([]*domain.BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		from, to := b.Period(now)
		spent, err := s.expenseRepo.SumForCategory(ctx, userID, b.Category, from, to)
		if err != nil {
			return nil, err
		}
		result = append(result, domain.NewBudgetStatus(b, spent, now))
	}
	return result, nil
}

// GetBudget returns one of the user's budgets
func (s *BudgetService) GetBudget(ctx context.Context, userID uuid.UUID, id int32) (*domain.Budget, error) {
	return s.getOwnedBudget(ctx, userID, id)
}

// UpdateBudget changes the frequency and amount of a budget
func (s *BudgetService) UpdateBudget(ctx context.Context, userID uuid.UUID, id int32, input UpdateBudgetInput) (*domain.Budget, error) {
	existing, err := s.getOwnedBudget(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	frequency := existing.Frequency
	if input.Frequency != "" {
		if frequency, err = normalizeFrequency(input.Frequency); err != nil {
			return nil, err
		}
	}
	amount, err := s.checkAmountAgainstIncome(ctx, userID, input.Amount)
	if err != nil {
		return nil, err
	}

	updated, err := s.budgetRepo.Update(ctx, &domain.Budget{
		ID:        existing.ID,
		UserID:    userID,
		Category:  existing.Category,
		Frequency: frequency,
		Amount:    amount,
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(userID, websocket.BudgetUpdated(budgetPayload(updated)))
	return updated, nil
}

// DeleteBudget removes a budget; expenses recorded under it are kept
func (s *BudgetService) DeleteBudget(ctx context.Context, userID uuid.UUID, id int32) error {
	existing, err := s.getOwnedBudget(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.budgetRepo.Delete(ctx, userID, id); err != nil {
		return err
	}

	s.publishEvent(userID, websocket.BudgetDeleted(BudgetPayload{ID: existing.ID, Category: existing.Category}))
	return nil
}

// getOwnedBudget separates a missing budget (404) from someone else's (403)
func (s *BudgetService) getOwnedBudget(ctx context.Context, userID uuid.UUID, id int32) (*domain.Budget, error) {
	budget, err := s.budgetRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if budget.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return budget, nil
}

// checkAmountAgainstIncome returns the amount rounded to cents once it fits the user's income
func (s *BudgetService) checkAmountAgainstIncome(ctx context.Context, userID uuid.UUID, raw decimal.Decimal) (decimal.Decimal, error) {
	amount, err := domain.PositiveAmount(raw)
	if err != nil {
		return decimal.Zero, err
	}
	income, err := s.incomeRepo.Get(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	if amount.GreaterThan(income.Amount) {
		return decimal.Zero, &domain.BudgetExceedsIncomeError{Amount: amount, Income: income.Amount}
	}
	return amount, nil
}

func budgetPayload(b *domain.Budget) BudgetPayload {
	return BudgetPayload{
		ID:        b.ID,
		Category:  b.Category,
		Frequency: string(b.Frequency),
		Amount:    b.Amount.StringFixed(2),
	}
}

func normalizeCategory(raw string) (string, error) {
	category := strings.TrimSpace(raw)
	if category == "" {
		return "", domain.ErrCategoryRequired
	}
	if utf8.RuneCountInString(category) > domain.MaxCategoryLength {
		return "", domain.ErrCategoryTooLong
	}
	return category, nil
}

func normalizeFrequency(f domain.Frequency) (domain.Frequency, error) {
	f = domain.Frequency(strings.ToLower(strings.TrimSpace(string(f))))
	if f == "" {
		return domain.FrequencyMonthly, nil
	}
	if !f.IsValid() {
		return "", domain.ErrInvalidFrequency
	}
	return f, nil
}
