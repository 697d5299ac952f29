package service

import (
	"context"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/ledgerly/ledgerly-backend/internal/domain"
	"github.com/ledgerly/ledgerly-backend/internal/util"
	"github.com/ledgerly/ledgerly-backend/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ExpenseService handles expense business logic
type ExpenseService struct {
	expenseRepo    domain.ExpenseRepository
	eventPublisher websocket.EventPublisher
	now            func() time.Time
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(expenseRepo domain.ExpenseRepository) *ExpenseService {
	return &ExpenseService{
		expenseRepo: expenseRepo,
		now:         time.Now,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *ExpenseService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *ExpenseService) publishEvent(userID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(userID, event)
	}
}

// CreateExpenseInput contains input for recording an expense
type CreateExpenseInput struct {
	Category    string
	Description string
	Date        *time.Time // nil means today
	Amount      decimal.Decimal
}

// ExpenseResult is a recorded expense plus the state of its budget afterwards
type ExpenseResult struct {
	Expense      *domain.Expense
	BudgetStatus *domain.BudgetStatus
}

// ExpensePayload is the payload for expense events
type ExpensePayload struct {
	ID       int32  `json:"id"`
	Category string `json:"category"`
	Amount   string `json:"amount,omitempty"`
	Date     string `json:"date,omitempty"`
}

// BudgetWarningPayload is the payload for budget.warning events
type BudgetWarningPayload struct {
	BudgetID    int32  `json:"budgetId"`
	Category    string `json:"category"`
	Limit       string `json:"limit"`
	Spent       string `json:"spent"`
	Utilization string `json:"utilization"`
	Warning     string `json:"warning"`
}

// CreateExpense records an expense against the category's budget.
// The insert is accepted whenever a budget exists; crossing 80% or 100% only raises a warning.
func (s *ExpenseService) CreateExpense(ctx context.Context, userID uuid.UUID, input CreateExpenseInput) (*ExpenseResult, error) {
	category, err := normalizeCategory(input.Category)
	if err != nil {
		return nil, err
	}
	amount, err := domain.PositiveAmount(input.Amount)
	if err != nil {
		return nil, err
	}
	description := strings.TrimSpace(input.Description)
	if utf8.RuneCountInString(description) > domain.MaxDescriptionLength {
		return nil, domain.ErrDescriptionTooLong
	}
	date := util.DateOnly(s.now())
	if input.Date != nil {
		date = util.DateOnly(*input.Date)
	}

	created, err := s.expenseRepo.CreateWithinBudget(ctx, &domain.Expense{
		UserID:      userID,
		Category:    category,
		Description: description,
		Date:        date,
		Amount:      amount,
	})
	if err != nil {
		return nil, err
	}

	status := domain.NewBudgetStatus(created.Budget, created.Spent, created.Expense.Date)

	s.publishEvent(userID, websocket.ExpenseCreated(ExpensePayload{
		ID:       created.Expense.ID,
		Category: created.Expense.Category,
		Amount:   created.Expense.Amount.StringFixed(2),
		Date:     created.Expense.Date.Format(util.DateLayout),
	}))

	if status.Warning != domain.WarningNone {
		log.Info().
			Str("user_id", userID.String()).
			Str("category", created.Budget.Category).
			Str("utilization", status.Utilization.String()).
			Str("warning", string(status.Warning)).
			Msg("Budget warning raised")
		s.publishEvent(userID, websocket.BudgetWarning(BudgetWarningPayload{
			BudgetID:    created.Budget.ID,
			Category:    created.Budget.Category,
			Limit:       created.Budget.Amount.StringFixed(2),
			Spent:       status.Spent.StringFixed(2),
			Utilization: status.Utilization.String(),
			Warning:     string(status.Warning),
		}))
	}

	return &ExpenseResult{Expense: created.Expense, BudgetStatus: status}, nil
}

// ListExpenses returns the user's expenses, newest first
func (s *ExpenseService) ListExpenses(ctx context.Context, userID uuid.UUID, filter domain.ExpenseFilter) ([]*domain.Expense, error) {
	filter.Category = strings.TrimSpace(filter.Category)
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, domain.ErrInvalidDateRange
	}
	return s.expenseRepo.List(ctx, userID, filter)
}

// ListExpensesByCategory returns the user's expenses grouped by category with totals
func (s *ExpenseService) ListExpensesByCategory(ctx context.Context, userID uuid.UUID, filter domain.ExpenseFilter) ([]domain.ExpenseGroup, error) {
	expenses, err := s.ListExpenses(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	return GroupExpensesByCategory(expenses), nil
}

// GroupExpensesByCategory buckets expenses by category, keeping their order within each group
func GroupExpensesByCategory(expenses []*domain.Expense) []domain.ExpenseGroup {
	index := make(map[string]int)
	groups := make([]domain.ExpenseGroup, 0)
	for _, e := range expenses {
		key := strings.ToLower(e.Category)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, domain.ExpenseGroup{Category: e.Category, Total: decimal.Zero})
		}
		groups[i].Total = groups[i].Total.Add(e.Amount)
		groups[i].Count++
		groups[i].Expenses = append(groups[i].Expenses, e)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return strings.ToLower(groups[i].Category) < strings.ToLower(groups[j].Category)
	})
	return groups
}

// DeleteExpense removes one of the user's expenses
func (s *ExpenseService) DeleteExpense(ctx context.Context, userID uuid.UUID, id int32) error {
	existing, err := s.expenseRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		return domain.ErrForbidden
	}

	if err := s.expenseRepo.Delete(ctx, userID, id); err != nil {
		return err
	}

	s.publishEvent(userID, websocket.ExpenseDeleted(ExpensePayload{ID: existing.ID, Category: existing.Category}))
	return nil
}
