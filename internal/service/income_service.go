package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/ledgerly/ledgerly-backend/internal/domain"
	"github.com/ledgerly/ledgerly-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

// IncomeService handles the user's income figure
type IncomeService struct {
	incomeRepo     domain.IncomeRepository
	eventPublisher websocket.EventPublisher
}

// NewIncomeService creates a new IncomeService
func NewIncomeService(incomeRepo domain.IncomeRepository) *IncomeService {
	return &IncomeService{incomeRepo: incomeRepo}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *IncomeService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *IncomeService) publishEvent(userID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(userID, event)
	}
}

// IncomeView is the income as shown to the user; IsSet is false before the first update
type IncomeView struct {
	Amount decimal.Decimal
	IsSet  bool
}

// GetIncome returns the user's income, or zero when none was recorded
func (s *IncomeService) GetIncome(ctx context.Context, userID uuid.UUID) (*IncomeView, error) {
	income, err := s.incomeRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrIncomeNotSet) {
			return &IncomeView{Amount: decimal.Zero}, nil
		}
		return nil, err
	}
	return &IncomeView{Amount: income.Amount, IsSet: true}, nil
}

// IncomeUpdatedPayload is the payload for income.updated events
type IncomeUpdatedPayload struct {
	Amount string `json:"amount"`
}

// UpdateIncome records the user's income
func (s *IncomeService) UpdateIncome(ctx context.Context, userID uuid.UUID, raw decimal.Decimal) (*domain.Income, error) {
	amount, err := domain.NonNegativeAmount(raw)
	if err != nil {
		return nil, err
	}

	income, err := s.incomeRepo.Upsert(ctx, userID, amount)
	if err != nil {
		return nil, err
	}

	s.publishEvent(userID, websocket.IncomeUpdated(IncomeUpdatedPayload{
		Amount: income.Amount.StringFixed(2),
	}))
	return income, nil
}
