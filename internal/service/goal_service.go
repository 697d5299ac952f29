package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerly/ledgerly-backend/internal/domain"
	"github.com/ledgerly/ledgerly-backend/internal/util"
	"github.com/ledgerly/ledgerly-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

// GoalService handles saving goal business logic
type GoalService struct {
	goalRepo       domain.SavingGoalRepository
	eventPublisher websocket.EventPublisher
	now            func() time.Time
}

// NewGoalService creates a new GoalService
func NewGoalService(goalRepo domain.SavingGoalRepository) *GoalService {
	return &GoalService{goalRepo: goalRepo, now: time.Now}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *GoalService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *GoalService) publishEvent(userID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(userID, event)
	}
}

// GoalInput contains input for creating or updating a saving goal
type GoalInput struct {
	Name         string
	TargetAmount decimal.Decimal
	TargetDate   *time.Time
}

// GoalPayload is the payload for goal events
type GoalPayload struct {
	ID            int32  `json:"id"`
	Name          string `json:"name,omitempty"`
	TargetAmount  string `json:"targetAmount,omitempty"`
	CurrentAmount string `json:"currentAmount,omitempty"`
	Status        string `json:"status,omitempty"`
}

// CreateGoal creates a new active saving goal
func (s *GoalService) CreateGoal(ctx context.Context, userID uuid.UUID, input GoalInput) (*domain.SavingGoal, error) {
	name, err := s.validate(&input, nil)
	if err != nil {
		return nil, err
	}

	created, err := s.goalRepo.Create(ctx, &domain.SavingGoal{
		UserID:        userID,
		Name:          name,
		TargetAmount:  input.TargetAmount,
		CurrentAmount: decimal.Zero,
		TargetDate:    input.TargetDate,
		Status:        domain.GoalStatusActive,
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(userID, websocket.GoalCreated(goalPayload(created)))
	return created, nil
}

// ListGoals returns the user's saving goals
func (s *GoalService) ListGoals(ctx context.Context, userID uuid.UUID) ([]*domain.SavingGoal, error) {
	return s.goalRepo.ListByUser(ctx, userID)
}

// GetGoal returns one saving goal owned by the user
func (s *GoalService) GetGoal(ctx context.Context, userID uuid.UUID, id int32) (*domain.SavingGoal, error) {
	return s.getOwnedGoal(ctx, userID, id)
}

// UpdateGoal changes name, target and deadline; the status follows the new target
func (s *GoalService) UpdateGoal(ctx context.Context, userID uuid.UUID, id int32, input GoalInput) (*domain.SavingGoal, error) {
	existing, err := s.getOwnedGoal(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	name, err := s.validate(&input, existing.TargetDate)
	if err != nil {
		return nil, err
	}

	existing.Name = name
	existing.TargetAmount = input.TargetAmount
	existing.TargetDate = input.TargetDate
	existing.RefreshStatus()

	updated, err := s.goalRepo.Update(ctx, existing)
	if err != nil {
		return nil, err
	}

	s.publishEvent(userID, websocket.GoalUpdated(goalPayload(updated)))
	return updated, nil
}

// Contribute adds money to an active goal, completing it once the target is reached
func (s *GoalService) Contribute(ctx context.Context, userID uuid.UUID, id int32, raw decimal.Decimal) (*domain.SavingGoal, error) {
	amount, err := domain.PositiveAmount(raw)
	if err != nil {
		return nil, err
	}

	existing, err := s.getOwnedGoal(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if existing.Status == domain.GoalStatusCompleted {
		return nil, domain.ErrGoalCompleted
	}
	if existing.CurrentAmount.Add(amount).GreaterThan(domain.MaxAmount) {
		return nil, domain.ErrAmountTooLarge
	}

	updated, err := s.goalRepo.AddContribution(ctx, userID, id, amount)
	if err != nil {
		return nil, err
	}

	s.publishEvent(userID, websocket.GoalContributed(goalPayload(updated)))
	return updated, nil
}

// DeleteGoal removes a saving goal owned by the user
func (s *GoalService) DeleteGoal(ctx context.Context, userID uuid.UUID, id int32) error {
	if _, err := s.getOwnedGoal(ctx, userID, id); err != nil {
		return err
	}

	if err := s.goalRepo.Delete(ctx, userID, id); err != nil {
		return err
	}

	s.publishEvent(userID, websocket.GoalDeleted(GoalPayload{ID: id}))
	return nil
}

func (s *GoalService) getOwnedGoal(ctx context.Context, userID uuid.UUID, id int32) (*domain.SavingGoal, error) {
	goal, err := s.goalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if goal.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return goal, nil
}

// validate checks goal input. A deadline already stored may stay in the past,
// any new one must not be before today.
func (s *GoalService) validate(input *GoalInput, current *time.Time) (string, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return "", domain.ErrNameRequired
	}
	if len(name) > domain.MaxGoalNameLength {
		return "", domain.ErrNameTooLong
	}
	target, err := domain.PositiveAmount(input.TargetAmount)
	if err != nil {
		return "", err
	}
	input.TargetAmount = target
	if input.TargetDate != nil {
		date := util.DateOnly(*input.TargetDate)
		input.TargetDate = &date
		unchanged := current != nil && util.DateOnly(*current).Equal(date)
		if !unchanged && date.Before(util.DateOnly(s.now())) {
			return "", domain.ErrTargetDateInPast
		}
	}
	return name, nil
}

func goalPayload(g *domain.SavingGoal) GoalPayload {
	return GoalPayload{
		ID:            g.ID,
		Name:          g.Name,
		TargetAmount:  g.TargetAmount.StringFixed(2),
		CurrentAmount: g.CurrentAmount.StringFixed(2),
		Status:        string(g.Status),
	}
}
