package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Income is the single income figure a user budgets against
type Income struct {
	UserID    uuid.UUID       `json:"userId"`
	Amount    decimal.Decimal `json:"amount"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// IncomeRepository defines persistence for income.
// Get returns ErrIncomeNotSet when the user has not recorded an income yet.
type IncomeRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (*Income, error)
	Upsert(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*Income, error)
}
