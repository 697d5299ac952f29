package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// RateSource tells where a set of exchange rates came from
type RateSource string

const (
	RateSourceLive     RateSource = "live"
	RateSourceCache    RateSource = "cache"
	RateSourceFallback RateSource = "fallback"
)

// ExchangeRates are units of each currency per one unit of Base
type ExchangeRates struct {
	Base      string                     `json:"base"`
	Rates     map[string]decimal.Decimal `json:"rates"`
	Source    RateSource                 `json:"source"`
	FetchedAt time.Time                  `json:"fetchedAt"`
}

// RateProvider fetches current exchange rates from an upstream source
type RateProvider interface {
	FetchRates(ctx context.Context) (base string, rates map[string]decimal.Decimal, err error)
}
