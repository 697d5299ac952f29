package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ledgerly/ledgerly-backend/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// FallbackRates are approximate USD rates served when the upstream API is unreachable
var FallbackRates = map[string]string{
	"USD": "1",
	"EUR": "0.92",
	"GBP": "0.79",
	"JPY": "149.50",
	"INR": "83.10",
	"CAD": "1.36",
	"AUD": "1.52",
	"CHF": "0.88",
	"CNY": "7.24",
	"AZN": "1.70",
	"RUB": "92.50",
}

// CurrencyService caches exchange rates and converts amounts between currencies
type CurrencyService struct {
	provider domain.RateProvider
	ttl      time.Duration
	now      func() time.Time

	mu     sync.RWMutex
	cached *domain.ExchangeRates
}

// NewCurrencyService creates a new CurrencyService
func NewCurrencyService(provider domain.RateProvider, ttl time.Duration) *CurrencyService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CurrencyService{
		provider: provider,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Rates returns cached rates while fresh, refreshing them otherwise
func (s *CurrencyService) Rates(ctx context.Context) *domain.ExchangeRates {
	s.mu.RLock()
	cached := s.cached
	s.mu.RUnlock()

	if cached != nil && s.now().Sub(cached.FetchedAt) < s.ttl {
		rates := *cached
		if rates.Source == domain.RateSourceLive {
			rates.Source = domain.RateSourceCache
		}
		return &rates
	}
	return s.Refresh(ctx)
}

// Refresh fetches live rates, degrading to the stale cache and then to the static table
func (s *CurrencyService) Refresh(ctx context.Context) *domain.ExchangeRates {
	base, rates, err := s.provider.FetchRates(ctx)
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err == nil {
		s.cached = &domain.ExchangeRates{
			Base:      base,
			Rates:     normalizeRates(rates),
			Source:    domain.RateSourceLive,
			FetchedAt: now,
		}
		log.Debug().Str("base", base).Int("count", len(rates)).Msg("Exchange rates refreshed")
		copied := *s.cached
		return &copied
	}

	if s.cached != nil && s.cached.Source != domain.RateSourceFallback {
		log.Warn().Err(err).Time("fetched_at", s.cached.FetchedAt).Msg("Exchange rate refresh failed, serving stale rates")
		stale := *s.cached
		stale.Source = domain.RateSourceCache
		return &stale
	}

	log.Warn().Err(err).Msg("Exchange rate refresh failed, serving fallback rates")
	// Cached so a dead upstream is retried once per TTL rather than per request
	s.cached = fallbackExchangeRates(now)
	copied := *s.cached
	return &copied
}

// IsSupported reports whether code has a known rate
func (s *CurrencyService) IsSupported(ctx context.Context, code string) bool {
	_, ok := s.Rates(ctx).Rates[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}

// Convert converts amount between two currencies, rounded to cents
func (s *CurrencyService) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	convert, err := s.Converter(ctx, from, to)
	if err != nil {
		return decimal.Zero, err
	}
	return convert(amount), nil
}

// Converter returns a function converting amounts from one currency to another with a single rate lookup
func (s *CurrencyService) Converter(ctx context.Context, from, to string) (func(decimal.Decimal) decimal.Decimal, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))

	rates := s.Rates(ctx).Rates
	fromRate, ok := rates[from]
	if !ok || !fromRate.IsPositive() {
		return nil, domain.ErrUnsupportedCurrency
	}
	toRate, ok := rates[to]
	if !ok {
		return nil, domain.ErrUnsupportedCurrency
	}

	if from == to {
		return func(amount decimal.Decimal) decimal.Decimal { return amount.Round(2) }, nil
	}
	return func(amount decimal.Decimal) decimal.Decimal {
		return amount.Mul(toRate).Div(fromRate).Round(2)
	}, nil
}

func normalizeRates(rates map[string]decimal.Decimal) map[string]decimal.Decimal {
	normalized := make(map[string]decimal.Decimal, len(rates))
	for code, rate := range rates {
		normalized[strings.ToUpper(code)] = rate
	}
	return normalized
}

func fallbackExchangeRates(now time.Time) *domain.ExchangeRates {
	rates := make(map[string]decimal.Decimal, len(FallbackRates))
	for code, rate := range FallbackRates {
		rates[code] = decimal.RequireFromString(rate)
	}
	return &domain.ExchangeRates{
		Base:      "USD",
		Rates:     rates,
		Source:    domain.RateSourceFallback,
		FetchedAt: now,
	}
}
