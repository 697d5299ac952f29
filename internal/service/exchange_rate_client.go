package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ledgerly/ledgerly-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// ExchangeRateClient fetches rates from an open.er-api.com compatible endpoint
type ExchangeRateClient struct {
	httpClient *http.Client
	url        string
}

var _ domain.RateProvider = (*ExchangeRateClient)(nil)

// NewExchangeRateClient creates a client for the given rates URL
func NewExchangeRateClient(url string, timeout time.Duration) *ExchangeRateClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ExchangeRateClient{
		httpClient: &http.Client{Timeout: timeout},
		url:        url,
	}
}

type exchangeRateResponse struct {
	Result    string                     `json:"result"`
	BaseCode  string                     `json:"base_code"`
	Rates     map[string]decimal.Decimal `json:"rates"`
	ErrorType string                     `json:"error-type"`
}

// FetchRates downloads the current rates
func (c *ExchangeRateClient) FetchRates(ctx context.Context) (string, map[string]decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return "", nil, fmt.Errorf("build rates request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("fetch rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("fetch rates: unexpected status %d", resp.StatusCode)
	}

	var body exchangeRateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", nil, fmt.Errorf("decode rates: %w", err)
	}
	if body.Result != "success" {
		return "", nil, fmt.Errorf("rates api returned %q: %s", body.Result, body.ErrorType)
	}
	if len(body.Rates) == 0 {
		return "", nil, fmt.Errorf("rates api returned no rates")
	}

	base := strings.ToUpper(body.BaseCode)
	if base == "" {
		base = "USD"
	}
	return base, body.Rates, nil
}
