package handler

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/ledgerly/ledgerly-backend/internal/service"
	"github.com/shopspring/decimal"
)

// CurrencyHandler serves exchange rates and conversions
type CurrencyHandler struct {
	currencyService *service.CurrencyService
}

// NewCurrencyHandler creates a new CurrencyHandler
func NewCurrencyHandler(currencyService *service.CurrencyService) *CurrencyHandler {
	return &CurrencyHandler{currencyService: currencyService}
}

// RatesResponse is the current exchange rate table
type RatesResponse struct {
	Base       string            `json:"base"`
	Source     string            `json:"source"`
	FetchedAt  string            `json:"fetchedAt"`
	Currencies []string          `json:"currencies"`
	Rates      map[string]string `json:"rates"`
}

// ConvertResponse is the result of a conversion
type ConvertResponse struct {
	Amount    string `json:"amount"`
	From      string `json:"from"`
	To        string `json:"to"`
	Converted string `json:"converted"`
}

// GetRates godoc
// @Summary Exchange rates
// @Description Source is live, cache (stale after a failed refresh) or fallback (static table)
// @Tags currency
// @Produce json
// @Security BearerAuth
// @Success 200 {object} RatesResponse
// @Failure 401 {object} ProblemDetails
// @Router /currency/rates [get]
func (h *CurrencyHandler) GetRates(c echo.Context) error {
	rates := h.currencyService.Rates(c.Request().Context())

	response := RatesResponse{
		Base:       rates.Base,
		Source:     string(rates.Source),
		FetchedAt:  rates.FetchedAt.UTC().Format(time.RFC3339),
		Currencies: make([]string, 0, len(rates.Rates)),
		Rates:      make(map[string]string, len(rates.Rates)),
	}
	for code, rate := range rates.Rates {
		response.Currencies = append(response.Currencies, code)
		response.Rates[code] = rate.String()
	}
	sort.Strings(response.Currencies)

	return c.JSON(http.StatusOK, response)
}

// Convert godoc
// @Summary Convert an amount between currencies
// @Tags currency
// @Produce json
// @Security BearerAuth
// @Param amount query string true "Amount"
// @Param from query string true "Source currency"
// @Param to query string true "Target currency"
// @Success 200 {object} ConvertResponse
// @Failure 400 {object} ProblemDetails
// @Router /currency/convert [get]
func (h *CurrencyHandler) Convert(c echo.Context) error {
	amount, err := decimal.NewFromString(strings.TrimSpace(c.QueryParam("amount")))
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	from := strings.ToUpper(strings.TrimSpace(c.QueryParam("from")))
	to := strings.ToUpper(strings.TrimSpace(c.QueryParam("to")))
	var errs []ValidationError
	if from == "" {
		errs = append(errs, ValidationError{Field: "from", Message: "Currency is required"})
	}
	if to == "" {
		errs = append(errs, ValidationError{Field: "to", Message: "Currency is required"})
	}
	if len(errs) > 0 {
		return NewValidationError(c, "Validation failed", errs)
	}

	converted, err := h.currencyService.Convert(c.Request().Context(), amount, from, to)
	if err != nil {
		return respondError(c, err, "Failed to convert amount")
	}

	return c.JSON(http.StatusOK, ConvertResponse{
		Amount:    amount.String(),
		From:      from,
		To:        to,
		Converted: money(converted),
	})
}
