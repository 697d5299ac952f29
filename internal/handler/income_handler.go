package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/ledgerly/ledgerly-backend/internal/middleware"
	"github.com/ledgerly/ledgerly-backend/internal/service"
	"github.com/shopspring/decimal"
)

// IncomeHandler handles income HTTP requests
type IncomeHandler struct {
	incomeService *service.IncomeService
}

// NewIncomeHandler creates a new IncomeHandler
func NewIncomeHandler(incomeService *service.IncomeService) *IncomeHandler {
	return &IncomeHandler{incomeService: incomeService}
}

// UpdateIncomeRequest represents the update income request body.
// Amount accepts a JSON number or a numeric string; older clients send it as "income".
type UpdateIncomeRequest struct {
	Amount *decimal.Decimal `json:"amount"`
	Income *decimal.Decimal `json:"income,omitempty"`
}

// IncomeResponse represents the user's income in API responses
type IncomeResponse struct {
	Amount    string  `json:"amount"`
	IsSet     bool    `json:"isSet"`
	UpdatedAt *string `json:"updatedAt,omitempty"`
}

// GetIncome godoc
// @Summary Get income
// @Tags income
// @Produce json
// @Security BearerAuth
// @Success 200 {object} IncomeResponse
// @Failure 401 {object} ProblemDetails
// @Router /income [get]
func (h *IncomeHandler) GetIncome(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	income, err := h.incomeService.GetIncome(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err, "Failed to get income")
	}

	return c.JSON(http.StatusOK, IncomeResponse{
		Amount: money(income.Amount),
		IsSet:  income.IsSet,
	})
}

// UpdateIncome godoc
// @Summary Set income
// @Tags income
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateIncomeRequest true "Income amount"
// @Success 200 {object} IncomeResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /income [put]
func (h *IncomeHandler) UpdateIncome(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req UpdateIncomeRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}
	if req.Amount == nil {
		req.Amount = req.Income
	}
	amount, err := requireAmount("amount", req.Amount)
	if err != nil {
		return invalidRequest(c, err)
	}

	income, err := h.incomeService.UpdateIncome(c.Request().Context(), userID, amount)
	if err != nil {
		return respondError(c, err, "Failed to update income")
	}

	updatedAt := income.UpdatedAt.UTC().Format(time.RFC3339)
	return c.JSON(http.StatusOK, IncomeResponse{
		Amount:    money(income.Amount),
		IsSet:     true,
		UpdatedAt: &updatedAt,
	})
}
