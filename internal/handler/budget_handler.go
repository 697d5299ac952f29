package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/ledgerly/ledgerly-backend/internal/domain"
	"github.com/ledgerly/ledgerly-backend/internal/middleware"
	"github.com/ledgerly/ledgerly-backend/internal/service"
	"github.com/shopspring/decimal"
)

// BudgetHandler handles budget HTTP requests
type BudgetHandler struct {
	budgetService *service.BudgetService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// CreateBudgetRequest represents the create budget request body
type CreateBudgetRequest struct {
	Category  string           `json:"category"`
	Frequency string           `json:"frequency"`
	Amount    *decimal.Decimal `json:"amount"`
}

// UpdateBudgetRequest represents the update budget request body
type UpdateBudgetRequest struct {
	Frequency string           `json:"frequency"`
	Amount    *decimal.Decimal `json:"amount"`
}

// BudgetResponse represents a budget in API responses
type BudgetResponse struct {
	ID        int32  `json:"id"`
	Category  string `json:"category"`
	Frequency string `json:"frequency"`
	Amount    string `json:"amount"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// BudgetStatusResponse is a budget with its spending in the current period
type BudgetStatusResponse struct {
	BudgetResponse
	PeriodStart string `json:"periodStart"`
	PeriodEnd   string `json:"periodEnd"`
	Spent       string `json:"spent"`
	Remaining   string `json:"remaining"`
	Utilization string `json:"utilization"`
	Warning     string `json:"warning,omitempty"`
}

// CreateBudget godoc
// @Summary Create a budget
// @Description Rejected when no income is set, the amount exceeds income, or the category already has a budget
// @Tags budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateBudgetRequest true "Budget"
// @Success 201 {object} BudgetResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /budgets [post]
func (h *BudgetHandler) CreateBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateBudgetRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}
	amount, err := requireAmount("amount", req.Amount)
	if err != nil {
		return invalidRequest(c, err)
	}

	budget, err := h.budgetService.CreateBudget(c.Request().Context(), userID, service.CreateBudgetInput{
		Category:  req.Category,
		Frequency: domain.Frequency(req.Frequency),
		Amount:    amount,
	})
	if err != nil {
		return respondError(c, err, "Failed to create budget")
	}

	return c.JSON(http.StatusCreated, toBudgetResponse(budget))
}

// GetBudgets godoc
// @Summary List budgets
// @Description Ordered by category, each with spending in its current period
// @Tags budgets
// @Produce json
// @Security BearerAuth
// @Success 200 {array} BudgetStatusResponse
// @Failure 401 {object} ProblemDetails
// @Router /budgets [get]
func (h *BudgetHandler) GetBudgets(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	statuses, err := h.budgetService.ListBudgets(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err, "Failed to list budgets")
	}

	response := make([]BudgetStatusResponse, len(statuses))
	for i, status := range statuses {
		response[i] = toBudgetStatusResponse(status)
	}
	return c.JSON(http.StatusOK, response)
}

// GetBudget handles GET /api/v1/budgets/:id
func (h *BudgetHandler) GetBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseID(c, "id")
	if err != nil {
		return invalidRequest(c, err)
	}

	budget, err := h.budgetService.GetBudget(c.Request().Context(), userID, id)
	if err != nil {
		return respondError(c, err, "Failed to get budget")
	}
	return c.JSON(http.StatusOK, toBudgetResponse(budget))
}

// UpdateBudget godoc
// @Summary Update a budget's frequency and amount
// @Tags budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Budget ID"
// @Param request body UpdateBudgetRequest true "Budget changes"
// @Success 200 {object} BudgetResponse
// @Failure 400 {object} ProblemDetails
// @Failure 403 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /budgets/{id} [put]
func (h *BudgetHandler) UpdateBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseID(c, "id")
	if err != nil {
		return invalidRequest(c, err)
	}

	var req UpdateBudgetRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}
	amount, err := requireAmount("amount", req.Amount)
	if err != nil {
		return invalidRequest(c, err)
	}

	budget, err := h.budgetService.UpdateBudget(c.Request().Context(), userID, id, service.UpdateBudgetInput{
		Frequency: domain.Frequency(req.Frequency),
		Amount:    amount,
	})
	if err != nil {
		return respondError(c, err, "Failed to update budget")
	}

	return c.JSON(http.StatusOK, toBudgetResponse(budget))
}

// DeleteBudget godoc
// @Summary Delete a budget
// @Description Expenses recorded under the category are kept
// @Tags budgets
// @Security BearerAuth
// @Param id path int true "Budget ID"
// @Success 204
// @Failure 403 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseID(c, "id")
	if err != nil {
		return invalidRequest(c, err)
	}

	if err := h.budgetService.DeleteBudget(c.Request().Context(), userID, id); err != nil {
		return respondError(c, err, "Failed to delete budget")
	}

	return c.NoContent(http.StatusNoContent)
}

func toBudgetResponse(b *domain.Budget) BudgetResponse {
	return BudgetResponse{
		ID:        b.ID,
		Category:  b.Category,
		Frequency: string(b.Frequency),
		Amount:    money(b.Amount),
		CreatedAt: b.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: b.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toBudgetStatusResponse(s *domain.BudgetStatus) BudgetStatusResponse {
	return BudgetStatusResponse{
		BudgetResponse: toBudgetResponse(s.Budget),
		PeriodStart:    formatDate(s.PeriodStart),
		PeriodEnd:      formatDate(s.PeriodEnd),
		Spent:          money(s.Spent),
		Remaining:      money(s.Remaining),
		Utilization:    s.Utilization.StringFixed(4),
		Warning:        string(s.Warning),
	}
}
