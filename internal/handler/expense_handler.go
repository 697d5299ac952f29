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

// ExpenseHandler handles expense HTTP requests
type ExpenseHandler struct {
	expenseService *service.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// CreateExpenseRequest represents the create expense request body
type CreateExpenseRequest struct {
	Category    string           `json:"category"`
	Description string           `json:"description"`
	Date        *string          `json:"date,omitempty"` // YYYY-MM-DD, defaults to today
	Amount      *decimal.Decimal `json:"amount"`
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID          int32  `json:"id"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Amount      string `json:"amount"`
	CreatedAt   string `json:"createdAt"`
}

// BudgetUsageResponse is the state of a budget after an expense was recorded
type BudgetUsageResponse struct {
	BudgetID    int32  `json:"budgetId"`
	Category    string `json:"category"`
	Limit       string `json:"limit"`
	Spent       string `json:"spent"`
	Remaining   string `json:"remaining"`
	Utilization string `json:"utilization"`
	Warning     string `json:"warning,omitempty"`
	PeriodStart string `json:"periodStart"`
	PeriodEnd   string `json:"periodEnd"`
}

// CreateExpenseResponse carries the new expense and its budget usage
type CreateExpenseResponse struct {
	Expense      ExpenseResponse     `json:"expense"`
	BudgetStatus BudgetUsageResponse `json:"budgetStatus"`
}

// ExpenseGroupResponse is a category bucket of expenses
type ExpenseGroupResponse struct {
	Category string            `json:"category"`
	Total    string            `json:"total"`
	Count    int               `json:"count"`
	Expenses []ExpenseResponse `json:"expenses"`
}

// CreateExpense godoc
// @Summary Record an expense
// @Description The category must have a budget. Crossing 80% of the budget returns warning "approaching", crossing 100% returns "exceeded".
// @Tags expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateExpenseRequest true "Expense"
// @Success 201 {object} CreateExpenseResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /expenses [post]
func (h *ExpenseHandler) CreateExpense(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateExpenseRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}
	amount, err := requireAmount("amount", req.Amount)
	if err != nil {
		return invalidRequest(c, err)
	}
	date, err := parseDateField("date", req.Date)
	if err != nil {
		return invalidRequest(c, err)
	}

	result, err := h.expenseService.CreateExpense(c.Request().Context(), userID, service.CreateExpenseInput{
		Category:    req.Category,
		Description: req.Description,
		Date:        date,
		Amount:      amount,
	})
	if err != nil {
		return respondError(c, err, "Failed to create expense")
	}

	status := result.BudgetStatus
	return c.JSON(http.StatusCreated, CreateExpenseResponse{
		Expense: toExpenseResponse(result.Expense),
		BudgetStatus: BudgetUsageResponse{
			BudgetID:    status.Budget.ID,
			Category:    status.Budget.Category,
			Limit:       money(status.Budget.Amount),
			Spent:       money(status.Spent),
			Remaining:   money(status.Remaining),
			Utilization: status.Utilization.StringFixed(4),
			Warning:     string(status.Warning),
			PeriodStart: formatDate(status.PeriodStart),
			PeriodEnd:   formatDate(status.PeriodEnd),
		},
	})
}

// GetExpenses godoc
// @Summary List expenses
// @Description Newest first. With groupBy=category the response is a list of category groups with totals.
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param category query string false "Category filter"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param groupBy query string false "Set to 'category' to group"
// @Success 200 {array} ExpenseResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /expenses [get]
func (h *ExpenseHandler) GetExpenses(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	from, err := parseDateQuery(c, "from")
	if err != nil {
		return invalidRequest(c, err)
	}
	to, err := parseDateQuery(c, "to")
	if err != nil {
		return invalidRequest(c, err)
	}
	filter := domain.ExpenseFilter{
		Category: c.QueryParam("category"),
		From:     from,
		To:       to,
	}

	switch c.QueryParam("groupBy") {
	case "":
	case "category":
		groups, err := h.expenseService.ListExpensesByCategory(c.Request().Context(), userID, filter)
		if err != nil {
			return respondError(c, err, "Failed to list expenses")
		}
		response := make([]ExpenseGroupResponse, len(groups))
		for i, g := range groups {
			response[i] = ExpenseGroupResponse{
				Category: g.Category,
				Total:    money(g.Total),
				Count:    g.Count,
				Expenses: toExpenseResponses(g.Expenses),
			}
		}
		return c.JSON(http.StatusOK, response)
	default:
		return NewValidationError(c, "Invalid groupBy", []ValidationError{
			{Field: "groupBy", Message: "Only 'category' is supported"},
		})
	}

	expenses, err := h.expenseService.ListExpenses(c.Request().Context(), userID, filter)
	if err != nil {
		return respondError(c, err, "Failed to list expenses")
	}
	return c.JSON(http.StatusOK, toExpenseResponses(expenses))
}

// DeleteExpense godoc
// @Summary Delete an expense
// @Tags expenses
// @Security BearerAuth
// @Param id path int true "Expense ID"
// @Success 204
// @Failure 403 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseID(c, "id")
	if err != nil {
		return invalidRequest(c, err)
	}

	if err := h.expenseService.DeleteExpense(c.Request().Context(), userID, id); err != nil {
		return respondError(c, err, "Failed to delete expense")
	}

	return c.NoContent(http.StatusNoContent)
}

func toExpenseResponse(e *domain.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID,
		Category:    e.Category,
		Description: e.Description,
		Date:        formatDate(e.Date),
		Amount:      money(e.Amount),
		CreatedAt:   e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toExpenseResponses(expenses []*domain.Expense) []ExpenseResponse {
	response := make([]ExpenseResponse, len(expenses))
	for i, e := range expenses {
		response[i] = toExpenseResponse(e)
	}
	return response
}
