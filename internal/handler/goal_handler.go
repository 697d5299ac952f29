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

// GoalHandler handles saving goal HTTP requests
type GoalHandler struct {
	goalService *service.GoalService
}

// NewGoalHandler creates a new GoalHandler
func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// GoalRequest represents the create/update goal request body
type GoalRequest struct {
	Name         string           `json:"name"`
	TargetAmount *decimal.Decimal `json:"targetAmount"`
	TargetDate   *string          `json:"targetDate,omitempty"` // YYYY-MM-DD
}

// ContributeRequest represents a contribution to a goal
type ContributeRequest struct {
	Amount *decimal.Decimal `json:"amount"`
}

// GoalResponse represents a saving goal in API responses
type GoalResponse struct {
	ID            int32   `json:"id"`
	Name          string  `json:"name"`
	TargetAmount  string  `json:"targetAmount"`
	CurrentAmount string  `json:"currentAmount"`
	TargetDate    *string `json:"targetDate"`
	Status        string  `json:"status"`
	Progress      string  `json:"progress"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

// CreateGoal godoc
// @Summary Create a saving goal
// @Tags goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body GoalRequest true "Goal"
// @Success 201 {object} GoalResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /goals [post]
func (h *GoalHandler) CreateGoal(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	input, err := bindGoalInput(c)
	if err != nil {
		return invalidRequest(c, err)
	}

	goal, err := h.goalService.CreateGoal(c.Request().Context(), userID, *input)
	if err != nil {
		return respondError(c, err, "Failed to create goal")
	}
	return c.JSON(http.StatusCreated, toGoalResponse(goal))
}

// GetGoals godoc
// @Summary List saving goals
// @Tags goals
// @Produce json
// @Security BearerAuth
// @Success 200 {array} GoalResponse
// @Failure 401 {object} ProblemDetails
// @Router /goals [get]
func (h *GoalHandler) GetGoals(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	goals, err := h.goalService.ListGoals(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err, "Failed to list goals")
	}

	response := make([]GoalResponse, len(goals))
	for i, g := range goals {
		response[i] = toGoalResponse(g)
	}
	return c.JSON(http.StatusOK, response)
}

// GetGoal handles GET /api/v1/goals/:id
func (h *GoalHandler) GetGoal(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseID(c, "id")
	if err != nil {
		return invalidRequest(c, err)
	}

	goal, err := h.goalService.GetGoal(c.Request().Context(), userID, id)
	if err != nil {
		return respondError(c, err, "Failed to get goal")
	}
	return c.JSON(http.StatusOK, toGoalResponse(goal))
}

// UpdateGoal handles PUT /api/v1/goals/:id
func (h *GoalHandler) UpdateGoal(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseID(c, "id")
	if err != nil {
		return invalidRequest(c, err)
	}
	input, err := bindGoalInput(c)
	if err != nil {
		return invalidRequest(c, err)
	}

	goal, err := h.goalService.UpdateGoal(c.Request().Context(), userID, id, *input)
	if err != nil {
		return respondError(c, err, "Failed to update goal")
	}
	return c.JSON(http.StatusOK, toGoalResponse(goal))
}

// Contribute godoc
// @Summary Add money to a saving goal
// @Description Reaching the target completes the goal; completed goals reject contributions
// @Tags goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Goal ID"
// @Param request body ContributeRequest true "Contribution"
// @Success 200 {object} GoalResponse
// @Failure 400 {object} ProblemDetails
// @Failure 403 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /goals/{id}/contributions [post]
func (h *GoalHandler) Contribute(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseID(c, "id")
	if err != nil {
		return invalidRequest(c, err)
	}

	var req ContributeRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}
	amount, err := requireAmount("amount", req.Amount)
	if err != nil {
		return invalidRequest(c, err)
	}

	goal, err := h.goalService.Contribute(c.Request().Context(), userID, id, amount)
	if err != nil {
		return respondError(c, err, "Failed to add contribution")
	}
	return c.JSON(http.StatusOK, toGoalResponse(goal))
}

// DeleteGoal handles DELETE /api/v1/goals/:id
func (h *GoalHandler) DeleteGoal(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseID(c, "id")
	if err != nil {
		return invalidRequest(c, err)
	}

	if err := h.goalService.DeleteGoal(c.Request().Context(), userID, id); err != nil {
		return respondError(c, err, "Failed to delete goal")
	}
	return c.NoContent(http.StatusNoContent)
}

func bindGoalInput(c echo.Context) (*service.GoalInput, error) {
	var req GoalRequest
	if err := c.Bind(&req); err != nil {
		return nil, &requestError{detail: "Invalid request body"}
	}
	target, err := requireAmount("targetAmount", req.TargetAmount)
	if err != nil {
		return nil, err
	}
	date, err := parseDateField("targetDate", req.TargetDate)
	if err != nil {
		return nil, err
	}
	return &service.GoalInput{Name: req.Name, TargetAmount: target, TargetDate: date}, nil
}

func toGoalResponse(g *domain.SavingGoal) GoalResponse {
	response := GoalResponse{
		ID:            g.ID,
		Name:          g.Name,
		TargetAmount:  money(g.TargetAmount),
		CurrentAmount: money(g.CurrentAmount),
		Status:        string(g.Status),
		Progress:      g.Progress().StringFixed(4),
		CreatedAt:     g.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     g.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if g.TargetDate != nil {
		date := formatDate(*g.TargetDate)
		response.TargetDate = &date
	}
	return response
}
