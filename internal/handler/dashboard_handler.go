package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/ledgerly/ledgerly-backend/internal/domain"
	"github.com/ledgerly/ledgerly-backend/internal/middleware"
	"github.com/ledgerly/ledgerly-backend/internal/service"
)

// DashboardHandler handles dashboard-related HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// CategorySummaryResponse is one category's budget versus spending
type CategorySummaryResponse struct {
	Category     string `json:"category"`
	Frequency    string `json:"frequency,omitempty"`
	Budget       string `json:"budget"`
	Spent        string `json:"spent"`
	Remaining    string `json:"remaining"`
	Utilization  string `json:"utilization"`
	Warning      string `json:"warning,omitempty"`
	ExpenseCount int    `json:"expenseCount"`
}

// ChartPointResponse is a labelled value for pie and line charts
type ChartPointResponse struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// BarPointResponse is a budget versus spent pair for bar charts
type BarPointResponse struct {
	Label  string `json:"label"`
	Budget string `json:"budget"`
	Spent  string `json:"spent"`
}

// ChartsResponse holds the chart series
type ChartsResponse struct {
	Pie  []ChartPointResponse `json:"pie"`
	Bar  []BarPointResponse   `json:"bar"`
	Line []ChartPointResponse `json:"line"`
}

// DashboardSummaryResponse represents the dashboard summary API response
type DashboardSummaryResponse struct {
	Currency      string                    `json:"currency"`
	IncomeSet     bool                      `json:"incomeSet"`
	Income        string                    `json:"income"`
	TotalBudgeted string                    `json:"totalBudgeted"`
	TotalSpent    string                    `json:"totalSpent"`
	Unbudgeted    string                    `json:"unbudgeted"`
	Savings       string                    `json:"savings"`
	Categories    []CategorySummaryResponse `json:"categories"`
	Charts        ChartsResponse            `json:"charts"`
	GeneratedAt   string                    `json:"generatedAt"`
}

// GetSummary godoc
// @Summary Dashboard summary
// @Description Per-category aggregates, totals and chart series for the current budget periods
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param currency query string false "ISO 4217 code to convert amounts into"
// @Success 200 {object} DashboardSummaryResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	currency := strings.ToUpper(strings.TrimSpace(c.QueryParam("currency")))

	summary, err := h.dashboardService.GetSummary(c.Request().Context(), userID, currency)
	if err != nil {
		return respondError(c, err, "Failed to get dashboard summary")
	}

	return c.JSON(http.StatusOK, toDashboardResponse(summary))
}

func toDashboardResponse(s *domain.DashboardSummary) DashboardSummaryResponse {
	response := DashboardSummaryResponse{
		Currency:      s.Currency,
		IncomeSet:     s.IncomeSet,
		Income:        money(s.Income),
		TotalBudgeted: money(s.TotalBudgeted),
		TotalSpent:    money(s.TotalSpent),
		Unbudgeted:    money(s.Unbudgeted),
		Savings:       money(s.Savings),
		Categories:    make([]CategorySummaryResponse, len(s.Categories)),
		Charts: ChartsResponse{
			Pie:  toChartPoints(s.Charts.Pie),
			Bar:  make([]BarPointResponse, len(s.Charts.Bar)),
			Line: toChartPoints(s.Charts.Line),
		},
		GeneratedAt: s.GeneratedAt.UTC().Format(time.RFC3339),
	}

	for i, cat := range s.Categories {
		response.Categories[i] = CategorySummaryResponse{
			Category:     cat.Category,
			Frequency:    string(cat.Frequency),
			Budget:       money(cat.Budget),
			Spent:        money(cat.Spent),
			Remaining:    money(cat.Remaining),
			Utilization:  cat.Utilization.StringFixed(4),
			Warning:      string(cat.Warning),
			ExpenseCount: cat.ExpenseCount,
		}
	}
	for i, p := range s.Charts.Bar {
		response.Charts.Bar[i] = BarPointResponse{Label: p.Label, Budget: money(p.Budget), Spent: money(p.Spent)}
	}

	return response
}

func toChartPoints(points []domain.ChartPoint) []ChartPointResponse {
	out := make([]ChartPointResponse, len(points))
	for i, p := range points {
		out[i] = ChartPointResponse{Label: p.Label, Value: money(p.Value)}
	}
	return out
}
