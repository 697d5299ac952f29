package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/ledgerly/ledgerly-backend/internal/domain"
	"github.com/ledgerly/ledgerly-backend/internal/middleware"
	"github.com/ledgerly/ledgerly-backend/internal/service"
)

// ReportHandler handles report HTTP requests
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GenerateReportRequest represents a request to snapshot a report
type GenerateReportRequest struct {
	From *string `json:"from,omitempty"`
	To   *string `json:"to,omitempty"`
}

// CategoryReportResponse is one category line of a report
type CategoryReportResponse struct {
	Category    string `json:"category"`
	Budgeted    string `json:"budgeted"`
	Spent       string `json:"spent"`
	Utilization string `json:"utilization"`
	Count       int    `json:"count"`
}

// MonthlyTotalResponse is the spending of one calendar month
type MonthlyTotalResponse struct {
	Month string `json:"month"`
	Spent string `json:"spent"`
}

// ReportSummaryResponse represents a report summary in API responses
type ReportSummaryResponse struct {
	From          string                   `json:"from"`
	To            string                   `json:"to"`
	Income        string                   `json:"income"`
	TotalSpent    string                   `json:"totalSpent"`
	Savings       string                   `json:"savings"`
	SavingsRate   string                   `json:"savingsRate"`
	ExpenseCount  int                      `json:"expenseCount"`
	Categories    []CategoryReportResponse `json:"categories"`
	MonthlyTotals []MonthlyTotalResponse   `json:"monthlyTotals"`
}

// ReportResponse represents a stored report
type ReportResponse struct {
	ID          int32                 `json:"id"`
	PeriodStart string                `json:"periodStart"`
	PeriodEnd   string                `json:"periodEnd"`
	CreatedAt   string                `json:"createdAt"`
	Summary     ReportSummaryResponse `json:"summary"`
}

// GetSummary godoc
// @Summary Spending report for a date range
// @Description Defaults to the current month; ranges are limited to 366 days
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} ReportSummaryResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /reports/summary [get]
func (h *ReportHandler) GetSummary(c echo.Context) error {
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

	summary, err := h.reportService.Summary(c.Request().Context(), userID, from, to)
	if err != nil {
		return respondError(c, err, "Failed to build report")
	}
	return c.JSON(http.StatusOK, toReportSummaryResponse(summary))
}

// GenerateReport godoc
// @Summary Store a report snapshot
// @Description Replaces an existing snapshot of the same period
// @Tags reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body GenerateReportRequest false "Period"
// @Success 201 {object} ReportResponse
// @Failure 400 {object} ProblemDetails
// @Router /reports [post]
func (h *ReportHandler) GenerateReport(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req GenerateReportRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}
	from, err := parseDateField("from", req.From)
	if err != nil {
		return invalidRequest(c, err)
	}
	to, err := parseDateField("to", req.To)
	if err != nil {
		return invalidRequest(c, err)
	}

	start, end, err := h.reportService.ResolveRange(from, to)
	if err != nil {
		return respondError(c, err, "Failed to generate report")
	}

	report, err := h.reportService.GenerateReport(c.Request().Context(), userID, start, end)
	if err != nil {
		return respondError(c, err, "Failed to generate report")
	}
	return c.JSON(http.StatusCreated, toReportResponse(report))
}

// GetReports godoc
// @Summary List stored reports
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum number of reports (default 52)"
// @Success 200 {array} ReportResponse
// @Failure 401 {object} ProblemDetails
// @Router /reports [get]
func (h *ReportHandler) GetReports(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var limit int32
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || parsed <= 0 {
			return NewValidationError(c, "Invalid limit", []ValidationError{
				{Field: "limit", Message: "Must be a positive integer"},
			})
		}
		limit = int32(parsed)
	}

	reports, err := h.reportService.ListReports(c.Request().Context(), userID, limit)
	if err != nil {
		return respondError(c, err, "Failed to list reports")
	}

	response := make([]ReportResponse, len(reports))
	for i, r := range reports {
		response[i] = toReportResponse(r)
	}
	return c.JSON(http.StatusOK, response)
}

// GetReport godoc
// @Summary Get a stored report
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param id path int true "Report ID"
// @Success 200 {object} ReportResponse
// @Failure 403 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /reports/{id} [get]
func (h *ReportHandler) GetReport(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseID(c, "id")
	if err != nil {
		return invalidRequest(c, err)
	}

	report, err := h.reportService.GetReport(c.Request().Context(), userID, id)
	if err != nil {
		return respondError(c, err, "Failed to get report")
	}
	return c.JSON(http.StatusOK, toReportResponse(report))
}

func toReportResponse(r *domain.Report) ReportResponse {
	return ReportResponse{
		ID:          r.ID,
		PeriodStart: formatDate(r.PeriodStart),
		PeriodEnd:   formatDate(r.PeriodEnd),
		CreatedAt:   r.CreatedAt.UTC().Format(time.RFC3339),
		Summary:     toReportSummaryResponse(&r.Summary),
	}
}

func toReportSummaryResponse(s *domain.ReportSummary) ReportSummaryResponse {
	response := ReportSummaryResponse{
		From:          formatDate(s.From),
		To:            formatDate(s.To),
		Income:        money(s.Income),
		TotalSpent:    money(s.TotalSpent),
		Savings:       money(s.Savings),
		SavingsRate:   s.SavingsRate.StringFixed(4),
		ExpenseCount:  s.ExpenseCount,
		Categories:    make([]CategoryReportResponse, len(s.Categories)),
		MonthlyTotals: make([]MonthlyTotalResponse, len(s.MonthlyTotals)),
	}
	for i, cat := range s.Categories {
		response.Categories[i] = CategoryReportResponse{
			Category:    cat.Category,
			Budgeted:    money(cat.Budgeted),
			Spent:       money(cat.Spent),
			Utilization: cat.Utilization.StringFixed(4),
			Count:       cat.Count,
		}
	}
	for i, m := range s.MonthlyTotals {
		response.MonthlyTotals[i] = MonthlyTotalResponse{Month: m.Month, Spent: money(m.Spent)}
	}
	return response
}
