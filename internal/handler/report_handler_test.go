package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/ledgerly/ledgerly-backend/internal/domain"
	"github.com/ledgerly/ledgerly-backend/internal/service"
	"github.com/ledgerly/ledgerly-backend/internal/testutil"
)

type reportFixture struct {
	handler    *ReportHandler
	reportRepo *testutil.MockReportRepository
	userID     uuid.UUID
}

// newReportFixture seeds March 2026: income 1000, a 300 Food budget and 550 of spending
func newReportFixture() *reportFixture {
	incomeRepo := testutil.NewMockIncomeRepository()
	budgetRepo := testutil.NewMockBudgetRepository()
	expenseRepo := testutil.NewMockExpenseRepository(budgetRepo)
	reportRepo := testutil.NewMockReportRepository()
	userID := uuid.New()

	incomeRepo.SetIncome(userID, "1000")
	budgetRepo.AddBudget(userID, "Food", domain.FrequencyMonthly, "300")
	expenseRepo.AddExpense(userID, "Food", time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), "100")
	expenseRepo.AddExpense(userID, "Food", time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC), "50")
	expenseRepo.AddExpense(userID, "Rent", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), "400")

	reportService := service.NewReportService(incomeRepo, budgetRepo, expenseRepo, testutil.NewMockSettingsRepository(), reportRepo)
	return &reportFixture{
		handler:    NewReportHandler(reportService),
		reportRepo: reportRepo,
		userID:     userID,
	}
}

func TestReportSummary_SingleMonth(t *testing.T) {
	e := echo.New()
	f := newReportFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/summary?from=2026-03-01&to=2026-03-31", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, f.userID, "alice")

	if err := f.handler.GetSummary(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response ReportSummaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Income != "1000.00" || response.TotalSpent != "550.00" || response.Savings != "450.00" {
		t.Errorf("Unexpected totals: income %s spent %s savings %s", response.Income, response.TotalSpent, response.Savings)
	}
	if response.SavingsRate != "0.4500" {
		t.Errorf("Expected savings rate 0.4500, got %s", response.SavingsRate)
	}
	if response.ExpenseCount != 3 {
		t.Errorf("Expected 3 expenses, got %d", response.ExpenseCount)
	}
	if len(response.Categories) != 2 {
		t.Fatalf("Expected 2 categories, got %d", len(response.Categories))
	}
	food := response.Categories[0]
	if food.Category != "Food" || food.Budgeted != "300.00" || food.Spent != "150.00" || food.Count != 2 {
		t.Errorf("Unexpected Food line: %+v", food)
	}
	if rent := response.Categories[1]; rent.Category != "Rent" || rent.Budgeted != "0.00" {
		t.Errorf("Expected unbudgeted Rent line, got %+v", rent)
	}
	if len(response.MonthlyTotals) != 1 || response.MonthlyTotals[0].Month != "2026-03" {
		t.Errorf("Expected one March total, got %+v", response.MonthlyTotals)
	}
}

func TestReportSummary_ScalesAcrossMonths(t *testing.T) {
	e := echo.New()
	f := newReportFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/summary?from=2026-03-01&to=2026-04-30", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, f.userID, "alice")

	if err := f.handler.GetSummary(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var response ReportSummaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Income != "2000.00" {
		t.Errorf("Expected two months of income, got %s", response.Income)
	}
	if response.Categories[0].Budgeted != "600.00" {
		t.Errorf("Expected two Food periods budgeted, got %s", response.Categories[0].Budgeted)
	}
	if len(response.MonthlyTotals) != 2 || response.MonthlyTotals[1].Spent != "0.00" {
		t.Errorf("Expected an empty April total, got %+v", response.MonthlyTotals)
	}
}

func TestGenerateReport_StoresSnapshot(t *testing.T) {
	e := echo.New()
	f := newReportFixture()

	req := newJSONRequest(http.MethodPost, "/api/v1/reports", `{"from": "2026-03-01", "to": "2026-03-31"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, f.userID, "alice")

	if err := f.handler.GenerateReport(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var response ReportResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.PeriodStart != "2026-03-01" || response.PeriodEnd != "2026-03-31" {
		t.Errorf("Unexpected period %s to %s", response.PeriodStart, response.PeriodEnd)
	}
	if response.Summary.TotalSpent != "550.00" {
		t.Errorf("Expected stored total 550.00, got %s", response.Summary.TotalSpent)
	}
	if len(f.reportRepo.Reports) != 1 {
		t.Errorf("Expected 1 stored report, got %d", len(f.reportRepo.Reports))
	}
}

func TestGenerateReport_InvertedRange(t *testing.T) {
	e := echo.New()
	f := newReportFixture()

	req := newJSONRequest(http.MethodPost, "/api/v1/reports", `{"from": "2026-03-31", "to": "2026-03-01"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, f.userID, "alice")

	if err := f.handler.GenerateReport(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rec.Code)
	}
	if problem := decodeProblem(t, rec); len(problem.Errors) != 1 || problem.Errors[0].Field != "to" {
		t.Errorf("Expected error on to, got %+v", problem.Errors)
	}
}

func TestGetReport_Ownership(t *testing.T) {
	f := newReportFixture()
	stored, err := f.reportRepo.Upsert(context.Background(), &domain.Report{
		UserID:      f.userID,
		PeriodStart: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Failed to seed report: %v", err)
	}

	tests := []struct {
		name       string
		userID     uuid.UUID
		id         string
		wantStatus int
	}{
		{"owner", f.userID, "1", http.StatusOK},
		{"other user", uuid.New(), "1", http.StatusForbidden},
		{"missing", f.userID, "7", http.StatusNotFound},
		{"invalid id", f.userID, "x", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+tt.id, nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			c.SetParamNames("id")
			c.SetParamValues(tt.id)
			setupAuthContext(c, tt.userID, "someone")

			if err := f.handler.GetReport(c); err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}

	if stored.ID != 1 {
		t.Errorf("Expected first report id 1, got %d", stored.ID)
	}
}

func TestGetReports_InvalidLimit(t *testing.T) {
	e := echo.New()
	f := newReportFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports?limit=0", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, f.userID, "alice")

	if err := f.handler.GetReports(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}
