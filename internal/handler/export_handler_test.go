package handler

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/ledgerly/ledgerly-backend/internal/domain"
	"github.com/ledgerly/ledgerly-backend/internal/repository/storage"
	"github.com/ledgerly/ledgerly-backend/internal/service"
	"github.com/ledgerly/ledgerly-backend/internal/testutil"
)

func newTestExportHandler(store storage.ObjectStore) (*ExportHandler, uuid.UUID) {
	incomeRepo := testutil.NewMockIncomeRepository()
	budgetRepo := testutil.NewMockBudgetRepository()
	expenseRepo := testutil.NewMockExpenseRepository(budgetRepo)
	settingsRepo := testutil.NewMockSettingsRepository()
	userID := uuid.New()

	incomeRepo.SetIncome(userID, "1000")
	budgetRepo.AddBudget(userID, "Food", domain.FrequencyMonthly, "300")
	expenseRepo.AddExpense(userID, "Food", time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), "42.50")

	reports := service.NewReportService(incomeRepo, budgetRepo, expenseRepo, settingsRepo, testutil.NewMockReportRepository())
	return NewExportHandler(service.NewExportService(reports, settingsRepo, store)), userID
}

func TestExportExpenses_CSVAttachment(t *testing.T) {
	e := echo.New()
	h, userID := newTestExportHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/export/expenses?format=csv&from=2026-03-01&to=2026-03-31", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, userID, "alice")

	if err := h.ExportExpenses(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != "text/csv" {
		t.Errorf("Expected text/csv, got %s", ct)
	}
	disposition := rec.Header().Get(echo.HeaderContentDisposition)
	if !strings.Contains(disposition, `filename="expenses_2026-03-01_2026-03-31.csv"`) {
		t.Errorf("Unexpected Content-Disposition: %s", disposition)
	}

	rows, err := csv.NewReader(rec.Body).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected header and 1 row, got %d rows", len(rows))
	}
	if !strings.Contains(strings.Join(rows[1], ","), "42.50") {
		t.Errorf("Expected expense amount in row, got %v", rows[1])
	}
}

func TestExportExpenses_DefaultsToXLSX(t *testing.T) {
	e := echo.New()
	h, userID := newTestExportHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/export/expenses", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, userID, "alice")

	if err := h.ExportExpenses(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if !strings.HasSuffix(rec.Header().Get(echo.HeaderContentDisposition), `.xlsx"`) {
		t.Errorf("Expected xlsx filename, got %s", rec.Header().Get(echo.HeaderContentDisposition))
	}
	// xlsx files are zip archives
	if !strings.HasPrefix(rec.Body.String(), "PK") {
		t.Error("Expected zip payload")
	}
}

func TestExportExpenses_Link(t *testing.T) {
	e := echo.New()
	store := testutil.NewMockObjectStore()
	h, userID := newTestExportHandler(store)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/export/expenses?format=pdf&delivery=link&from=2026-03-01&to=2026-03-31", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, userID, "alice")

	if err := h.ExportExpenses(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response ExportLinkResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Filename != "expenses_2026-03-01_2026-03-31.pdf" {
		t.Errorf("Unexpected filename %s", response.Filename)
	}
	if !strings.HasPrefix(response.URL, "https://storage.test/") {
		t.Errorf("Expected presigned URL, got %s", response.URL)
	}
	if len(store.Objects) != 1 {
		t.Errorf("Expected 1 uploaded export, got %d", len(store.Objects))
	}
}

func TestExportExpenses_Rejected(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
	}{
		{"unknown format", "format=docx", http.StatusBadRequest},
		{"unknown delivery", "delivery=email", http.StatusBadRequest},
		{"bad date", "from=March", http.StatusBadRequest},
		{"link without storage", "delivery=link", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			h, userID := newTestExportHandler(nil)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/export/expenses?"+tt.query, nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			setupAuthContext(c, userID, "alice")

			if err := h.ExportExpenses(c); err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}
