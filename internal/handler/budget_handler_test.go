package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/ledgerly/ledgerly-backend/internal/domain"
	"github.com/ledgerly/ledgerly-backend/internal/service"
	"github.com/ledgerly/ledgerly-backend/internal/testutil"
	"github.com/ledgerly/ledgerly-backend/internal/util"
)

type budgetHandlerFixture struct {
	handler     *BudgetHandler
	incomeRepo  *testutil.MockIncomeRepository
	budgetRepo  *testutil.MockBudgetRepository
	expenseRepo *testutil.MockExpenseRepository
	userID      uuid.UUID
}

func newBudgetHandlerFixture() *budgetHandlerFixture {
	incomeRepo := testutil.NewMockIncomeRepository()
	budgetRepo := testutil.NewMockBudgetRepository()
	expenseRepo := testutil.NewMockExpenseRepository(budgetRepo)
	budgetService := service.NewBudgetService(budgetRepo, incomeRepo, expenseRepo)
	return &budgetHandlerFixture{
		handler:     NewBudgetHandler(budgetService),
		incomeRepo:  incomeRepo,
		budgetRepo:  budgetRepo,
		expenseRepo: expenseRepo,
		userID:      uuid.New(),
	}
}

func TestCreateBudget_Success(t *testing.T) {
	e := echo.New()
	f := newBudgetHandlerFixture()
	f.incomeRepo.SetIncome(f.userID, "1000")

	req := newJSONRequest(http.MethodPost, "/api/v1/budgets", `{"category": " Food ", "frequency": "monthly", "amount": "300"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, f.userID, "alice")

	if err := f.handler.CreateBudget(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var response BudgetResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Category != "Food" {
		t.Errorf("Expected category 'Food', got %q", response.Category)
	}
	if response.Amount != "300.00" {
		t.Errorf("Expected amount '300.00', got %s", response.Amount)
	}
}

func TestCreateBudget_NumericAmount(t *testing.T) {
	e := echo.New()
	f := newBudgetHandlerFixture()
	f.incomeRepo.SetIncome(f.userID, "1000")

	req := newJSONRequest(http.MethodPost, "/api/v1/budgets", `{"category": "Rent", "amount": 450.5}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, f.userID, "alice")

	if err := f.handler.CreateBudget(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var response BudgetResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Amount != "450.50" {
		t.Errorf("Expected amount '450.50', got %s", response.Amount)
	}
	if response.Frequency != "monthly" {
		t.Errorf("Expected default frequency 'monthly', got %s", response.Frequency)
	}
}

func TestCreateBudget_ExceedsIncome(t *testing.T) {
	e := echo.New()
	f := newBudgetHandlerFixture()
	f.incomeRepo.SetIncome(f.userID, "1000")

	req := newJSONRequest(http.MethodPost, "/api/v1/budgets", `{"category": "Travel", "amount": "1200"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, f.userID, "alice")

	if err := f.handler.CreateBudget(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rec.Code)
	}

	problem := decodeProblem(t, rec)
	if len(problem.Errors) != 1 {
		t.Fatalf("Expected 1 validation error, got %d", len(problem.Errors))
	}
	message := problem.Errors[0].Message
	if !strings.Contains(message, "1200.00") || !strings.Contains(message, "1000.00") {
		t.Errorf("Expected message to name both amounts, got %q", message)
	}
}

func TestCreateBudget_IncomeNotSet(t *testing.T) {
	e := echo.New()
	f := newBudgetHandlerFixture()

	req := newJSONRequest(http.MethodPost, "/api/v1/budgets", `{"category": "Food", "amount": "100"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, f.userID, "alice")

	if err := f.handler.CreateBudget(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rec.Code)
	}
	problem := decodeProblem(t, rec)
	if len(problem.Errors) != 1 || problem.Errors[0].Message != "Set your income before creating budgets" {
		t.Errorf("Expected income guidance, got %+v", problem.Errors)
	}
}

func TestCreateBudget_DuplicateCategory(t *testing.T) {
	e := echo.New()
	f := newBudgetHandlerFixture()
	f.incomeRepo.SetIncome(f.userID, "1000")
	f.budgetRepo.AddBudget(f.userID, "Food", domain.FrequencyMonthly, "300")

	req := newJSONRequest(http.MethodPost, "/api/v1/budgets", `{"category": "food", "amount": "200"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, f.userID, "alice")

	if err := f.handler.CreateBudget(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", rec.Code)
	}
}

func TestCreateBudget_MissingAmount(t *testing.T) {
	e := echo.New()
	f := newBudgetHandlerFixture()
	f.incomeRepo.SetIncome(f.userID, "1000")

	req := newJSONRequest(http.MethodPost, "/api/v1/budgets", `{"category": "Food"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, f.userID, "alice")

	if err := f.handler.CreateBudget(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rec.Code)
	}
	if problem := decodeProblem(t, rec); len(problem.Errors) != 1 || problem.Errors[0].Field != "amount" {
		t.Errorf("Expected amount error, got %+v", problem.Errors)
	}
}

func TestCreateBudget_NonNumericAmount(t *testing.T) {
	e := echo.New()
	f := newBudgetHandlerFixture()

	req := newJSONRequest(http.MethodPost, "/api/v1/budgets", `{"category": "Food", "amount": "lots"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, f.userID, "alice")

	if err := f.handler.CreateBudget(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestCreateBudget_Unauthenticated(t *testing.T) {
	e := echo.New()
	f := newBudgetHandlerFixture()

	req := newJSONRequest(http.MethodPost, "/api/v1/budgets", `{"category": "Food", "amount": "100"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := f.handler.CreateBudget(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestGetBudgets_OrderedWithSpending(t *testing.T) {
	e := echo.New()
	f := newBudgetHandlerFixture()
	f.budgetRepo.AddBudget(f.userID, "Rent", domain.FrequencyMonthly, "500")
	food := f.budgetRepo.AddBudget(f.userID, "Food", domain.FrequencyMonthly, "300")
	f.budgetRepo.AddBudget(uuid.New(), "Other user", domain.FrequencyMonthly, "100")

	f.expenseRepo.AddExpense(f.userID, food.Category, util.DateOnly(time.Now()), "240")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/budgets", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, f.userID, "alice")

	if err := f.handler.GetBudgets(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response []BudgetStatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(response) != 2 {
		t.Fatalf("Expected 2 budgets, got %d", len(response))
	}
	if response[0].Category != "Food" || response[1].Category != "Rent" {
		t.Errorf("Expected Food then Rent, got %s then %s", response[0].Category, response[1].Category)
	}
	if response[0].Spent != "240.00" {
		t.Errorf("Expected Food spent '240.00', got %s", response[0].Spent)
	}
	if response[0].Warning != "approaching" {
		t.Errorf("Expected Food warning 'approaching', got %q", response[0].Warning)
	}
}

func TestUpdateBudget_Success(t *testing.T) {
	e := echo.New()
	f := newBudgetHandlerFixture()
	f.incomeRepo.SetIncome(f.userID, "1000")
	budget := f.budgetRepo.AddBudget(f.userID, "Food", domain.FrequencyMonthly, "300")

	req := newJSONRequest(http.MethodPut, "/api/v1/budgets/1", `{"frequency": "weekly", "amount": "80"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	setupAuthContext(c, f.userID, "alice")

	if err := f.handler.UpdateBudget(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if stored := f.budgetRepo.Budgets[budget.ID]; stored.Frequency != domain.FrequencyWeekly {
		t.Errorf("Expected stored frequency weekly, got %s", stored.Frequency)
	}
}

func TestDeleteBudget_NotOwned(t *testing.T) {
	e := echo.New()
	f := newBudgetHandlerFixture()
	f.budgetRepo.AddBudget(uuid.New(), "Food", domain.FrequencyMonthly, "300")

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/budgets/1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	setupAuthContext(c, f.userID, "alice")

	if err := f.handler.DeleteBudget(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", rec.Code)
	}
	if len(f.budgetRepo.Budgets) != 1 {
		t.Error("Expected budget to be kept")
	}
}

func TestDeleteBudget_NotFound(t *testing.T) {
	e := echo.New()
	f := newBudgetHandlerFixture()

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/budgets/99", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("99")
	setupAuthContext(c, f.userID, "alice")

	if err := f.handler.DeleteBudget(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestDeleteBudget_Success(t *testing.T) {
	e := echo.New()
	f := newBudgetHandlerFixture()
	f.budgetRepo.AddBudget(f.userID, "Food", domain.FrequencyMonthly, "300")

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/budgets/1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	setupAuthContext(c, f.userID, "alice")

	if err := f.handler.DeleteBudget(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", rec.Code)
	}
	if len(f.budgetRepo.Budgets) != 0 {
		t.Error("Expected budget to be removed")
	}
}

func TestDeleteBudget_InvalidID(t *testing.T) {
	e := echo.New()
	f := newBudgetHandlerFixture()

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/budgets/abc", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("abc")
	setupAuthContext(c, f.userID, "alice")

	if err := f.handler.DeleteBudget(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}
