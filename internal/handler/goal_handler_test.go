package handler

import (
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
	"github.com/shopspring/decimal"
)

func newTestGoalHandler() (*GoalHandler, *testutil.MockSavingGoalRepository) {
	goalRepo := testutil.NewMockSavingGoalRepository()
	return NewGoalHandler(service.NewGoalService(goalRepo)), goalRepo
}

func addTestGoal(repo *testutil.MockSavingGoalRepository, userID uuid.UUID, name, target, current string) *domain.SavingGoal {
	goal := &domain.SavingGoal{
		ID:            repo.NextID,
		UserID:        userID,
		Name:          name,
		TargetAmount:  decimal.RequireFromString(target),
		CurrentAmount: decimal.RequireFromString(current),
		Status:        domain.GoalStatusActive,
	}
	goal.RefreshStatus()
	repo.Goals[goal.ID] = goal
	repo.NextID++
	return goal
}

func TestCreateGoal_Success(t *testing.T) {
	e := echo.New()
	h, goalRepo := newTestGoalHandler()
	targetDate := time.Now().AddDate(0, 6, 0).Format("2006-01-02")

	req := newJSONRequest(http.MethodPost, "/api/v1/goals", `{"name": " Emergency fund ", "targetAmount": "5000", "targetDate": "`+targetDate+`"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, uuid.New(), "alice")

	if err := h.CreateGoal(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var response GoalResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Name != "Emergency fund" {
		t.Errorf("Expected trimmed name, got %q", response.Name)
	}
	if response.Status != "active" || response.CurrentAmount != "0.00" || response.Progress != "0.0000" {
		t.Errorf("Unexpected new goal state: %+v", response)
	}
	if response.TargetDate == nil || *response.TargetDate != targetDate {
		t.Errorf("Expected target date %s, got %v", targetDate, response.TargetDate)
	}
	if len(goalRepo.Goals) != 1 {
		t.Errorf("Expected 1 stored goal, got %d", len(goalRepo.Goals))
	}
}

func TestCreateGoal_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing name", `{"targetAmount": 100}`, "name"},
		{"missing target", `{"name": "Bike"}`, "targetAmount"},
		{"past deadline", `{"name": "Bike", "targetAmount": 100, "targetDate": "2001-01-01"}`, "targetDate"},
		{"bad deadline", `{"name": "Bike", "targetAmount": 100, "targetDate": "soon"}`, "targetDate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			h, _ := newTestGoalHandler()

			req := newJSONRequest(http.MethodPost, "/api/v1/goals", tt.body)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			setupAuthContext(c, uuid.New(), "alice")

			if err := h.CreateGoal(c); err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("Expected status 400, got %d", rec.Code)
			}
			if problem := decodeProblem(t, rec); len(problem.Errors) != 1 || problem.Errors[0].Field != tt.field {
				t.Errorf("Expected error on %s, got %+v", tt.field, problem.Errors)
			}
		})
	}
}

func TestContribute_CompletesGoal(t *testing.T) {
	e := echo.New()
	h, goalRepo := newTestGoalHandler()
	userID := uuid.New()
	addTestGoal(goalRepo, userID, "Bike", "500", "450")

	req := newJSONRequest(http.MethodPost, "/api/v1/goals/1/contributions", `{"amount": 75}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	setupAuthContext(c, userID, "alice")

	if err := h.Contribute(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response GoalResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Status != "completed" {
		t.Errorf("Expected status completed, got %s", response.Status)
	}
	if response.CurrentAmount != "525.00" {
		t.Errorf("Expected current amount '525.00', got %s", response.CurrentAmount)
	}
}

func TestContribute_Rejected(t *testing.T) {
	ownerID := uuid.New()

	tests := []struct {
		name       string
		userID     uuid.UUID
		current    string
		body       string
		wantStatus int
	}{
		{"completed goal", ownerID, "500", `{"amount": 10}`, http.StatusConflict},
		{"other user", uuid.New(), "0", `{"amount": 10}`, http.StatusForbidden},
		{"non-positive amount", ownerID, "0", `{"amount": 0}`, http.StatusBadRequest},
		{"missing amount", ownerID, "0", `{}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			h, goalRepo := newTestGoalHandler()
			addTestGoal(goalRepo, ownerID, "Bike", "500", tt.current)

			req := newJSONRequest(http.MethodPost, "/api/v1/goals/1/contributions", tt.body)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			c.SetParamNames("id")
			c.SetParamValues("1")
			setupAuthContext(c, tt.userID, "someone")

			if err := h.Contribute(c); err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}

func TestUpdateGoal_ReopensWhenTargetRaised(t *testing.T) {
	e := echo.New()
	h, goalRepo := newTestGoalHandler()
	userID := uuid.New()
	goal := addTestGoal(goalRepo, userID, "Bike", "500", "500")
	if goal.Status != domain.GoalStatusCompleted {
		t.Fatalf("Expected seeded goal to be completed, got %s", goal.Status)
	}

	req := newJSONRequest(http.MethodPut, "/api/v1/goals/1", `{"name": "Better bike", "targetAmount": "800"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	setupAuthContext(c, userID, "alice")

	if err := h.UpdateGoal(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response GoalResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Status != "active" || response.Progress != "0.6250" {
		t.Errorf("Expected active goal at 0.6250, got %s at %s", response.Status, response.Progress)
	}
}

func TestGetGoals_OnlyOwn(t *testing.T) {
	e := echo.New()
	h, goalRepo := newTestGoalHandler()
	userID := uuid.New()
	addTestGoal(goalRepo, userID, "Bike", "500", "100")
	addTestGoal(goalRepo, uuid.New(), "Boat", "9000", "0")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/goals", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, userID, "alice")

	if err := h.GetGoals(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var response []GoalResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(response) != 1 || response[0].Name != "Bike" {
		t.Errorf("Expected only the user's goal, got %+v", response)
	}
}

func TestDeleteGoal(t *testing.T) {
	e := echo.New()
	h, goalRepo := newTestGoalHandler()
	userID := uuid.New()
	addTestGoal(goalRepo, userID, "Bike", "500", "0")

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/goals/1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	setupAuthContext(c, userID, "alice")

	if err := h.DeleteGoal(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", rec.Code)
	}
	if len(goalRepo.Goals) != 0 {
		t.Error("Expected goal to be deleted")
	}
}
