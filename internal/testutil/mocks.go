package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerly/ledgerly-backend/internal/domain"
	"github.com/ledgerly/ledgerly-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	ByID     map[uuid.UUID]*domain.User
	CreateFn func(user *domain.User) (*domain.User, error)
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		ByID: make(map[uuid.UUID]*domain.User),
	}
}

// Create creates a new user, enforcing case-insensitive unique username and email
func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if m.CreateFn != nil {
		return m.CreateFn(user)
	}
	for _, existing := range m.ByID {
		if strings.EqualFold(existing.Username, user.Username) {
			return nil, domain.ErrUsernameTaken
		}
		if strings.EqualFold(existing.Email, user.Email) {
			return nil, domain.ErrEmailTaken
		}
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.ByID[user.ID] = user
	return user, nil
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByUsername retrieves a user by username, case-insensitively
func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, user := range m.ByID {
		if strings.EqualFold(user.Username, username) {
			return user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// GetByEmail retrieves a user by email, case-insensitively
func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range m.ByID {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	m.ByID[user.ID] = user
}

// MockIncomeRepository is a mock implementation of domain.IncomeRepository
type MockIncomeRepository struct {
	Incomes map[uuid.UUID]*domain.Income
	GetFn   func(userID uuid.UUID) (*domain.Income, error)
}

// NewMockIncomeRepository creates a new MockIncomeRepository
func NewMockIncomeRepository() *MockIncomeRepository {
	return &MockIncomeRepository{
		Incomes: make(map[uuid.UUID]*domain.Income),
	}
}

// Get retrieves the user's income
func (m *MockIncomeRepository) Get(ctx context.Context, userID uuid.UUID) (*domain.Income, error) {
	if m.GetFn != nil {
		return m.GetFn(userID)
	}
	if income, ok := m.Incomes[userID]; ok {
		return income, nil
	}
	return nil, domain.ErrIncomeNotSet
}

// Upsert creates or replaces the user's income
func (m *MockIncomeRepository) Upsert(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*domain.Income, error) {
	income := &domain.Income{UserID: userID, Amount: amount, UpdatedAt: time.Now()}
	m.Incomes[userID] = income
	return income, nil
}

// SetIncome sets an income directly (helper for tests)
func (m *MockIncomeRepository) SetIncome(userID uuid.UUID, amount string) {
	m.Incomes[userID] = &domain.Income{UserID: userID, Amount: decimal.RequireFromString(amount)}
}

// MockBudgetRepository is a mock implementation of domain.BudgetRepository
type MockBudgetRepository struct {
	Budgets map[int32]*domain.Budget
	NextID  int32
	ListFn  func(userID uuid.UUID) ([]*domain.Budget, error)
}

// NewMockBudgetRepository creates a new MockBudgetRepository
func NewMockBudgetRepository() *MockBudgetRepository {
	return &MockBudgetRepository{
		Budgets: make(map[int32]*domain.Budget),
		NextID:  1,
	}
}

// Create creates a budget, enforcing one budget per category per user
func (m *MockBudgetRepository) Create(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	for _, existing := range m.Budgets {
		if existing.UserID == budget.UserID && strings.EqualFold(existing.Category, budget.Category) {
			return nil, domain.ErrBudgetAlreadyExists
		}
	}
	budget.ID = m.NextID
	m.NextID++
	budget.CreatedAt = time.Now()
	budget.UpdatedAt = budget.CreatedAt
	m.Budgets[budget.ID] = budget
	return budget, nil
}

// GetByID retrieves a budget regardless of owner
func (m *MockBudgetRepository) GetByID(ctx context.Context, id int32) (*domain.Budget, error) {
	if budget, ok := m.Budgets[id]; ok {
		return budget, nil
	}
	return nil, domain.ErrBudgetNotFound
}

// GetByCategory retrieves the user's budget for a category
func (m *MockBudgetRepository) GetByCategory(ctx context.Context, userID uuid.UUID, category string) (*domain.Budget, error) {
	for _, budget := range m.Budgets {
		if budget.UserID == userID && strings.EqualFold(budget.Category, category) {
			return budget, nil
		}
	}
	return nil, domain.ErrBudgetNotFound
}

// ListByUser retrieves the user's budgets ordered by category
func (m *MockBudgetRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Budget, error) {
	if m.ListFn != nil {
		return m.ListFn(userID)
	}
	var result []*domain.Budget
	for _, budget := range m.Budgets {
		if budget.UserID == userID {
			result = append(result, budget)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return strings.ToLower(result[i].Category) < strings.ToLower(result[j].Category)
	})
	return result, nil
}

// Update changes a budget's frequency and amount
func (m *MockBudgetRepository) Update(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	existing, ok := m.Budgets[budget.ID]
	if !ok || existing.UserID != budget.UserID {
		return nil, domain.ErrBudgetNotFound
	}
	existing.Frequency = budget.Frequency
	existing.Amount = budget.Amount
	existing.UpdatedAt = time.Now()
	return existing, nil
}

// Delete removes a budget owned by the user
func (m *MockBudgetRepository) Delete(ctx context.Context, userID uuid.UUID, id int32) error {
	existing, ok := m.Budgets[id]
	if !ok || existing.UserID != userID {
		return domain.ErrBudgetNotFound
	}
	delete(m.Budgets, id)
	return nil
}

// AddBudget adds a budget directly (helper for tests)
func (m *MockBudgetRepository) AddBudget(userID uuid.UUID, category string, frequency domain.Frequency, amount string) *domain.Budget {
	budget := &domain.Budget{
		ID:        m.NextID,
		UserID:    userID,
		Category:  category,
		Frequency: frequency,
		Amount:    decimal.RequireFromString(amount),
	}
	m.NextID++
	m.Budgets[budget.ID] = budget
	return budget
}

// MockExpenseRepository is a mock implementation of domain.ExpenseRepository.
// CreateWithinBudget resolves budgets through the linked budget mock.
type MockExpenseRepository struct {
	Expenses map[int32]*domain.Expense
	NextID   int32
	Budgets  *MockBudgetRepository
	ListFn   func(userID uuid.UUID, filter domain.ExpenseFilter) ([]*domain.Expense, error)
}

// NewMockExpenseRepository creates a new MockExpenseRepository
func NewMockExpenseRepository(budgets *MockBudgetRepository) *MockExpenseRepository {
	return &MockExpenseRepository{
		Expenses: make(map[int32]*domain.Expense),
		NextID:   1,
		Budgets:  budgets,
	}
}

// CreateWithinBudget inserts the expense and returns the period spend for its budget
func (m *MockExpenseRepository) CreateWithinBudget(ctx context.Context, expense *domain.Expense) (*domain.ExpenseCreation, error) {
	budget, err := m.Budgets.GetByCategory(ctx, expense.UserID, expense.Category)
	if err != nil {
		return nil, domain.ErrNoBudgetForCategory
	}

	expense.ID = m.NextID
	m.NextID++
	expense.Category = budget.Category
	expense.CreatedAt = time.Now()
	m.Expenses[expense.ID] = expense

	from, to := budget.Period(expense.Date)
	spent, _ := m.SumForCategory(ctx, expense.UserID, budget.Category, from, to)
	return &domain.ExpenseCreation{Expense: expense, Budget: budget, Spent: spent}, nil
}

// GetByID retrieves an expense regardless of owner
func (m *MockExpenseRepository) GetByID(ctx context.Context, id int32) (*domain.Expense, error) {
	if expense, ok := m.Expenses[id]; ok {
		return expense, nil
	}
	return nil, domain.ErrExpenseNotFound
}

// List retrieves the user's expenses, newest first
func (m *MockExpenseRepository) List(ctx context.Context, userID uuid.UUID, filter domain.ExpenseFilter) ([]*domain.Expense, error) {
	if m.ListFn != nil {
		return m.ListFn(userID, filter)
	}
	var result []*domain.Expense
	for _, e := range m.Expenses {
		if e.UserID != userID {
			continue
		}
		if filter.Category != "" && !strings.EqualFold(e.Category, filter.Category) {
			continue
		}
		if filter.From != nil && e.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && e.Date.After(*filter.To) {
			continue
		}
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.After(result[j].Date)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

// SumForCategory totals the user's expenses in a category between two dates inclusive
func (m *MockExpenseRepository) SumForCategory(ctx context.Context, userID uuid.UUID, category string, from, to time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, e := range m.Expenses {
		if e.UserID == userID && strings.EqualFold(e.Category, category) && !e.Date.Before(from) && !e.Date.After(to) {
			total = total.Add(e.Amount)
		}
	}
	return total, nil
}

// Delete removes an expense owned by the user
func (m *MockExpenseRepository) Delete(ctx context.Context, userID uuid.UUID, id int32) error {
	existing, ok := m.Expenses[id]
	if !ok || existing.UserID != userID {
		return domain.ErrExpenseNotFound
	}
	delete(m.Expenses, id)
	return nil
}

// AddExpense adds an expense directly (helper for tests)
func (m *MockExpenseRepository) AddExpense(userID uuid.UUID, category string, date time.Time, amount string) *domain.Expense {
	expense := &domain.Expense{
		ID:       m.NextID,
		UserID:   userID,
		Category: category,
		Date:     date,
		Amount:   decimal.RequireFromString(amount),
	}
	m.NextID++
	m.Expenses[expense.ID] = expense
	return expense
}

// MockSettingsRepository is a mock implementation of domain.SettingsRepository
type MockSettingsRepository struct {
	Settings map[uuid.UUID]*domain.UserSettings
}

// NewMockSettingsRepository creates a new MockSettingsRepository
func NewMockSettingsRepository() *MockSettingsRepository {
	return &MockSettingsRepository{
		Settings: make(map[uuid.UUID]*domain.UserSettings),
	}
}

// Get retrieves the user's saved settings
func (m *MockSettingsRepository) Get(ctx context.Context, userID uuid.UUID) (*domain.UserSettings, error) {
	if s, ok := m.Settings[userID]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, domain.ErrSettingsNotFound
}

// Upsert saves preferences, keeping any stored avatar
func (m *MockSettingsRepository) Upsert(ctx context.Context, settings *domain.UserSettings) (*domain.UserSettings, error) {
	saved := *settings
	if existing, ok := m.Settings[settings.UserID]; ok {
		saved.AvatarKey = existing.AvatarKey
	}
	saved.UpdatedAt = time.Now()
	m.Settings[settings.UserID] = &saved
	copied := saved
	return &copied, nil
}

// SetAvatar stores the avatar key, creating default settings when needed
func (m *MockSettingsRepository) SetAvatar(ctx context.Context, userID uuid.UUID, key string) (*domain.UserSettings, error) {
	s, ok := m.Settings[userID]
	if !ok {
		s = domain.DefaultSettings(userID)
		m.Settings[userID] = s
	}
	s.AvatarKey = &key
	copied := *s
	return &copied, nil
}

// ListWeeklyReportUserIDs returns users with weekly reports enabled
func (m *MockSettingsRepository) ListWeeklyReportUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for id, s := range m.Settings {
		if s.WeeklyReports {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids, nil
}

// MockSavingGoalRepository is a mock implementation of domain.SavingGoalRepository
type MockSavingGoalRepository struct {
	Goals  map[int32]*domain.SavingGoal
	NextID int32
}

// NewMockSavingGoalRepository creates a new MockSavingGoalRepository
func NewMockSavingGoalRepository() *MockSavingGoalRepository {
	return &MockSavingGoalRepository{
		Goals:  make(map[int32]*domain.SavingGoal),
		NextID: 1,
	}
}

// Create creates a new active goal
func (m *MockSavingGoalRepository) Create(ctx context.Context, goal *domain.SavingGoal) (*domain.SavingGoal, error) {
	goal.ID = m.NextID
	m.NextID++
	goal.CurrentAmount = decimal.Zero
	goal.Status = domain.GoalStatusActive
	goal.CreatedAt = time.Now()
	goal.UpdatedAt = goal.CreatedAt
	m.Goals[goal.ID] = goal
	return goal, nil
}

// GetByID retrieves a goal regardless of owner
func (m *MockSavingGoalRepository) GetByID(ctx context.Context, id int32) (*domain.SavingGoal, error) {
	if goal, ok := m.Goals[id]; ok {
		return goal, nil
	}
	return nil, domain.ErrGoalNotFound
}

// ListByUser retrieves the user's goals ordered by ID
func (m *MockSavingGoalRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.SavingGoal, error) {
	var result []*domain.SavingGoal
	for _, goal := range m.Goals {
		if goal.UserID == userID {
			result = append(result, goal)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Update changes name, target and date, re-deriving status
func (m *MockSavingGoalRepository) Update(ctx context.Context, goal *domain.SavingGoal) (*domain.SavingGoal, error) {
	existing, ok := m.Goals[goal.ID]
	if !ok || existing.UserID != goal.UserID {
		return nil, domain.ErrGoalNotFound
	}
	existing.Name = goal.Name
	existing.TargetAmount = goal.TargetAmount
	existing.TargetDate = goal.TargetDate
	existing.RefreshStatus()
	existing.UpdatedAt = time.Now()
	return existing, nil
}

// AddContribution adds to an active goal
func (m *MockSavingGoalRepository) AddContribution(ctx context.Context, userID uuid.UUID, id int32, amount decimal.Decimal) (*domain.SavingGoal, error) {
	goal, ok := m.Goals[id]
	if !ok || goal.UserID != userID {
		return nil, domain.ErrGoalNotFound
	}
	if goal.Status != domain.GoalStatusActive {
		return nil, domain.ErrGoalCompleted
	}
	goal.ApplyContribution(amount)
	goal.UpdatedAt = time.Now()
	return goal, nil
}

// Delete removes a goal owned by the user
func (m *MockSavingGoalRepository) Delete(ctx context.Context, userID uuid.UUID, id int32) error {
	goal, ok := m.Goals[id]
	if !ok || goal.UserID != userID {
		return domain.ErrGoalNotFound
	}
	delete(m.Goals, id)
	return nil
}

// MockReportRepository is a mock implementation of domain.ReportRepository
type MockReportRepository struct {
	Reports  map[int32]*domain.Report
	NextID   int32
	UpsertFn func(report *domain.Report) (*domain.Report, error)
}

// NewMockReportRepository creates a new MockReportRepository
func NewMockReportRepository() *MockReportRepository {
	return &MockReportRepository{
		Reports: make(map[int32]*domain.Report),
		NextID:  1,
	}
}

// Upsert stores a report, replacing one for the same user and period
func (m *MockReportRepository) Upsert(ctx context.Context, report *domain.Report) (*domain.Report, error) {
	if m.UpsertFn != nil {
		return m.UpsertFn(report)
	}
	for id, existing := range m.Reports {
		if existing.UserID == report.UserID && existing.PeriodStart.Equal(report.PeriodStart) && existing.PeriodEnd.Equal(report.PeriodEnd) {
			report.ID = id
			report.CreatedAt = time.Now()
			m.Reports[id] = report
			return report, nil
		}
	}
	report.ID = m.NextID
	m.NextID++
	report.CreatedAt = time.Now()
	m.Reports[report.ID] = report
	return report, nil
}

// GetByID retrieves a report regardless of owner
func (m *MockReportRepository) GetByID(ctx context.Context, id int32) (*domain.Report, error) {
	if report, ok := m.Reports[id]; ok {
		return report, nil
	}
	return nil, domain.ErrReportNotFound
}

// ListByUser retrieves the user's reports, newest period first
func (m *MockReportRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int32) ([]*domain.Report, error) {
	var result []*domain.Report
	for _, report := range m.Reports {
		if report.UserID == userID {
			result = append(result, report)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].PeriodStart.After(result[j].PeriodStart) })
	if limit > 0 && int(limit) < len(result) {
		result = result[:limit]
	}
	return result, nil
}

// MockObjectStore is an in-memory implementation of storage.ObjectStore
type MockObjectStore struct {
	Objects      map[string][]byte
	ContentTypes map[string]string
	Deleted      []string
	UploadErr    error
}

// NewMockObjectStore creates a new MockObjectStore
func NewMockObjectStore() *MockObjectStore {
	return &MockObjectStore{
		Objects:      make(map[string][]byte),
		ContentTypes: make(map[string]string),
	}
}

// Upload stores the object in memory
func (m *MockObjectStore) Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error) {
	if m.UploadErr != nil {
		return "", m.UploadErr
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, data); err != nil {
		return "", err
	}
	m.Objects[objectPath] = buf.Bytes()
	m.ContentTypes[objectPath] = contentType
	return objectPath, nil
}

// Delete removes an object
func (m *MockObjectStore) Delete(ctx context.Context, objectPath string) error {
	delete(m.Objects, objectPath)
	m.Deleted = append(m.Deleted, objectPath)
	return nil
}

// GeneratePresignedURL returns a fake URL embedding the key and expiry
func (m *MockObjectStore) GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error) {
	if _, ok := m.Objects[objectPath]; !ok {
		return "", fmt.Errorf("object %s not found", objectPath)
	}
	return fmt.Sprintf("https://storage.test/%s?expires=%d", objectPath, int(expiry.Seconds())), nil
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mu     sync.Mutex
	Events []websocket.Event
	Users  []uuid.UUID
}

// NewMockEventPublisher creates a new MockEventPublisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

// Publish records the event
func (m *MockEventPublisher) Publish(userID uuid.UUID, event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Users = append(m.Users, userID)
	m.Events = append(m.Events, event)
}

// Types returns the recorded event types in order
func (m *MockEventPublisher) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, len(m.Events))
	for i, e := range m.Events {
		types[i] = e.Type
	}
	return types
}

// MockRateProvider is a mock implementation of domain.RateProvider
type MockRateProvider struct {
	Base  string
	Rates map[string]decimal.Decimal
	Err   error
	Calls int
}

// NewMockRateProvider creates a provider returning the given USD-based rates
func NewMockRateProvider(rates map[string]string) *MockRateProvider {
	parsed := make(map[string]decimal.Decimal, len(rates))
	for code, rate := range rates {
		parsed[code] = decimal.RequireFromString(rate)
	}
	return &MockRateProvider{Base: "USD", Rates: parsed}
}

// FetchRates returns the configured rates or error
func (m *MockRateProvider) FetchRates(ctx context.Context) (string, map[string]decimal.Decimal, error) {
	m.Calls++
	if m.Err != nil {
		return "", nil, m.Err
	}
	return m.Base, m.Rates, nil
}
