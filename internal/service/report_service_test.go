package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerly/ledgerly-backend/internal/domain"
	"github.com/ledgerly/ledgerly-backend/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reportFixture struct {
	service   *ReportService
	incomes   *testutil.MockIncomeRepository
	budgets   *testutil.MockBudgetRepository
	expenses  *testutil.MockExpenseRepository
	settings  *testutil.MockSettingsRepository
	reports   *testutil.MockReportRepository
	publisher *testutil.MockEventPublisher
	userID    uuid.UUID
}

func newReportFixture() *reportFixture {
	f := &reportFixture{
		incomes:   testutil.NewMockIncomeRepository(),
		budgets:   testutil.NewMockBudgetRepository(),
		settings:  testutil.NewMockSettingsRepository(),
		reports:   testutil.NewMockReportRepository(),
		publisher: testutil.NewMockEventPublisher(),
		userID:    uuid.New(),
	}
	f.expenses = testutil.NewMockExpenseRepository(f.budgets)
	f.service = NewReportService(f.incomes, f.budgets, f.expenses, f.settings, f.reports)
	f.service.SetEventPublisher(f.publisher)
	f.service.now = func() time.Time { return time.Date(2026, 3, 18, 6, 0, 0, 0, time.UTC) }
	return f
}

func (f *reportFixture) seedMarch() {
	f.incomes.SetIncome(f.userID, "1000")
	f.budgets.AddBudget(f.userID, "Food", domain.FrequencyMonthly, "300")
	f.budgets.AddBudget(f.userID, "Transport", domain.FrequencyWeekly, "50")
	f.expenses.AddExpense(f.userID, "Food", day(3, 2), "50")
	f.expenses.AddExpense(f.userID, "Food", day(3, 17), "260")
	f.expenses.AddExpense(f.userID, "Transport", day(3, 16), "20")
	f.expenses.AddExpense(f.userID, "Gifts", day(3, 10), "15")
	f.expenses.AddExpense(f.userID, "Food", day(2, 20), "40")
}

func TestReportSummary_DefaultsToCurrentMonth(t *testing.T) {
	f := newReportFixture()
	f.seedMarch()

	summary, err := f.service.Summary(context.Background(), f.userID, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, day(3, 1), summary.From)
	assert.Equal(t, day(3, 31), summary.To)
	assert.Equal(t, "1000.00", summary.Income.StringFixed(2))
	assert.Equal(t, "345.00", summary.TotalSpent.StringFixed(2))
	assert.Equal(t, "655.00", summary.Savings.StringFixed(2))
	assert.Equal(t, "0.655", summary.SavingsRate.String())
	assert.Equal(t, 4, summary.ExpenseCount)

	require.Len(t, summary.Categories, 3)
	assert.Equal(t, "Food", summary.Categories[0].Category)
	assert.Equal(t, "310.00", summary.Categories[0].Spent.StringFixed(2))
	assert.Equal(t, "300.00", summary.Categories[0].Budgeted.StringFixed(2))
	assert.Equal(t, "Gifts", summary.Categories[1].Category)
	assert.True(t, summary.Categories[1].Budgeted.IsZero())

	// March 2026 touches six Monday-to-Sunday weeks
	assert.Equal(t, "Transport", summary.Categories[2].Category)
	assert.Equal(t, "300.00", summary.Categories[2].Budgeted.StringFixed(2))

	require.Len(t, summary.MonthlyTotals, 1)
	assert.Equal(t, "2026-03", summary.MonthlyTotals[0].Month)
}

func TestReportSummary_MultiMonth(t *testing.T) {
	f := newReportFixture()
	f.seedMarch()
	from, to := day(1, 1), day(3, 31)

	summary, err := f.service.Summary(context.Background(), f.userID, &from, &to)
	require.NoError(t, err)

	assert.Equal(t, "3000.00", summary.Income.StringFixed(2))
	assert.Equal(t, "385.00", summary.TotalSpent.StringFixed(2))
	require.Len(t, summary.MonthlyTotals, 3)
	assert.Equal(t, "2026-01", summary.MonthlyTotals[0].Month)
	assert.True(t, summary.MonthlyTotals[0].Spent.IsZero())
	assert.Equal(t, "40.00", summary.MonthlyTotals[1].Spent.StringFixed(2))
	assert.Equal(t, "345.00", summary.MonthlyTotals[2].Spent.StringFixed(2))
}

func TestReportSummary_InvalidRange(t *testing.T) {
	f := newReportFixture()
	ctx := context.Background()

	from, to := day(3, 10), day(3, 1)
	_, err := f.service.Summary(ctx, f.userID, &from, &to)
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)

	from, to = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	_, err = f.service.Summary(ctx, f.userID, &from, &to)
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)

	from, to = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	_, err = f.service.Summary(ctx, f.userID, &from, &to)
	assert.NoError(t, err, "a full leap year is 366 days")
}

func TestResolveRange_RejectsHugeRangeWithoutAllocating(t *testing.T) {
	f := newReportFixture()
	from := time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

	_, _, err := f.service.ResolveRange(&from, &to)
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)

	allocs := testing.AllocsPerRun(5, func() {
		_, _, _ = f.service.ResolveRange(&from, &to)
	})
	assert.LessOrEqual(t, allocs, 1.0, "range validation must not build the day list")

	// Only the start given: the end defaults to the current month
	_, _, err = f.service.ResolveRange(&from, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
}

func TestReportSummary_NoIncome(t *testing.T) {
	f := newReportFixture()

	summary, err := f.service.Summary(context.Background(), f.userID, nil, nil)
	require.NoError(t, err)
	assert.True(t, summary.Income.IsZero())
	assert.True(t, summary.SavingsRate.IsZero())
	assert.NotNil(t, summary.Categories)
}

func TestGenerateWeeklyReports(t *testing.T) {
	f := newReportFixture()
	f.seedMarch()

	optedIn := domain.DefaultSettings(f.userID)
	optedIn.WeeklyReports = true
	f.settings.Settings[f.userID] = optedIn
	other := uuid.New()
	f.settings.Settings[other] = domain.DefaultSettings(other)

	generated, err := f.service.GenerateWeeklyReports(context.Background(), zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 1, generated)

	require.Len(t, f.reports.Reports, 1)
	report := f.reports.Reports[1]
	assert.Equal(t, f.userID, report.UserID)
	assert.Equal(t, day(3, 9), report.PeriodStart)
	assert.Equal(t, day(3, 15), report.PeriodEnd)
	assert.Equal(t, "15.00", report.Summary.TotalSpent.StringFixed(2))
	assert.Equal(t, []string{"report.generated"}, f.publisher.Types())

	// Running again replaces the snapshot for the same week
	_, err = f.service.GenerateWeeklyReports(context.Background(), zerolog.Nop())
	require.NoError(t, err)
	assert.Len(t, f.reports.Reports, 1)
}

func TestGenerateWeeklyReports_ContinuesAfterFailure(t *testing.T) {
	f := newReportFixture()
	for i := 0; i < 3; i++ {
		id := uuid.New()
		s := domain.DefaultSettings(id)
		s.WeeklyReports = true
		f.settings.Settings[id] = s
	}
	calls := 0
	f.reports.UpsertFn = func(report *domain.Report) (*domain.Report, error) {
		calls++
		if calls == 2 {
			return nil, errors.New("db down")
		}
		report.ID = int32(calls)
		return report, nil
	}

	generated, err := f.service.GenerateWeeklyReports(context.Background(), zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, generated)
}

func TestGetReport_Ownership(t *testing.T) {
	f := newReportFixture()
	ctx := context.Background()

	mine, err := f.service.GenerateReport(ctx, f.userID, day(3, 9), day(3, 15))
	require.NoError(t, err)
	theirs, err := f.service.GenerateReport(ctx, uuid.New(), day(3, 9), day(3, 15))
	require.NoError(t, err)

	got, err := f.service.GetReport(ctx, f.userID, mine.ID)
	require.NoError(t, err)
	assert.Equal(t, mine.ID, got.ID)

	_, err = f.service.GetReport(ctx, f.userID, theirs.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.service.GetReport(ctx, f.userID, 999)
	assert.ErrorIs(t, err, domain.ErrReportNotFound)

	list, err := f.service.ListReports(ctx, f.userID, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
