package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerly/ledgerly-backend/internal/domain"
	"github.com/ledgerly/ledgerly-backend/internal/util"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// LineChartDays is the number of days covered by the daily spend series
const LineChartDays = 30

// DashboardService derives the dashboard aggregates from income, budgets and expenses
type DashboardService struct {
	incomeRepo   domain.IncomeRepository
	budgetRepo   domain.BudgetRepository
	expenseRepo  domain.ExpenseRepository
	settingsRepo domain.SettingsRepository
	currency     *CurrencyService
	now          func() time.Time
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	incomeRepo domain.IncomeRepository,
	budgetRepo domain.BudgetRepository,
	expenseRepo domain.ExpenseRepository,
	settingsRepo domain.SettingsRepository,
	currency *CurrencyService,
) *DashboardService {
	return &DashboardService{
		incomeRepo:   incomeRepo,
		budgetRepo:   budgetRepo,
		expenseRepo:  expenseRepo,
		settingsRepo: settingsRepo,
		currency:     currency,
		now:          time.Now,
	}
}

type dashboardData struct {
	income   *domain.Income
	budgets  []*domain.Budget
	expenses []*domain.Expense
	baseCurr string
}

// GetSummary returns the dashboard for the user, converted to currency when it is set
func (s *DashboardService) GetSummary(ctx context.Context, userID uuid.UUID, currency string) (*domain.DashboardSummary, error) {
	now := util.DateOnly(s.now())
	data, err := s.load(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	summary := buildDashboard(data, now)
	summary.Currency = data.baseCurr

	target := strings.ToUpper(strings.TrimSpace(currency))
	if target != "" && target != data.baseCurr {
		convert, err := s.currency.Converter(ctx, data.baseCurr, target)
		if err != nil {
			return nil, err
		}
		convertDashboard(summary, convert)
		summary.Currency = target
	}

	summary.GeneratedAt = s.now().UTC()
	return summary, nil
}

// load fetches everything the dashboard needs concurrently
func (s *DashboardService) load(ctx context.Context, userID uuid.UUID, now time.Time) (*dashboardData, error) {
	data := &dashboardData{baseCurr: domain.DefaultCurrency}

	// Wide enough for every budget period and the 30 day line chart
	from, to := util.YearBounds(now)
	weekStart, weekEnd := util.WeekBounds(now)
	for _, start := range []time.Time{weekStart, now.AddDate(0, 0, -(LineChartDays - 1))} {
		if start.Before(from) {
			from = start
		}
	}
	if weekEnd.After(to) {
		to = weekEnd
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		income, err := s.incomeRepo.Get(gctx, userID)
		if err != nil && !errors.Is(err, domain.ErrIncomeNotSet) {
			return err
		}
		data.income = income
		return nil
	})
	g.Go(func() error {
		budgets, err := s.budgetRepo.ListByUser(gctx, userID)
		data.budgets = budgets
		return err
	})
	g.Go(func() error {
		expenses, err := s.expenseRepo.List(gctx, userID, domain.ExpenseFilter{From: &from, To: &to})
		data.expenses = expenses
		return err
	})
	g.Go(func() error {
		settings, err := s.settingsRepo.Get(gctx, userID)
		if err != nil {
			if errors.Is(err, domain.ErrSettingsNotFound) {
				return nil
			}
			return err
		}
		data.baseCurr = settings.Currency
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}

func buildDashboard(data *dashboardData, now time.Time) *domain.DashboardSummary {
	summary := &domain.DashboardSummary{
		Income:        decimal.Zero,
		TotalBudgeted: decimal.Zero,
		TotalSpent:    decimal.Zero,
		Categories:    make([]domain.CategorySummary, 0, len(data.budgets)),
		Charts: domain.DashboardCharts{
			Pie:  make([]domain.ChartPoint, 0),
			Bar:  make([]domain.BarPoint, 0),
			Line: make([]domain.ChartPoint, 0, LineChartDays),
		},
	}
	if data.income != nil {
		summary.IncomeSet = true
		summary.Income = data.income.Amount
	}

	budgeted := make(map[string]bool, len(data.budgets))
	for _, b := range data.budgets {
		budgeted[strings.ToLower(b.Category)] = true
		from, to := b.Period(now)
		spent, count := sumCategory(data.expenses, b.Category, from, to)
		utilization, warning := domain.EvaluateUtilization(spent, b.Amount)

		summary.Categories = append(summary.Categories, domain.CategorySummary{
			Category:     b.Category,
			Frequency:    b.Frequency,
			Budget:       b.Amount,
			Spent:        spent,
			Remaining:    b.Amount.Sub(spent),
			Utilization:  utilization,
			Warning:      warning,
			ExpenseCount: count,
		})
		summary.TotalBudgeted = summary.TotalBudgeted.Add(b.Amount)
		summary.Charts.Bar = append(summary.Charts.Bar, domain.BarPoint{Label: b.Category, Budget: b.Amount, Spent: spent})
	}

	// Spend in categories whose budget was deleted still counts this month
	monthStart, monthEnd := util.MonthBounds(now)
	orphans := make(map[string]*domain.CategorySummary)
	var orphanOrder []string
	for _, e := range data.expenses {
		key := strings.ToLower(e.Category)
		if budgeted[key] || e.Date.Before(monthStart) || e.Date.After(monthEnd) {
			continue
		}
		cs, ok := orphans[key]
		if !ok {
			cs = &domain.CategorySummary{Category: e.Category, Budget: decimal.Zero, Spent: decimal.Zero, Utilization: decimal.Zero}
			orphans[key] = cs
			orphanOrder = append(orphanOrder, key)
		}
		cs.Spent = cs.Spent.Add(e.Amount)
		cs.ExpenseCount++
	}
	sort.Strings(orphanOrder)
	for _, key := range orphanOrder {
		cs := orphans[key]
		cs.Remaining = cs.Spent.Neg()
		summary.Categories = append(summary.Categories, *cs)
	}

	// Totals follow the calendar month of the income; category rows keep their own period
	for _, e := range data.expenses {
		if !e.Date.Before(monthStart) && !e.Date.After(monthEnd) {
			summary.TotalSpent = summary.TotalSpent.Add(e.Amount)
		}
	}
	for _, cs := range summary.Categories {
		if cs.Spent.IsPositive() {
			summary.Charts.Pie = append(summary.Charts.Pie, domain.ChartPoint{Label: cs.Category, Value: cs.Spent})
		}
	}

	summary.Unbudgeted = summary.Income.Sub(summary.TotalBudgeted)
	summary.Savings = summary.Income.Sub(summary.TotalSpent)
	summary.Charts.Line = dailySpend(data.expenses, now.AddDate(0, 0, -(LineChartDays-1)), now)
	return summary
}

func sumCategory(expenses []*domain.Expense, category string, from, to time.Time) (decimal.Decimal, int) {
	total := decimal.Zero
	count := 0
	for _, e := range expenses {
		if strings.EqualFold(e.Category, category) && !e.Date.Before(from) && !e.Date.After(to) {
			total = total.Add(e.Amount)
			count++
		}
	}
	return total, count
}

func dailySpend(expenses []*domain.Expense, from, to time.Time) []domain.ChartPoint {
	totals := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		key := e.Date.Format(util.DateLayout)
		totals[key] = totals[key].Add(e.Amount)
	}

	days := util.DaysInRange(from, to)
	points := make([]domain.ChartPoint, 0, len(days))
	for _, day := range days {
		key := day.Format(util.DateLayout)
		points = append(points, domain.ChartPoint{Label: key, Value: totals[key]})
	}
	return points
}

func convertDashboard(summary *domain.DashboardSummary, convert func(decimal.Decimal) decimal.Decimal) {
	summary.Income = convert(summary.Income)
	summary.TotalBudgeted = convert(summary.TotalBudgeted)
	summary.TotalSpent = convert(summary.TotalSpent)
	summary.Unbudgeted = convert(summary.Unbudgeted)
	summary.Savings = convert(summary.Savings)
	for i := range summary.Categories {
		c := &summary.Categories[i]
		c.Budget = convert(c.Budget)
		c.Spent = convert(c.Spent)
		c.Remaining = convert(c.Remaining)
	}
	for i := range summary.Charts.Pie {
		summary.Charts.Pie[i].Value = convert(summary.Charts.Pie[i].Value)
	}
	for i := range summary.Charts.Bar {
		summary.Charts.Bar[i].Budget = convert(summary.Charts.Bar[i].Budget)
		summary.Charts.Bar[i].Spent = convert(summary.Charts.Bar[i].Spent)
	}
	for i := range summary.Charts.Line {
		summary.Charts.Line[i].Value = convert(summary.Charts.Line[i].Value)
	}
}
