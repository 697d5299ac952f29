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
	"github.com/ledgerly/ledgerly-backend/internal/websocket"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// DefaultReportListLimit caps GET /reports when no limit is given
const DefaultReportListLimit = 52

// ReportService builds spending summaries and stores weekly snapshots
type ReportService struct {
	incomeRepo     domain.IncomeRepository
	budgetRepo     domain.BudgetRepository
	expenseRepo    domain.ExpenseRepository
	settingsRepo   domain.SettingsRepository
	reportRepo     domain.ReportRepository
	eventPublisher websocket.EventPublisher
	now            func() time.Time
}

// NewReportService creates a new ReportService
func NewReportService(
	incomeRepo domain.IncomeRepository,
	budgetRepo domain.BudgetRepository,
	expenseRepo domain.ExpenseRepository,
	settingsRepo domain.SettingsRepository,
	reportRepo domain.ReportRepository,
) *ReportService {
	return &ReportService{
		incomeRepo:   incomeRepo,
		budgetRepo:   budgetRepo,
		expenseRepo:  expenseRepo,
		settingsRepo: settingsRepo,
		reportRepo:   reportRepo,
		now:          time.Now,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *ReportService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *ReportService) publishEvent(userID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(userID, event)
	}
}

// ReportPayload is the payload for report events
type ReportPayload struct {
	ID          int32  `json:"id"`
	PeriodStart string `json:"periodStart"`
	PeriodEnd   string `json:"periodEnd"`
}

// ResolveRange applies the default (current month) and validates a report range
func (s *ReportService) ResolveRange(from, to *time.Time) (time.Time, time.Time, error) {
	start, end := util.MonthBounds(s.now())
	if from != nil {
		start = util.DateOnly(*from)
	}
	if to != nil {
		end = util.DateOnly(*to)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, domain.ErrInvalidDateRange
	}
	if util.DayCount(start, end) > domain.MaxReportRangeDays {
		return time.Time{}, time.Time{}, domain.ErrInvalidDateRange
	}
	return start, end, nil
}

// Summary computes the spending report for the range, defaulting to the current month
func (s *ReportService) Summary(ctx context.Context, userID uuid.UUID, from, to *time.Time) (*domain.ReportSummary, error) {
	start, end, err := s.ResolveRange(from, to)
	if err != nil {
		return nil, err
	}
	summary, _, err := s.summarize(ctx, userID, start, end)
	return summary, err
}

// SummaryWithExpenses is Summary plus the expenses it was computed from, newest first
func (s *ReportService) SummaryWithExpenses(ctx context.Context, userID uuid.UUID, from, to *time.Time) (*domain.ReportSummary, []*domain.Expense, error) {
	start, end, err := s.ResolveRange(from, to)
	if err != nil {
		return nil, nil, err
	}
	return s.summarize(ctx, userID, start, end)
}

func (s *ReportService) summarize(ctx context.Context, userID uuid.UUID, from, to time.Time) (*domain.ReportSummary, []*domain.Expense, error) {
	var (
		income   *domain.Income
		budgets  []*domain.Budget
		expenses []*domain.Expense
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		income, err = s.incomeRepo.Get(gctx, userID)
		if errors.Is(err, domain.ErrIncomeNotSet) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		var err error
		budgets, err = s.budgetRepo.ListByUser(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = s.expenseRepo.List(gctx, userID, domain.ExpenseFilter{From: &from, To: &to})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return buildReport(income, budgets, expenses, from, to), expenses, nil
}

// buildReport aggregates expenses in [from, to]. Income is a monthly figure and
// budgets are multiplied by the number of their periods the range touches.
func buildReport(income *domain.Income, budgets []*domain.Budget, expenses []*domain.Expense, from, to time.Time) *domain.ReportSummary {
	months := util.MonthsInRange(from, to)

	summary := &domain.ReportSummary{
		From:          from,
		To:            to,
		Income:        decimal.Zero,
		TotalSpent:    decimal.Zero,
		Categories:    []domain.CategoryReport{},
		MonthlyTotals: make([]domain.MonthlyTotal, 0, len(months)),
		ExpenseCount:  len(expenses),
	}
	if income != nil {
		summary.Income = income.Amount.Mul(decimal.NewFromInt(int64(len(months))))
	}

	byCategory := make(map[string]*domain.CategoryReport)
	for _, b := range budgets {
		byCategory[strings.ToLower(b.Category)] = &domain.CategoryReport{
			Category: b.Category,
			Budgeted: b.Amount.Mul(decimal.NewFromInt(int64(periodsInRange(b.Frequency, from, to)))),
			Spent:    decimal.Zero,
		}
	}

	monthly := make(map[string]decimal.Decimal, len(months))
	for _, e := range expenses {
		summary.TotalSpent = summary.TotalSpent.Add(e.Amount)

		key := strings.ToLower(e.Category)
		cat, ok := byCategory[key]
		if !ok {
			cat = &domain.CategoryReport{Category: e.Category, Budgeted: decimal.Zero, Spent: decimal.Zero}
			byCategory[key] = cat
		}
		cat.Spent = cat.Spent.Add(e.Amount)
		cat.Count++

		month := e.Date.Format("2006-01")
		monthly[month] = monthly[month].Add(e.Amount)
	}

	for _, cat := range byCategory {
		cat.Utilization, _ = domain.EvaluateUtilization(cat.Spent, cat.Budgeted)
		summary.Categories = append(summary.Categories, *cat)
	}
	sort.Slice(summary.Categories, func(i, j int) bool {
		return strings.ToLower(summary.Categories[i].Category) < strings.ToLower(summary.Categories[j].Category)
	})

	for _, m := range months {
		key := m.Format("2006-01")
		summary.MonthlyTotals = append(summary.MonthlyTotals, domain.MonthlyTotal{Month: key, Spent: monthly[key]})
	}

	summary.Savings = summary.Income.Sub(summary.TotalSpent)
	summary.SavingsRate = decimal.Zero
	if summary.Income.IsPositive() {
		summary.SavingsRate = summary.Savings.Div(summary.Income).Round(4)
	}
	return summary
}

// periodsInRange counts the budget periods that overlap [from, to]
func periodsInRange(f domain.Frequency, from, to time.Time) int {
	count := 0
	for start, _ := f.PeriodContaining(from); !start.After(to); count++ {
		_, end := f.PeriodContaining(start)
		start = end.AddDate(0, 0, 1)
	}
	return count
}

// ListReports returns the user's stored reports, newest first
func (s *ReportService) ListReports(ctx context.Context, userID uuid.UUID, limit int32) ([]*domain.Report, error) {
	if limit <= 0 || limit > DefaultReportListLimit {
		limit = DefaultReportListLimit
	}
	return s.reportRepo.ListByUser(ctx, userID, limit)
}

// GetReport returns one stored report owned by the user
func (s *ReportService) GetReport(ctx context.Context, userID uuid.UUID, id int32) (*domain.Report, error) {
	report, err := s.reportRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if report.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return report, nil
}

// GenerateWeeklyReports stores last week's summary for every user who opted in.
// A failure for one user is logged and does not stop the others.
func (s *ReportService) GenerateWeeklyReports(ctx context.Context, logger zerolog.Logger) (int, error) {
	userIDs, err := s.settingsRepo.ListWeeklyReportUserIDs(ctx)
	if err != nil {
		return 0, err
	}

	from, to := util.PreviousWeek(s.now())
	generated := 0
	for _, userID := range userIDs {
		if err := ctx.Err(); err != nil {
			return generated, err
		}

		report, err := s.GenerateReport(ctx, userID, from, to)
		if err != nil {
			logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to generate weekly report")
			continue
		}
		generated++
		logger.Debug().Str("user_id", userID.String()).Int32("report_id", report.ID).Msg("weekly report stored")
	}
	return generated, nil
}

// GenerateReport computes and stores the summary of [from, to] for one user
func (s *ReportService) GenerateReport(ctx context.Context, userID uuid.UUID, from, to time.Time) (*domain.Report, error) {
	summary, _, err := s.summarize(ctx, userID, util.DateOnly(from), util.DateOnly(to))
	if err != nil {
		return nil, err
	}

	report, err := s.reportRepo.Upsert(ctx, &domain.Report{
		UserID:      userID,
		PeriodStart: summary.From,
		PeriodEnd:   summary.To,
		Summary:     *summary,
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(userID, websocket.ReportGenerated(ReportPayload{
		ID:          report.ID,
		PeriodStart: report.PeriodStart.Format(util.DateLayout),
		PeriodEnd:   report.PeriodEnd.Format(util.DateLayout),
	}))
	return report, nil
}
