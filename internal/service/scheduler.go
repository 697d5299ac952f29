package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ledgerly/ledgerly-backend/internal/domain"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// SchedulerConfig holds the cron expressions of the background jobs
type SchedulerConfig struct {
	RatesRefreshCron string // Exchange rate refresh, e.g. "@hourly"
	WeeklyReportCron string // Weekly report snapshots, e.g. "0 6 * * 1"
}

// DefaultSchedulerConfig returns sensible defaults
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		RatesRefreshCron: "@hourly",
		WeeklyReportCron: "0 6 * * 1", // Mondays 06:00 UTC
	}
}

// Scheduler runs the periodic jobs: exchange rate refresh and weekly reports
type Scheduler struct {
	currency *CurrencyService
	reports  *ReportService
	logger   zerolog.Logger
	cron     *cron.Cron
	ctx      context.Context
	cancel   context.CancelFunc
	mu       sync.Mutex
	running  bool
}

// NewScheduler creates a scheduler and registers its jobs
func NewScheduler(
	currency *CurrencyService,
	reports *ReportService,
	logger zerolog.Logger,
	config SchedulerConfig,
) (*Scheduler, error) {
	defaults := DefaultSchedulerConfig()
	if config.RatesRefreshCron == "" {
		config.RatesRefreshCron = defaults.RatesRefreshCron
	}
	if config.WeeklyReportCron == "" {
		config.WeeklyReportCron = defaults.WeeklyReportCron
	}

	s := &Scheduler{
		currency: currency,
		reports:  reports,
		logger:   logger.With().Str("component", "scheduler").Logger(),
		cron:     cron.New(cron.WithLocation(time.UTC)),
	}

	if _, err := s.cron.AddFunc(config.RatesRefreshCron, s.RefreshRates); err != nil {
		return nil, fmt.Errorf("invalid rates refresh schedule %q: %w", config.RatesRefreshCron, err)
	}
	if _, err := s.cron.AddFunc(config.WeeklyReportCron, s.GenerateWeeklyReports); err != nil {
		return nil, fmt.Errorf("invalid weekly report schedule %q: %w", config.WeeklyReportCron, err)
	}

	s.logger.Debug().
		Str("rates_cron", config.RatesRefreshCron).
		Str("weekly_report_cron", config.WeeklyReportCron).
		Msg("Scheduler configured")
	return s, nil
}

// Start refreshes rates once and begins running the scheduled jobs
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	s.logger.Info().Int("jobs", len(s.cron.Entries())).Msg("Starting scheduler")

	// Warm the rate cache so the first request does not wait on the upstream API
	go s.RefreshRates()
	s.cron.Start()
}

// Stop cancels running jobs and waits for them to return
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.cancel()
	s.mu.Unlock()

	s.logger.Info().Msg("Stopping scheduler")
	<-s.cron.Stop().Done()
	s.logger.Info().Msg("Scheduler stopped")
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) jobContext() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx == nil {
		return context.Background()
	}
	return s.ctx
}

// RefreshRates fetches exchange rates and logs which source ended up cached
func (s *Scheduler) RefreshRates() {
	startTime := time.Now()
	rates := s.currency.Refresh(s.jobContext())

	event := s.logger.Info()
	if rates.Source != domain.RateSourceLive {
		event = s.logger.Warn()
	}
	event.
		Str("source", string(rates.Source)).
		Int("currencies", len(rates.Rates)).
		Dur("elapsed", time.Since(startTime)).
		Msg("Exchange rates refreshed")
}

// GenerateWeeklyReports stores last week's report for every opted-in user
func (s *Scheduler) GenerateWeeklyReports() {
	startTime := time.Now()
	generated, err := s.reports.GenerateWeeklyReports(s.jobContext(), s.logger)
	if err != nil {
		s.logger.Error().Err(err).Int("generated", generated).Msg("Weekly report generation aborted")
		return
	}

	s.logger.Info().
		Int("generated", generated).
		Dur("elapsed", time.Since(startTime)).
		Msg("Completed weekly reports")
}
