package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ledgerly/ledgerly-backend/internal/auth"
	"github.com/ledgerly/ledgerly-backend/internal/domain"
	"github.com/ledgerly/ledgerly-backend/internal/repository/postgres"
	"github.com/ledgerly/ledgerly-backend/internal/service"
	"github.com/ledgerly/ledgerly-backend/internal/util"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	flagSeedUsers    int
	flagSeedPassword string
	flagSeedRandom   int64
)

var seedCategories = []string{"Groceries", "Rent", "Transport", "Dining", "Utilities", "Entertainment", "Health", "Travel"}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create demo users with income, budgets and expenses",
	Args:  cobra.NoArgs,
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().IntVar(&flagSeedUsers, "users", 3, "Number of demo users to create")
	seedCmd.Flags().StringVar(&flagSeedPassword, "password", "ledgerly-demo", "Password shared by every demo user")
	seedCmd.Flags().Int64Var(&flagSeedRandom, "seed", 0, "Random seed (0 picks one)")
	rootCmd.AddCommand(seedCmd)
}

type seeder struct {
	auth     *service.AuthService
	income   *service.IncomeService
	budgets  *service.BudgetService
	expenses *service.ExpenseService
}

func runSeed(cmd *cobra.Command, _ []string) error {
	if flagSeedUsers <= 0 {
		return fmt.Errorf("--users must be positive")
	}
	if len(flagSeedPassword) < domain.MinPasswordLength {
		return fmt.Errorf("--password must be at least %d characters", domain.MinPasswordLength)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	gofakeit.Seed(flagSeedRandom)

	ctx := cmd.Context()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	tokens, err := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience, cfg.JWT.SessionTTL)
	if err != nil {
		return err
	}

	userRepo := postgres.NewUserRepository(pool)
	settingsRepo := postgres.NewSettingsRepository(pool)
	incomeRepo := postgres.NewIncomeRepository(pool)
	budgetRepo := postgres.NewBudgetRepository(pool)
	expenseRepo := postgres.NewExpenseRepository(pool)

	s := &seeder{
		auth:     service.NewAuthService(userRepo, settingsRepo, tokens),
		income:   service.NewIncomeService(incomeRepo),
		budgets:  service.NewBudgetService(budgetRepo, incomeRepo, expenseRepo),
		expenses: service.NewExpenseService(expenseRepo),
	}

	for i := 0; i < flagSeedUsers; i++ {
		user, err := s.createUser(ctx)
		if err != nil {
			return err
		}
		expenses, err := s.fill(ctx, user.ID)
		if err != nil {
			return fmt.Errorf("seed %s: %w", user.Username, err)
		}
		log.Info().Str("username", user.Username).Int("expenses", expenses).Msg("Seeded demo user")
		fmt.Fprintln(cmd.OutOrStdout(), user.Username)
	}
	return nil
}

// createUser retries on username collisions
func (s *seeder) createUser(ctx context.Context) (*domain.User, error) {
	for attempt := 0; attempt < 5; attempt++ {
		username := fmt.Sprintf("%s%d", strings.ToLower(gofakeit.FirstName()), gofakeit.Number(100, 9999))
		user, err := s.auth.Signup(ctx, service.SignupInput{
			Username: username,
			Email:    strings.ToLower(gofakeit.Email()),
			Password: flagSeedPassword,
		})
		if errors.Is(err, domain.ErrUsernameTaken) || errors.Is(err, domain.ErrEmailTaken) {
			log.Debug().Str("username", username).Msg("Demo username taken, retrying")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("create user %s: %w", username, err)
		}
		return user, nil
	}
	return nil, fmt.Errorf("could not find a free demo username")
}

// fill sets an income, a handful of monthly budgets and expenses spread over the current month
func (s *seeder) fill(ctx context.Context, userID uuid.UUID) (int, error) {
	income := decimal.NewFromInt(int64(gofakeit.Number(25, 80)) * 100)
	if _, err := s.income.UpdateIncome(ctx, userID, income); err != nil {
		return 0, err
	}

	today := util.DateOnly(time.Now())
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)

	categories := make([]string, len(seedCategories))
	copy(categories, seedCategories)
	gofakeit.ShuffleStrings(categories)

	created := 0
	for _, category := range categories[:gofakeit.Number(3, 5)] {
		share := decimal.NewFromInt(int64(gofakeit.Number(5, 30))).Div(decimal.NewFromInt(100))
		limit := income.Mul(share).Round(0)
		if _, err := s.budgets.CreateBudget(ctx, userID, service.CreateBudgetInput{
			Category:  category,
			Frequency: domain.FrequencyMonthly,
			Amount:    limit,
		}); err != nil {
			return created, err
		}

		for j := gofakeit.Number(2, 6); j > 0; j-- {
			date := util.DateOnly(gofakeit.DateRange(monthStart, today.Add(23*time.Hour)))
			amount := decimal.NewFromFloat(gofakeit.Price(1, limit.InexactFloat64()/3)).Round(2)
			if !amount.IsPositive() {
				amount = decimal.NewFromInt(1)
			}
			if _, err := s.expenses.CreateExpense(ctx, userID, service.CreateExpenseInput{
				Category:    category,
				Description: gofakeit.Sentence(3),
				Date:        &date,
				Amount:      amount,
			}); err != nil {
				return created, err
			}
			created++
		}
	}
	return created, nil
}
