package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/ledgerly/ledgerly-backend/internal/middleware"
)

// Handlers groups every HTTP handler the API exposes
type Handlers struct {
	Auth      *AuthHandler
	Income    *IncomeHandler
	Budget    *BudgetHandler
	Expense   *ExpenseHandler
	Dashboard *DashboardHandler
	Currency  *CurrencyHandler
	Settings  *SettingsHandler
	Goal      *GoalHandler
	Report    *ReportHandler
	Export    *ExportHandler
}

// RegisterRoutes sets up all API routes.
// authLimit guards the unauthenticated signup and signin endpoints.
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, authLimit echo.MiddlewareFunc, h Handlers) {
	requireAuth := authMiddleware.Authenticate()

	// API version 1
	api := e.Group("/api/v1")

	// Auth routes (public, rate limited)
	auth := api.Group("/auth")
	auth.POST("/signup", h.Auth.Signup, authLimit)
	auth.POST("/signin", h.Auth.Signin, authLimit)

	// Auth routes (protected)
	auth.GET("/me", h.Auth.Me, requireAuth)
	auth.POST("/signout", h.Auth.Signout, requireAuth)

	// Income routes (protected)
	income := api.Group("/income")
	income.Use(requireAuth)
	income.GET("", h.Income.GetIncome)
	income.PUT("", h.Income.UpdateIncome)

	// Budget routes (protected)
	budgets := api.Group("/budgets")
	budgets.Use(requireAuth)
	budgets.POST("", h.Budget.CreateBudget)
	budgets.GET("", h.Budget.GetBudgets)
	budgets.GET("/:id", h.Budget.GetBudget)
	budgets.PUT("/:id", h.Budget.UpdateBudget)
	budgets.DELETE("/:id", h.Budget.DeleteBudget)

	// Expense routes (protected)
	expenses := api.Group("/expenses")
	expenses.Use(requireAuth)
	expenses.POST("", h.Expense.CreateExpense)
	expenses.GET("", h.Expense.GetExpenses)
	expenses.DELETE("/:id", h.Expense.DeleteExpense)

	// Dashboard routes (protected)
	dashboard := api.Group("/dashboard")
	dashboard.Use(requireAuth)
	dashboard.GET("/summary", h.Dashboard.GetSummary)

	// Currency routes (protected)
	currency := api.Group("/currency")
	currency.Use(requireAuth)
	currency.GET("/rates", h.Currency.GetRates)
	currency.GET("/convert", h.Currency.Convert)

	// Settings routes (protected)
	settings := api.Group("/settings")
	settings.Use(requireAuth)
	settings.GET("", h.Settings.GetSettings)
	settings.PUT("", h.Settings.UpdateSettings)
	settings.POST("/avatar", h.Settings.UploadAvatar)

	// Saving goal routes (protected)
	goals := api.Group("/goals")
	goals.Use(requireAuth)
	goals.POST("", h.Goal.CreateGoal)
	goals.GET("", h.Goal.GetGoals)
	goals.GET("/:id", h.Goal.GetGoal)
	goals.PUT("/:id", h.Goal.UpdateGoal)
	goals.DELETE("/:id", h.Goal.DeleteGoal)
	goals.POST("/:id/contributions", h.Goal.Contribute)

	// Report routes (protected)
	reports := api.Group("/reports")
	reports.Use(requireAuth)
	reports.GET("/summary", h.Report.GetSummary)
	reports.GET("", h.Report.GetReports)
	reports.POST("", h.Report.GenerateReport)
	reports.GET("/:id", h.Report.GetReport)

	// Export routes (protected)
	export := api.Group("/export")
	export.Use(requireAuth)
	export.GET("/expenses", h.Export.ExportExpenses)

	registerLegacyRoutes(e, requireAuth, authLimit, h)
}

// registerLegacyRoutes keeps the original unversioned paths working for older clients
func registerLegacyRoutes(e *echo.Echo, requireAuth, authLimit echo.MiddlewareFunc, h Handlers) {
	e.POST("/signup", h.Auth.Signup, authLimit)
	e.POST("/signin", h.Auth.Signin, authLimit)

	e.POST("/addBudget", h.Budget.CreateBudget, requireAuth)
	e.GET("/getBudgets", h.Budget.GetBudgets, requireAuth)
	e.DELETE("/deleteBudget/:id", h.Budget.DeleteBudget, requireAuth)

	e.POST("/updateIncome", h.Income.UpdateIncome, requireAuth)
	e.GET("/getIncome", h.Income.GetIncome, requireAuth)

	e.GET("/getExpenses", h.Expense.GetExpenses, requireAuth)
	e.POST("/addExpense", h.Expense.CreateExpense, requireAuth)
	e.DELETE("/deleteExpense/:id", h.Expense.DeleteExpense, requireAuth)
}
