package services

import (
	"time"

	"github.com/shopspring/decimal"

	"finsight/internal/advisor"
	"finsight/internal/analysis"
	"finsight/internal/models"
	"finsight/internal/pagination"
)

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate  *time.Time
	ToDate    *time.Time
	Type      *models.TransactionType
	Category  *string
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
}

// TransactionTotals aggregates the ledger into income, expenses and balance.
type TransactionTotals struct {
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Balance  decimal.Decimal `json:"balance"`
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	AddTransaction(amount decimal.Decimal, category, description string, date time.Time, transactionType models.TransactionType) (*models.Transaction, error)
	GetTransactions(page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetAllTransactions(filter TransactionFilter) ([]models.Transaction, error)
	GetTransactionByID(id uint) (*models.Transaction, error)
	UpdateTransaction(id uint, amount *decimal.Decimal, category, description *string, date *time.Time, transactionType *models.TransactionType) (*models.Transaction, error)
	DeleteTransaction(id uint) error
	GetTotals(filter TransactionFilter) (*TransactionTotals, error)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(name string, categoryType models.CategoryType, parent *string, monthlyLimit *decimal.Decimal) (*models.Category, error)
	GetCategories(page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoriesByType(categoryType models.CategoryType, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(id uint) (*models.Category, error)
	UpdateCategory(id uint, name *string, parent *string, monthlyLimit *decimal.Decimal) (*models.Category, error)
	DeleteCategory(id uint) error
	SeedDefaults() (int, error)
}

// CategoryProgress reports spend against one category's budget line.
type CategoryProgress struct {
	Category   string          `json:"category"`
	Budgeted   decimal.Decimal `json:"budgeted"`
	Spent      decimal.Decimal `json:"spent"`
	Remaining  decimal.Decimal `json:"remaining"`
	Percentage float64         `json:"percentage"`
}

// BudgetProgress contains spending vs budget data for a budget's period.
type BudgetProgress struct {
	BudgetID   uint               `json:"budget_id"`
	Budgeted   decimal.Decimal    `json:"budgeted"`
	Spent      decimal.Decimal    `json:"spent"`
	Remaining  decimal.Decimal    `json:"remaining"`
	Percentage float64            `json:"percentage"`
	Categories []CategoryProgress `json:"categories"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(name string, startDate, endDate time.Time, categoryLimits map[string]decimal.Decimal, totalLimit *decimal.Decimal) (*models.Budget, error)
	GetBudgets(page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error)
	GetBudgetByID(id uint) (*models.Budget, error)
	GetActiveBudget(now time.Time) (*models.Budget, error)
	DeleteBudget(id uint) error
	GetBudgetProgress(id uint) (*BudgetProgress, error)
}

// InsightServicer runs the analytics engine over the stored ledger.
type InsightServicer interface {
	SpendingCycles(minPeriods int, maxVarianceDays float64) (map[string][]analysis.Cycle, error)
	ImpulsePurchases(thresholdMultiplier float64, minAmount decimal.Decimal) ([]analysis.ImpulsePurchase, error)
	CategoryDrift(windowDays int, thresholdPercent float64) ([]analysis.CategoryDrift, error)
	SpendingAnomalies(lookbackDays int, zThreshold float64) ([]analysis.SpendingAnomaly, error)
	WeekendPatterns() (analysis.WeekendPattern, error)
	MonthEndPressure(months int) ([]analysis.MonthPressure, error)
	SpendingTrends(periodMonths int) (analysis.SpendingTrends, error)
	UnusualExpenses(thresholdMultiplier float64) ([]models.Transaction, error)
	RecurringExpenses(minOccurrences int) (map[string][]analysis.RecurringExpense, error)
	Forecast(monthsAhead int) (map[string]decimal.Decimal, error)
	CategoryAllocations(months int) (map[string]float64, error)
	BudgetRecommendation() (*advisor.Recommendation, error)
	RecommendedMonthlyBudget() (*models.Budget, error)
}
