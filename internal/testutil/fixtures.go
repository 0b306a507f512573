package testutil

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"finsight/internal/models"
)

// CreateTestTransaction inserts a transaction and returns it.
func CreateTestTransaction(
	t *testing.T,
	db *gorm.DB,
	amount float64,
	category string,
	date time.Time,
	transactionType models.TransactionType,
) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		Amount:      decimal.NewFromFloat(amount),
		Category:    category,
		Description: category,
		Date:        date,
		Type:        transactionType,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestExpense inserts an expense transaction.
func CreateTestExpense(t *testing.T, db *gorm.DB, amount float64, category string, date time.Time) *models.Transaction {
	t.Helper()
	return CreateTestTransaction(t, db, amount, category, date, models.TransactionTypeExpense)
}

// CreateTestIncome inserts an income transaction.
func CreateTestIncome(t *testing.T, db *gorm.DB, amount float64, category string, date time.Time) *models.Transaction {
	t.Helper()
	return CreateTestTransaction(t, db, amount, category, date, models.TransactionTypeIncome)
}

// CreateTestCategory inserts a category and returns it.
func CreateTestCategory(t *testing.T, db *gorm.DB, name string, categoryType models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{Name: name, Type: categoryType}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestBudget inserts a budget with the given limits and returns it.
func CreateTestBudget(
	t *testing.T,
	db *gorm.DB,
	name string,
	start, end time.Time,
	limits map[string]decimal.Decimal,
) *models.Budget {
	t.Helper()

	budget, err := models.NewBudget(name, start, end, limits, nil)
	if err != nil {
		t.Fatalf("failed to build test budget: %v", err)
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}
