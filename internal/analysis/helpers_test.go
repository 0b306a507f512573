package analysis

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"finsight/internal/models"
)

func expenseTx(description, category string, amount float64, date time.Time) models.Transaction {
	return models.Transaction{
		Amount:      decimal.NewFromFloat(amount),
		Category:    category,
		Description: description,
		Date:        date,
		Type:        models.TransactionTypeExpense,
	}
}

func incomeTx(description, category string, amount float64, date time.Time) models.Transaction {
	t := expenseTx(description, category, amount, date)
	t.Type = models.TransactionTypeIncome
	return t
}

func assertDecimal(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("%s = %s, want %s", name, got, want)
	}
}
