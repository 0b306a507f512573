package models

import (
	"time"

	"github.com/shopspring/decimal"

	apperrors "finsight/internal/errors"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeExpense TransactionType = "expense"
	TransactionTypeIncome  TransactionType = "income"
)

// UncategorizedLabel is the category assigned to transactions without one.
const UncategorizedLabel = "Uncategorized"

// Transaction represents a financial transaction in the system.
// The amount is always a positive magnitude; the type carries the sign.
type Transaction struct {
	ID          uint            `gorm:"primaryKey" json:"id,omitempty"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	Category    string          `gorm:"not null" json:"category"`
	Description string          `json:"description"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
	Type        TransactionType `gorm:"not null" json:"type"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewTransaction creates a validated Transaction. The amount must be positive
// and the type must be expense or income; anything else is a data-entry error
// and fails fast.
func NewTransaction(
	amount decimal.Decimal,
	category string,
	description string,
	date time.Time,
	transactionType TransactionType,
) (*Transaction, error) {
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if transactionType != TransactionTypeExpense && transactionType != TransactionTypeIncome {
		return nil, apperrors.ErrInvalidTransactionType
	}
	if category == "" {
		category = UncategorizedLabel
	}
	if date.IsZero() {
		date = time.Now()
	}

	return &Transaction{
		Amount:      amount,
		Category:    category,
		Description: description,
		Date:        date,
		Type:        transactionType,
	}, nil
}

// IsExpense reports whether this is an expense transaction.
func (t *Transaction) IsExpense() bool {
	return t.Type == TransactionTypeExpense
}

// IsIncome reports whether this is an income transaction.
func (t *Transaction) IsIncome() bool {
	return t.Type == TransactionTypeIncome
}

// SignedAmount returns the amount negated for expenses and positive for income.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.IsExpense() {
		return t.Amount.Abs().Neg()
	}
	return t.Amount.Abs()
}
