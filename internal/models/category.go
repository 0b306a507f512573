package models

import (
	"time"

	"github.com/shopspring/decimal"

	apperrors "finsight/internal/errors"
)

// CategoryType represents the type of category
type CategoryType string

const (
	CategoryTypeExpense CategoryType = "expense"
	CategoryTypeIncome  CategoryType = "income"
)

// Category represents a label for classifying transactions. The hierarchy is
// a single level: a category may name a parent but parents have no parents of
// their own.
type Category struct {
	ID           uint                `gorm:"primaryKey" json:"id,omitempty"`
	Name         string              `gorm:"not null;index" json:"name"`
	Type         CategoryType        `gorm:"not null" json:"type"`
	Parent       *string             `json:"parent,omitempty"`
	MonthlyLimit decimal.NullDecimal `gorm:"type:decimal(20,4)" json:"monthly_limit,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// NewCategory creates a validated Category.
func NewCategory(name string, categoryType CategoryType, parent *string) (*Category, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	if categoryType != CategoryTypeExpense && categoryType != CategoryTypeIncome {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category type must be expense or income")
	}

	return &Category{
		Name:   name,
		Type:   categoryType,
		Parent: parent,
	}, nil
}

// IsExpenseCategory reports whether this is an expense category.
func (c *Category) IsExpenseCategory() bool {
	return c.Type == CategoryTypeExpense
}

// IsIncomeCategory reports whether this is an income category.
func (c *Category) IsIncomeCategory() bool {
	return c.Type == CategoryTypeIncome
}

// FullPath returns "parent > name" for child categories and the bare name otherwise.
func (c *Category) FullPath() string {
	if c.Parent != nil && *c.Parent != "" {
		return *c.Parent + " > " + c.Name
	}
	return c.Name
}

// DefaultExpenseCategories are seeded on first run.
var DefaultExpenseCategories = []string{
	"Housing",
	"Utilities",
	"Groceries",
	"Dining Out",
	"Transportation",
	"Healthcare",
	"Entertainment",
	"Shopping",
	"Education",
	"Personal Care",
	"Travel",
	"Gifts & Donations",
	"Insurance",
	"Investments",
	"Miscellaneous",
}

// DefaultIncomeCategories are seeded on first run.
var DefaultIncomeCategories = []string{
	"Salary",
	"Freelance",
	"Business",
	"Investments",
	"Gifts",
	"Other Income",
}

// DefaultCategories returns the full default category set.
func DefaultCategories() []Category {
	categories := make([]Category, 0, len(DefaultExpenseCategories)+len(DefaultIncomeCategories))
	for _, name := range DefaultExpenseCategories {
		categories = append(categories, Category{Name: name, Type: CategoryTypeExpense})
	}
	for _, name := range DefaultIncomeCategories {
		categories = append(categories, Category{Name: name, Type: CategoryTypeIncome})
	}
	return categories
}
