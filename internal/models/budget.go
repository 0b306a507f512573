package models

import (
	"time"

	"github.com/shopspring/decimal"

	apperrors "finsight/internal/errors"
)

// Budget represents spending limits for a specific time period.
type Budget struct {
	ID         uint                `gorm:"primaryKey" json:"id,omitempty"`
	Name       string              `gorm:"not null" json:"name"`
	StartDate  time.Time           `gorm:"not null" json:"start_date"`
	EndDate    time.Time           `gorm:"not null" json:"end_date"`
	Limits     []BudgetLimit       `gorm:"foreignKey:BudgetID;constraint:OnDelete:CASCADE" json:"limits"`
	TotalLimit decimal.NullDecimal `gorm:"type:decimal(20,4)" json:"total_limit,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// BudgetLimit is a per-category limit belonging to a budget.
type BudgetLimit struct {
	BudgetID uint            `gorm:"primaryKey" json:"-"`
	Category string          `gorm:"primaryKey" json:"category"`
	Amount   decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
}

// NewBudget creates a validated Budget from a category→limit mapping.
// An end date before the start date is rejected; a zero-length period is
// allowed and handled by DailyLimit.
func NewBudget(
	name string,
	startDate, endDate time.Time,
	categoryLimits map[string]decimal.Decimal,
	totalLimit *decimal.Decimal,
) (*Budget, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget name is required")
	}
	if endDate.Before(startDate) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget end date must not be before start date")
	}

	limits := make([]BudgetLimit, 0, len(categoryLimits))
	for category, amount := range categoryLimits {
		limits = append(limits, BudgetLimit{Category: category, Amount: amount})
	}

	budget := &Budget{
		Name:      name,
		StartDate: startDate,
		EndDate:   endDate,
		Limits:    limits,
	}
	if totalLimit != nil {
		budget.TotalLimit = decimal.NewNullDecimal(*totalLimit)
	}
	return budget, nil
}

// DurationDays returns the budget period length in days.
func (b *Budget) DurationDays() int {
	return int(b.EndDate.Sub(b.StartDate).Hours() / 24)
}

// IsActive reports whether now falls within the budget period.
func (b *Budget) IsActive(now time.Time) bool {
	return !now.Before(b.StartDate) && !now.After(b.EndDate)
}

// CategoryLimits returns the per-category limits as a map.
func (b *Budget) CategoryLimits() map[string]decimal.Decimal {
	limits := make(map[string]decimal.Decimal, len(b.Limits))
	for _, l := range b.Limits {
		limits[l.Category] = l.Amount
	}
	return limits
}

// TotalCategoryLimits returns the sum of all per-category limits.
func (b *Budget) TotalCategoryLimits() decimal.Decimal {
	total := decimal.Zero
	for _, l := range b.Limits {
		total = total.Add(l.Amount)
	}
	return total
}

// DailyLimit returns the daily spending limit for a category, or the overall
// daily limit when category is empty. A zero-length period yields zero rather
// than dividing by zero.
func (b *Budget) DailyLimit(category string) decimal.Decimal {
	days := b.DurationDays()
	if days == 0 {
		return decimal.Zero
	}
	divisor := decimal.NewFromInt(int64(days))

	if category != "" {
		for _, l := range b.Limits {
			if l.Category == category {
				return l.Amount.Div(divisor)
			}
		}
		return decimal.Zero
	}

	if b.TotalLimit.Valid {
		return b.TotalLimit.Decimal.Div(divisor)
	}
	return b.TotalCategoryLimits().Div(divisor)
}
