// Package advisor composes the analysis engine into budget health scoring
// and actionable recommendations built around the 50/30/20 rule.
package advisor

import (
	"time"

	"github.com/shopspring/decimal"

	"finsight/internal/analysis"
	"finsight/internal/models"
)

// 50/30/20 rule targets, in percent of income.
const (
	NeedsTargetPercent   = 50
	WantsTargetPercent   = 30
	SavingsTargetPercent = 20
)

// metricsWindowDays is how far back the monthly-average metrics look.
const metricsWindowDays = 180

// Static classification of category names into the 50/30/20 buckets.
// Anything unmatched is treated as "other".
var (
	NeedsCategories = map[string]struct{}{
		"Housing": {}, "Utilities": {}, "Groceries": {}, "Transportation": {},
		"Healthcare": {}, "Insurance": {}, "Education": {}, "Debt Payments": {},
	}

	WantsCategories = map[string]struct{}{
		"Dining Out": {}, "Entertainment": {}, "Shopping": {}, "Travel": {},
		"Personal Care": {}, "Hobbies": {}, "Subscriptions": {},
	}

	SavingsCategories = map[string]struct{}{
		"Savings": {}, "Investments": {}, "Emergency Fund": {}, "Retirement": {},
	}
)

// Advisor generates personalized budget recommendations from a transaction
// snapshot. It precomputes the basic financial metrics at construction and
// holds no mutable state afterwards.
type Advisor struct {
	transactions []models.Transaction
	now          time.Time

	totalIncome        decimal.Decimal
	totalExpenses      decimal.Decimal
	avgMonthlyIncome   decimal.Decimal
	avgMonthlyExpenses decimal.Decimal
	savingsRate        decimal.Decimal
	spendingByCategory map[string]decimal.Decimal
}

// New creates an Advisor over the given transactions.
func New(transactions []models.Transaction) *Advisor {
	return newAt(transactions, time.Now())
}

func newAt(transactions []models.Transaction, now time.Time) *Advisor {
	a := &Advisor{
		transactions:       transactions,
		now:                now,
		totalIncome:        decimal.Zero,
		totalExpenses:      decimal.Zero,
		avgMonthlyIncome:   decimal.Zero,
		avgMonthlyExpenses: decimal.Zero,
		savingsRate:        decimal.Zero,
		spendingByCategory: make(map[string]decimal.Decimal),
	}
	a.calculateMetrics()
	return a
}

// calculateMetrics derives totals, trailing monthly averages, the savings
// rate and the per-category spend map.
func (a *Advisor) calculateMetrics() {
	windowStart := a.now.AddDate(0, 0, -metricsWindowDays)

	recentIncome := decimal.Zero
	recentExpenses := decimal.Zero
	var earliestRecent time.Time

	for _, t := range a.transactions {
		switch {
		case t.IsIncome():
			a.totalIncome = a.totalIncome.Add(t.Amount)
		case t.IsExpense():
			a.totalExpenses = a.totalExpenses.Add(t.Amount)
			a.spendingByCategory[t.Category] = a.spendingByCategory[t.Category].Add(t.Amount)
		default:
			continue
		}

		if !t.Date.Before(windowStart) {
			if t.IsIncome() {
				recentIncome = recentIncome.Add(t.Amount)
			} else {
				recentExpenses = recentExpenses.Add(t.Amount)
			}
			if earliestRecent.IsZero() || t.Date.Before(earliestRecent) {
				earliestRecent = t.Date
			}
		}
	}

	if !earliestRecent.IsZero() {
		months := a.now.Sub(earliestRecent).Hours() / 24 / 30
		if months < 1 {
			months = 1
		}
		divisor := decimal.NewFromFloat(months)
		a.avgMonthlyIncome = recentIncome.Div(divisor)
		a.avgMonthlyExpenses = recentExpenses.Div(divisor)
	}

	if a.totalIncome.IsPositive() {
		a.savingsRate = a.totalIncome.Sub(a.totalExpenses).Div(a.totalIncome).Mul(decimal.NewFromInt(100))
	}
}

// HealthSummary scores overall budget health against the 50/30/20 targets.
type HealthSummary struct {
	OverallScore      int             `json:"overall_score"`
	StatusDescription string          `json:"status_description"`
	SavingsRate       decimal.Decimal `json:"savings_rate"`
	NeedsPercent      decimal.Decimal `json:"needs_percent"`
	WantsPercent      decimal.Decimal `json:"wants_percent"`
	SavingsPercent    decimal.Decimal `json:"savings_percent"`
	NeedsStatus       string          `json:"needs_status"`
	WantsStatus       string          `json:"wants_status"`
	SavingsStatus     string          `json:"savings_status"`
	MonthlySurplus    decimal.Decimal `json:"monthly_surplus"`
	HasBudgetDeficit  bool            `json:"has_budget_deficit"`
}

// HealthSummary computes needs/wants/savings shares of income, statuses per
// axis, and the 0-100 health score.
func (a *Advisor) HealthSummary() HealthSummary {
	needsSpending := a.bucketTotal(NeedsCategories)
	wantsSpending := a.bucketTotal(WantsCategories)
	savingsAmount := a.totalIncome.Sub(a.totalExpenses)

	needsPercent := decimal.Zero
	wantsPercent := decimal.Zero
	savingsPercent := decimal.Zero
	if a.totalIncome.IsPositive() {
		hundred := decimal.NewFromInt(100)
		needsPercent = needsSpending.Div(a.totalIncome).Mul(hundred)
		wantsPercent = wantsSpending.Div(a.totalIncome).Mul(hundred)
		savingsPercent = savingsAmount.Div(a.totalIncome).Mul(hundred)
	}

	score := healthScore(
		needsPercent.InexactFloat64(),
		wantsPercent.InexactFloat64(),
		savingsPercent.InexactFloat64(),
	)

	needsStatus := "good"
	if needsPercent.GreaterThan(decimal.NewFromInt(NeedsTargetPercent)) {
		needsStatus = "high"
	}
	wantsStatus := "good"
	if wantsPercent.GreaterThan(decimal.NewFromInt(WantsTargetPercent)) {
		wantsStatus = "high"
	}
	savingsStatus := "good"
	if savingsPercent.LessThan(decimal.NewFromInt(SavingsTargetPercent)) {
		savingsStatus = "low"
	}

	return HealthSummary{
		OverallScore:      score,
		StatusDescription: healthDescription(score),
		SavingsRate:       savingsPercent,
		NeedsPercent:      needsPercent,
		WantsPercent:      wantsPercent,
		SavingsPercent:    savingsPercent,
		NeedsStatus:       needsStatus,
		WantsStatus:       wantsStatus,
		SavingsStatus:     savingsStatus,
		MonthlySurplus:    a.avgMonthlyIncome.Sub(a.avgMonthlyExpenses),
		HasBudgetDeficit:  a.totalExpenses.GreaterThan(a.totalIncome),
	}
}

// bucketTotal sums spending across the categories in one classification set.
func (a *Advisor) bucketTotal(bucket map[string]struct{}) decimal.Decimal {
	total := decimal.Zero
	for category, amount := range a.spendingByCategory {
		if _, ok := bucket[category]; ok {
			total = total.Add(amount)
		}
	}
	return total
}

// healthScore starts at 100 and subtracts an independent capped penalty per
// unfavorable axis, clamped to [0,100].
func healthScore(needsPercent, wantsPercent, savingsPercent float64) int {
	score := 100.0

	if needsPercent > NeedsTargetPercent {
		penalty := (needsPercent - NeedsTargetPercent) * 1.5
		if penalty > 30 {
			penalty = 30
		}
		score -= penalty
	}
	if wantsPercent > WantsTargetPercent {
		penalty := (wantsPercent - WantsTargetPercent) * 2
		if penalty > 30 {
			penalty = 30
		}
		score -= penalty
	}
	if savingsPercent < SavingsTargetPercent {
		penalty := (SavingsTargetPercent - savingsPercent) * 2
		if penalty > 40 {
			penalty = 40
		}
		score -= penalty
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return int(score)
}

func healthDescription(score int) string {
	switch {
	case score >= 90:
		return "Excellent"
	case score >= 80:
		return "Very Good"
	case score >= 70:
		return "Good"
	case score >= 60:
		return "Fair"
	case score >= 50:
		return "Needs Improvement"
	case score >= 40:
		return "Concerning"
	case score >= 30:
		return "Poor"
	default:
		return "Critical"
	}
}

// RecommendedBudget applies the 50/30/20 split to average monthly income and
// distributes each bucket's target across its categories in proportion to
// historical spend share. Unclassified categories are folded into whichever
// of needs or wants has more unallocated room; a generic Savings line is
// added when no savings categories exist.
func (a *Advisor) RecommendedBudget() map[string]decimal.Decimal {
	if !a.avgMonthlyIncome.IsPositive() {
		return map[string]decimal.Decimal{}
	}

	allocations := analysis.CalculateCategoryAllocationsAt(a.transactions, analysis.DefaultAllocationMonths, a.now)

	needs := make(map[string]float64)
	wants := make(map[string]float64)
	savings := make(map[string]float64)
	other := make(map[string]float64)
	for category, percent := range allocations {
		switch {
		case inSet(NeedsCategories, category):
			needs[category] = percent
		case inSet(WantsCategories, category):
			wants[category] = percent
		case inSet(SavingsCategories, category):
			savings[category] = percent
		default:
			other[category] = percent
		}
	}

	hundred := decimal.NewFromInt(100)
	targetNeeds := a.avgMonthlyIncome.Mul(decimal.NewFromInt(NeedsTargetPercent)).Div(hundred)
	targetWants := a.avgMonthlyIncome.Mul(decimal.NewFromInt(WantsTargetPercent)).Div(hundred)
	targetSavings := a.avgMonthlyIncome.Mul(decimal.NewFromInt(SavingsTargetPercent)).Div(hundred)

	recommended := make(map[string]decimal.Decimal)
	allocateProportionally(needs, targetNeeds, recommended)
	allocateProportionally(wants, targetWants, recommended)
	if len(savings) > 0 {
		allocateProportionally(savings, targetSavings, recommended)
	} else {
		recommended["Savings"] = targetSavings
	}

	if len(other) > 0 {
		needsRemaining := targetNeeds.Sub(bucketUsed(recommended, NeedsCategories))
		wantsRemaining := targetWants.Sub(bucketUsed(recommended, WantsCategories))
		if needsRemaining.GreaterThan(wantsRemaining) {
			allocateProportionally(other, needsRemaining, recommended)
		} else {
			allocateProportionally(other, wantsRemaining, recommended)
		}
	}

	return recommended
}

func inSet(set map[string]struct{}, category string) bool {
	_, ok := set[category]
	return ok
}

func bucketUsed(recommended map[string]decimal.Decimal, bucket map[string]struct{}) decimal.Decimal {
	used := decimal.Zero
	for category, amount := range recommended {
		if inSet(bucket, category) {
			used = used.Add(amount)
		}
	}
	return used
}

// allocateProportionally distributes totalBudget across categories by their
// relative percentages, or equally when the percentages sum to zero.
func allocateProportionally(percentages map[string]float64, totalBudget decimal.Decimal, result map[string]decimal.Decimal) {
	if len(percentages) == 0 {
		return
	}

	totalPercent := 0.0
	for _, p := range percentages {
		totalPercent += p
	}

	if totalPercent > 0 {
		divisor := decimal.NewFromFloat(totalPercent)
		for category, percent := range percentages {
			result[category] = decimal.NewFromFloat(percent).Div(divisor).Mul(totalBudget)
		}
		return
	}

	equalShare := totalBudget.Div(decimal.NewFromInt(int64(len(percentages))))
	for category := range percentages {
		result[category] = equalShare
	}
}
