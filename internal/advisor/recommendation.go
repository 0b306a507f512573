package advisor

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"finsight/internal/analysis"
	"finsight/internal/models"
)

// SavingsOpportunity points at a category where spending could be cut.
type SavingsOpportunity struct {
	Category         string          `json:"category"`
	Amount           decimal.Decimal `json:"amount"`
	Average          decimal.Decimal `json:"average"`
	PotentialSavings decimal.Decimal `json:"potential_savings"`
	Description      string          `json:"description"`
}

// ActionItem is a prioritized suggestion; Priority is high, medium or low.
type ActionItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

// Recommendation is the full advisor output.
type Recommendation struct {
	HealthSummary        HealthSummary                          `json:"health_summary"`
	RecommendedBudget    map[string]decimal.Decimal             `json:"recommended_budget"`
	SavingsOpportunities []SavingsOpportunity                   `json:"savings_opportunities"`
	ActionItems          []ActionItem                           `json:"action_items"`
	Trends               analysis.SpendingTrends                `json:"trends"`
	UnusualExpenses      []models.Transaction                   `json:"unusual_expenses"`
	RecurringExpenses    map[string][]analysis.RecurringExpense `json:"recurring_expenses"`
	Forecast             map[string]decimal.Decimal             `json:"forecast"`
}

// SavingsOpportunities flags discretionary categories whose spend exceeds
// 1.5x the average per-category spend, and always flags an overall deficit.
func (a *Advisor) SavingsOpportunities() []SavingsOpportunity {
	var opportunities []SavingsOpportunity

	if len(a.spendingByCategory) > 0 {
		total := decimal.Zero
		for _, amount := range a.spendingByCategory {
			total = total.Add(amount)
		}
		average := total.Div(decimal.NewFromInt(int64(len(a.spendingByCategory))))
		threshold := average.Mul(decimal.NewFromFloat(1.5))

		for _, category := range sortedCategories(a.spendingByCategory) {
			amount := a.spendingByCategory[category]
			if !inSet(WantsCategories, category) || !amount.GreaterThan(threshold) {
				continue
			}
			excess := amount.Sub(average)
			opportunities = append(opportunities, SavingsOpportunity{
				Category:         category,
				Amount:           amount,
				Average:          average,
				PotentialSavings: excess,
				Description: fmt.Sprintf("Spending on %s is well above your typical category spend. Cutting back to average would free up %s.",
					category, excess.StringFixed(2)),
			})
		}
	}

	if a.totalExpenses.GreaterThan(a.totalIncome) {
		deficit := a.totalExpenses.Sub(a.totalIncome)
		opportunities = append(opportunities, SavingsOpportunity{
			Category:         "Overall Budget",
			Amount:           a.totalExpenses,
			Average:          decimal.Zero,
			PotentialSavings: deficit,
			Description: fmt.Sprintf("You are spending %s more than you earn. Reducing expenses to match income is the first priority.",
				deficit.StringFixed(2)),
		})
	}

	return opportunities
}

// ActionItems walks a fixed rule ladder from most to least urgent, padding
// with generic habits when fewer than three rules fired.
func (a *Advisor) ActionItems() []ActionItem {
	summary := a.HealthSummary()
	trends := analysis.AnalyzeSpendingTrendsAt(a.transactions, analysis.DefaultTrendPeriodMonths, a.now)

	var items []ActionItem

	if summary.HasBudgetDeficit {
		items = append(items, ActionItem{
			Title:       "Balance your budget",
			Description: "Your expenses exceed your income. Review spending and cut back until you are living within your means.",
			Priority:    "high",
		})
	}

	savingsRate := summary.SavingsRate.InexactFloat64()
	if savingsRate < SavingsTargetPercent {
		priority := "medium"
		if savingsRate < 10 {
			priority = "high"
		}
		items = append(items, ActionItem{
			Title: "Increase your savings rate",
			Description: fmt.Sprintf("You are currently saving %.1f%% of your income. Aim for at least %d%%.",
				savingsRate, SavingsTargetPercent),
			Priority: priority,
		})
	}

	if summary.WantsStatus == "high" {
		items = append(items, ActionItem{
			Title:       "Reduce discretionary spending",
			Description: "Spending on wants is above the recommended 30% of income. Look for subscriptions or habits to trim.",
			Priority:    "medium",
		})
	}

	if trends.SpendingTrend == analysis.TrendIncreasing {
		items = append(items, ActionItem{
			Title:       "Monitor increasing expenses",
			Description: "Your spending has been trending upward over recent months. Identify what is driving the growth.",
			Priority:    "medium",
		})
	}

	if len(trends.TopCategories) > 0 {
		top := trends.TopCategories[0]
		items = append(items, ActionItem{
			Title: fmt.Sprintf("Review %s spending", top.Category),
			Description: fmt.Sprintf("%s is your largest expense category at %s. Check whether it still matches your priorities.",
				top.Category, top.Total.StringFixed(2)),
			Priority: "medium",
		})
	}

	if len(items) < 3 {
		if _, ok := a.spendingByCategory["Emergency Fund"]; !ok {
			items = append(items, ActionItem{
				Title:       "Build an emergency fund",
				Description: "Set aside three to six months of expenses in an easily accessible account.",
				Priority:    "medium",
			})
		}
		items = append(items, ActionItem{
			Title:       "Audit your subscriptions",
			Description: "Go through recurring charges and cancel anything you no longer use.",
			Priority:    "low",
		})
	}

	items = append(items, ActionItem{
		Title:       "Keep tracking your spending",
		Description: "Consistent transaction tracking is the foundation of every other improvement.",
		Priority:    "low",
	})

	return items
}

// Recommendation assembles the complete advisory report.
func (a *Advisor) Recommendation() Recommendation {
	return Recommendation{
		HealthSummary:        a.HealthSummary(),
		RecommendedBudget:    a.RecommendedBudget(),
		SavingsOpportunities: a.SavingsOpportunities(),
		ActionItems:          a.ActionItems(),
		Trends:               analysis.AnalyzeSpendingTrendsAt(a.transactions, analysis.DefaultTrendPeriodMonths, a.now),
		UnusualExpenses:      analysis.IdentifyUnusualExpenses(a.transactions, analysis.DefaultUnusualMultiplier),
		RecurringExpenses:    analysis.AnalyzeRecurringExpenses(a.transactions, analysis.DefaultRecurringMinOccurrence),
		Forecast:             analysis.ForecastMonthlyExpensesAt(a.transactions, analysis.DefaultForecastMonthsAhead, a.now),
	}
}

// MonthlyBudget materializes the recommended split as a Budget covering the
// current calendar month, ready to persist.
func (a *Advisor) MonthlyBudget() (*models.Budget, error) {
	start := time.Date(a.now.Year(), a.now.Month(), 1, 0, 0, 0, 0, a.now.Location())
	end := start.AddDate(0, 1, -1)

	name := fmt.Sprintf("Recommended Budget for %s %d", a.now.Month().String(), a.now.Year())
	total := a.avgMonthlyIncome
	return models.NewBudget(name, start, end, a.RecommendedBudget(), &total)
}

func sortedCategories(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
