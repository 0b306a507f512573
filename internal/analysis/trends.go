package analysis

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"finsight/internal/models"
)

// Defaults for the trend summarizer.
const (
	DefaultTrendPeriodMonths      = 6
	DefaultUnusualMultiplier      = 2.0
	DefaultRecurringMinOccurrence = 2
	DefaultAllocationMonths       = 6
)

// Spending trend classifications.
const (
	TrendIncreasing  = "increasing"
	TrendDecreasing  = "decreasing"
	TrendFluctuating = "fluctuating"
	TrendNeutral     = "neutral"
)

// CategoryTotal pairs a category with its total spend.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// SpendingTrends summarizes expense behaviour over a trailing period.
type SpendingTrends struct {
	TotalSpending        decimal.Decimal `json:"total_spending"`
	AvgMonthlySpending   decimal.Decimal `json:"avg_monthly_spending"`
	TopCategories        []CategoryTotal `json:"top_categories"`
	MonthOverMonthChange decimal.Decimal `json:"month_over_month_change"`
	SpendingTrend        string          `json:"spending_trend"`
	HighestSpendingDay   string          `json:"highest_spending_day"`
	HighestSpendingMonth string          `json:"highest_spending_month"`
}

func emptyTrends() SpendingTrends {
	return SpendingTrends{
		TotalSpending:        decimal.Zero,
		AvgMonthlySpending:   decimal.Zero,
		TopCategories:        []CategoryTotal{},
		MonthOverMonthChange: decimal.Zero,
		SpendingTrend:        TrendNeutral,
	}
}

// AnalyzeSpendingTrends summarizes expenses over the trailing
// periodMonths * 30 days: total and average monthly spend, top categories,
// month-over-month change, a three-month trend classification, and the
// heaviest weekday and calendar month.
func AnalyzeSpendingTrends(transactions []models.Transaction, periodMonths int) SpendingTrends {
	return AnalyzeSpendingTrendsAt(transactions, periodMonths, time.Now())
}

// AnalyzeSpendingTrendsAt is AnalyzeSpendingTrends with an explicit clock.
func AnalyzeSpendingTrendsAt(transactions []models.Transaction, periodMonths int, now time.Time) SpendingTrends {
	startDate := now.AddDate(0, 0, -30*periodMonths)
	expenseTxs := filterByDate(expenses(transactions), startDate, now)
	if len(expenseTxs) == 0 {
		return emptyTrends()
	}

	trends := emptyTrends()
	trends.TotalSpending = sumAmounts(expenseTxs)

	// Average monthly spend over the actual data span, in 30-day months,
	// capped at the requested period and floored at one month.
	earliest, latest := dateRange(expenseTxs)
	monthsInData := latest.Sub(earliest).Hours() / 24 / 30
	monthsInData = math.Max(1, math.Min(float64(periodMonths), monthsInData))
	trends.AvgMonthlySpending = trends.TotalSpending.Div(decimal.NewFromFloat(monthsInData))

	trends.TopCategories = topSpendingCategories(expenseTxs, topCategoryCount)

	monthlyTotals, months := monthlySpending(expenseTxs)
	if len(months) >= 2 {
		current := monthlyTotals[months[len(months)-1]]
		previous := monthlyTotals[months[len(months)-2]]
		if previous.IsPositive() {
			trends.MonthOverMonthChange = current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100))
		} else {
			// No spending last month: treat as a full increase.
			trends.MonthOverMonthChange = decimal.NewFromInt(100)
		}
	}

	trends.SpendingTrend = classifyTrend(monthlyTotals, months)
	trends.HighestSpendingDay = highestSpendingWeekday(expenseTxs)
	trends.HighestSpendingMonth = highestSpendingMonth(expenseTxs)
	return trends
}

// monthlySpending returns per-month totals plus month keys sorted ascending.
func monthlySpending(transactions []models.Transaction) (map[string]decimal.Decimal, []string) {
	stats := groupStatsBy(transactions, byMonth)
	totals := make(map[string]decimal.Decimal, len(stats))
	for month, g := range stats {
		totals[month] = g.Sum
	}
	return totals, sortedKeys(totals)
}

// classifyTrend labels the last three months strictly increasing, strictly
// decreasing, or fluctuating; fewer than three months is neutral.
func classifyTrend(totals map[string]decimal.Decimal, months []string) string {
	if len(months) < 3 {
		return TrendNeutral
	}
	recent := months[len(months)-3:]
	first := totals[recent[0]]
	second := totals[recent[1]]
	third := totals[recent[2]]

	switch {
	case third.GreaterThan(second) && second.GreaterThan(first):
		return TrendIncreasing
	case third.LessThan(second) && second.LessThan(first):
		return TrendDecreasing
	default:
		return TrendFluctuating
	}
}

// topSpendingCategories returns the n heaviest categories by total spend.
func topSpendingCategories(transactions []models.Transaction, n int) []CategoryTotal {
	stats := groupStatsBy(transactions, byCategory)

	totals := make([]CategoryTotal, 0, len(stats))
	for _, category := range sortedKeys(stats) {
		totals = append(totals, CategoryTotal{Category: category, Total: stats[category].Sum})
	}
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Total.GreaterThan(totals[j].Total)
	})
	if len(totals) > n {
		totals = totals[:n]
	}
	return totals
}

// highestSpendingWeekday returns the weekday name with the highest cumulative
// spend.
func highestSpendingWeekday(transactions []models.Transaction) string {
	stats := groupStatsBy(transactions, byWeekday)
	best := ""
	bestTotal := decimal.Zero
	for _, day := range sortedKeys(stats) {
		if best == "" || stats[day].Sum.GreaterThan(bestTotal) {
			best = day
			bestTotal = stats[day].Sum
		}
	}
	return best
}

// highestSpendingMonth returns the calendar month name with the highest
// cumulative spend across all years in the data.
func highestSpendingMonth(transactions []models.Transaction) string {
	totals := make(map[time.Month]decimal.Decimal)
	for _, t := range transactions {
		m := t.Date.Month()
		totals[m] = totals[m].Add(t.Amount)
	}

	var best time.Month
	bestTotal := decimal.Zero
	for m := time.January; m <= time.December; m++ {
		total, ok := totals[m]
		if !ok {
			continue
		}
		if best == 0 || total.GreaterThan(bestTotal) {
			best = m
			bestTotal = total
		}
	}
	if best == 0 {
		return ""
	}
	return best.String()
}

// IdentifyUnusualExpenses returns expenses above thresholdMultiplier times
// their category's average amount.
func IdentifyUnusualExpenses(transactions []models.Transaction, thresholdMultiplier float64) []models.Transaction {
	expenseTxs := expenses(transactions)
	if len(expenseTxs) == 0 {
		return []models.Transaction{}
	}

	stats := groupStatsBy(expenseTxs, byCategory)
	multiplier := decimal.NewFromFloat(thresholdMultiplier)

	unusual := []models.Transaction{}
	for _, t := range expenseTxs {
		if t.Amount.GreaterThan(stats[t.Category].Mean().Mul(multiplier)) {
			unusual = append(unusual, t)
		}
	}
	return unusual
}

// RecurringExpense is a recurring series found without variance filtering.
type RecurringExpense struct {
	Description    string          `json:"description"`
	Category       string          `json:"category"`
	AvgAmount      decimal.Decimal `json:"avg_amount"`
	Occurrences    int             `json:"occurrences"`
	LastDate       string          `json:"last_date"`
	AvgDaysBetween float64         `json:"avg_days_between,omitempty"`
}

// AnalyzeRecurringExpenses is a simpler variant of the cycle detector: it
// groups expenses by (description, category), requires minOccurrences, and
// classifies by mean gap into monthly, weekly or other, with no variance
// rejection and no confidence score.
func AnalyzeRecurringExpenses(transactions []models.Transaction, minOccurrences int) map[string][]RecurringExpense {
	result := map[string][]RecurringExpense{
		CycleMonthly: {},
		CycleWeekly:  {},
		CycleOther:   {},
	}

	expenseTxs := expenses(transactions)
	if len(expenseTxs) == 0 {
		return result
	}

	groups := groupBy(expenseTxs, seriesKey)
	for _, key := range sortedKeys(groups) {
		group := groups[key]
		if len(group) < minOccurrences || len(group) < 2 {
			continue
		}

		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Date.Before(group[j].Date)
		})

		deltas := make([]float64, 0, len(group)-1)
		for i := 1; i < len(group); i++ {
			deltas = append(deltas, math.Floor(group[i].Date.Sub(group[i-1].Date).Hours()/24))
		}
		avgDelta := meanFloat(deltas)

		description, category := splitSeriesKey(key)
		record := RecurringExpense{
			Description: description,
			Category:    category,
			AvgAmount:   sumAmounts(group).Div(decimal.NewFromInt(int64(len(group)))),
			Occurrences: len(group),
			LastDate:    group[len(group)-1].Date.Format("2006-01-02"),
		}

		switch {
		case avgDelta >= 25 && avgDelta <= 35:
			result[CycleMonthly] = append(result[CycleMonthly], record)
		case avgDelta >= 5 && avgDelta <= 9:
			result[CycleWeekly] = append(result[CycleWeekly], record)
		default:
			record.AvgDaysBetween = avgDelta
			result[CycleOther] = append(result[CycleOther], record)
		}
	}

	return result
}

// CalculateCategoryAllocations returns each category's percent share of total
// spend over the trailing months * 30 days, rounded to one decimal place. An
// empty map is returned when there is no spend.
func CalculateCategoryAllocations(transactions []models.Transaction, months int) map[string]float64 {
	return CalculateCategoryAllocationsAt(transactions, months, time.Now())
}

// CalculateCategoryAllocationsAt is CalculateCategoryAllocations with an
// explicit clock.
func CalculateCategoryAllocationsAt(transactions []models.Transaction, months int, now time.Time) map[string]float64 {
	startDate := now.AddDate(0, 0, -30*months)
	expenseTxs := filterByDate(expenses(transactions), startDate, now)
	if len(expenseTxs) == 0 {
		return map[string]float64{}
	}

	total := sumAmounts(expenseTxs)
	if total.IsZero() {
		return map[string]float64{}
	}

	allocations := make(map[string]float64)
	for category, g := range groupStatsBy(expenseTxs, byCategory) {
		percent, _ := g.Sum.Div(total).Mul(decimal.NewFromInt(100)).Round(1).Float64()
		allocations[category] = percent
	}
	return allocations
}
