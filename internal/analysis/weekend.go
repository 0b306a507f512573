package analysis

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"finsight/internal/models"
)

// topCategoryCount limits the per-side category breakdown in the
// weekend/weekday report.
const topCategoryCount = 5

// CategoryShare is one category's total and its percent share of a side.
type CategoryShare struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Percent  float64         `json:"percent"`
}

// WeekendPattern compares expense behaviour between weekdays and weekends.
type WeekendPattern struct {
	WeekdayAvg        decimal.Decimal `json:"weekday_avg"`
	WeekendAvg        decimal.Decimal `json:"weekend_avg"`
	WeekdayTotal      decimal.Decimal `json:"weekday_total"`
	WeekendTotal      decimal.Decimal `json:"weekend_total"`
	WeekdayCategories []CategoryShare `json:"weekday_categories"`
	WeekendCategories []CategoryShare `json:"weekend_categories"`
	WeekendPercent    float64         `json:"weekend_percent"`
	AvgRatio          float64         `json:"avg_ratio"`
}

// WeekendWeekdayPatterns partitions expenses by day of week (Saturday and
// Sunday count as weekend) and reports totals, per-distinct-day averages, the
// weekend share of overall spend, top categories per side, and the ratio of
// weekend to weekday daily averages (zero when the weekday average is zero).
func WeekendWeekdayPatterns(transactions []models.Transaction) WeekendPattern {
	pattern := WeekendPattern{
		WeekdayAvg:        decimal.Zero,
		WeekendAvg:        decimal.Zero,
		WeekdayTotal:      decimal.Zero,
		WeekendTotal:      decimal.Zero,
		WeekdayCategories: []CategoryShare{},
		WeekendCategories: []CategoryShare{},
	}

	expenseTxs := expenses(transactions)
	if len(expenseTxs) == 0 {
		return pattern
	}

	var weekday, weekend []models.Transaction
	for _, t := range expenseTxs {
		if isWeekend(t.Date) {
			weekend = append(weekend, t)
		} else {
			weekday = append(weekday, t)
		}
	}

	pattern.WeekdayTotal = sumAmounts(weekday)
	pattern.WeekendTotal = sumAmounts(weekend)
	total := pattern.WeekdayTotal.Add(pattern.WeekendTotal)
	if total.IsPositive() {
		pattern.WeekendPercent = pattern.WeekendTotal.Div(total).InexactFloat64() * 100
	}

	if days := distinctDays(weekday); days > 0 {
		pattern.WeekdayAvg = pattern.WeekdayTotal.Div(decimal.NewFromInt(int64(days)))
	}
	if days := distinctDays(weekend); days > 0 {
		pattern.WeekendAvg = pattern.WeekendTotal.Div(decimal.NewFromInt(int64(days)))
	}

	pattern.WeekdayCategories = topCategories(weekday, pattern.WeekdayTotal)
	pattern.WeekendCategories = topCategories(weekend, pattern.WeekendTotal)

	if pattern.WeekdayAvg.IsPositive() {
		pattern.AvgRatio = pattern.WeekendAvg.Div(pattern.WeekdayAvg).InexactFloat64()
	}

	return pattern
}

func isWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// topCategories returns the top-5 categories of a side by total, each with
// its percent share of the side's spend.
func topCategories(side []models.Transaction, sideTotal decimal.Decimal) []CategoryShare {
	stats := groupStatsBy(side, byCategory)

	shares := make([]CategoryShare, 0, len(stats))
	for _, category := range sortedKeys(stats) {
		share := CategoryShare{Category: category, Total: stats[category].Sum}
		if sideTotal.IsPositive() {
			share.Percent = share.Total.Div(sideTotal).InexactFloat64() * 100
		}
		shares = append(shares, share)
	}

	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Total.GreaterThan(shares[j].Total)
	})
	if len(shares) > topCategoryCount {
		shares = shares[:topCategoryCount]
	}
	return shares
}
