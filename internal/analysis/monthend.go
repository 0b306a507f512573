package analysis

import (
	"time"

	"github.com/shopspring/decimal"

	"finsight/internal/models"
)

// DefaultPressureMonths is how many trailing months EndOfMonthPressure analyzes.
const DefaultPressureMonths = 6

// pressureRatio flags a month once end-third daily spend exceeds this multiple
// of the beginning-third daily spend.
const pressureRatio = 1.25

// Thirds of a month.
const (
	partBeginning = "beginning"
	partMiddle    = "middle"
	partEnd       = "end"
)

// MonthPressure reports how one month's spending distributes across its
// beginning, middle and end thirds.
type MonthPressure struct {
	Month               string          `json:"month"`
	BeginningSpending   decimal.Decimal `json:"beginning_spending"`
	MiddleSpending      decimal.Decimal `json:"middle_spending"`
	EndSpending         decimal.Decimal `json:"end_spending"`
	BeginningDailyAvg   decimal.Decimal `json:"beginning_daily_avg"`
	MiddleDailyAvg      decimal.Decimal `json:"middle_daily_avg"`
	EndDailyAvg         decimal.Decimal `json:"end_daily_avg"`
	EndToBeginningRatio float64         `json:"end_to_beginning_ratio"`
	HasEndMonthPressure bool            `json:"has_end_month_pressure"`
	AvgTransactionDay   float64         `json:"avg_transaction_day"`
	TotalSpending       decimal.Decimal `json:"total_spending"`
}

// EndOfMonthPressure analyzes whether spending accelerates toward the end of
// the month across the trailing monthsToAnalyze months. Only months with
// expenses in all three thirds are reported, sorted by month ascending.
func EndOfMonthPressure(transactions []models.Transaction, monthsToAnalyze int) []MonthPressure {
	expenseTxs := expenses(transactions)
	if len(expenseTxs) == 0 {
		return []MonthPressure{}
	}

	_, latest := dateRange(expenseTxs)
	endDate := time.Date(latest.Year(), latest.Month(), latest.Day(), 0, 0, 0, 0, latest.Location())
	startDate := endDate.AddDate(0, 0, -30*monthsToAnalyze)

	inRange := make([]models.Transaction, 0, len(expenseTxs))
	for _, t := range expenseTxs {
		if !t.Date.Before(startDate) && !t.Date.After(endDate) {
			inRange = append(inRange, t)
		}
	}

	byMonthGroups := groupBy(inRange, byMonth)
	results := []MonthPressure{}
	for _, month := range sortedKeys(byMonthGroups) {
		monthTxs := byMonthGroups[month]

		parts := groupBy(monthTxs, func(t models.Transaction) string {
			return partOfMonth(t.Date)
		})
		if len(parts[partBeginning]) == 0 || len(parts[partMiddle]) == 0 || len(parts[partEnd]) == 0 {
			// Need data from all parts of the month.
			continue
		}

		result := MonthPressure{
			Month:             month,
			BeginningSpending: sumAmounts(parts[partBeginning]),
			MiddleSpending:    sumAmounts(parts[partMiddle]),
			EndSpending:       sumAmounts(parts[partEnd]),
			BeginningDailyAvg: dailyAverage(parts[partBeginning]),
			MiddleDailyAvg:    dailyAverage(parts[partMiddle]),
			EndDailyAvg:       dailyAverage(parts[partEnd]),
			TotalSpending:     sumAmounts(monthTxs),
		}

		if result.BeginningDailyAvg.IsPositive() {
			result.EndToBeginningRatio = result.EndDailyAvg.Div(result.BeginningDailyAvg).InexactFloat64()
		}
		result.HasEndMonthPressure = result.EndToBeginningRatio > pressureRatio

		// Amount-weighted average day of month.
		weighted := decimal.Zero
		for _, t := range monthTxs {
			weighted = weighted.Add(t.Amount.Mul(decimal.NewFromInt(int64(t.Date.Day()))))
		}
		if result.TotalSpending.IsPositive() {
			result.AvgTransactionDay = weighted.Div(result.TotalSpending).InexactFloat64()
		}

		results = append(results, result)
	}

	return results
}

// partOfMonth buckets a date into the beginning, middle or end third of its
// month using exact fractional boundaries at N/3 and 2N/3 days.
func partOfMonth(date time.Time) string {
	day := float64(date.Day())
	daysInMonth := float64(daysIn(date.Year(), date.Month()))

	switch {
	case day <= daysInMonth/3:
		return partBeginning
	case day <= 2*daysInMonth/3:
		return partMiddle
	default:
		return partEnd
	}
}

// daysIn returns the number of days in a month.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// dailyAverage divides a part's spend by its distinct transaction days.
func dailyAverage(part []models.Transaction) decimal.Decimal {
	days := distinctDays(part)
	if days == 0 {
		return decimal.Zero
	}
	return sumAmounts(part).Div(decimal.NewFromInt(int64(days)))
}
