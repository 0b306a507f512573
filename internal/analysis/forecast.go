package analysis

import (
	"time"

	"github.com/shopspring/decimal"

	"finsight/internal/models"
)

// DefaultForecastMonthsAhead is how far ForecastMonthlyExpenses projects.
const DefaultForecastMonthsAhead = 3

// ForecastMonthlyExpenses projects monthly expense totals. With fewer than
// two historical months it repeats the historical average; otherwise it
// applies the mean month-over-month growth rate recursively from the latest
// month. Future months are keyed by calendar month strings computed from
// fixed 30-day steps, matching the rest of the engine's month arithmetic.
func ForecastMonthlyExpenses(transactions []models.Transaction, monthsAhead int) map[string]decimal.Decimal {
	return ForecastMonthlyExpensesAt(transactions, monthsAhead, time.Now())
}

// ForecastMonthlyExpensesAt is ForecastMonthlyExpenses with an explicit clock.
func ForecastMonthlyExpensesAt(transactions []models.Transaction, monthsAhead int, now time.Time) map[string]decimal.Decimal {
	expenseTxs := expenses(transactions)
	if len(expenseTxs) == 0 {
		return map[string]decimal.Decimal{}
	}

	totals, months := monthlySpending(expenseTxs)

	forecast := make(map[string]decimal.Decimal, monthsAhead)

	if len(months) < 2 {
		// Not enough history for a growth rate: repeat the average.
		avg := decimal.Zero
		if len(months) > 0 {
			sum := decimal.Zero
			for _, m := range months {
				sum = sum.Add(totals[m])
			}
			avg = sum.Div(decimal.NewFromInt(int64(len(months))))
		}
		for i := 1; i <= monthsAhead; i++ {
			forecast[futureMonthKey(now, i)] = avg
		}
		return forecast
	}

	// Mean of consecutive month-over-month growth ratios, skipping steps
	// where the prior month was zero.
	growthRates := make([]decimal.Decimal, 0, len(months)-1)
	for i := 1; i < len(months); i++ {
		previous := totals[months[i-1]]
		if previous.IsPositive() {
			current := totals[months[i]]
			growthRates = append(growthRates, current.Sub(previous).Div(previous))
		}
	}

	avgGrowthRate := decimal.Zero
	if len(growthRates) > 0 {
		sum := decimal.Zero
		for _, r := range growthRates {
			sum = sum.Add(r)
		}
		avgGrowthRate = sum.Div(decimal.NewFromInt(int64(len(growthRates))))
	}

	current := totals[months[len(months)-1]]
	multiplier := decimal.NewFromInt(1).Add(avgGrowthRate)
	for i := 1; i <= monthsAhead; i++ {
		current = current.Mul(multiplier)
		forecast[futureMonthKey(now, i)] = current
	}
	return forecast
}

// futureMonthKey derives the month label i 30-day steps ahead.
func futureMonthKey(now time.Time, i int) string {
	return now.AddDate(0, 0, 30*i).Format("2006-01")
}
