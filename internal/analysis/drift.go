package analysis

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"finsight/internal/models"
)

// Defaults for IdentifyCategoryDrift.
const (
	DefaultDriftWindowDays       = 30
	DefaultDriftThresholdPercent = 30.0
)

// minDriftTransactions is the smallest expense count that makes a two-window
// comparison meaningful.
const minDriftTransactions = 10

// CategoryDrift describes a significant shift in one category's spend between
// two adjacent trailing windows.
type CategoryDrift struct {
	Category         string          `json:"category"`
	PreviousSpending decimal.Decimal `json:"previous_spending"`
	CurrentSpending  decimal.Decimal `json:"current_spending"`
	AbsoluteChange   decimal.Decimal `json:"absolute_change"`
	PercentChange    float64         `json:"percent_change"`
	Period1          string          `json:"period1"`
	Period2          string          `json:"period2"`
	Trend            string          `json:"trend"`
}

// IdentifyCategoryDrift compares per-category spend across two adjacent
// windows of windowDays ending at the latest transaction date. It needs at
// least ten expense rows spanning two full windows, otherwise it returns an
// empty list. A category absent from the first window counts as +100% ("new
// category"). Results with |percent change| >= thresholdPercent are returned
// sorted by absolute percent change descending.
func IdentifyCategoryDrift(
	transactions []models.Transaction,
	windowDays int,
	thresholdPercent float64,
) []CategoryDrift {
	expenseTxs := expenses(transactions)
	if len(expenseTxs) < minDriftTransactions {
		return []CategoryDrift{}
	}

	earliest, latest := dateRange(expenseTxs)
	if latest.Sub(earliest).Hours()/24 < float64(2*windowDays) {
		return []CategoryDrift{}
	}

	period2Start := latest.AddDate(0, 0, -windowDays)
	period1Start := period2Start.AddDate(0, 0, -windowDays)

	// The boundary day belongs to both windows, matching the inclusive
	// filters the comparison is defined with.
	period1 := filterByDate(expenseTxs, period1Start, period2Start)
	period2 := filterByDate(expenseTxs, period2Start, latest)

	period1Spend := groupStatsBy(period1, byCategory)
	period2Spend := groupStatsBy(period2, byCategory)

	allCategories := make(map[string]struct{})
	for c := range period1Spend {
		allCategories[c] = struct{}{}
	}
	for c := range period2Spend {
		allCategories[c] = struct{}{}
	}

	changes := []CategoryDrift{}
	for _, category := range sortedKeys(allCategories) {
		p1 := decimal.Zero
		if s, ok := period1Spend[category]; ok {
			p1 = s.Sum
		}
		p2 := decimal.Zero
		if s, ok := period2Spend[category]; ok {
			p2 = s.Sum
		}
		if p1.IsZero() && p2.IsZero() {
			continue
		}

		var percentChange float64
		if p1.IsZero() {
			percentChange = 100 // New category.
		} else {
			percentChange = p2.Sub(p1).Div(p1).InexactFloat64() * 100
		}
		if math.Abs(percentChange) < thresholdPercent {
			continue
		}

		trend := "decreasing"
		if percentChange > 0 {
			trend = "increasing"
		}

		changes = append(changes, CategoryDrift{
			Category:         category,
			PreviousSpending: p1,
			CurrentSpending:  p2,
			AbsoluteChange:   p2.Sub(p1),
			PercentChange:    percentChange,
			Period1:          period1Start.Format("2006-01-02") + " to " + period2Start.Format("2006-01-02"),
			Period2:          period2Start.Format("2006-01-02") + " to " + latest.Format("2006-01-02"),
			Trend:            trend,
		})
	}

	sort.SliceStable(changes, func(i, j int) bool {
		return math.Abs(changes[i].PercentChange) > math.Abs(changes[j].PercentChange)
	})
	return changes
}

// dateRange returns the earliest and latest transaction dates.
func dateRange(transactions []models.Transaction) (earliest, latest time.Time) {
	earliest = transactions[0].Date
	latest = transactions[0].Date
	for _, t := range transactions[1:] {
		if t.Date.Before(earliest) {
			earliest = t.Date
		}
		if t.Date.After(latest) {
			latest = t.Date
		}
	}
	return earliest, latest
}

// filterByDate keeps transactions with from <= date <= to.
func filterByDate(transactions []models.Transaction, from, to time.Time) []models.Transaction {
	out := make([]models.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if !t.Date.Before(from) && !t.Date.After(to) {
			out = append(out, t)
		}
	}
	return out
}
