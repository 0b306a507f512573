package analysis

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"finsight/internal/models"
)

// Defaults for IdentifySpendingCycles.
const (
	DefaultMinPeriods      = 3
	DefaultMaxVarianceDays = 3.0
)

// Cycle type buckets.
const (
	CycleWeekly    = "weekly"
	CycleMonthly   = "monthly"
	CycleQuarterly = "quarterly"
	CycleOther     = "other"
)

// Cycle describes one recurring spending pattern: a (description, category)
// series whose inter-occurrence gaps cluster tightly around a period.
type Cycle struct {
	Description     string          `json:"description"`
	Category        string          `json:"category"`
	AvgAmount       decimal.Decimal `json:"avg_amount"`
	AvgIntervalDays float64         `json:"avg_interval_days"`
	Occurrences     int             `json:"occurrences"`
	LastDate        string          `json:"last_date"`
	NextExpected    string          `json:"next_expected"`
	StdDevDays      float64         `json:"std_dev_days"`
	Confidence      float64         `json:"confidence_score"`
}

// IdentifySpendingCycles finds recurring expense series and classifies their
// period. A series qualifies when it has at least minPeriods occurrences and
// the population standard deviation of its day-gaps does not exceed
// maxVarianceDays. The result always contains the weekly, monthly, quarterly
// and other buckets, each sorted by confidence descending.
func IdentifySpendingCycles(
	transactions []models.Transaction,
	minPeriods int,
	maxVarianceDays float64,
) map[string][]Cycle {
	cycles := map[string][]Cycle{
		CycleWeekly:    {},
		CycleMonthly:   {},
		CycleQuarterly: {},
		CycleOther:     {},
	}

	expenseTxs := expenses(transactions)
	if len(expenseTxs) == 0 {
		return cycles
	}

	groups := groupBy(expenseTxs, seriesKey)
	for _, key := range sortedKeys(groups) {
		group := groups[key]
		if len(group) < minPeriods {
			continue
		}

		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Date.Before(group[j].Date)
		})

		intervals := make([]float64, 0, len(group)-1)
		for i := 1; i < len(group); i++ {
			gap := group[i].Date.Sub(group[i-1].Date).Hours() / 24
			intervals = append(intervals, math.Floor(gap))
		}
		if len(intervals) == 0 {
			continue
		}

		avgInterval := meanFloat(intervals)
		stdDev := populationStdDev(intervals)
		if stdDev > maxVarianceDays {
			continue
		}

		cycleType := CycleOther
		switch {
		case avgInterval >= 5 && avgInterval <= 9:
			cycleType = CycleWeekly
		case avgInterval >= 25 && avgInterval <= 35:
			cycleType = CycleMonthly
		case avgInterval >= 85 && avgInterval <= 95:
			cycleType = CycleQuarterly
		}

		description, category := splitSeriesKey(key)
		lastDate := group[len(group)-1].Date
		nextExpected := lastDate.AddDate(0, 0, int(math.Round(avgInterval)))

		cycles[cycleType] = append(cycles[cycleType], Cycle{
			Description:     description,
			Category:        category,
			AvgAmount:       sumAmounts(group).Div(decimal.NewFromInt(int64(len(group)))),
			AvgIntervalDays: avgInterval,
			Occurrences:     len(group),
			LastDate:        lastDate.Format("2006-01-02"),
			NextExpected:    nextExpected.Format("2006-01-02"),
			StdDevDays:      stdDev,
			Confidence:      cycleConfidence(len(group), stdDev, maxVarianceDays),
		})
	}

	for cycleType := range cycles {
		bucket := cycles[cycleType]
		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].Confidence > bucket[j].Confidence
		})
	}

	return cycles
}

// cycleConfidence scores a recurring pattern in [0,1]. More occurrences and
// lower gap variance increase confidence; variance dominates the weighting.
func cycleConfidence(occurrences int, stdDev, maxVariance float64) float64 {
	occurrenceFactor := math.Min(1, float64(occurrences)/10)
	// With a non-positive tolerance only zero-variance series pass the gate,
	// so they get the full variance factor rather than a 0/0 NaN.
	varianceFactor := 1.0
	if maxVariance > 0 {
		varianceFactor = 1 - math.Min(1, stdDev/maxVariance)
	}
	return occurrenceFactor*0.4 + varianceFactor*0.6
}
