package analysis

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"finsight/internal/models"
)

// Defaults for IdentifySpendingAnomalies.
const (
	DefaultAnomalyLookbackDays = 30
	DefaultAnomalyZThreshold   = 2.0
)

// Minimum history for statistically meaningful anomaly detection.
const (
	minAnomalyHistory     = 10
	minAnomalyDailyPoints = 5
)

// Anomaly kinds.
const (
	AnomalyDaily    = "daily"
	AnomalyCategory = "category"
)

// SpendingAnomaly describes either a recent day whose total spend is a
// statistical outlier against history (Type "daily") or a category whose
// recent spend exceeds its expected total (Type "category").
type SpendingAnomaly struct {
	Type string `json:"type"`

	// Daily anomaly fields.
	Date         string          `json:"date,omitempty"`
	Amount       decimal.Decimal `json:"amount,omitempty"`
	Average      decimal.Decimal `json:"average,omitempty"`
	ZScore       float64         `json:"z_score,omitempty"`
	Transactions int             `json:"transactions,omitempty"`

	// Category anomaly fields.
	Category      string          `json:"category,omitempty"`
	RecentTotal   decimal.Decimal `json:"recent_total,omitempty"`
	HistoricalAvg decimal.Decimal `json:"historical_avg,omitempty"`
	ExpectedTotal decimal.Decimal `json:"expected_total,omitempty"`
	Ratio         float64         `json:"ratio,omitempty"`
	Period        string          `json:"period,omitempty"`
}

// score is whichever of z-score or ratio the anomaly carries; the merged
// result list sorts on it.
func (a SpendingAnomaly) score() float64 {
	if a.Type == AnomalyDaily {
		return a.ZScore
	}
	return a.Ratio
}

// IdentifySpendingAnomalies splits expenses into a historical set (before the
// lookback window) and a recent set (within it) and flags recent days whose
// total spend has a z-score above zThreshold, plus categories whose recent
// spend exceeds the expected total by a relaxed ratio threshold. At least ten
// historical rows are required, otherwise the result is empty.
func IdentifySpendingAnomalies(
	transactions []models.Transaction,
	lookbackDays int,
	zThreshold float64,
) []SpendingAnomaly {
	expenseTxs := expenses(transactions)
	if len(expenseTxs) == 0 {
		return []SpendingAnomaly{}
	}

	_, latest := dateRange(expenseTxs)
	recentStart := latest.AddDate(0, 0, -lookbackDays)

	historical := make([]models.Transaction, 0, len(expenseTxs))
	recent := make([]models.Transaction, 0, len(expenseTxs))
	for _, t := range expenseTxs {
		if t.Date.Before(recentStart) {
			historical = append(historical, t)
		} else {
			recent = append(recent, t)
		}
	}
	if len(historical) < minAnomalyHistory {
		return []SpendingAnomaly{}
	}

	anomalies := []SpendingAnomaly{}
	anomalies = append(anomalies, dailyAnomalies(historical, recent, zThreshold)...)
	anomalies = append(anomalies, categoryAnomalies(historical, recent, lookbackDays, zThreshold)...)

	sort.SliceStable(anomalies, func(i, j int) bool {
		return anomalies[i].score() > anomalies[j].score()
	})
	return anomalies
}

// dailyAnomalies flags recent days whose total is an outlier against the
// historical daily-total distribution. The distribution needs at least five
// distinct historical days and non-zero spread.
func dailyAnomalies(historical, recent []models.Transaction, zThreshold float64) []SpendingAnomaly {
	historicalDaily := groupStatsBy(historical, byDay)
	if len(historicalDaily) < minAnomalyDailyPoints {
		return nil
	}

	dailyTotals := make([]float64, 0, len(historicalDaily))
	for _, g := range historicalDaily {
		dailyTotals = append(dailyTotals, g.Sum.InexactFloat64())
	}
	meanDaily := meanFloat(dailyTotals)
	stdDaily := populationStdDev(dailyTotals)
	if stdDaily == 0 {
		return nil
	}

	recentByDay := groupBy(recent, byDay)
	var anomalies []SpendingAnomaly
	for _, day := range sortedKeys(recentByDay) {
		dayTxs := recentByDay[day]
		total := sumAmounts(dayTxs)
		zScore := (total.InexactFloat64() - meanDaily) / stdDaily
		if zScore <= zThreshold {
			continue
		}
		anomalies = append(anomalies, SpendingAnomaly{
			Type:         AnomalyDaily,
			Date:         day,
			Amount:       total,
			Average:      decimal.NewFromFloat(meanDaily),
			ZScore:       zScore,
			Transactions: len(dayTxs),
		})
	}
	return anomalies
}

// categoryAnomalies flags categories whose recent spend exceeds the expected
// total for the lookback window. The expected total extrapolates the
// historical per-transaction mean via the category's average transactions per
// active day. The ratio threshold is relaxed relative to the z threshold.
func categoryAnomalies(historical, recent []models.Transaction, lookbackDays int, zThreshold float64) []SpendingAnomaly {
	earliest, latest := dateRange(historical)
	if latest.Sub(earliest).Hours()/24 <= 0 {
		return nil
	}

	historicalByCategory := groupBy(historical, byCategory)
	recentByCategory := groupBy(recent, byCategory)

	var anomalies []SpendingAnomaly
	for _, category := range sortedKeys(recentByCategory) {
		histTxs, ok := historicalByCategory[category]
		if !ok {
			continue
		}

		histStats := newGroupStats()
		for _, t := range histTxs {
			histStats.add(t.Amount)
		}
		if histStats.StdDev() == 0 {
			continue
		}

		// Average transactions per active day for this category.
		perDayCounts := make([]float64, 0)
		for _, dayTxs := range groupBy(histTxs, byDay) {
			perDayCounts = append(perDayCounts, float64(len(dayTxs)))
		}
		dailyAvg := histStats.Mean().InexactFloat64() * meanFloat(perDayCounts)
		expectedTotal := dailyAvg * float64(lookbackDays)
		if expectedTotal <= 0 {
			continue
		}

		recentTotal := sumAmounts(recentByCategory[category])
		ratio := recentTotal.InexactFloat64() / expectedTotal
		if ratio <= 1+zThreshold*0.5 {
			continue
		}

		anomalies = append(anomalies, SpendingAnomaly{
			Type:          AnomalyCategory,
			Category:      category,
			RecentTotal:   recentTotal,
			HistoricalAvg: histStats.Mean(),
			ExpectedTotal: decimal.NewFromFloat(expectedTotal),
			Ratio:         ratio,
			Period:        fmt.Sprintf("Last %d days", lookbackDays),
		})
	}
	return anomalies
}
