package analysis

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"finsight/internal/models"
)

// Defaults for IdentifyImpulsePurchases.
const (
	DefaultImpulseThresholdMultiplier = 1.75
	DefaultImpulseMinAmount           = 0.0
)

// ImpulsePurchase flags an expense substantially above its category's
// historical average.
type ImpulsePurchase struct {
	TransactionID uint            `json:"transaction_id,omitempty"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	Date          string          `json:"date"`
	CategoryAvg   decimal.Decimal `json:"category_avg"`
	RatioToAvg    float64         `json:"ratio_to_avg"`
	ZScore        float64         `json:"z_score"`
	Confidence    float64         `json:"confidence"`
}

// IdentifyImpulsePurchases flags expenses whose amount is at least
// thresholdMultiplier times their category mean. Transactions below minAmount
// are ignored, as are categories whose mean cannot establish a baseline.
// Results are sorted by confidence descending.
func IdentifyImpulsePurchases(
	transactions []models.Transaction,
	thresholdMultiplier float64,
	minAmount decimal.Decimal,
) []ImpulsePurchase {
	expenseTxs := make([]models.Transaction, 0)
	for _, t := range expenses(transactions) {
		if t.Amount.GreaterThanOrEqual(minAmount) {
			expenseTxs = append(expenseTxs, t)
		}
	}
	if len(expenseTxs) == 0 {
		return []ImpulsePurchase{}
	}

	stats := groupStatsBy(expenseTxs, byCategory)

	purchases := []ImpulsePurchase{}
	for _, t := range expenseTxs {
		categoryStats := stats[t.Category]
		mean := categoryStats.Mean()
		if mean.IsZero() {
			// No baseline to compare against.
			continue
		}

		// Gate on exact decimal arithmetic so a transaction at precisely
		// thresholdMultiplier times the mean is included.
		if t.Amount.LessThan(mean.Mul(decimal.NewFromFloat(thresholdMultiplier))) {
			continue
		}

		amount := t.Amount.InexactFloat64()
		ratio := amount / mean.InexactFloat64()

		zScore := 0.0
		if stdDev := categoryStats.StdDev(); stdDev > 0 {
			zScore = (amount - mean.InexactFloat64()) / stdDev
		}

		purchases = append(purchases, ImpulsePurchase{
			TransactionID: t.ID,
			Description:   t.Description,
			Category:      t.Category,
			Amount:        t.Amount,
			Date:          t.Date.Format("2006-01-02"),
			CategoryAvg:   mean,
			RatioToAvg:    ratio,
			ZScore:        zScore,
			Confidence:    impulseConfidence(ratio, zScore),
		})
	}

	sort.SliceStable(purchases, func(i, j int) bool {
		return purchases[i].Confidence > purchases[j].Confidence
	})
	return purchases
}

// impulseConfidence scores an impulse candidate in [0,1], weighting the ratio
// to the category average over the z-score.
func impulseConfidence(ratio, zScore float64) float64 {
	ratioFactor := math.Min(1, (ratio-1)/4)
	zScoreFactor := math.Min(1, math.Max(0, zScore/5))
	return ratioFactor*0.6 + zScoreFactor*0.4
}
