// Package analysis implements the spending analytics engine: statistical
// grouping of transactions, recurring-cycle detection, outlier detection,
// trend summarization and forecasting.
//
// Every function takes an immutable snapshot of transactions plus explicit
// parameters and returns fresh results; nothing in this package holds state
// or performs I/O. Malformed rows are skipped, insufficient data yields empty
// results, and division-by-zero hazards are guarded to contribute zero.
package analysis

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"finsight/internal/models"
)

// sanitize coerces stored rows to the canonical shape the analyzers assume:
// a missing category becomes Uncategorized, a missing type defaults to
// expense, a zero date defaults to now. Rows with a non-positive amount
// cannot be coerced and are skipped.
func sanitize(transactions []models.Transaction) []models.Transaction {
	out := make([]models.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if !t.Amount.IsPositive() {
			continue
		}
		if t.Category == "" {
			t.Category = models.UncategorizedLabel
		}
		if t.Type == "" {
			t.Type = models.TransactionTypeExpense
		}
		if t.Type != models.TransactionTypeExpense && t.Type != models.TransactionTypeIncome {
			continue
		}
		if t.Date.IsZero() {
			t.Date = time.Now()
		}
		out = append(out, t)
	}
	return out
}

// expenses returns the sanitized expense transactions.
func expenses(transactions []models.Transaction) []models.Transaction {
	out := make([]models.Transaction, 0, len(transactions))
	for _, t := range sanitize(transactions) {
		if t.IsExpense() {
			out = append(out, t)
		}
	}
	return out
}

// GroupStats accumulates the amounts observed for one grouping key.
type GroupStats struct {
	Sum     decimal.Decimal
	amounts []float64
}

func newGroupStats() *GroupStats {
	return &GroupStats{Sum: decimal.Zero}
}

func (g *GroupStats) add(amount decimal.Decimal) {
	g.Sum = g.Sum.Add(amount)
	g.amounts = append(g.amounts, amount.InexactFloat64())
}

// Count returns the number of amounts in the group.
func (g *GroupStats) Count() int { return len(g.amounts) }

// Mean returns the average amount, or zero for an empty group.
func (g *GroupStats) Mean() decimal.Decimal {
	if len(g.amounts) == 0 {
		return decimal.Zero
	}
	return g.Sum.Div(decimal.NewFromInt(int64(len(g.amounts))))
}

// StdDev returns the population standard deviation of the group's amounts.
func (g *GroupStats) StdDev() float64 {
	return populationStdDev(g.amounts)
}

// groupStatsBy aggregates transactions under the given key function.
func groupStatsBy(transactions []models.Transaction, key func(models.Transaction) string) map[string]*GroupStats {
	groups := make(map[string]*GroupStats)
	for _, t := range transactions {
		k := key(t)
		g, ok := groups[k]
		if !ok {
			g = newGroupStats()
			groups[k] = g
		}
		g.add(t.Amount)
	}
	return groups
}

// groupBy collects the transactions themselves under the given key function.
func groupBy(transactions []models.Transaction, key func(models.Transaction) string) map[string][]models.Transaction {
	groups := make(map[string][]models.Transaction)
	for _, t := range transactions {
		k := key(t)
		groups[k] = append(groups[k], t)
	}
	return groups
}

// sortedKeys returns map keys in ascending order so that analyses iterate
// groups deterministically.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Common grouping key functions.

func byCategory(t models.Transaction) string { return t.Category }

func byDay(t models.Transaction) string { return t.Date.Format("2006-01-02") }

func byMonth(t models.Transaction) string { return t.Date.Format("2006-01") }

func byWeekday(t models.Transaction) string { return t.Date.Weekday().String() }

// seriesKey separates description and category with a byte that cannot occur
// in either, so "a","b-c" and "a-b","c" stay distinct groups.
func seriesKey(t models.Transaction) string { return t.Description + "\x00" + t.Category }

func splitSeriesKey(key string) (description, category string) {
	for i := 0; i < len(key); i++ {
		if key[i] == 0 {
			return key[:i], key[i+1:]
		}
	}
	return key, ""
}

// distinctDays returns the number of distinct calendar dates in the slice.
func distinctDays(transactions []models.Transaction) int {
	days := make(map[string]struct{})
	for _, t := range transactions {
		days[t.Date.Format("2006-01-02")] = struct{}{}
	}
	return len(days)
}

func meanFloat(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// populationStdDev divides by N, not N-1. A single observation has zero
// spread rather than an undefined one.
func populationStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := meanFloat(values)
	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}

func sumAmounts(transactions []models.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range transactions {
		total = total.Add(t.Amount)
	}
	return total
}
