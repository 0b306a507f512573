package analysis

import (
	"testing"
	"time"

	"finsight/internal/models"
)

func TestIdentifySpendingAnomalies(t *testing.T) {
	latest := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	day := func(offset int) time.Time { return latest.AddDate(0, 0, offset) }

	t.Run("insufficient history", func(t *testing.T) {
		txs := []models.Transaction{
			expenseTx("A", "Groceries", 50, day(-40)),
			expenseTx("B", "Groceries", 50, day(0)),
		}
		got := IdentifySpendingAnomalies(txs, DefaultAnomalyLookbackDays, DefaultAnomalyZThreshold)
		if len(got) != 0 {
			t.Errorf("got %d anomalies, want 0", len(got))
		}
	})

	t.Run("flags outlier day", func(t *testing.T) {
		var txs []models.Transaction
		// Thirty historical days alternating 40 and 60: mean 50, spread 10.
		for i := 31; i <= 60; i++ {
			amount := 40.0
			if i%2 != 0 {
				amount = 60.0
			}
			txs = append(txs, expenseTx("Daily", "Groceries", amount, day(-i)))
		}
		// One recent day totalling 200 across two purchases.
		txs = append(txs,
			expenseTx("Party", "Groceries", 150, day(0)),
			expenseTx("Party", "Groceries", 50, day(0)),
		)

		got := IdentifySpendingAnomalies(txs, 30, 2.0)
		if len(got) != 1 {
			t.Fatalf("got %d anomalies, want 1", len(got))
		}
		anomaly := got[0]
		if anomaly.Type != AnomalyDaily {
			t.Fatalf("anomaly type = %q, want %q", anomaly.Type, AnomalyDaily)
		}
		if anomaly.Date != day(0).Format("2006-01-02") {
			t.Errorf("anomaly date = %s", anomaly.Date)
		}
		assertDecimal(t, "anomaly amount", anomaly.Amount, "200")
		if anomaly.Transactions != 2 {
			t.Errorf("transactions = %d, want 2", anomaly.Transactions)
		}
		// (200 - 50) / 10.
		if anomaly.ZScore < 14.9 || anomaly.ZScore > 15.1 {
			t.Errorf("z-score = %v, want 15", anomaly.ZScore)
		}
	})

	t.Run("quiet recent window is clean", func(t *testing.T) {
		var txs []models.Transaction
		for i := 31; i <= 60; i++ {
			amount := 40.0
			if i%2 != 0 {
				amount = 60.0
			}
			txs = append(txs, expenseTx("Daily", "Groceries", amount, day(-i)))
		}
		txs = append(txs, expenseTx("Daily", "Groceries", 55, day(0)))

		got := IdentifySpendingAnomalies(txs, 30, 2.0)
		if len(got) != 0 {
			t.Errorf("got %d anomalies, want 0", len(got))
		}
	})

	t.Run("flags category blowout", func(t *testing.T) {
		var txs []models.Transaction
		// Sixteen historical shopping days alternating 30 and 70.
		for i := 31; i <= 46; i++ {
			amount := 30.0
			if i%2 != 0 {
				amount = 70.0
			}
			txs = append(txs, expenseTx("Stuff", "Shopping", amount, day(-i)))
		}
		// Expected 30-day total is about 1500; this blows far past it.
		txs = append(txs, expenseTx("Spree", "Shopping", 3200, day(0)))

		got := IdentifySpendingAnomalies(txs, 30, 2.0)

		var category *SpendingAnomaly
		for i := range got {
			if got[i].Type == AnomalyCategory {
				category = &got[i]
				break
			}
		}
		if category == nil {
			t.Fatalf("no category anomaly in %d results", len(got))
		}
		if category.Category != "Shopping" {
			t.Errorf("category = %q, want Shopping", category.Category)
		}
		assertDecimal(t, "recent total", category.RecentTotal, "3200")
		assertDecimal(t, "historical avg", category.HistoricalAvg, "50")
		if category.Period != "Last 30 days" {
			t.Errorf("period = %q", category.Period)
		}
		if category.Ratio <= 2 {
			t.Errorf("ratio = %v, want above 2", category.Ratio)
		}
	})
}
