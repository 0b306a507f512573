package analysis

import (
	"math"
	"testing"
	"time"

	"finsight/internal/models"
)

func TestWeekendWeekdayPatterns(t *testing.T) {
	monday := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	t.Run("empty input", func(t *testing.T) {
		got := WeekendWeekdayPatterns(nil)
		assertDecimal(t, "weekday total", got.WeekdayTotal, "0")
		assertDecimal(t, "weekend total", got.WeekendTotal, "0")
		if got.WeekendPercent != 0 || got.AvgRatio != 0 {
			t.Errorf("percent = %v, ratio = %v, want zeros", got.WeekendPercent, got.AvgRatio)
		}
		if got.WeekdayCategories == nil || got.WeekendCategories == nil {
			t.Error("category slices are nil")
		}
	})

	t.Run("splits weekends from weekdays", func(t *testing.T) {
		txs := []models.Transaction{
			expenseTx("Groceries", "Groceries", 100, monday),
			expenseTx("Lunch", "Dining Out", 50, monday.AddDate(0, 0, 1)),     // Tuesday
			expenseTx("Brunch", "Dining Out", 120, monday.AddDate(0, 0, 5)),   // Saturday
			expenseTx("Movies", "Entertainment", 60, monday.AddDate(0, 0, 6)), // Sunday
			incomeTx("Salary", "Salary", 5000, monday),
		}

		got := WeekendWeekdayPatterns(txs)

		assertDecimal(t, "weekday total", got.WeekdayTotal, "150")
		assertDecimal(t, "weekend total", got.WeekendTotal, "180")
		assertDecimal(t, "weekday daily avg", got.WeekdayAvg, "75")
		assertDecimal(t, "weekend daily avg", got.WeekendAvg, "90")

		if math.Abs(got.AvgRatio-1.2) > 1e-9 {
			t.Errorf("avg ratio = %v, want 1.2", got.AvgRatio)
		}
		wantPercent := 180.0 / 330.0 * 100
		if math.Abs(got.WeekendPercent-wantPercent) > 1e-9 {
			t.Errorf("weekend percent = %v, want %v", got.WeekendPercent, wantPercent)
		}

		if len(got.WeekendCategories) != 2 {
			t.Fatalf("weekend categories = %d, want 2", len(got.WeekendCategories))
		}
		if got.WeekendCategories[0].Category != "Dining Out" {
			t.Errorf("top weekend category = %q, want Dining Out", got.WeekendCategories[0].Category)
		}
	})

	t.Run("no weekday spend yields zero ratio", func(t *testing.T) {
		saturday := monday.AddDate(0, 0, 5)
		got := WeekendWeekdayPatterns([]models.Transaction{
			expenseTx("Brunch", "Dining Out", 80, saturday),
		})
		if got.AvgRatio != 0 {
			t.Errorf("avg ratio = %v, want 0", got.AvgRatio)
		}
		if got.WeekendPercent != 100 {
			t.Errorf("weekend percent = %v, want 100", got.WeekendPercent)
		}
	})
}
