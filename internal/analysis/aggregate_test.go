package analysis

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"finsight/internal/models"
)

func TestSanitize(t *testing.T) {
	date := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	t.Run("skips non-positive amounts", func(t *testing.T) {
		got := sanitize([]models.Transaction{
			{Amount: decimal.Zero, Category: "Misc", Type: models.TransactionTypeExpense, Date: date},
			{Amount: decimal.NewFromInt(-5), Category: "Misc", Type: models.TransactionTypeExpense, Date: date},
			expenseTx("Keep", "Misc", 10, date),
		})
		if len(got) != 1 {
			t.Fatalf("got %d transactions, want 1", len(got))
		}
		if got[0].Description != "Keep" {
			t.Errorf("kept %q, want Keep", got[0].Description)
		}
	})

	t.Run("defaults category and type", func(t *testing.T) {
		got := sanitize([]models.Transaction{
			{Amount: decimal.NewFromInt(10), Date: date},
		})
		if len(got) != 1 {
			t.Fatalf("got %d transactions, want 1", len(got))
		}
		if got[0].Category != models.UncategorizedLabel {
			t.Errorf("category = %q, want %q", got[0].Category, models.UncategorizedLabel)
		}
		if got[0].Type != models.TransactionTypeExpense {
			t.Errorf("type = %q, want expense", got[0].Type)
		}
	})

	t.Run("defaults zero date", func(t *testing.T) {
		got := sanitize([]models.Transaction{
			{Amount: decimal.NewFromInt(10), Category: "Misc", Type: models.TransactionTypeExpense},
		})
		if len(got) != 1 {
			t.Fatalf("got %d transactions, want 1", len(got))
		}
		if got[0].Date.IsZero() {
			t.Error("date still zero after sanitize")
		}
	})

	t.Run("skips unknown types", func(t *testing.T) {
		got := sanitize([]models.Transaction{
			{Amount: decimal.NewFromInt(10), Category: "Misc", Type: "transfer", Date: date},
		})
		if len(got) != 0 {
			t.Errorf("got %d transactions, want 0", len(got))
		}
	})
}

func TestGroupStats(t *testing.T) {
	g := newGroupStats()
	for _, v := range []int64{2, 4, 6} {
		g.add(decimal.NewFromInt(v))
	}

	if g.Count() != 3 {
		t.Errorf("count = %d, want 3", g.Count())
	}
	assertDecimal(t, "sum", g.Sum, "12")
	assertDecimal(t, "mean", g.Mean(), "4")

	// Population standard deviation of 2, 4, 6.
	want := 1.632993161855452
	if got := g.StdDev(); got < want-1e-12 || got > want+1e-12 {
		t.Errorf("stddev = %v, want %v", got, want)
	}
}

func TestPopulationStdDev(t *testing.T) {
	if got := populationStdDev(nil); got != 0 {
		t.Errorf("stddev of nothing = %v, want 0", got)
	}
	if got := populationStdDev([]float64{42}); got != 0 {
		t.Errorf("stddev of one value = %v, want 0", got)
	}
	if got := populationStdDev([]float64{40, 60}); got != 10 {
		t.Errorf("stddev = %v, want 10", got)
	}
}

func TestSeriesKey(t *testing.T) {
	a := seriesKey(models.Transaction{Description: "a", Category: "b-c"})
	b := seriesKey(models.Transaction{Description: "a-b", Category: "c"})
	if a == b {
		t.Error("distinct description/category pairs collide")
	}

	description, category := splitSeriesKey(a)
	if description != "a" || category != "b-c" {
		t.Errorf("round trip = %q/%q, want a/b-c", description, category)
	}
}
