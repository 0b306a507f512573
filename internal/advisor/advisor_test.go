package advisor

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"finsight/internal/models"
)

func incomeTx(amount float64, date time.Time) models.Transaction {
	return models.Transaction{
		Amount:      decimal.NewFromFloat(amount),
		Category:    "Salary",
		Description: "Salary",
		Date:        date,
		Type:        models.TransactionTypeIncome,
	}
}

func expenseTx(category string, amount float64, date time.Time) models.Transaction {
	return models.Transaction{
		Amount:      decimal.NewFromFloat(amount),
		Category:    category,
		Description: category,
		Date:        date,
		Type:        models.TransactionTypeExpense,
	}
}

// onTarget builds a snapshot that hits the 50/30/20 split exactly:
// 10000 income, 5000 needs, 3000 wants, 2000 left over.
func onTarget(now time.Time) []models.Transaction {
	return []models.Transaction{
		incomeTx(10000, now.AddDate(0, 0, -20)),
		expenseTx("Housing", 3000, now.AddDate(0, 0, -18)),
		expenseTx("Groceries", 2000, now.AddDate(0, 0, -15)),
		expenseTx("Entertainment", 3000, now.AddDate(0, 0, -10)),
	}
}

func TestHealthSummary(t *testing.T) {
	now := time.Now()

	t.Run("on-target budget scores 100", func(t *testing.T) {
		summary := newAt(onTarget(now), now).HealthSummary()

		if summary.OverallScore != 100 {
			t.Errorf("score = %d, want 100", summary.OverallScore)
		}
		if summary.StatusDescription != "Excellent" {
			t.Errorf("description = %q, want Excellent", summary.StatusDescription)
		}
		if summary.NeedsStatus != "good" || summary.WantsStatus != "good" || summary.SavingsStatus != "good" {
			t.Errorf("statuses = %q/%q/%q, want all good",
				summary.NeedsStatus, summary.WantsStatus, summary.SavingsStatus)
		}
		if !summary.NeedsPercent.Equal(decimal.NewFromInt(50)) {
			t.Errorf("needs percent = %s, want 50", summary.NeedsPercent)
		}
		if !summary.SavingsRate.Equal(decimal.NewFromInt(20)) {
			t.Errorf("savings rate = %s, want 20", summary.SavingsRate)
		}
		if summary.HasBudgetDeficit {
			t.Error("deficit flagged for a surplus budget")
		}
	})

	t.Run("overspending lowers the score", func(t *testing.T) {
		txs := []models.Transaction{
			incomeTx(10000, now.AddDate(0, 0, -20)),
			expenseTx("Housing", 5000, now.AddDate(0, 0, -18)),
			expenseTx("Entertainment", 4000, now.AddDate(0, 0, -10)),
		}
		summary := newAt(txs, now).HealthSummary()

		// Wants at 40% and savings at 10% each cost 20 points.
		if summary.OverallScore != 60 {
			t.Errorf("score = %d, want 60", summary.OverallScore)
		}
		if summary.WantsStatus != "high" {
			t.Errorf("wants status = %q, want high", summary.WantsStatus)
		}
		if summary.SavingsStatus != "low" {
			t.Errorf("savings status = %q, want low", summary.SavingsStatus)
		}
	})

	t.Run("deficit is flagged", func(t *testing.T) {
		txs := []models.Transaction{
			incomeTx(1000, now.AddDate(0, 0, -20)),
			expenseTx("Housing", 2000, now.AddDate(0, 0, -18)),
		}
		summary := newAt(txs, now).HealthSummary()
		if !summary.HasBudgetDeficit {
			t.Error("deficit not flagged")
		}
		if summary.OverallScore >= 60 {
			t.Errorf("score = %d, want well below 60", summary.OverallScore)
		}
	})

	t.Run("no data", func(t *testing.T) {
		summary := newAt(nil, now).HealthSummary()
		if summary.HasBudgetDeficit {
			t.Error("deficit flagged with no data")
		}
		if !summary.NeedsPercent.IsZero() {
			t.Errorf("needs percent = %s, want 0", summary.NeedsPercent)
		}
	})
}

func TestHealthDescription(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{100, "Excellent"},
		{85, "Very Good"},
		{72, "Good"},
		{65, "Fair"},
		{55, "Needs Improvement"},
		{45, "Concerning"},
		{35, "Poor"},
		{10, "Critical"},
	}
	for _, tc := range cases {
		if got := healthDescription(tc.score); got != tc.want {
			t.Errorf("healthDescription(%d) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestRecommendedBudget(t *testing.T) {
	now := time.Now()

	t.Run("no income", func(t *testing.T) {
		budget := newAt(nil, now).RecommendedBudget()
		if len(budget) != 0 {
			t.Errorf("got %d lines, want 0", len(budget))
		}
	})

	t.Run("distributes targets across observed categories", func(t *testing.T) {
		txs := []models.Transaction{
			incomeTx(6000, now.AddDate(0, 0, -15)),
			expenseTx("Housing", 1000, now.AddDate(0, 0, -12)),
			expenseTx("Dining Out", 500, now.AddDate(0, 0, -8)),
		}
		budget := newAt(txs, now).RecommendedBudget()

		if !budget["Housing"].Equal(decimal.NewFromInt(3000)) {
			t.Errorf("Housing = %s, want 3000", budget["Housing"])
		}
		if !budget["Dining Out"].Equal(decimal.NewFromInt(1800)) {
			t.Errorf("Dining Out = %s, want 1800", budget["Dining Out"])
		}
		if !budget["Savings"].Equal(decimal.NewFromInt(1200)) {
			t.Errorf("Savings = %s, want 1200", budget["Savings"])
		}
	})

	t.Run("unclassified categories still get a line", func(t *testing.T) {
		txs := []models.Transaction{
			incomeTx(6000, now.AddDate(0, 0, -15)),
			expenseTx("Housing", 1000, now.AddDate(0, 0, -12)),
			expenseTx("Pet Supplies", 300, now.AddDate(0, 0, -8)),
		}
		budget := newAt(txs, now).RecommendedBudget()

		if _, ok := budget["Pet Supplies"]; !ok {
			t.Error("Pet Supplies missing from recommended budget")
		}
	})
}

func TestSavingsOpportunities(t *testing.T) {
	now := time.Now()

	t.Run("flags outsized discretionary category", func(t *testing.T) {
		txs := []models.Transaction{
			incomeTx(10000, now.AddDate(0, 0, -20)),
			expenseTx("Housing", 1000, now.AddDate(0, 0, -18)),
			expenseTx("Groceries", 1000, now.AddDate(0, 0, -15)),
			expenseTx("Shopping", 4000, now.AddDate(0, 0, -10)),
		}
		got := newAt(txs, now).SavingsOpportunities()

		if len(got) != 1 {
			t.Fatalf("got %d opportunities, want 1", len(got))
		}
		if got[0].Category != "Shopping" {
			t.Errorf("category = %q, want Shopping", got[0].Category)
		}
		// Average per category is 2000; the excess is 2000.
		if !got[0].PotentialSavings.Equal(decimal.NewFromInt(2000)) {
			t.Errorf("potential savings = %s, want 2000", got[0].PotentialSavings)
		}
	})

	t.Run("deficit always surfaces", func(t *testing.T) {
		txs := []models.Transaction{
			incomeTx(1000, now.AddDate(0, 0, -20)),
			expenseTx("Housing", 1500, now.AddDate(0, 0, -18)),
		}
		got := newAt(txs, now).SavingsOpportunities()

		found := false
		for _, o := range got {
			if o.Category == "Overall Budget" {
				found = true
				if !o.PotentialSavings.Equal(decimal.NewFromInt(500)) {
					t.Errorf("deficit = %s, want 500", o.PotentialSavings)
				}
			}
		}
		if !found {
			t.Error("no overall budget opportunity for a deficit")
		}
	})
}

func TestActionItems(t *testing.T) {
	now := time.Now()

	t.Run("deficit produces a high priority item", func(t *testing.T) {
		txs := []models.Transaction{
			incomeTx(1000, now.AddDate(0, 0, -20)),
			expenseTx("Housing", 2000, now.AddDate(0, 0, -18)),
		}
		items := newAt(txs, now).ActionItems()

		if len(items) == 0 {
			t.Fatal("no action items")
		}
		if items[0].Title != "Balance your budget" || items[0].Priority != "high" {
			t.Errorf("first item = %q/%q, want Balance your budget/high", items[0].Title, items[0].Priority)
		}
	})

	t.Run("always ends with the tracking habit", func(t *testing.T) {
		items := newAt(onTarget(now), now).ActionItems()
		if len(items) < 3 {
			t.Fatalf("got %d items, want at least 3", len(items))
		}
		last := items[len(items)-1]
		if last.Title != "Keep tracking your spending" || last.Priority != "low" {
			t.Errorf("last item = %q/%q", last.Title, last.Priority)
		}
	})
}

func TestMonthlyBudget(t *testing.T) {
	now := time.Now()
	budget, err := newAt(onTarget(now), now).MonthlyBudget()
	if err != nil {
		t.Fatalf("MonthlyBudget: %v", err)
	}

	if !budget.IsActive(now) {
		t.Error("budget not active for the current month")
	}
	if budget.StartDate.Day() != 1 {
		t.Errorf("start day = %d, want 1", budget.StartDate.Day())
	}
	if !budget.TotalLimit.Valid {
		t.Fatal("total limit not set")
	}
	if len(budget.Limits) == 0 {
		t.Error("no category limits")
	}
	wantName := "Recommended Budget for " + now.Month().String()
	if len(budget.Name) < len(wantName) || budget.Name[:len(wantName)] != wantName {
		t.Errorf("name = %q, want prefix %q", budget.Name, wantName)
	}
}

func TestRecommendation(t *testing.T) {
	// Historical clock: every embedded analysis must anchor its window to
	// it, not to the wall clock.
	now := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	rec := newAt(onTarget(now), now).Recommendation()

	if rec.HealthSummary.OverallScore != 100 {
		t.Errorf("score = %d, want 100", rec.HealthSummary.OverallScore)
	}
	if len(rec.RecommendedBudget) == 0 {
		t.Error("recommended budget empty")
	}
	if len(rec.ActionItems) == 0 {
		t.Error("no action items")
	}
	if rec.RecurringExpenses == nil {
		t.Error("recurring expenses missing")
	}
	if !rec.Trends.TotalSpending.IsPositive() {
		t.Errorf("trends total = %s, want the snapshot's spending", rec.Trends.TotalSpending)
	}
	if len(rec.Forecast) == 0 {
		t.Fatal("forecast empty")
	}
	for month := range rec.Forecast {
		if month < "2025-04" || month > "2025-06" {
			t.Errorf("forecast month %s not derived from the pinned date", month)
		}
	}
}
