package services

import (
	"github.com/shopspring/decimal"

	"finsight/internal/advisor"
	"finsight/internal/analysis"
	"finsight/internal/models"
)

// insightService runs the analytics engine over the stored ledger. Every
// operation loads the full transaction history and hands it to the pure
// analysis functions; no analysis state lives in the database.
type insightService struct {
	transactions TransactionServicer
}

// NewInsightService creates a new InsightServicer.
func NewInsightService(transactions TransactionServicer) InsightServicer {
	return &insightService{transactions: transactions}
}

func (s *insightService) ledger() ([]models.Transaction, error) {
	return s.transactions.GetAllTransactions(TransactionFilter{})
}

func (s *insightService) SpendingCycles(minPeriods int, maxVarianceDays float64) (map[string][]analysis.Cycle, error) {
	transactions, err := s.ledger()
	if err != nil {
		return nil, err
	}
	return analysis.IdentifySpendingCycles(transactions, minPeriods, maxVarianceDays), nil
}

func (s *insightService) ImpulsePurchases(thresholdMultiplier float64, minAmount decimal.Decimal) ([]analysis.ImpulsePurchase, error) {
	transactions, err := s.ledger()
	if err != nil {
		return nil, err
	}
	return analysis.IdentifyImpulsePurchases(transactions, thresholdMultiplier, minAmount), nil
}

func (s *insightService) CategoryDrift(windowDays int, thresholdPercent float64) ([]analysis.CategoryDrift, error) {
	transactions, err := s.ledger()
	if err != nil {
		return nil, err
	}
	return analysis.IdentifyCategoryDrift(transactions, windowDays, thresholdPercent), nil
}

func (s *insightService) SpendingAnomalies(lookbackDays int, zThreshold float64) ([]analysis.SpendingAnomaly, error) {
	transactions, err := s.ledger()
	if err != nil {
		return nil, err
	}
	return analysis.IdentifySpendingAnomalies(transactions, lookbackDays, zThreshold), nil
}

func (s *insightService) WeekendPatterns() (analysis.WeekendPattern, error) {
	transactions, err := s.ledger()
	if err != nil {
		return analysis.WeekendPattern{}, err
	}
	return analysis.WeekendWeekdayPatterns(transactions), nil
}

func (s *insightService) MonthEndPressure(months int) ([]analysis.MonthPressure, error) {
	transactions, err := s.ledger()
	if err != nil {
		return nil, err
	}
	return analysis.EndOfMonthPressure(transactions, months), nil
}

func (s *insightService) SpendingTrends(periodMonths int) (analysis.SpendingTrends, error) {
	transactions, err := s.ledger()
	if err != nil {
		return analysis.SpendingTrends{}, err
	}
	return analysis.AnalyzeSpendingTrends(transactions, periodMonths), nil
}

func (s *insightService) UnusualExpenses(thresholdMultiplier float64) ([]models.Transaction, error) {
	transactions, err := s.ledger()
	if err != nil {
		return nil, err
	}
	return analysis.IdentifyUnusualExpenses(transactions, thresholdMultiplier), nil
}

func (s *insightService) RecurringExpenses(minOccurrences int) (map[string][]analysis.RecurringExpense, error) {
	transactions, err := s.ledger()
	if err != nil {
		return nil, err
	}
	return analysis.AnalyzeRecurringExpenses(transactions, minOccurrences), nil
}

func (s *insightService) Forecast(monthsAhead int) (map[string]decimal.Decimal, error) {
	transactions, err := s.ledger()
	if err != nil {
		return nil, err
	}
	return analysis.ForecastMonthlyExpenses(transactions, monthsAhead), nil
}

func (s *insightService) CategoryAllocations(months int) (map[string]float64, error) {
	transactions, err := s.ledger()
	if err != nil {
		return nil, err
	}
	return analysis.CalculateCategoryAllocations(transactions, months), nil
}

func (s *insightService) BudgetRecommendation() (*advisor.Recommendation, error) {
	transactions, err := s.ledger()
	if err != nil {
		return nil, err
	}
	recommendation := advisor.New(transactions).Recommendation()
	return &recommendation, nil
}

func (s *insightService) RecommendedMonthlyBudget() (*models.Budget, error) {
	transactions, err := s.ledger()
	if err != nil {
		return nil, err
	}
	return advisor.New(transactions).MonthlyBudget()
}
