package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"finsight/internal/analysis"
	apperrors "finsight/internal/errors"
	"finsight/internal/services"
)

// InsightHandler exposes the analytics engine over HTTP. Every endpoint reads
// its tuning knobs from query parameters, falling back to the analysis
// package defaults.
type InsightHandler struct {
	insightService services.InsightServicer
}

// NewInsightHandler creates a new InsightHandler.
func NewInsightHandler(insightService services.InsightServicer) *InsightHandler {
	return &InsightHandler{insightService: insightService}
}

// GetSpendingCycles reports recurring spending series bucketed by cadence.
func (h *InsightHandler) GetSpendingCycles(c *gin.Context) {
	minPeriods, err := queryInt(c, "min_periods", analysis.DefaultMinPeriods)
	if err != nil {
		respondWithError(c, err)
		return
	}
	maxVariance, err := queryFloat(c, "max_variance_days", analysis.DefaultMaxVarianceDays)
	if err != nil {
		respondWithError(c, err)
		return
	}

	cycles, err := h.insightService.SpendingCycles(minPeriods, maxVariance)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cycles": cycles})
}

// GetImpulsePurchases reports expenses well above their category average.
func (h *InsightHandler) GetImpulsePurchases(c *gin.Context) {
	multiplier, err := queryFloat(c, "threshold_multiplier", analysis.DefaultImpulseThresholdMultiplier)
	if err != nil {
		respondWithError(c, err)
		return
	}

	minAmount := decimal.NewFromFloat(analysis.DefaultImpulseMinAmount)
	if v := c.Query("min_amount"); v != "" {
		parsed, parseErr := decimal.NewFromString(v)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid min_amount"))
			return
		}
		minAmount = parsed
	}

	purchases, err := h.insightService.ImpulsePurchases(multiplier, minAmount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"impulse_purchases": purchases})
}

// GetCategoryDrift compares recent against prior category spending.
func (h *InsightHandler) GetCategoryDrift(c *gin.Context) {
	windowDays, err := queryInt(c, "window_days", analysis.DefaultDriftWindowDays)
	if err != nil {
		respondWithError(c, err)
		return
	}
	threshold, err := queryFloat(c, "threshold_percent", analysis.DefaultDriftThresholdPercent)
	if err != nil {
		respondWithError(c, err)
		return
	}

	drift, err := h.insightService.CategoryDrift(windowDays, threshold)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"drift": drift})
}

// GetSpendingAnomalies reports days and categories with outlier spending.
func (h *InsightHandler) GetSpendingAnomalies(c *gin.Context) {
	lookbackDays, err := queryInt(c, "lookback_days", analysis.DefaultAnomalyLookbackDays)
	if err != nil {
		respondWithError(c, err)
		return
	}
	zThreshold, err := queryFloat(c, "z_threshold", analysis.DefaultAnomalyZThreshold)
	if err != nil {
		respondWithError(c, err)
		return
	}

	anomalies, err := h.insightService.SpendingAnomalies(lookbackDays, zThreshold)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"anomalies": anomalies})
}

// GetWeekendPatterns compares weekend and weekday spending habits.
func (h *InsightHandler) GetWeekendPatterns(c *gin.Context) {
	pattern, err := h.insightService.WeekendPatterns()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pattern": pattern})
}

// GetMonthEndPressure reports months whose spending clusters at the end.
func (h *InsightHandler) GetMonthEndPressure(c *gin.Context) {
	months, err := queryInt(c, "months", analysis.DefaultPressureMonths)
	if err != nil {
		respondWithError(c, err)
		return
	}

	pressure, err := h.insightService.MonthEndPressure(months)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pressure": pressure})
}

// GetSpendingTrends summarizes spending over the recent period.
func (h *InsightHandler) GetSpendingTrends(c *gin.Context) {
	months, err := queryInt(c, "period_months", analysis.DefaultTrendPeriodMonths)
	if err != nil {
		respondWithError(c, err)
		return
	}

	trends, err := h.insightService.SpendingTrends(months)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trends": trends})
}

// GetUnusualExpenses lists expenses far above the overall average.
func (h *InsightHandler) GetUnusualExpenses(c *gin.Context) {
	multiplier, err := queryFloat(c, "threshold_multiplier", analysis.DefaultUnusualMultiplier)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenses, err := h.insightService.UnusualExpenses(multiplier)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unusual_expenses": expenses})
}

// GetRecurringExpenses lists repeating expense series by cadence.
func (h *InsightHandler) GetRecurringExpenses(c *gin.Context) {
	minOccurrences, err := queryInt(c, "min_occurrences", analysis.DefaultRecurringMinOccurrence)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recurring, err := h.insightService.RecurringExpenses(minOccurrences)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recurring_expenses": recurring})
}

// GetForecast projects total monthly expenses forward.
func (h *InsightHandler) GetForecast(c *gin.Context) {
	monthsAhead, err := queryInt(c, "months_ahead", analysis.DefaultForecastMonthsAhead)
	if err != nil {
		respondWithError(c, err)
		return
	}

	forecast, err := h.insightService.Forecast(monthsAhead)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"forecast": forecast})
}

// GetCategoryAllocations reports each category's share of recent spending.
func (h *InsightHandler) GetCategoryAllocations(c *gin.Context) {
	months, err := queryInt(c, "months", analysis.DefaultAllocationMonths)
	if err != nil {
		respondWithError(c, err)
		return
	}

	allocations, err := h.insightService.CategoryAllocations(months)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"allocations": allocations})
}

// GetBudgetRecommendation returns the full budget health report.
func (h *InsightHandler) GetBudgetRecommendation(c *gin.Context) {
	recommendation, err := h.insightService.BudgetRecommendation()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recommendation": recommendation})
}

// GetRecommendedBudget returns a ready-to-save budget for the current month.
func (h *InsightHandler) GetRecommendedBudget(c *gin.Context) {
	budget, err := h.insightService.RecommendedMonthlyBudget()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}
