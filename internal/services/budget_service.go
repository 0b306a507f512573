package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "finsight/internal/errors"
	"finsight/internal/models"
	"finsight/internal/pagination"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// CreateBudget validates and stores a new budget with its category limits.
func (s *budgetService) CreateBudget(
	name string,
	startDate, endDate time.Time,
	categoryLimits map[string]decimal.Decimal,
	totalLimit *decimal.Decimal,
) (*models.Budget, error) {
	budget, err := models.NewBudget(name, startDate, endDate, categoryLimits, totalLimit)
	if err != nil {
		return nil, err
	}

	if err := s.db.Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budget, nil
}

// GetBudgets retrieves a paginated list of budgets, most recent period first.
func (s *budgetService) GetBudgets(page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error) {
	page.Defaults()

	base := s.db.Model(&models.Budget{})

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := base.Preload("Limits").
		Scopes(pagination.Paginate(page)).
		Order("start_date DESC").
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(budgets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBudgetByID retrieves a budget with its limits.
func (s *budgetService) GetBudgetByID(id uint) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Preload("Limits").First(&budget, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// GetActiveBudget returns the budget whose period covers now. When several
// overlap, the one with the most recent start wins.
func (s *budgetService) GetActiveBudget(now time.Time) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Preload("Limits").
		Where("start_date <= ? AND end_date >= ?", now, now).
		Order("start_date DESC").
		First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNoActiveBudget
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// DeleteBudget removes a budget and its limits.
func (s *budgetService) DeleteBudget(id uint) error {
	budget, err := s.GetBudgetByID(id)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("budget_id = ?", budget.ID).Delete(&models.BudgetLimit{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(budget).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// GetBudgetProgress compares actual expense spend during the budget period
// against the budget's limits, overall and per category.
func (s *budgetService) GetBudgetProgress(id uint) (*BudgetProgress, error) {
	budget, err := s.GetBudgetByID(id)
	if err != nil {
		return nil, err
	}

	var transactions []models.Transaction
	if err := s.db.
		Where("type = ? AND date >= ? AND date <= ?",
			models.TransactionTypeExpense, budget.StartDate, budget.EndDate).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	spentByCategory := make(map[string]decimal.Decimal)
	totalSpent := decimal.Zero
	for _, t := range transactions {
		spentByCategory[t.Category] = spentByCategory[t.Category].Add(t.Amount)
		totalSpent = totalSpent.Add(t.Amount)
	}

	budgeted := budget.TotalCategoryLimits()
	if budget.TotalLimit.Valid {
		budgeted = budget.TotalLimit.Decimal
	}

	progress := &BudgetProgress{
		BudgetID:   budget.ID,
		Budgeted:   budgeted,
		Spent:      totalSpent,
		Remaining:  budgeted.Sub(totalSpent),
		Categories: make([]CategoryProgress, 0, len(budget.Limits)),
	}
	if budgeted.IsPositive() {
		progress.Percentage = totalSpent.Div(budgeted).InexactFloat64() * 100
	}

	for _, limit := range budget.Limits {
		spent := spentByCategory[limit.Category]
		cp := CategoryProgress{
			Category:  limit.Category,
			Budgeted:  limit.Amount,
			Spent:     spent,
			Remaining: limit.Amount.Sub(spent),
		}
		if limit.Amount.IsPositive() {
			cp.Percentage = spent.Div(limit.Amount).InexactFloat64() * 100
		}
		progress.Categories = append(progress.Categories, cp)
	}

	return progress, nil
}
