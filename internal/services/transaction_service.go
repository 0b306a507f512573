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

// transactionService handles transaction-related business logic.
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

// AddTransaction validates and stores a new transaction.
func (s *transactionService) AddTransaction(
	amount decimal.Decimal,
	category string,
	description string,
	date time.Time,
	transactionType models.TransactionType,
) (*models.Transaction, error) {
	transaction, err := models.NewTransaction(amount, category, description, date, transactionType)
	if err != nil {
		return nil, err
	}

	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transaction, nil
}

// GetTransactions retrieves a paginated, filtered list of transactions,
// newest first.
func (s *transactionService) GetTransactions(page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := applyTransactionFilters(s.db.Model(&models.Transaction{}), filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetAllTransactions retrieves the full filtered ledger ordered by date
// ascending, the shape the analysis engine consumes.
func (s *transactionService) GetAllTransactions(filter TransactionFilter) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := applyTransactionFilters(s.db.Model(&models.Transaction{}), filter).
		Order("date ASC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", *f.ToDate)
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.Category != nil {
		q = q.Where("category = ?", *f.Category)
	}
	if f.MinAmount != nil {
		q = q.Where("amount >= ?", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		q = q.Where("amount <= ?", *f.MaxAmount)
	}
	return q
}

// GetTransactionByID retrieves a transaction by ID.
func (s *transactionService) GetTransactionByID(id uint) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.First(&transaction, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateTransaction applies the provided fields to an existing transaction.
func (s *transactionService) UpdateTransaction(
	id uint,
	amount *decimal.Decimal,
	category *string,
	description *string,
	date *time.Time,
	transactionType *models.TransactionType,
) (*models.Transaction, error) {
	transaction, err := s.GetTransactionByID(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if amount != nil {
		if !amount.IsPositive() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
		}
		updates["amount"] = *amount
	}
	if category != nil && *category != "" {
		updates["category"] = *category
	}
	if description != nil {
		updates["description"] = *description
	}
	if date != nil && !date.IsZero() {
		updates["date"] = *date
	}
	if transactionType != nil {
		if *transactionType != models.TransactionTypeExpense && *transactionType != models.TransactionTypeIncome {
			return nil, apperrors.ErrInvalidTransactionType
		}
		updates["type"] = *transactionType
	}

	if len(updates) > 0 {
		if err := s.db.Model(transaction).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return transaction, nil
}

// DeleteTransaction removes a transaction.
func (s *transactionService) DeleteTransaction(id uint) error {
	transaction, err := s.GetTransactionByID(id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetTotals sums income and expenses over the filtered ledger. The sums are
// computed in Go with exact decimal arithmetic rather than in SQL.
func (s *transactionService) GetTotals(filter TransactionFilter) (*TransactionTotals, error) {
	transactions, err := s.GetAllTransactions(filter)
	if err != nil {
		return nil, err
	}

	totals := &TransactionTotals{
		Income:   decimal.Zero,
		Expenses: decimal.Zero,
	}
	for _, t := range transactions {
		switch t.Type {
		case models.TransactionTypeIncome:
			totals.Income = totals.Income.Add(t.Amount)
		case models.TransactionTypeExpense:
			totals.Expenses = totals.Expenses.Add(t.Amount)
		}
	}
	totals.Balance = totals.Income.Sub(totals.Expenses)
	return totals, nil
}
