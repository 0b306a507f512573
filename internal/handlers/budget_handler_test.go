package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "finsight/internal/errors"
	"finsight/internal/models"
	"finsight/internal/pagination"
	"finsight/internal/services"
)

// --- mock budget service ---

type mockBudgetService struct {
	createBudgetFn      func(name string, startDate, endDate time.Time, categoryLimits map[string]decimal.Decimal, totalLimit *decimal.Decimal) (*models.Budget, error)
	getBudgetsFn        func(page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error)
	getBudgetByIDFn     func(id uint) (*models.Budget, error)
	getActiveBudgetFn   func(now time.Time) (*models.Budget, error)
	deleteBudgetFn      func(id uint) error
	getBudgetProgressFn func(id uint) (*services.BudgetProgress, error)
}

func (m *mockBudgetService) CreateBudget(name string, startDate, endDate time.Time, categoryLimits map[string]decimal.Decimal, totalLimit *decimal.Decimal) (*models.Budget, error) {
	if m.createBudgetFn != nil {
		return m.createBudgetFn(name, startDate, endDate, categoryLimits, totalLimit)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) GetBudgets(page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error) {
	if m.getBudgetsFn != nil {
		return m.getBudgetsFn(page)
	}
	resp := pagination.NewPageResponse([]models.Budget{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockBudgetService) GetBudgetByID(id uint) (*models.Budget, error) {
	if m.getBudgetByIDFn != nil {
		return m.getBudgetByIDFn(id)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) GetActiveBudget(now time.Time) (*models.Budget, error) {
	if m.getActiveBudgetFn != nil {
		return m.getActiveBudgetFn(now)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) DeleteBudget(id uint) error {
	if m.deleteBudgetFn != nil {
		return m.deleteBudgetFn(id)
	}
	return nil
}

func (m *mockBudgetService) GetBudgetProgress(id uint) (*services.BudgetProgress, error) {
	if m.getBudgetProgressFn != nil {
		return m.getBudgetProgressFn(id)
	}
	return &services.BudgetProgress{}, nil
}

var _ services.BudgetServicer = (*mockBudgetService)(nil)

func setupBudgetRouter(handler *BudgetHandler) *gin.Engine {
	r := gin.New()
	r.POST("/budgets", handler.CreateBudget)
	r.GET("/budgets", handler.GetBudgets)
	r.GET("/budgets/active", handler.GetActiveBudget)
	r.GET("/budgets/:id", handler.GetBudgetByID)
	r.GET("/budgets/:id/progress", handler.GetBudgetProgress)
	r.DELETE("/budgets/:id", handler.DeleteBudget)
	return r
}

func TestBudgetHandler_CreateBudget(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var gotLimits map[string]decimal.Decimal
		budgetSvc := &mockBudgetService{
			createBudgetFn: func(name string, startDate, endDate time.Time, categoryLimits map[string]decimal.Decimal, totalLimit *decimal.Decimal) (*models.Budget, error) {
				gotLimits = categoryLimits
				return &models.Budget{ID: 1, Name: name, StartDate: startDate, EndDate: endDate}, nil
			},
		}
		handler := NewBudgetHandler(budgetSvc)
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "POST", "/budgets",
			`{"name":"June 2025","start_date":"2025-06-01T00:00:00Z","end_date":"2025-06-30T00:00:00Z","category_limits":{"Groceries":"400"}}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if !gotLimits["Groceries"].Equal(decimal.NewFromInt(400)) {
			t.Errorf("expected Groceries limit 400 passed to the service, got %v", gotLimits)
		}
	})

	t.Run("returns 400 on missing dates", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "POST", "/budgets", `{"name":"June 2025"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on invalid period", func(t *testing.T) {
		budgetSvc := &mockBudgetService{
			createBudgetFn: func(name string, startDate, endDate time.Time, categoryLimits map[string]decimal.Decimal, totalLimit *decimal.Decimal) (*models.Budget, error) {
				return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "end date must not be before start date")
			},
		}
		handler := NewBudgetHandler(budgetSvc)
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "POST", "/budgets",
			`{"name":"Backwards","start_date":"2025-06-30T00:00:00Z","end_date":"2025-06-01T00:00:00Z"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestBudgetHandler_GetActiveBudget(t *testing.T) {
	t.Run("returns the covering budget", func(t *testing.T) {
		budgetSvc := &mockBudgetService{
			getActiveBudgetFn: func(now time.Time) (*models.Budget, error) {
				return &models.Budget{ID: 3, Name: "This Month"}, nil
			},
		}
		handler := NewBudgetHandler(budgetSvc)
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budgets/active", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		budget := result["budget"].(map[string]interface{})
		if budget["name"] != "This Month" {
			t.Errorf("expected This Month, got %v", budget["name"])
		}
	})

	t.Run("returns 404 when none active", func(t *testing.T) {
		budgetSvc := &mockBudgetService{
			getActiveBudgetFn: func(now time.Time) (*models.Budget, error) {
				return nil, apperrors.ErrNoActiveBudget
			},
		}
		handler := NewBudgetHandler(budgetSvc)
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budgets/active", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "NO_ACTIVE_BUDGET")
	})
}

func TestBudgetHandler_GetBudgetProgress(t *testing.T) {
	t.Run("returns progress", func(t *testing.T) {
		budgetSvc := &mockBudgetService{
			getBudgetProgressFn: func(id uint) (*services.BudgetProgress, error) {
				return &services.BudgetProgress{
					BudgetID:   id,
					Budgeted:   decimal.NewFromInt(600),
					Spent:      decimal.NewFromInt(350),
					Remaining:  decimal.NewFromInt(250),
					Percentage: 58.33,
				}, nil
			},
		}
		handler := NewBudgetHandler(budgetSvc)
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budgets/3/progress", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		progress := result["progress"].(map[string]interface{})
		if progress["spent"] != "350" {
			t.Errorf("expected spent 350, got %v", progress["spent"])
		}
	})

	t.Run("returns 404 when missing", func(t *testing.T) {
		budgetSvc := &mockBudgetService{
			getBudgetProgressFn: func(id uint) (*services.BudgetProgress, error) {
				return nil, apperrors.ErrBudgetNotFound
			},
		}
		handler := NewBudgetHandler(budgetSvc)
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budgets/42/progress", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestBudgetHandler_DeleteBudget(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "DELETE", "/budgets/3", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})
}
