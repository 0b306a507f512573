package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"finsight/internal/models"
	"finsight/internal/pagination"
	"finsight/internal/testutil"
)

func TestCreateCategory(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		limit := decimal.NewFromInt(400)
		category, err := svc.CreateCategory("Groceries", models.CategoryTypeExpense, nil, &limit)
		testutil.AssertNoError(t, err)

		if category.ID == 0 {
			t.Fatal("expected non-zero category ID")
		}
		if !category.MonthlyLimit.Valid || !category.MonthlyLimit.Decimal.Equal(limit) {
			t.Errorf("expected monthly limit 400, got %v", category.MonthlyLimit)
		}
	})

	t.Run("with_parent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		parent := "Food"
		category, err := svc.CreateCategory("Groceries", models.CategoryTypeExpense, &parent, nil)
		testutil.AssertNoError(t, err)
		if category.FullPath() != "Food > Groceries" {
			t.Errorf("expected full path Food > Groceries, got %s", category.FullPath())
		}
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		_, err := svc.CreateCategory("", models.CategoryTypeExpense, nil, nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("duplicate_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		_, err := svc.CreateCategory("Groceries", models.CategoryTypeExpense, nil, nil)
		testutil.AssertNoError(t, err)

		_, err = svc.CreateCategory("Groceries", models.CategoryTypeExpense, nil, nil)
		testutil.AssertAppError(t, err, "DUPLICATE_NAME")
	})

	t.Run("same_name_different_type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		_, err := svc.CreateCategory("Investments", models.CategoryTypeExpense, nil, nil)
		testutil.AssertNoError(t, err)

		_, err = svc.CreateCategory("Investments", models.CategoryTypeIncome, nil, nil)
		testutil.AssertNoError(t, err)
	})
}

func TestGetCategories(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCategoryService(db)

	testutil.CreateTestCategory(t, db, "Groceries", models.CategoryTypeExpense)
	testutil.CreateTestCategory(t, db, "Dining Out", models.CategoryTypeExpense)
	testutil.CreateTestCategory(t, db, "Salary", models.CategoryTypeIncome)

	result, err := svc.GetCategories(pagination.PageRequest{})
	testutil.AssertNoError(t, err)
	if result.TotalItems != 3 {
		t.Errorf("expected 3 categories, got %d", result.TotalItems)
	}
	if result.Data[0].Name != "Dining Out" {
		t.Errorf("expected name order, got %s first", result.Data[0].Name)
	}

	expenses, err := svc.GetCategoriesByType(models.CategoryTypeExpense, pagination.PageRequest{})
	testutil.AssertNoError(t, err)
	if expenses.TotalItems != 2 {
		t.Errorf("expected 2 expense categories, got %d", expenses.TotalItems)
	}
}

func TestUpdateCategory(t *testing.T) {
	t.Run("renames", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		created := testutil.CreateTestCategory(t, db, "Groceries", models.CategoryTypeExpense)

		name := "Food & Groceries"
		updated, err := svc.UpdateCategory(created.ID, &name, nil, nil)
		testutil.AssertNoError(t, err)
		if updated.Name != name {
			t.Errorf("expected renamed category, got %s", updated.Name)
		}
	})

	t.Run("duplicate_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		testutil.CreateTestCategory(t, db, "Groceries", models.CategoryTypeExpense)
		other := testutil.CreateTestCategory(t, db, "Dining Out", models.CategoryTypeExpense)

		name := "Groceries"
		_, err := svc.UpdateCategory(other.ID, &name, nil, nil)
		testutil.AssertAppError(t, err, "DUPLICATE_NAME")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		name := "Anything"
		_, err := svc.UpdateCategory(9999, &name, nil, nil)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestDeleteCategory(t *testing.T) {
	t.Run("deletes_unused", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		created := testutil.CreateTestCategory(t, db, "Groceries", models.CategoryTypeExpense)

		testutil.AssertNoError(t, svc.DeleteCategory(created.ID))

		_, err := svc.GetCategoryByID(created.ID)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("rejects_in_use", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		created := testutil.CreateTestCategory(t, db, "Groceries", models.CategoryTypeExpense)
		testutil.CreateTestExpense(t, db, 20, "Groceries", time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))

		testutil.AssertAppError(t, svc.DeleteCategory(created.ID), "CATEGORY_IN_USE")
	})
}

func TestSeedDefaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCategoryService(db)

	created, err := svc.SeedDefaults()
	testutil.AssertNoError(t, err)
	if created != len(models.DefaultCategories()) {
		t.Errorf("expected %d seeded categories, got %d", len(models.DefaultCategories()), created)
	}

	// Seeding again is a no-op.
	created, err = svc.SeedDefaults()
	testutil.AssertNoError(t, err)
	if created != 0 {
		t.Errorf("expected 0 new categories on re-seed, got %d", created)
	}
}
