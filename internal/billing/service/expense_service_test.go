package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/yaufaniadam/invku/internal/billing/repository"
	"github.com/yaufaniadam/invku/internal/billing/service"
	"github.com/yaufaniadam/invku/internal/billing/testutil"
)

func setupExpenses(t *testing.T) (*service.ExpenseService, *repository.Repositories) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	return service.NewExpenseService(repos), repos
}

func expenseRequest(category string) *service.ExpenseRequest {
	return &service.ExpenseRequest{
		Category:      category,
		Description:   "Office supplies",
		Amount:        d("120000"),
		PaymentMethod: "bank_transfer",
		SpentAt:       "2026-08-10",
	}
}

func TestCustomExpenseCategoryAccepted(t *testing.T) {
	expenses, repos := setupExpenses(t)
	userID, _ := seedOwnerAndClient(t, repos)
	ctx := context.Background()

	expense, err := expenses.Create(ctx, userID, expenseRequest("consulting"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if expense.Category != "consulting" {
		t.Errorf("category = %s, want consulting", expense.Category)
	}
	if expense.CategoryLabel() != "consulting" {
		t.Errorf("label = %s, want the raw value for a custom category", expense.CategoryLabel())
	}
}

func TestExpenseCategoryValidation(t *testing.T) {
	expenses, repos := setupExpenses(t)
	userID, _ := seedOwnerAndClient(t, repos)
	ctx := context.Background()

	_, err := expenses.Create(ctx, userID, expenseRequest(""))
	var ve *service.ValidationError
	if !errors.As(err, &ve) || ve.Field != "category" {
		t.Errorf("empty category: err = %v, want ValidationError on category", err)
	}

	long := make([]byte, 51)
	for i := range long {
		long[i] = 'x'
	}
	_, err = expenses.Create(ctx, userID, expenseRequest(string(long)))
	if !errors.As(err, &ve) || ve.Field != "category" {
		t.Errorf("oversized category: err = %v, want ValidationError on category", err)
	}
}

func TestCategoriesMergeUserCustoms(t *testing.T) {
	expenses, repos := setupExpenses(t)
	userID, _ := seedOwnerAndClient(t, repos)
	ctx := context.Background()

	for _, category := range []string{"consulting", "salary"} {
		if _, err := expenses.Create(ctx, userID, expenseRequest(category)); err != nil {
			t.Fatalf("Create(%s): %v", category, err)
		}
	}

	categories, err := expenses.Categories(ctx, userID)
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	if categories["consulting"] != "Consulting" {
		t.Errorf("consulting label = %q, want Consulting", categories["consulting"])
	}
	// Built-in categories keep their labels even when in use.
	if categories["salary"] != "Salary" {
		t.Errorf("salary label = %q, want Salary", categories["salary"])
	}
	if categories["vendor"] != "Vendor" {
		t.Errorf("vendor label = %q, want Vendor", categories["vendor"])
	}
}
