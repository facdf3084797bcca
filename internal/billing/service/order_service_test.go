package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/yaufaniadam/invku/internal/billing/entity"
	"github.com/yaufaniadam/invku/internal/billing/repository"
	"github.com/yaufaniadam/invku/internal/billing/service"
	"github.com/yaufaniadam/invku/internal/billing/testutil"
)

func setupOrders(t *testing.T) (*service.OrderService, *repository.Repositories) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	return service.NewOrderService(repos, nil), repos
}

func orderRequest(clientID string) *service.OrderRequest {
	return &service.OrderRequest{
		ClientID: clientID,
		Title:    "Website redesign",
		Value:    d("5000000"),
		Cost:     d("1500000"),
	}
}

func TestOrderNumbersAreSequentialPerYear(t *testing.T) {
	orders, repos := setupOrders(t)
	userID, clientID := seedOwnerAndClient(t, repos)
	ctx := context.Background()

	first, err := orders.Create(ctx, userID, orderRequest(clientID))
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	second, err := orders.Create(ctx, userID, orderRequest(clientID))
	if err != nil {
		t.Fatalf("create second order: %v", err)
	}

	prefix := service.OrderNumberPrefix(time.Now())
	if want := fmt.Sprintf("%s001", prefix); first.Number != want {
		t.Errorf("first number = %s, want %s", first.Number, want)
	}
	if want := fmt.Sprintf("%s002", prefix); second.Number != want {
		t.Errorf("second number = %s, want %s", second.Number, want)
	}
}

func TestOrderDetailAggregates(t *testing.T) {
	orders, repos := setupOrders(t)
	userID, clientID := seedOwnerAndClient(t, repos)
	ctx := context.Background()

	order, err := orders.Create(ctx, userID, orderRequest(clientID))
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	invoices := service.NewInvoiceService(repos, nil)
	payments := service.NewPaymentService(repos, nil)
	expenses := service.NewExpenseService(repos)

	req := invoiceRequest(clientID)
	req.OrderID = &order.ID
	invoice, err := invoices.Create(ctx, userID, req)
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	if _, err := payments.RecordPayment(ctx, userID, &service.RecordPaymentRequest{
		InvoiceID: invoice.ID,
		Amount:    d("500000"),
		PaidAt:    "2026-08-05",
		Method:    "bank_transfer",
	}); err != nil {
		t.Fatalf("record payment: %v", err)
	}
	if _, err := expenses.Create(ctx, userID, &service.ExpenseRequest{
		OrderID:       &order.ID,
		Category:      "operational",
		Description:   "Hosting",
		Amount:        d("120000"),
		PaymentMethod: "bank_transfer",
		SpentAt:       "2026-08-03",
	}); err != nil {
		t.Fatalf("create expense: %v", err)
	}

	detail, err := orders.Get(ctx, userID, order.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if !detail.InvoicedTotal.Equal(d("888000")) {
		t.Errorf("invoiced = %s, want 888000", detail.InvoicedTotal)
	}
	if !detail.PaidTotal.Equal(d("500000")) {
		t.Errorf("paid = %s, want 500000", detail.PaidTotal)
	}
	if !detail.UnpaidTotal.Equal(d("388000")) {
		t.Errorf("unpaid = %s, want 388000", detail.UnpaidTotal)
	}
	if !detail.ExpenseTotal.Equal(d("120000")) {
		t.Errorf("expenses = %s, want 120000", detail.ExpenseTotal)
	}
	if !detail.RealizedNet.Equal(d("380000")) {
		t.Errorf("realized net = %s, want 380000", detail.RealizedNet)
	}
}

func TestOrderDeleteBlockedWhileInvoiced(t *testing.T) {
	orders, repos := setupOrders(t)
	userID, clientID := seedOwnerAndClient(t, repos)
	ctx := context.Background()

	order, err := orders.Create(ctx, userID, orderRequest(clientID))
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	invoices := service.NewInvoiceService(repos, nil)
	req := invoiceRequest(clientID)
	req.OrderID = &order.ID
	invoice, err := invoices.Create(ctx, userID, req)
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}

	if err := orders.Delete(ctx, userID, order.ID); err == nil {
		t.Fatal("expected delete of invoiced order to fail")
	}

	if err := invoices.Delete(ctx, userID, invoice.ID); err != nil {
		t.Fatalf("delete invoice: %v", err)
	}
	if err := orders.Delete(ctx, userID, order.ID); err != nil {
		t.Fatalf("delete order after invoice removed: %v", err)
	}
	if _, err := repos.Order.FindByID(ctx, userID, order.ID); err == nil {
		t.Error("order still present after delete")
	}
}

func TestOrderCompletionTimestamp(t *testing.T) {
	orders, repos := setupOrders(t)
	userID, clientID := seedOwnerAndClient(t, repos)
	ctx := context.Background()

	order, err := orders.Create(ctx, userID, orderRequest(clientID))
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.CompletedAt != nil {
		t.Fatal("new order should not be completed")
	}

	req := orderRequest(clientID)
	req.Status = entity.OrderStatusCompleted
	updated, err := orders.Update(ctx, userID, order.ID, req)
	if err != nil {
		t.Fatalf("update order: %v", err)
	}
	if updated.CompletedAt == nil {
		t.Error("completed order should carry a completion time")
	}
}
