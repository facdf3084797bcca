package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/yaufaniadam/invku/internal/billing/entity"
	"github.com/yaufaniadam/invku/internal/billing/repository"
	"github.com/yaufaniadam/invku/internal/billing/service"
	"github.com/yaufaniadam/invku/internal/billing/testutil"
)

func d(v string) decimal.Decimal {
	dec, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return dec
}

func setupInvoiceService(t *testing.T) (*service.InvoiceService, *repository.Repositories) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	return service.NewInvoiceService(repos, nil), repos
}

func seedOwnerAndClient(t *testing.T, repos *repository.Repositories) (string, string) {
	t.Helper()
	ctx := context.Background()
	user := &entity.User{ID: "user-1", Name: "Owner", Email: "owner@test.com", PasswordHash: "x"}
	if err := repos.User.Create(ctx, user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	client := &entity.Client{ID: "client-1", UserID: user.ID, Name: "Acme"}
	if err := repos.Client.Create(ctx, client); err != nil {
		t.Fatalf("seed client: %v", err)
	}
	return user.ID, client.ID
}

func invoiceRequest(clientID string) *service.CreateInvoiceRequest {
	return &service.CreateInvoiceRequest{
		ClientID:  clientID,
		IssueDate: "2026-08-01",
		DueDate:   "2026-08-15",
		TaxRate:   d("11"),
		Items: []service.ItemInput{
			{Description: "Design", Quantity: d("2"), UnitPrice: d("150000")},
			{Description: "Development", Quantity: d("1"), UnitPrice: d("500000")},
		},
	}
}

func TestInvoiceCreatePersistsTotals(t *testing.T) {
	svc, repos := setupInvoiceService(t)
	userID, clientID := seedOwnerAndClient(t, repos)
	ctx := context.Background()

	invoice, err := svc.Create(ctx, userID, invoiceRequest(clientID))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if invoice.Number != "INV-0001" {
		t.Errorf("number = %s, want INV-0001", invoice.Number)
	}
	if !invoice.Subtotal.Equal(d("800000")) || !invoice.TaxAmount.Equal(d("88000")) || !invoice.TotalAmount.Equal(d("888000")) {
		t.Errorf("totals = %s/%s/%s, want 800000/88000/888000",
			invoice.Subtotal, invoice.TaxAmount, invoice.TotalAmount)
	}

	stored, err := repos.Invoice.FindByID(ctx, userID, invoice.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if len(stored.Items) != 2 {
		t.Fatalf("stored items = %d, want 2", len(stored.Items))
	}
	if !stored.Items[0].Amount.Equal(d("300000")) {
		t.Errorf("line amount = %s, want 300000", stored.Items[0].Amount)
	}
	if stored.Status != entity.InvoiceStatusDraft {
		t.Errorf("status = %s, want draft", stored.Status)
	}
}

func TestInvoiceNumberContinuesFromSeeded(t *testing.T) {
	svc, repos := setupInvoiceService(t)
	userID, clientID := seedOwnerAndClient(t, repos)
	ctx := context.Background()

	req := invoiceRequest(clientID)
	req.Number = "INV-0050"
	if _, err := svc.Create(ctx, userID, req); err != nil {
		t.Fatalf("Create seeded: %v", err)
	}

	next, err := svc.Create(ctx, userID, invoiceRequest(clientID))
	if err != nil {
		t.Fatalf("Create next: %v", err)
	}
	if next.Number != "INV-0051" {
		t.Errorf("number = %s, want INV-0051", next.Number)
	}
}

func TestInvoiceDuplicateNumberRejected(t *testing.T) {
	svc, repos := setupInvoiceService(t)
	userID, clientID := seedOwnerAndClient(t, repos)
	ctx := context.Background()

	req := invoiceRequest(clientID)
	req.Number = "INV-0007"
	if _, err := svc.Create(ctx, userID, req); err != nil {
		t.Fatalf("Create first: %v", err)
	}

	dup := invoiceRequest(clientID)
	dup.Number = "INV-0007"
	_, err := svc.Create(ctx, userID, dup)
	var dne *service.DuplicateNumberError
	if !errors.As(err, &dne) {
		t.Fatalf("err = %v, want DuplicateNumberError", err)
	}
}

func TestInvoiceUpdateReplacesItems(t *testing.T) {
	svc, repos := setupInvoiceService(t)
	userID, clientID := seedOwnerAndClient(t, repos)
	ctx := context.Background()

	invoice, err := svc.Create(ctx, userID, invoiceRequest(clientID))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	req := invoiceRequest(clientID)
	req.Items = []service.ItemInput{
		{Description: "Consulting", Quantity: d("1"), UnitPrice: d("1000000")},
	}
	req.TaxRate = d("0")
	updated, err := svc.Update(ctx, userID, invoice.ID, req)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !updated.TotalAmount.Equal(d("1000000")) {
		t.Errorf("total = %s, want 1000000", updated.TotalAmount)
	}

	stored, err := repos.Invoice.FindByID(ctx, userID, invoice.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if len(stored.Items) != 1 {
		t.Fatalf("stored items = %d, want 1 after replace", len(stored.Items))
	}
	if stored.Items[0].Description != "Consulting" {
		t.Errorf("item = %s, want Consulting", stored.Items[0].Description)
	}
}

func TestInvoiceValidation(t *testing.T) {
	svc, repos := setupInvoiceService(t)
	userID, clientID := seedOwnerAndClient(t, repos)
	ctx := context.Background()

	req := invoiceRequest(clientID)
	req.DueDate = "2026-07-01"
	_, err := svc.Create(ctx, userID, req)
	var ve *service.ValidationError
	if !errors.As(err, &ve) || ve.Field != "due_date" {
		t.Errorf("due before issue: err = %v, want ValidationError on due_date", err)
	}

	req = invoiceRequest(clientID)
	req.Items = nil
	_, err = svc.Create(ctx, userID, req)
	if !errors.As(err, &ve) || ve.Field != "items" {
		t.Errorf("empty items: err = %v, want ValidationError on items", err)
	}

	req = invoiceRequest(clientID)
	req.Status = "archived"
	_, err = svc.Create(ctx, userID, req)
	if !errors.As(err, &ve) || ve.Field != "status" {
		t.Errorf("bad status: err = %v, want ValidationError on status", err)
	}
}

func TestInvoiceDeleteCascades(t *testing.T) {
	svc, repos := setupInvoiceService(t)
	userID, clientID := seedOwnerAndClient(t, repos)
	ctx := context.Background()

	invoice, err := svc.Create(ctx, userID, invoiceRequest(clientID))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	payments := service.NewPaymentService(repos, nil)
	if _, err := payments.RecordPayment(ctx, userID, &service.RecordPaymentRequest{
		InvoiceID: invoice.ID,
		Amount:    d("100000"),
		PaidAt:    "2026-08-05",
		Method:    "bank_transfer",
	}); err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}

	if err := svc.Delete(ctx, userID, invoice.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := repos.Invoice.FindByID(ctx, userID, invoice.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("invoice lookup after delete = %v, want ErrNotFound", err)
	}
	paid, err := repos.Payment.PaidAmount(ctx, invoice.ID)
	if err != nil {
		t.Fatalf("PaidAmount: %v", err)
	}
	if !paid.IsZero() {
		t.Errorf("payments remain after cascade: %s", paid)
	}
}

func TestInvoiceNotFoundForOtherOwner(t *testing.T) {
	svc, repos := setupInvoiceService(t)
	userID, clientID := seedOwnerAndClient(t, repos)
	ctx := context.Background()

	invoice, err := svc.Create(ctx, userID, invoiceRequest(clientID))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	other := &entity.User{ID: "user-2", Name: "Other", Email: "other@test.com", PasswordHash: "x"}
	if err := repos.User.Create(ctx, other); err != nil {
		t.Fatalf("seed other user: %v", err)
	}

	if _, err := svc.Get(ctx, other.ID, invoice.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("cross-owner lookup = %v, want ErrNotFound", err)
	}
}
