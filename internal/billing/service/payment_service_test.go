package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/yaufaniadam/invku/internal/billing/entity"
	"github.com/yaufaniadam/invku/internal/billing/repository"
	"github.com/yaufaniadam/invku/internal/billing/service"
	"github.com/yaufaniadam/invku/internal/billing/testutil"
)

func setupLedger(t *testing.T) (*service.PaymentService, *service.InvoiceService, *repository.Repositories) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	return service.NewPaymentService(repos, nil), service.NewInvoiceService(repos, nil), repos
}

func createInvoice(t *testing.T, svc *service.InvoiceService, userID, clientID string) *entity.Invoice {
	t.Helper()
	invoice, err := svc.Create(context.Background(), userID, invoiceRequest(clientID))
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	return invoice
}

func TestRecordPaymentReducesBalance(t *testing.T) {
	payments, invoices, repos := setupLedger(t)
	userID, clientID := seedOwnerAndClient(t, repos)
	ctx := context.Background()
	invoice := createInvoice(t, invoices, userID, clientID)

	if _, err := payments.RecordPayment(ctx, userID, &service.RecordPaymentRequest{
		InvoiceID: invoice.ID,
		Amount:    d("300000"),
		PaidAt:    "2026-08-05",
		Method:    "bank_transfer",
	}); err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}

	balance, err := payments.BalanceDue(ctx, userID, invoice.ID)
	if err != nil {
		t.Fatalf("BalanceDue: %v", err)
	}
	if !balance.Equal(d("588000")) {
		t.Errorf("balance = %s, want 588000", balance)
	}

	stored, _ := repos.Invoice.FindByID(ctx, userID, invoice.ID)
	if stored.Status != entity.InvoiceStatusDraft {
		t.Errorf("status = %s, want draft after partial payment", stored.Status)
	}
}

func TestSettlementFlipsStatusToPaid(t *testing.T) {
	payments, invoices, repos := setupLedger(t)
	userID, clientID := seedOwnerAndClient(t, repos)
	ctx := context.Background()
	invoice := createInvoice(t, invoices, userID, clientID)

	for _, amount := range []string{"400000", "488000"} {
		if _, err := payments.RecordPayment(ctx, userID, &service.RecordPaymentRequest{
			InvoiceID: invoice.ID,
			Amount:    d(amount),
			PaidAt:    "2026-08-05",
			Method:    "bank_transfer",
		}); err != nil {
			t.Fatalf("RecordPayment(%s): %v", amount, err)
		}
	}

	balance, err := payments.BalanceDue(ctx, userID, invoice.ID)
	if err != nil {
		t.Fatalf("BalanceDue: %v", err)
	}
	if !balance.IsZero() {
		t.Errorf("balance = %s, want 0", balance)
	}

	stored, _ := repos.Invoice.FindByID(ctx, userID, invoice.ID)
	if stored.Status != entity.InvoiceStatusPaid {
		t.Errorf("status = %s, want paid", stored.Status)
	}
}

func TestOverpaymentFloorsAtZero(t *testing.T) {
	payments, invoices, repos := setupLedger(t)
	userID, clientID := seedOwnerAndClient(t, repos)
	ctx := context.Background()
	invoice := createInvoice(t, invoices, userID, clientID)

	if _, err := payments.RecordPayment(ctx, userID, &service.RecordPaymentRequest{
		InvoiceID: invoice.ID,
		Amount:    d("900000"),
		PaidAt:    "2026-08-05",
		Method:    "bank_transfer",
	}); err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}

	balance, err := payments.BalanceDue(ctx, userID, invoice.ID)
	if err != nil {
		t.Fatalf("BalanceDue: %v", err)
	}
	if !balance.IsZero() {
		t.Errorf("balance = %s, want 0 on overpayment", balance)
	}
}

func TestCancelledInvoiceNeverFlipsToPaid(t *testing.T) {
	payments, invoices, repos := setupLedger(t)
	userID, clientID := seedOwnerAndClient(t, repos)
	ctx := context.Background()
	invoice := createInvoice(t, invoices, userID, clientID)

	if err := invoices.UpdateStatus(ctx, userID, invoice.ID, entity.InvoiceStatusCancelled); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	if _, err := payments.RecordPayment(ctx, userID, &service.RecordPaymentRequest{
		InvoiceID: invoice.ID,
		Amount:    d("888000"),
		PaidAt:    "2026-08-05",
		Method:    "bank_transfer",
	}); err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}

	stored, _ := repos.Invoice.FindByID(ctx, userID, invoice.ID)
	if stored.Status != entity.InvoiceStatusCancelled {
		t.Errorf("status = %s, want cancelled", stored.Status)
	}
}

func TestDepositBalanceAndDraw(t *testing.T) {
	payments, invoices, repos := setupLedger(t)
	userID, clientID := seedOwnerAndClient(t, repos)
	ctx := context.Background()
	invoice := createInvoice(t, invoices, userID, clientID)

	if _, err := payments.RecordDeposit(ctx, userID, &service.RecordDepositRequest{
		ClientID: clientID,
		Amount:   d("500000"),
		PaidAt:   "2026-08-01",
		Method:   "bank_transfer",
	}); err != nil {
		t.Fatalf("RecordDeposit: %v", err)
	}

	balance, err := payments.DepositBalance(ctx, userID, clientID)
	if err != nil {
		t.Fatalf("DepositBalance: %v", err)
	}
	if !balance.Equal(d("500000")) {
		t.Errorf("deposit balance = %s, want 500000", balance)
	}

	if _, err := payments.RecordPayment(ctx, userID, &service.RecordPaymentRequest{
		InvoiceID: invoice.ID,
		Amount:    d("300000"),
		PaidAt:    "2026-08-05",
		Method:    entity.PaymentMethodDeposit,
	}); err != nil {
		t.Fatalf("deposit draw: %v", err)
	}

	balance, err = payments.DepositBalance(ctx, userID, clientID)
	if err != nil {
		t.Fatalf("DepositBalance: %v", err)
	}
	if !balance.Equal(d("200000")) {
		t.Errorf("deposit balance = %s, want 200000 after draw", balance)
	}
}

func TestDepositDrawExceedingBalanceRejected(t *testing.T) {
	payments, invoices, repos := setupLedger(t)
	userID, clientID := seedOwnerAndClient(t, repos)
	ctx := context.Background()
	invoice := createInvoice(t, invoices, userID, clientID)

	if _, err := payments.RecordDeposit(ctx, userID, &service.RecordDepositRequest{
		ClientID: clientID,
		Amount:   d("100000"),
		PaidAt:   "2026-08-01",
		Method:   "bank_transfer",
	}); err != nil {
		t.Fatalf("RecordDeposit: %v", err)
	}

	_, err := payments.RecordPayment(ctx, userID, &service.RecordPaymentRequest{
		InvoiceID: invoice.ID,
		Amount:    d("150000"),
		PaidAt:    "2026-08-05",
		Method:    entity.PaymentMethodDeposit,
	})
	var ide *service.InsufficientDepositError
	if !errors.As(err, &ide) {
		t.Fatalf("err = %v, want InsufficientDepositError", err)
	}
	if !ide.Balance.Equal(d("100000")) {
		t.Errorf("reported balance = %s, want 100000", ide.Balance)
	}

	// No payment row was written and the balance due is untouched.
	balance, err := payments.BalanceDue(ctx, userID, invoice.ID)
	if err != nil {
		t.Fatalf("BalanceDue: %v", err)
	}
	if !balance.Equal(d("888000")) {
		t.Errorf("balance = %s, want 888000", balance)
	}
}

func TestRecordPaymentValidation(t *testing.T) {
	payments, invoices, repos := setupLedger(t)
	userID, clientID := seedOwnerAndClient(t, repos)
	ctx := context.Background()
	invoice := createInvoice(t, invoices, userID, clientID)

	_, err := payments.RecordPayment(ctx, userID, &service.RecordPaymentRequest{
		InvoiceID: invoice.ID,
		Amount:    d("0"),
		PaidAt:    "2026-08-05",
		Method:    "bank_transfer",
	})
	var ve *service.ValidationError
	if !errors.As(err, &ve) || ve.Field != "amount" {
		t.Errorf("zero amount: err = %v, want ValidationError on amount", err)
	}

	_, err = payments.RecordPayment(ctx, userID, &service.RecordPaymentRequest{
		InvoiceID: "no-such-invoice",
		Amount:    d("1000"),
		PaidAt:    "2026-08-05",
		Method:    "bank_transfer",
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("missing invoice: err = %v, want ErrNotFound", err)
	}
}

func TestDepositSummaries(t *testing.T) {
	payments, _, repos := setupLedger(t)
	userID, clientID := seedOwnerAndClient(t, repos)
	ctx := context.Background()

	if _, err := payments.RecordDeposit(ctx, userID, &service.RecordDepositRequest{
		ClientID: clientID,
		Amount:   d("250000"),
		PaidAt:   "2026-08-01",
		Method:   "cash",
	}); err != nil {
		t.Fatalf("RecordDeposit: %v", err)
	}

	summaries, err := payments.DepositSummaries(ctx, userID)
	if err != nil {
		t.Fatalf("DepositSummaries: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("summaries = %d, want 1", len(summaries))
	}
	if summaries[0].ClientID != clientID || !summaries[0].Balance.Equal(d("250000")) {
		t.Errorf("summary = %+v, want balance 250000 for %s", summaries[0], clientID)
	}
}
