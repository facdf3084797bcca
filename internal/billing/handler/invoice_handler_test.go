package handler_test

import (
	"fmt"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yaufaniadam/invku/internal/billing/entity"
	"github.com/yaufaniadam/invku/internal/billing/handler"
	"github.com/yaufaniadam/invku/internal/billing/repository"
	"github.com/yaufaniadam/invku/internal/billing/service"
	"github.com/yaufaniadam/invku/internal/billing/testutil"
)

const testUserID = "test-user-001"

func setupAPI(t *testing.T) *gin.Engine {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)

	invoices := service.NewInvoiceService(repos, nil)
	payments := service.NewPaymentService(repos, nil)
	clients := service.NewClientService(repos)

	invoiceHandler := handler.NewInvoiceHandler(invoices)
	paymentHandler := handler.NewPaymentHandler(payments)
	clientHandler := handler.NewClientHandler(clients, payments)

	r := testutil.SetupRouter()
	api := testutil.AuthGroup(r, "/api")
	api.POST("/invoices", invoiceHandler.Create)
	api.GET("/invoices/:id", invoiceHandler.Get)
	api.GET("/invoices/next-number", invoiceHandler.NextNumber)
	api.GET("/invoices/:id/receipt", invoiceHandler.Receipt)
	api.PATCH("/invoices/:id/status", invoiceHandler.UpdateStatus)
	api.POST("/payments", paymentHandler.Record)
	api.POST("/deposits", paymentHandler.RecordDeposit)
	api.GET("/clients/:id/deposit-balance", clientHandler.DepositBalance)

	testutil.SeedTestUser(t, db, testUserID, "Test Owner", "owner@test.com")
	testutil.SeedTestClient(t, db, "client-1", testUserID, "Acme")

	return r
}

func invoicePayload() map[string]interface{} {
	return map[string]interface{}{
		"client_id":  "client-1",
		"issue_date": "2026-08-01",
		"due_date":   "2026-08-15",
		"tax_rate":   "11",
		"items": []map[string]interface{}{
			{"description": "Design", "quantity": "2", "unit_price": "150000"},
			{"description": "Development", "quantity": "1", "unit_price": "500000"},
		},
	}
}

func TestInvoiceCreateAndGet(t *testing.T) {
	r := setupAPI(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(r, "POST", "/api/invoices", invoicePayload(), token)
	if w.Code != 201 {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	invoiceID := data["id"].(string)
	if data["number"] != "INV-0001" {
		t.Errorf("number = %v, want INV-0001", data["number"])
	}

	w = testutil.DoRequest(r, "GET", "/api/invoices/"+invoiceID, nil, token)
	if w.Code != 200 {
		t.Fatalf("get status = %d", w.Code)
	}
	resp = testutil.ParseResponse(w)
	detail := resp["data"].(map[string]interface{})
	if detail["balance_due"] != "888000" {
		t.Errorf("balance_due = %v, want 888000", detail["balance_due"])
	}
	if detail["amount_in_words"] != "delapan ratus delapan puluh delapan ribu rupiah" {
		t.Errorf("amount_in_words = %v", detail["amount_in_words"])
	}
}

func TestInvoiceRequiresAuth(t *testing.T) {
	r := setupAPI(t)
	w := testutil.DoRequest(r, "POST", "/api/invoices", invoicePayload(), "")
	if w.Code != 401 {
		t.Errorf("status = %d, want 401 without token", w.Code)
	}
}

func TestPaymentSettlesInvoice(t *testing.T) {
	r := setupAPI(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(r, "POST", "/api/invoices", invoicePayload(), token)
	if w.Code != 201 {
		t.Fatalf("create status = %d", w.Code)
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	invoiceID := data["id"].(string)

	w = testutil.DoRequest(r, "POST", "/api/payments", map[string]interface{}{
		"invoice_id": invoiceID,
		"amount":     "888000",
		"paid_at":    "2026-08-05",
		"method":     "bank_transfer",
	}, token)
	if w.Code != 201 {
		t.Fatalf("payment status = %d, body = %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(r, "GET", "/api/invoices/"+invoiceID, nil, token)
	detail := testutil.ParseResponse(w)["data"].(map[string]interface{})
	invoice := detail["invoice"].(map[string]interface{})
	if invoice["status"] != entity.InvoiceStatusPaid {
		t.Errorf("status = %v, want paid", invoice["status"])
	}

	w = testutil.DoRequest(r, "GET", "/api/invoices/"+invoiceID+"/receipt", nil, token)
	if w.Code != 200 {
		t.Fatalf("receipt status = %d, body = %s", w.Code, w.Body.String())
	}
	receipt := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if receipt["balance_due"] != "0" {
		t.Errorf("receipt balance_due = %v, want 0", receipt["balance_due"])
	}
	payment := receipt["payment"].(map[string]interface{})
	if payment["amount"] != "888000" {
		t.Errorf("receipt payment amount = %v, want 888000", payment["amount"])
	}
}

func TestDepositDrawRejectedOverHTTP(t *testing.T) {
	r := setupAPI(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(r, "POST", "/api/invoices", invoicePayload(), token)
	invoiceID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	w = testutil.DoRequest(r, "POST", "/api/deposits", map[string]interface{}{
		"client_id": "client-1",
		"amount":    "100000",
		"paid_at":   "2026-08-01",
		"method":    "bank_transfer",
	}, token)
	if w.Code != 201 {
		t.Fatalf("deposit status = %d, body = %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(r, "POST", "/api/payments", map[string]interface{}{
		"invoice_id": invoiceID,
		"amount":     "150000",
		"paid_at":    "2026-08-05",
		"method":     "deposit",
	}, token)
	if w.Code != 422 {
		t.Fatalf("draw status = %d, want 422, body = %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(r, "GET", "/api/clients/client-1/deposit-balance", nil, token)
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["deposit_balance"] != "100000" {
		t.Errorf("deposit_balance = %v, want 100000 untouched", data["deposit_balance"])
	}
}

func TestManualStatusUpdate(t *testing.T) {
	r := setupAPI(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(r, "POST", "/api/invoices", invoicePayload(), token)
	invoiceID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	path := fmt.Sprintf("/api/invoices/%s/status", invoiceID)
	w = testutil.DoRequest(r, "PATCH", path, map[string]string{"status": "sent"}, token)
	if w.Code != 200 {
		t.Fatalf("status update = %d, body = %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(r, "PATCH", path, map[string]string{"status": "archived"}, token)
	if w.Code != 400 {
		t.Errorf("invalid status = %d, want 400", w.Code)
	}
}
