package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yaufaniadam/invku/internal/billing/entity"
	"github.com/yaufaniadam/invku/internal/billing/repository"
)

var validOrderStatuses = map[string]bool{
	entity.OrderStatusPending:    true,
	entity.OrderStatusInProgress: true,
	entity.OrderStatusCompleted:  true,
	entity.OrderStatusCancelled:  true,
}

// OrderService manages client work orders.
type OrderService struct {
	orders   *repository.OrderRepository
	clients  *repository.ClientRepository
	invoices *repository.InvoiceRepository
	expenses *repository.ExpenseRepository
	lock     OwnerLock
	now      func() time.Time
}

func NewOrderService(repos *repository.Repositories, lock OwnerLock) *OrderService {
	if lock == nil {
		lock = noopOwnerLock{}
	}
	return &OrderService{
		orders:   repos.Order,
		clients:  repos.Client,
		invoices: repos.Invoice,
		expenses: repos.Expense,
		lock:     lock,
		now:      time.Now,
	}
}

// OrderRequest carries order fields for create and update.
type OrderRequest struct {
	ClientID    string          `json:"client_id" binding:"required"`
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description"`
	Status      string          `json:"status"`
	Value       decimal.Decimal `json:"value" binding:"required"`
	Cost        decimal.Decimal `json:"cost"`
	StartDate   *string         `json:"start_date"`
	Deadline    *string         `json:"deadline"`
}

// NextNumber previews the next order number for the user under the current
// year's prefix.
func (s *OrderService) NextNumber(ctx context.Context, userID string) (string, error) {
	prefix := OrderNumberPrefix(s.now())
	return NextNumber(ctx, s.orders, userID, prefix, OrderNumberPad)
}

func (s *OrderService) Create(ctx context.Context, userID string, req *OrderRequest) (*entity.Order, error) {
	if err := validateOrderRequest(req); err != nil {
		return nil, err
	}
	if _, err := s.clients.FindByID(ctx, userID, req.ClientID); err != nil {
		return nil, fmt.Errorf("find client: %w", err)
	}

	status := req.Status
	if status == "" {
		status = entity.OrderStatusPending
	}

	order := &entity.Order{
		ID:          uuid.New().String(),
		UserID:      userID,
		ClientID:    req.ClientID,
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		Value:       req.Value,
		Cost:        req.Cost,
	}
	if err := applyOrderDates(order, req); err != nil {
		return nil, err
	}

	err := s.lock.WithLock(ctx, userID, func() error {
		number, err := NextNumber(ctx, s.orders, userID, OrderNumberPrefix(s.now()), OrderNumberPad)
		if err != nil {
			return err
		}
		order.Number = number
		return s.orders.Create(ctx, order)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &DuplicateNumberError{Number: order.Number}
		}
		return nil, fmt.Errorf("create order: %w", err)
	}
	return order, nil
}

func (s *OrderService) List(ctx context.Context, userID string, page, pageSize int, filters map[string]string) ([]entity.Order, int64, error) {
	return s.orders.FindAll(ctx, userID, page, pageSize, filters)
}

// OrderDetail is an order with its billing position and realized margin.
type OrderDetail struct {
	Order         *entity.Order   `json:"order"`
	InvoicedTotal decimal.Decimal `json:"invoiced_total"`
	PaidTotal     decimal.Decimal `json:"paid_total"`
	UnpaidTotal   decimal.Decimal `json:"unpaid_total"`
	ExpenseTotal  decimal.Decimal `json:"expense_total"`
	RealizedNet   decimal.Decimal `json:"realized_net"`
}

func (s *OrderService) Get(ctx context.Context, userID, id string) (*OrderDetail, error) {
	order, err := s.orders.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	billed, paid, err := s.invoices.OrderBilling(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("sum order invoices: %w", err)
	}
	spent, err := s.expenses.OrderTotal(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("sum order expenses: %w", err)
	}
	unpaid := billed.Sub(paid)
	if unpaid.IsNegative() {
		unpaid = decimal.Zero
	}
	return &OrderDetail{
		Order:         order,
		InvoicedTotal: billed,
		PaidTotal:     paid,
		UnpaidTotal:   unpaid,
		ExpenseTotal:  spent,
		RealizedNet:   paid.Sub(spent),
	}, nil
}

func (s *OrderService) Update(ctx context.Context, userID, id string, req *OrderRequest) (*entity.Order, error) {
	if err := validateOrderRequest(req); err != nil {
		return nil, err
	}
	order, err := s.orders.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.ClientID != order.ClientID {
		if _, err := s.clients.FindByID(ctx, userID, req.ClientID); err != nil {
			return nil, fmt.Errorf("find client: %w", err)
		}
	}

	order.ClientID = req.ClientID
	order.Title = req.Title
	order.Description = req.Description
	order.Value = req.Value
	order.Cost = req.Cost
	if req.Status != "" && req.Status != order.Status {
		order.Status = req.Status
		if req.Status == entity.OrderStatusCompleted {
			now := s.now()
			order.CompletedAt = &now
		}
	}
	if err := applyOrderDates(order, req); err != nil {
		return nil, err
	}
	order.Client = nil
	order.Invoices = nil

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Delete removes an order unless invoices still reference it.
func (s *OrderService) Delete(ctx context.Context, userID, id string) error {
	err := s.orders.DeleteIfUnreferenced(ctx, userID, id)
	if errors.Is(err, repository.ErrOrderHasInvoices) {
		return newValidationError("order", "cannot delete an order with invoices attached")
	}
	return err
}

// Totals aggregates order value, cost and profit for the dashboard.
func (s *OrderService) Totals(ctx context.Context, userID string) (*repository.OrderTotals, error) {
	return s.orders.Totals(ctx, userID)
}

func validateOrderRequest(req *OrderRequest) error {
	if req.Value.IsNegative() {
		return newValidationError("value", "must not be negative")
	}
	if req.Cost.IsNegative() {
		return newValidationError("cost", "must not be negative")
	}
	if req.Status != "" && !validOrderStatuses[req.Status] {
		return newValidationError("status", "invalid status value")
	}
	return nil
}

func applyOrderDates(order *entity.Order, req *OrderRequest) error {
	if req.StartDate != nil {
		t, err := time.Parse("2006-01-02", *req.StartDate)
		if err != nil {
			return newValidationError("start_date", "must be a date in YYYY-MM-DD format")
		}
		order.StartDate = &t
	}
	if req.Deadline != nil {
		t, err := time.Parse("2006-01-02", *req.Deadline)
		if err != nil {
			return newValidationError("deadline", "must be a date in YYYY-MM-DD format")
		}
		order.Deadline = &t
	}
	return nil
}
