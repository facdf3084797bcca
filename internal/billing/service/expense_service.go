package service

import (
	"context"
	"fmt"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yaufaniadam/invku/internal/billing/entity"
	"github.com/yaufaniadam/invku/internal/billing/repository"
)

// ExpenseService manages business expenses and their vendors.
type ExpenseService struct {
	expenses      *repository.ExpenseRepository
	vendors       *repository.VendorRepository
	orders        *repository.OrderRepository
	subscriptions *repository.SubscriptionRepository
}

func NewExpenseService(repos *repository.Repositories) *ExpenseService {
	return &ExpenseService{
		expenses:      repos.Expense,
		vendors:       repos.Vendor,
		orders:        repos.Order,
		subscriptions: repos.Subscription,
	}
}

// ExpenseRequest carries expense fields for create and update. VendorName is
// resolved to a vendor record, created on first use.
type ExpenseRequest struct {
	VendorName    string          `json:"vendor_name"`
	OrderID       *string         `json:"order_id"`
	Category      string          `json:"category" binding:"required"`
	Description   string          `json:"description" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethod string          `json:"payment_method" binding:"required"`
	SpentAt       string          `json:"spent_at" binding:"required"`
	IsRecurring   bool            `json:"is_recurring"`
	BillingCycle  string          `json:"billing_cycle"`
	ReceiptPath   string          `json:"receipt_path"`
	Notes         string          `json:"notes"`
}

func (s *ExpenseService) Create(ctx context.Context, userID string, req *ExpenseRequest) (*entity.Expense, error) {
	spentAt, err := validateExpenseRequest(req)
	if err != nil {
		return nil, err
	}

	if req.OrderID != nil {
		if _, err := s.orders.FindByID(ctx, userID, *req.OrderID); err != nil {
			return nil, fmt.Errorf("find order: %w", err)
		}
	}

	expense := &entity.Expense{
		ID:            uuid.New().String(),
		UserID:        userID,
		OrderID:       req.OrderID,
		Category:      req.Category,
		Description:   req.Description,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		SpentAt:       spentAt,
		IsRecurring:   req.IsRecurring,
		ReceiptPath:   req.ReceiptPath,
		Notes:         req.Notes,
	}

	if req.VendorName != "" {
		vendor, err := s.vendors.FirstOrCreateByName(ctx, userID, req.VendorName, func() string {
			return uuid.New().String()
		})
		if err != nil {
			return nil, fmt.Errorf("resolve vendor: %w", err)
		}
		expense.VendorID = &vendor.ID
	}

	if err := s.expenses.Create(ctx, expense); err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}

	// A recurring expense also opens a subscription so renewals get tracked
	// and reminded.
	if req.IsRecurring {
		cycle := req.BillingCycle
		if cycle == "" {
			cycle = entity.CycleMonthly
		}
		sub := &entity.Subscription{
			ID:              uuid.New().String(),
			UserID:          userID,
			VendorID:        expense.VendorID,
			Name:            req.Description,
			Amount:          req.Amount,
			BillingCycle:    cycle,
			NextBillingDate: spentAt,
			Category:        req.Category,
			IsActive:        true,
		}
		sub.AdvanceBillingDate()
		if err := s.subscriptions.Create(ctx, sub); err != nil {
			return nil, fmt.Errorf("open subscription: %w", err)
		}
	}
	return expense, nil
}

func (s *ExpenseService) List(ctx context.Context, userID string, page, pageSize int, filters map[string]string) ([]entity.Expense, int64, error) {
	return s.expenses.FindAll(ctx, userID, page, pageSize, filters)
}

func (s *ExpenseService) Get(ctx context.Context, userID, id string) (*entity.Expense, error) {
	return s.expenses.FindByID(ctx, userID, id)
}

func (s *ExpenseService) Update(ctx context.Context, userID, id string, req *ExpenseRequest) (*entity.Expense, error) {
	spentAt, err := validateExpenseRequest(req)
	if err != nil {
		return nil, err
	}
	expense, err := s.expenses.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.OrderID != nil {
		if _, err := s.orders.FindByID(ctx, userID, *req.OrderID); err != nil {
			return nil, fmt.Errorf("find order: %w", err)
		}
	}
	expense.OrderID = req.OrderID
	expense.Category = req.Category
	expense.Description = req.Description
	expense.Amount = req.Amount
	expense.PaymentMethod = req.PaymentMethod
	expense.SpentAt = spentAt
	expense.IsRecurring = req.IsRecurring
	if req.ReceiptPath != "" {
		expense.ReceiptPath = req.ReceiptPath
	}
	expense.Notes = req.Notes
	if req.VendorName != "" {
		vendor, err := s.vendors.FirstOrCreateByName(ctx, userID, req.VendorName, func() string {
			return uuid.New().String()
		})
		if err != nil {
			return nil, fmt.Errorf("resolve vendor: %w", err)
		}
		expense.VendorID = &vendor.ID
	}
	expense.Vendor = nil

	if err := s.expenses.Update(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *ExpenseService) Delete(ctx context.Context, userID, id string) error {
	return s.expenses.Delete(ctx, userID, id)
}

// Categories returns the selectable categories, merging the user's own
// custom ones into the built-in set.
func (s *ExpenseService) Categories(ctx context.Context, userID string) (map[string]string, error) {
	used, err := s.expenses.DistinctCategories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	categories := make(map[string]string, len(entity.ExpenseCategories)+len(used))
	for key, label := range entity.ExpenseCategories {
		categories[key] = label
	}
	for _, category := range used {
		if _, ok := categories[category]; !ok {
			categories[category] = titleCase(category)
		}
	}
	return categories, nil
}

func titleCase(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func validateExpenseRequest(req *ExpenseRequest) (time.Time, error) {
	if !req.Amount.IsPositive() {
		return time.Time{}, newValidationError("amount", "must be greater than zero")
	}
	// Categories are free-form so users can add their own.
	if req.Category == "" {
		return time.Time{}, newValidationError("category", "must not be empty")
	}
	if len(req.Category) > 50 {
		return time.Time{}, newValidationError("category", "must be at most 50 characters")
	}
	if _, ok := entity.ExpensePaymentMethods[req.PaymentMethod]; !ok {
		return time.Time{}, newValidationError("payment_method", "unknown payment method")
	}
	spentAt, err := time.Parse("2006-01-02", req.SpentAt)
	if err != nil {
		return time.Time{}, newValidationError("spent_at", "must be a date in YYYY-MM-DD format")
	}
	return spentAt, nil
}
