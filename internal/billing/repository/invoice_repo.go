package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yaufaniadam/invku/internal/billing/entity"
)

// InvoiceRepository manages invoices and their line items.
type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// Create stores the invoice together with its items in one transaction.
func (r *InvoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := invoice.Items
		invoice.Items = nil
		if err := tx.Create(invoice).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].InvoiceID = invoice.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		invoice.Items = items
		return nil
	})
}

// Update rewrites the invoice header and replaces all of its items.
func (r *InvoiceRepository) Update(ctx context.Context, invoice *entity.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := invoice.Items
		invoice.Items = nil
		if err := tx.Save(invoice).Error; err != nil {
			return err
		}
		if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&entity.InvoiceItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].InvoiceID = invoice.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		invoice.Items = items
		return nil
	})
}

func (r *InvoiceRepository) FindAll(ctx context.Context, userID string, page, pageSize int, filters map[string]string) ([]entity.Invoice, int64, error) {
	var items []entity.Invoice
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Invoice{}).Where("user_id = ?", userID)
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if clientID := filters["client_id"]; clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}
	if search := filters["search"]; search != "" {
		query = query.Where("number ILIKE ?", "%"+search+"%")
	}
	if startDate := filters["start_date"]; startDate != "" {
		query = query.Where("issue_date >= ?", startDate)
	}
	if endDate := filters["end_date"]; endDate != "" {
		query = query.Where("issue_date <= ?", endDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Client").
		Order("issue_date DESC, number DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error
	return items, total, err
}

func (r *InvoiceRepository) FindByID(ctx context.Context, userID, id string) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("paid_at ASC")
		}).
		First(&invoice, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &invoice, nil
}

// Delete removes the invoice with its payments and items in dependency order.
func (r *InvoiceRepository) Delete(ctx context.Context, userID, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var invoice entity.Invoice
		if err := tx.First(&invoice, "id = ? AND user_id = ?", id, userID).Error; err != nil {
			return translateError(err)
		}
		if err := tx.Where("invoice_id = ?", id).Delete(&entity.Payment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("invoice_id = ?", id).Delete(&entity.InvoiceItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&invoice).Error
	})
}

func (r *InvoiceRepository) UpdateStatus(ctx context.Context, userID, id, status string) error {
	result := r.db.WithContext(ctx).
		Model(&entity.Invoice{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// LastNumber returns the highest invoice number with the given prefix for the
// user, or empty when none exist yet.
func (r *InvoiceRepository) LastNumber(ctx context.Context, userID, prefix string) (string, error) {
	var number string
	err := r.db.WithContext(ctx).
		Model(&entity.Invoice{}).
		Select("number").
		Where("user_id = ? AND number LIKE ?", userID, prefix+"%").
		Order("LENGTH(number) DESC, number DESC").
		Limit(1).
		Scan(&number).Error
	return number, err
}

// NumberExists reports whether an invoice number is already taken for the user.
func (r *InvoiceRepository) NumberExists(ctx context.Context, userID, number string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Invoice{}).
		Where("user_id = ? AND number = ?", userID, number).
		Count(&count).Error
	return count > 0, err
}

// StatusCounts returns the number of invoices per stored status.
func (r *InvoiceRepository) StatusCounts(ctx context.Context, userID string) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&entity.Invoice{}).
		Select("status, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// OutstandingTotal sums balance due over unpaid, non-cancelled invoices.
// Each invoice's balance floors at zero so overpayments do not offset others.
func (r *InvoiceRepository) OutstandingTotal(ctx context.Context, userID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&entity.Invoice{}).
		Select("COALESCE(SUM(GREATEST(total_amount - (SELECT COALESCE(SUM(amount), 0) FROM payments WHERE payments.invoice_id = invoices.id), 0)), 0)").
		Where("user_id = ? AND status NOT IN ?", userID, []string{entity.InvoiceStatusPaid, entity.InvoiceStatusCancelled}).
		Scan(&total).Error
	return total, err
}

// OrderBilling sums the invoiced and collected amounts for one order,
// skipping cancelled invoices.
func (r *InvoiceRepository) OrderBilling(ctx context.Context, userID, orderID string) (billed, paid decimal.Decimal, err error) {
	err = r.db.WithContext(ctx).
		Model(&entity.Invoice{}).
		Select(`COALESCE(SUM(total_amount), 0) AS billed,
			COALESCE(SUM((SELECT COALESCE(SUM(amount), 0) FROM payments WHERE payments.invoice_id = invoices.id)), 0) AS paid`).
		Where("user_id = ? AND order_id = ? AND status <> ?", userID, orderID, entity.InvoiceStatusCancelled).
		Row().Scan(&billed, &paid)
	return billed, paid, err
}

// ClientReportRow is one client's billing position.
type ClientReportRow struct {
	ClientID     string          `json:"client_id"`
	ClientName   string          `json:"client_name"`
	InvoiceCount int64           `json:"invoice_count"`
	Billed       decimal.Decimal `json:"billed"`
	Paid         decimal.Decimal `json:"paid"`
	Outstanding  decimal.Decimal `json:"outstanding"`
}

var clientReportSorts = map[string]string{
	"name":     "client_name",
	"billed":   "billed",
	"paid":     "paid",
	"invoices": "invoice_count",
}

// ClientReport aggregates billed and paid totals per client over non-cancelled
// invoices. sortBy is one of name/billed/paid/invoices; desc reverses it.
func (r *InvoiceRepository) ClientReport(ctx context.Context, userID, search, sortBy string, desc bool) ([]ClientReportRow, error) {
	order, ok := clientReportSorts[sortBy]
	if !ok {
		order = "client_name"
	}
	if desc {
		order += " DESC"
	}

	query := r.db.WithContext(ctx).
		Table("clients").
		Select(`clients.id AS client_id,
			clients.name AS client_name,
			COUNT(invoices.id) AS invoice_count,
			COALESCE(SUM(invoices.total_amount), 0) AS billed,
			COALESCE(SUM((SELECT COALESCE(SUM(amount), 0) FROM payments WHERE payments.invoice_id = invoices.id)), 0) AS paid`).
		Joins("LEFT JOIN invoices ON invoices.client_id = clients.id AND invoices.status <> ?", entity.InvoiceStatusCancelled).
		Where("clients.user_id = ?", userID)
	if search != "" {
		query = query.Where("clients.name ILIKE ?", "%"+search+"%")
	}

	var rows []ClientReportRow
	err := query.
		Group("clients.id, clients.name").
		Order(order).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		outstanding := rows[i].Billed.Sub(rows[i].Paid)
		if outstanding.IsNegative() {
			outstanding = decimal.Zero
		}
		rows[i].Outstanding = outstanding
	}
	return rows, nil
}

// MonthlyRevenue sums paid amounts per month over the given window, keyed by
// YYYY-MM.
func (r *InvoiceRepository) MonthlyRevenue(ctx context.Context, userID string, from, to time.Time) (map[string]decimal.Decimal, error) {
	var rows []struct {
		Month string
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&entity.Payment{}).
		Select("TO_CHAR(paid_at, 'YYYY-MM') AS month, COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ? AND type = ? AND paid_at >= ? AND paid_at < ?", userID, entity.PaymentTypePayment, from, to).
		Group("month").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		result[row.Month] = row.Total
	}
	return result, nil
}
