package entity

import "time"

// Client is a billable customer of a user.
type Client struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	UserID       string    `json:"user_id" gorm:"size:36;not null;index"`
	Name         string    `json:"name" gorm:"size:255;not null"`
	Company      string    `json:"company" gorm:"size:255"`
	Email        string    `json:"email" gorm:"size:255"`
	Phone        string    `json:"phone" gorm:"size:50"`
	Address      string    `json:"address" gorm:"type:text"`
	InvoiceTitle string    `json:"invoice_title" gorm:"size:255"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// InvoiceCount is filled by list queries, not stored.
	InvoiceCount int64 `json:"invoice_count" gorm:"->;-:migration"`
}

func (Client) TableName() string {
	return "clients"
}

// DocumentTitle returns the heading printed on this client's invoices.
func (c *Client) DocumentTitle() string {
	if c.InvoiceTitle != "" {
		return c.InvoiceTitle
	}
	return "INVOICE"
}
