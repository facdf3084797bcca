package repository

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Repositories bundles all data access objects.
type Repositories struct {
	User         *UserRepository
	Profile      *ProfileRepository
	Client       *ClientRepository
	Vendor       *VendorRepository
	Order        *OrderRepository
	Invoice      *InvoiceRepository
	Payment      *PaymentRepository
	Expense      *ExpenseRepository
	Subscription *SubscriptionRepository
}

// NewRepositories creates the repository collection over a database handle.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Profile:      NewProfileRepository(db),
		Client:       NewClientRepository(db),
		Vendor:       NewVendorRepository(db),
		Order:        NewOrderRepository(db),
		Invoice:      NewInvoiceRepository(db),
		Payment:      NewPaymentRepository(db),
		Expense:      NewExpenseRepository(db),
		Subscription: NewSubscriptionRepository(db),
	}
}

func translateError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
