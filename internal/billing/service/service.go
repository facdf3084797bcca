package service

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/yaufaniadam/invku/internal/billing/repository"
	"github.com/yaufaniadam/invku/internal/config"
	"github.com/yaufaniadam/invku/internal/shared/mailer"
	"github.com/yaufaniadam/invku/internal/storage"
)

// Services bundles the application services.
type Services struct {
	Auth         *AuthService
	Profile      *ProfileService
	Client       *ClientService
	Vendor       *VendorService
	Order        *OrderService
	Invoice      *InvoiceService
	Payment      *PaymentService
	Expense      *ExpenseService
	Subscription *SubscriptionService
	Report       *ReportService
}

// NewServices wires the service collection. The redis client backs both
// token revocation and the per-owner numbering lock; store may be nil when
// file uploads are disabled.
func NewServices(repos *repository.Repositories, cfg *config.Config, logger *zap.Logger, redisClient *redis.Client, store *storage.Storage, mail *mailer.Mailer) *Services {
	var lock OwnerLock = noopOwnerLock{}
	if redisClient != nil {
		lock = NewRedisOwnerLock(redisClient)
	}

	return &Services{
		Auth:         NewAuthService(repos, redisClient, logger, cfg.JWT.Secret, cfg.JWT.AccessTokenExpire),
		Profile:      NewProfileService(repos, store),
		Client:       NewClientService(repos),
		Vendor:       NewVendorService(repos),
		Order:        NewOrderService(repos, lock),
		Invoice:      NewInvoiceService(repos, lock),
		Payment:      NewPaymentService(repos, store),
		Expense:      NewExpenseService(repos),
		Subscription: NewSubscriptionService(repos, mail, logger),
		Report:       NewReportService(repos),
	}
}
