package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/yaufaniadam/invku/internal/billing/entity"
	"github.com/yaufaniadam/invku/internal/billing/repository"
	"github.com/yaufaniadam/invku/internal/shared/mailer"
)

var validCycles = map[string]bool{
	entity.CycleDaily:   true,
	entity.CycleWeekly:  true,
	entity.CycleMonthly: true,
	entity.CycleYearly:  true,
}

// SubscriptionService manages recurring subscriptions and renewal reminders.
type SubscriptionService struct {
	subscriptions *repository.SubscriptionRepository
	users         *repository.UserRepository
	mail          *mailer.Mailer
	logger        *zap.Logger
	now           func() time.Time
}

func NewSubscriptionService(repos *repository.Repositories, mail *mailer.Mailer, logger *zap.Logger) *SubscriptionService {
	return &SubscriptionService{
		subscriptions: repos.Subscription,
		users:         repos.User,
		mail:          mail,
		logger:        logger,
		now:           time.Now,
	}
}

// SubscriptionRequest carries subscription fields for create and update.
type SubscriptionRequest struct {
	Name            string          `json:"name" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	BillingCycle    string          `json:"billing_cycle" binding:"required"`
	NextBillingDate string          `json:"next_billing_date" binding:"required"`
	Category        string          `json:"category"`
	IsActive        *bool           `json:"is_active"`
	Notes           string          `json:"notes"`
}

// SubscriptionOverview is the list view with the normalized monthly burn.
type SubscriptionOverview struct {
	Subscriptions []entity.Subscription `json:"subscriptions"`
	MonthlyCost   decimal.Decimal       `json:"monthly_cost"`
	YearlyCost    decimal.Decimal       `json:"yearly_cost"`
}

func (s *SubscriptionService) Create(ctx context.Context, userID string, req *SubscriptionRequest) (*entity.Subscription, error) {
	nextBilling, err := validateSubscriptionRequest(req)
	if err != nil {
		return nil, err
	}

	category := req.Category
	if category == "" {
		category = "software"
	}
	sub := &entity.Subscription{
		ID:              uuid.New().String(),
		UserID:          userID,
		Name:            req.Name,
		Amount:          req.Amount,
		BillingCycle:    req.BillingCycle,
		NextBillingDate: nextBilling,
		Category:        category,
		IsActive:        true,
		Notes:           req.Notes,
	}
	if req.IsActive != nil {
		sub.IsActive = *req.IsActive
	}
	if err := s.subscriptions.Create(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// List returns the user's subscriptions with aggregate monthly and yearly
// cost over the active ones.
func (s *SubscriptionService) List(ctx context.Context, userID string, activeOnly bool) (*SubscriptionOverview, error) {
	subs, err := s.subscriptions.FindAll(ctx, userID, activeOnly)
	if err != nil {
		return nil, err
	}

	monthly := decimal.Zero
	for _, sub := range subs {
		if sub.IsActive {
			monthly = monthly.Add(sub.MonthlyCost())
		}
	}
	return &SubscriptionOverview{
		Subscriptions: subs,
		MonthlyCost:   monthly,
		YearlyCost:    monthly.Mul(decimal.NewFromInt(12)),
	}, nil
}

func (s *SubscriptionService) Get(ctx context.Context, userID, id string) (*entity.Subscription, error) {
	return s.subscriptions.FindByID(ctx, userID, id)
}

func (s *SubscriptionService) Update(ctx context.Context, userID, id string, req *SubscriptionRequest) (*entity.Subscription, error) {
	nextBilling, err := validateSubscriptionRequest(req)
	if err != nil {
		return nil, err
	}
	sub, err := s.subscriptions.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	sub.Name = req.Name
	sub.Amount = req.Amount
	sub.BillingCycle = req.BillingCycle
	sub.NextBillingDate = nextBilling
	if req.Category != "" {
		sub.Category = req.Category
	}
	if req.IsActive != nil {
		sub.IsActive = *req.IsActive
	}
	sub.Notes = req.Notes
	sub.Vendor = nil

	if err := s.subscriptions.Update(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *SubscriptionService) Delete(ctx context.Context, userID, id string) error {
	return s.subscriptions.Delete(ctx, userID, id)
}

// SendRenewalReminders mails owners whose subscriptions renew in seven days
// or tomorrow, then rolls forward billing dates that have already passed.
// Returns the number of reminders sent.
func (s *SubscriptionService) SendRenewalReminders(ctx context.Context) (int, error) {
	now := s.now()
	sent := 0
	for _, days := range []int{7, 1} {
		due, err := s.subscriptions.DueOn(ctx, now.AddDate(0, 0, days))
		if err != nil {
			return sent, fmt.Errorf("scan renewals: %w", err)
		}
		for _, sub := range due {
			if err := s.remind(ctx, &sub, days); err != nil {
				s.logger.Warn("renewal reminder failed",
					zap.String("subscription_id", sub.ID),
					zap.Error(err))
				continue
			}
			sent++
		}
	}

	// Roll forward anything whose billing date is already behind us, however
	// far behind, so the next cycle gets reminded too.
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	overdue, err := s.subscriptions.DueBefore(ctx, now)
	if err != nil {
		return sent, fmt.Errorf("scan stale renewals: %w", err)
	}
	for i := range overdue {
		sub := overdue[i]
		for sub.NextBillingDate.Before(today) {
			sub.AdvanceBillingDate()
		}
		sub.Vendor = nil
		if err := s.subscriptions.Update(ctx, &sub); err != nil {
			s.logger.Warn("billing date rollover failed",
				zap.String("subscription_id", sub.ID),
				zap.Error(err))
		}
	}
	return sent, nil
}

func (s *SubscriptionService) remind(ctx context.Context, sub *entity.Subscription, days int) error {
	if !s.mail.Enabled() {
		return nil
	}
	user, err := s.users.FindByID(ctx, sub.UserID)
	if err != nil {
		return fmt.Errorf("find owner: %w", err)
	}

	subject := fmt.Sprintf("Subscription renewal: %s in %d day(s)", sub.Name, days)
	body := fmt.Sprintf(
		"Hi %s,\n\nYour subscription %q renews on %s for %s.\n\nThis is an automated reminder.\n",
		user.Name, sub.Name, sub.NextBillingDate.Format("2006-01-02"), sub.Amount.StringFixed(2))
	return s.mail.Send([]string{user.Email}, subject, body)
}

func validateSubscriptionRequest(req *SubscriptionRequest) (time.Time, error) {
	if !req.Amount.IsPositive() {
		return time.Time{}, newValidationError("amount", "must be greater than zero")
	}
	if !validCycles[req.BillingCycle] {
		return time.Time{}, newValidationError("billing_cycle", "must be daily, weekly, monthly or yearly")
	}
	next, err := time.Parse("2006-01-02", req.NextBillingDate)
	if err != nil {
		return time.Time{}, newValidationError("next_billing_date", "must be a date in YYYY-MM-DD format")
	}
	return next, nil
}
