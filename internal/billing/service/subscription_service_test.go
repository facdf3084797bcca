package service_test

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/yaufaniadam/invku/internal/billing/repository"
	"github.com/yaufaniadam/invku/internal/billing/service"
	"github.com/yaufaniadam/invku/internal/billing/testutil"
	"github.com/yaufaniadam/invku/internal/shared/mailer"
)

func setupSubscriptions(t *testing.T) (*service.SubscriptionService, *repository.Repositories) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svc := service.NewSubscriptionService(repos, mailer.New(mailer.Config{}), zap.NewNop())
	return svc, repos
}

func TestStaleBillingDatesRollForward(t *testing.T) {
	subscriptions, repos := setupSubscriptions(t)
	userID, _ := seedOwnerAndClient(t, repos)
	ctx := context.Background()

	// A subscription that missed several cycles must still catch up, not
	// just the ones exactly one day behind.
	stale := time.Now().AddDate(0, 0, -40)
	sub, err := subscriptions.Create(ctx, userID, &service.SubscriptionRequest{
		Name:            "Design tool",
		Amount:          d("150000"),
		BillingCycle:    "monthly",
		NextBillingDate: stale.Format("2006-01-02"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := subscriptions.SendRenewalReminders(ctx); err != nil {
		t.Fatalf("SendRenewalReminders: %v", err)
	}

	stored, err := repos.Subscription.FindByID(ctx, userID, sub.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if stored.NextBillingDate.Before(today) {
		t.Errorf("next billing date = %s, still behind today %s",
			stored.NextBillingDate.Format("2006-01-02"), today.Format("2006-01-02"))
	}
}

func TestCurrentBillingDatesLeftAlone(t *testing.T) {
	subscriptions, repos := setupSubscriptions(t)
	userID, _ := seedOwnerAndClient(t, repos)
	ctx := context.Background()

	future := time.Now().AddDate(0, 0, 14)
	sub, err := subscriptions.Create(ctx, userID, &service.SubscriptionRequest{
		Name:            "Hosting",
		Amount:          d("90000"),
		BillingCycle:    "monthly",
		NextBillingDate: future.Format("2006-01-02"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := subscriptions.SendRenewalReminders(ctx); err != nil {
		t.Fatalf("SendRenewalReminders: %v", err)
	}

	stored, err := repos.Subscription.FindByID(ctx, userID, sub.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got, want := stored.NextBillingDate.UTC().Format("2006-01-02"), future.Format("2006-01-02"); got != want {
		t.Errorf("next billing date = %s, want %s untouched", got, want)
	}
}
