package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Padding widths for generated document numbers.
const (
	InvoiceNumberPad = 4
	OrderNumberPad   = 3
)

// NumberSource reads existing document numbers for an owner.
type NumberSource interface {
	LastNumber(ctx context.Context, userID, prefix string) (string, error)
	NumberExists(ctx context.Context, userID, number string) (bool, error)
}

// OwnerLock serializes document creation per owner so two concurrent requests
// cannot compute the same number.
type OwnerLock interface {
	WithLock(ctx context.Context, ownerID string, fn func() error) error
}

// NextNumber produces the next sequential document number for the owner and
// prefix: the highest existing numeric suffix plus one, zero-padded to the
// given width. It re-checks uniqueness against the full table so deleted
// records can never cause a reused number.
func NextNumber(ctx context.Context, src NumberSource, userID, prefix string, pad int) (string, error) {
	last, err := src.LastNumber(ctx, userID, prefix)
	if err != nil {
		return "", fmt.Errorf("read last number: %w", err)
	}

	seq := 1
	if last != "" {
		if n, ok := parseNumberSuffix(last, prefix); ok {
			seq = n + 1
		}
	}

	for {
		candidate := formatNumber(prefix, seq, pad)
		taken, err := src.NumberExists(ctx, userID, candidate)
		if err != nil {
			return "", fmt.Errorf("check number: %w", err)
		}
		if !taken {
			return candidate, nil
		}
		seq++
	}
}

func formatNumber(prefix string, seq, pad int) string {
	if !strings.HasSuffix(prefix, "-") {
		prefix += "-"
	}
	return fmt.Sprintf("%s%0*d", prefix, pad, seq)
}

func parseNumberSuffix(number, prefix string) (int, bool) {
	suffix := strings.TrimPrefix(number, prefix)
	suffix = strings.TrimPrefix(suffix, "-")
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return 0, false
	}
	return n, true
}

// OrderNumberPrefix builds the year-scoped order prefix, e.g. ORD-2026-.
func OrderNumberPrefix(now time.Time) string {
	return fmt.Sprintf("ORD-%d-", now.Year())
}

var releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisOwnerLock serializes per-owner sections with a redis SetNX lock.
type RedisOwnerLock struct {
	client *redis.Client
	ttl    time.Duration
	wait   time.Duration
}

func NewRedisOwnerLock(client *redis.Client) *RedisOwnerLock {
	return &RedisOwnerLock{
		client: client,
		ttl:    10 * time.Second,
		wait:   5 * time.Second,
	}
}

// WithLock runs fn while holding the owner's numbering lock. It polls until
// the lock is free or the wait budget runs out.
func (l *RedisOwnerLock) WithLock(ctx context.Context, ownerID string, fn func() error) error {
	key := "numbering:lock:" + ownerID
	token := uuid.NewString()

	deadline := time.Now().Add(l.wait)
	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return fmt.Errorf("acquire numbering lock: %w", err)
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("acquire numbering lock: timed out for owner %s", ownerID)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
	defer releaseLockScript.Run(context.WithoutCancel(ctx), l.client, []string{key}, token)

	return fn()
}

// noopOwnerLock runs the section without locking, for single-writer setups
// and tests.
type noopOwnerLock struct{}

func (noopOwnerLock) WithLock(_ context.Context, _ string, fn func() error) error {
	return fn()
}
