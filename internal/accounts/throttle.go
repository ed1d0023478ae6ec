package accounts

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginThrottle counts consecutive login failures per normalized email in
// redis and refuses further attempts during a cooldown window. Callers see
// the same invalid-credentials outcome either way; throttling shows up only
// in logs. Redis unavailability fails open.
type LoginThrottle struct {
	client      *redis.Client
	logger      *slog.Logger
	maxFailures int
	cooldown    time.Duration
}

// NewLoginThrottle constructs a LoginThrottle.
func NewLoginThrottle(client *redis.Client, logger *slog.Logger, maxFailures int, cooldown time.Duration) *LoginThrottle {
	return &LoginThrottle{client: client, logger: logger, maxFailures: maxFailures, cooldown: cooldown}
}

func throttleKey(email string) string {
	return fmt.Sprintf("login:fail:%s", email)
}

// Blocked reports whether the email has exhausted its failure allowance.
func (t *LoginThrottle) Blocked(ctx context.Context, email string) bool {
	if t == nil || t.client == nil || t.maxFailures <= 0 {
		return false
	}
	count, err := t.client.Get(ctx, throttleKey(email)).Int()
	if err != nil {
		if err != redis.Nil && t.logger != nil {
			t.logger.Warn("login throttle read", slog.Any("error", err))
		}
		return false
	}
	return count >= t.maxFailures
}

// RecordFailure increments the failure counter, starting the cooldown window
// on the first failure.
func (t *LoginThrottle) RecordFailure(ctx context.Context, email string) {
	if t == nil || t.client == nil {
		return
	}
	key := throttleKey(email)
	count, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		if t.logger != nil {
			t.logger.Warn("login throttle incr", slog.Any("error", err))
		}
		return
	}
	if count == 1 {
		if err := t.client.Expire(ctx, key, t.cooldown).Err(); err != nil && t.logger != nil {
			t.logger.Warn("login throttle expire", slog.Any("error", err))
		}
	}
}

// Reset clears the failure counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, email string) {
	if t == nil || t.client == nil {
		return
	}
	if err := t.client.Del(ctx, throttleKey(email)).Err(); err != nil && t.logger != nil {
		t.logger.Warn("login throttle reset", slog.Any("error", err))
	}
}
