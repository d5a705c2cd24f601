// Package rate caps how fast a single user can hit write endpoints. It sits in
// front of the daily like quota and is shared by likes, passes and messages.
package rate

import (
	"context"
	"errors"
	"strings"
	"time"
)

const (
	minuteWindow = time.Minute
	tenSecWindow = 10 * time.Second
)

var ErrInvalidInput = errors.New("invalid rate limit input")

type WindowStore interface {
	IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
	WindowState(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

type Limiter struct {
	store     WindowStore
	perMinute int
	per10Sec  int
}

func NewLimiter(store WindowStore, perMinute, per10Sec int) *Limiter {
	if perMinute < 0 {
		perMinute = 0
	}
	if per10Sec < 0 {
		per10Sec = 0
	}

	return &Limiter{
		store:     store,
		perMinute: perMinute,
		per10Sec:  per10Sec,
	}
}

// Allow counts one action and reports whether it fits both windows. When it
// does not, retryAfterSec is the wait until the tightest window reopens.
func (l *Limiter) Allow(ctx context.Context, action, userID string) (int64, bool, error) {
	if err := l.check(action, userID); err != nil {
		return 0, false, err
	}

	retryAfterSec := int64(0)

	if l.perMinute > 0 {
		count, ttl, err := l.store.IncrementWindow(ctx, minuteKey(action, userID), minuteWindow)
		if err != nil {
			return 0, false, err
		}
		if count > int64(l.perMinute) {
			retryAfterSec = max(retryAfterSec, ceilSeconds(ttl))
		}
	}

	if l.per10Sec > 0 {
		count, ttl, err := l.store.IncrementWindow(ctx, tenSecKey(action, userID), tenSecWindow)
		if err != nil {
			return 0, false, err
		}
		if count > int64(l.per10Sec) {
			retryAfterSec = max(retryAfterSec, ceilSeconds(ttl))
		}
	}

	if retryAfterSec > 0 {
		return retryAfterSec, false, nil
	}

	return 0, true, nil
}

// RetryAfter reads the windows without counting.
func (l *Limiter) RetryAfter(ctx context.Context, action, userID string) (int64, error) {
	if err := l.check(action, userID); err != nil {
		return 0, err
	}

	retryAfterSec := int64(0)

	if l.perMinute > 0 {
		count, ttl, err := l.store.WindowState(ctx, minuteKey(action, userID), minuteWindow)
		if err != nil {
			return 0, err
		}
		if count >= int64(l.perMinute) {
			retryAfterSec = max(retryAfterSec, ceilSeconds(ttl))
		}
	}

	if l.per10Sec > 0 {
		count, ttl, err := l.store.WindowState(ctx, tenSecKey(action, userID), tenSecWindow)
		if err != nil {
			return 0, err
		}
		if count >= int64(l.per10Sec) {
			retryAfterSec = max(retryAfterSec, ceilSeconds(ttl))
		}
	}

	return retryAfterSec, nil
}

func (l *Limiter) check(action, userID string) error {
	if strings.TrimSpace(action) == "" || strings.TrimSpace(userID) == "" {
		return ErrInvalidInput
	}
	if l.store == nil {
		return errors.New("rate limiter store is nil")
	}
	return nil
}

func minuteKey(action, userID string) string {
	return "rate:" + action + ":min:" + userID
}

func tenSecKey(action, userID string) string {
	return "rate:" + action + ":10s:" + userID
}

func ceilSeconds(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	sec := int64(d / time.Second)
	if d%time.Second != 0 {
		sec++
	}
	if sec <= 0 {
		sec = 1
	}
	return sec
}
