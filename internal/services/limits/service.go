package limits

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ivankudzin/naranja/internal/domain/rules"
)

const keyPrefix = "likes:window:"

var ErrValidation = errors.New("validation error")

// CounterStore keeps one fixed window per key. IncrementWindow opens the window
// on first use; both reads report the time left until it closes.
type CounterStore interface {
	IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
	WindowState(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
	ReleaseWindow(ctx context.Context, key string) error
}

type Config struct {
	FreeLikesPerDay int
	Window          time.Duration
}

// Status is a point-in-time view of a user's like allowance. Remaining is -1
// for premium users. ResetAt is nil until the first like of a window.
type Status struct {
	Allowed   bool       `json:"allowed"`
	Remaining int        `json:"remaining"`
	ResetAt   *time.Time `json:"reset_at,omitempty"`
}

type Service struct {
	store CounterStore
	cfg   Config
	now   func() time.Time
}

func NewService(store CounterStore, cfg Config) *Service {
	if cfg.FreeLikesPerDay <= 0 {
		cfg.FreeLikesPerDay = rules.FreeLikesPerDay
	}
	if cfg.Window <= 0 {
		cfg.Window = rules.LikeWindow
	}

	return &Service{
		store: store,
		cfg:   cfg,
		now:   time.Now,
	}
}

func (s *Service) CanLike(ctx context.Context, userID string, isPremium bool) (Status, error) {
	if strings.TrimSpace(userID) == "" {
		return Status{}, ErrValidation
	}
	if rules.UnlimitedLikes(isPremium) {
		return Status{Allowed: true, Remaining: rules.UnlimitedRemaining}, nil
	}
	if s.store == nil {
		return Status{}, fmt.Errorf("like counter store is nil")
	}

	used, ttl, err := s.store.WindowState(ctx, windowKey(userID), s.cfg.Window)
	if err != nil {
		return Status{}, fmt.Errorf("read like window: %w", err)
	}
	return s.status(used, ttl), nil
}

// RegisterLike counts one like against the current window. Premium likes are
// not counted. Callers that must not overshoot the cap use ConsumeLike.
func (s *Service) RegisterLike(ctx context.Context, userID string, isPremium bool) error {
	if strings.TrimSpace(userID) == "" {
		return ErrValidation
	}
	if rules.UnlimitedLikes(isPremium) {
		return nil
	}
	if s.store == nil {
		return fmt.Errorf("like counter store is nil")
	}

	if _, _, err := s.store.IncrementWindow(ctx, windowKey(userID), s.cfg.Window); err != nil {
		return fmt.Errorf("register like: %w", err)
	}
	return nil
}

// ConsumeLike takes one like from the allowance before the like is written and
// reports whether it was granted. Counting and the cap check are one step, so
// concurrent likes cannot both take the last slot. A rejected attempt is
// handed back right away. The returned status is the allowance after the call.
func (s *Service) ConsumeLike(ctx context.Context, userID string, isPremium bool) (Status, bool, error) {
	if strings.TrimSpace(userID) == "" {
		return Status{}, false, ErrValidation
	}
	if rules.UnlimitedLikes(isPremium) {
		return Status{Allowed: true, Remaining: rules.UnlimitedRemaining}, true, nil
	}
	if s.store == nil {
		return Status{}, false, fmt.Errorf("like counter store is nil")
	}

	key := windowKey(userID)
	used, ttl, err := s.store.IncrementWindow(ctx, key, s.cfg.Window)
	if err != nil {
		return Status{}, false, fmt.Errorf("consume like: %w", err)
	}
	if used > int64(s.cfg.FreeLikesPerDay) {
		if err := s.store.ReleaseWindow(ctx, key); err != nil {
			return Status{}, false, fmt.Errorf("release rejected like: %w", err)
		}
		return s.status(used, ttl), false, nil
	}
	return s.status(used, ttl), true, nil
}

// RefundLike returns a like taken by ConsumeLike whose write did not happen.
func (s *Service) RefundLike(ctx context.Context, userID string, isPremium bool) error {
	if strings.TrimSpace(userID) == "" {
		return ErrValidation
	}
	if rules.UnlimitedLikes(isPremium) {
		return nil
	}
	if s.store == nil {
		return fmt.Errorf("like counter store is nil")
	}

	if err := s.store.ReleaseWindow(ctx, windowKey(userID)); err != nil {
		return fmt.Errorf("refund like: %w", err)
	}
	return nil
}

func (s *Service) status(used int64, ttl time.Duration) Status {
	remaining := rules.RemainingLikes(s.cfg.FreeLikesPerDay, used)
	st := Status{
		Allowed:   remaining > 0,
		Remaining: remaining,
	}
	if used > 0 {
		st.ResetAt = rules.WindowResetAt(s.now(), ttl)
	}
	return st
}

func windowKey(userID string) string {
	return keyPrefix + userID
}
