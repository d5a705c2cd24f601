package presence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	defaultTTL = 90 * time.Second
	maxLookup  = 200
)

var ErrValidation = errors.New("validation error")

type Store interface {
	Touch(ctx context.Context, userID string, ttl time.Duration) error
	Online(ctx context.Context, userIDs []string) ([]string, error)
}

// Service tracks which users sent a heartbeat recently.
type Service struct {
	store Store
	ttl   time.Duration
}

func NewService(store Store, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Service{store: store, ttl: ttl}
}

func (s *Service) Touch(ctx context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return ErrValidation
	}
	if s.store == nil {
		return fmt.Errorf("presence store is nil")
	}
	if err := s.store.Touch(ctx, userID, s.ttl); err != nil {
		return fmt.Errorf("touch presence: %w", err)
	}
	return nil
}

func (s *Service) Online(ctx context.Context, userIDs []string) ([]string, error) {
	ids := make([]string, 0, len(userIDs))
	seen := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) > maxLookup {
		return nil, fmt.Errorf("too many ids: %w", ErrValidation)
	}
	if len(ids) == 0 {
		return []string{}, nil
	}
	if s.store == nil {
		return nil, fmt.Errorf("presence store is nil")
	}

	online, err := s.store.Online(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("read presence: %w", err)
	}
	return online, nil
}
