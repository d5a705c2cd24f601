package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const revokedTokenPrefix = "auth:revoked:"

// RevocationRepo remembers access tokens signed out before they expire.
type RevocationRepo struct {
	client *goredis.Client
}

func NewRevocationRepo(client *goredis.Client) *RevocationRepo {
	return &RevocationRepo{client: client}
}

func (r *RevocationRepo) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if strings.TrimSpace(tokenID) == "" {
		return fmt.Errorf("token id is required")
	}

	ttl := ttlFor(until)
	if err := r.client.Set(ctx, revokedTokenPrefix+tokenID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (r *RevocationRepo) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if r.client == nil {
		return false, fmt.Errorf("redis client is nil")
	}
	if strings.TrimSpace(tokenID) == "" {
		return false, nil
	}

	n, err := r.client.Exists(ctx, revokedTokenPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return n > 0, nil
}

func ttlFor(until time.Time) time.Duration {
	ttl := time.Until(until)
	if ttl < time.Second {
		return time.Second
	}
	return ttl
}
