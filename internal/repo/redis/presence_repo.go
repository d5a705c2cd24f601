package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const presencePrefix = "presence:"

type PresenceRepo struct {
	client *goredis.Client
}

func NewPresenceRepo(client *goredis.Client) *PresenceRepo {
	return &PresenceRepo{client: client}
}

func (r *PresenceRepo) Touch(ctx context.Context, userID string, ttl time.Duration) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if strings.TrimSpace(userID) == "" || ttl <= 0 {
		return fmt.Errorf("invalid presence payload")
	}

	if err := r.client.Set(ctx, presencePrefix+userID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("set presence key: %w", err)
	}
	return nil
}

// Online returns the subset of userIDs with a live presence key, in input order.
func (r *PresenceRepo) Online(ctx context.Context, userIDs []string) ([]string, error) {
	if r.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	if len(userIDs) == 0 {
		return []string{}, nil
	}

	pipe := r.client.Pipeline()
	cmds := make([]*goredis.IntCmd, 0, len(userIDs))
	for _, id := range userIDs {
		cmds = append(cmds, pipe.Exists(ctx, presencePrefix+id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("check presence keys: %w", err)
	}

	online := make([]string, 0, len(userIDs))
	for i, cmd := range cmds {
		if cmd.Val() > 0 {
			online = append(online, userIDs[i])
		}
	}
	return online, nil
}
