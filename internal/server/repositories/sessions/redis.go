package sessions

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRegistry implements Registry over one Redis set per account.
// The set carries a TTL slightly past the token validity window so
// registries of abandoned accounts eventually vanish on their own;
// correctness does not depend on it, since signature expiry rejects
// stale tokens regardless.
type RedisRegistry struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRegistry constructs a registry on the given client. ttl should be
// at least the session token validity.
func NewRedisRegistry(client *redis.Client, ttl time.Duration) *RedisRegistry {
	return &RedisRegistry{client: client, ttl: ttl}
}

func key(accountID string) string {
	return "sessions:" + accountID
}

func (r *RedisRegistry) Add(ctx context.Context, accountID, token string) error {
	pipe := r.client.TxPipeline()
	pipe.SAdd(ctx, key(accountID), token)
	pipe.Expire(ctx, key(accountID), r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

func (r *RedisRegistry) Revoke(ctx context.Context, accountID, token string) error {
	if err := r.client.SRem(ctx, key(accountID), token).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

func (r *RedisRegistry) RevokeAll(ctx context.Context, accountID string) error {
	if err := r.client.Del(ctx, key(accountID)).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

func (r *RedisRegistry) Contains(ctx context.Context, accountID, token string) (bool, error) {
	ok, err := r.client.SIsMember(ctx, key(accountID), token).Result()
	if err != nil {
		return false, fmt.Errorf("redis error: %w", err)
	}
	return ok, nil
}
