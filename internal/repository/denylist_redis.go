package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const denyKeyPrefix = "denylist:"

type redisDenylist struct {
	client *redis.Client
}

// NewRedisDenylist returns a Redis-backed denylist. Entries carry a TTL
// equal to the token's remaining lifetime, so Redis garbage-collects them
// itself and no purge pass is needed.
func NewRedisDenylist(client *redis.Client) Denylist {
	return &redisDenylist{client: client}
}

// Add uses SETNX so the first writer wins and a duplicate revocation of
// the same token id leaves the existing entry untouched.
func (d *redisDenylist) Add(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// Already past expiry; the expiry check rejects the token anyway.
		return nil
	}
	return d.client.SetNX(ctx, denyKeyPrefix+tokenID, "revoked", ttl).Err()
}

func (d *redisDenylist) Contains(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.client.Exists(ctx, denyKeyPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
