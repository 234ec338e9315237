package roles

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKey = "roles:all"

// Cache keeps the full role listing in redis.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a Cache. A zero ttl stores entries without expiry.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Get returns the cached listing; ok is false on a miss.
func (c *Cache) Get(ctx context.Context) ([]Role, bool, error) {
	raw, err := c.client.Get(ctx, cacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var roles []Role
	if err := json.Unmarshal(raw, &roles); err != nil {
		return nil, false, err
	}
	return roles, true, nil
}

// Set stores the listing.
func (c *Cache) Set(ctx context.Context, roles []Role) error {
	raw, err := json.Marshal(roles)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKey, raw, c.ttl).Err()
}

// Invalidate drops the cached listing.
func (c *Cache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, cacheKey).Err()
}
