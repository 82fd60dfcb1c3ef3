package redisx

import (
	"context"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// DashboardCache stores serialized dashboards per restaurant.
type DashboardCache struct{ client *redis.Client }

func NewDashboardCache(client *redis.Client) *DashboardCache {
	return &DashboardCache{client: client}
}

func NewClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}

func (c *DashboardCache) key(restaurantName string) string {
	return fmt.Sprintf("dashboard:%s", restaurantName)
}

// Get returns the cached payload and whether there was one.
func (c *DashboardCache) Get(ctx context.Context, restaurantName string) ([]byte, bool, error) {
	b, err := c.client.Get(ctx, c.key(restaurantName)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (c *DashboardCache) Set(ctx context.Context, restaurantName string, payload []byte, ttl time.Duration) error {
	return c.client.Set(ctx, c.key(restaurantName), payload, ttl).Err()
}

// Delete drops the cached dashboard and reports whether one existed.
func (c *DashboardCache) Delete(ctx context.Context, restaurantName string) (bool, error) {
	n, err := c.client.Del(ctx, c.key(restaurantName)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetClient returns the underlying Redis client for the rate limiter.
func (c *DashboardCache) GetClient() *redis.Client {
	return c.client
}

func (c *DashboardCache) Close() error { return c.client.Close() }
