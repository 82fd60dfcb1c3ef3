package redisx

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// Only the holder's token may release the lock.
const releaseLua = `
if redis.call('GET', KEYS[1]) == ARGV[1] then
  return redis.call('DEL', KEYS[1])
else
  return 0
end`

// RefreshLock keeps two warmers from recomputing the same dashboard at once.
type RefreshLock struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRefreshLock(client *redis.Client, ttl time.Duration) *RefreshLock {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RefreshLock{client: client, ttl: ttl}
}

func (l *RefreshLock) key(restaurantName string) string {
	return fmt.Sprintf("dashboard_refresh:%s", restaurantName)
}

// Acquire takes the lock for restaurantName. ok is false if another holder has it.
func (l *RefreshLock) Acquire(ctx context.Context, restaurantName, token string) (bool, error) {
	return l.client.SetNX(ctx, l.key(restaurantName), token, l.ttl).Result()
}

func (l *RefreshLock) Release(ctx context.Context, restaurantName, token string) error {
	return l.client.Eval(ctx, releaseLua, []string{l.key(restaurantName)}, token).Err()
}
