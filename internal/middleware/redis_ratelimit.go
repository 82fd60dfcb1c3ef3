package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Sliding window counter; returns {allowed, remaining}.
var slidingWindow = redis.NewScript(`
local key = KEYS[1]
local window = tonumber(ARGV[1])
local limit = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local member = ARGV[4]

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)
local current = redis.call('ZCARD', key)

if current < limit then
	redis.call('ZADD', key, now, member)
	redis.call('PEXPIRE', key, window)
	return {1, limit - current - 1}
else
	return {0, 0}
end
`)

// RedisRateLimit allows burst requests per burst/rps window for each caller,
// keyed by restaurant when authenticated.
func RedisRateLimit(redisClient *redis.Client, rps int, burst int) gin.HandlerFunc {
	window := time.Duration(burst) * time.Second / time.Duration(rps)
	if window < time.Second {
		window = time.Second
	}
	return func(c *gin.Context) {
		key := "rate_limit:" + limiterKey(c)
		now := time.Now()

		ctx, cancel := context.WithTimeout(c.Request.Context(), 100*time.Millisecond)
		res, err := slidingWindow.Run(ctx, redisClient, []string{key},
			window.Milliseconds(), burst, now.UnixMilli(), strconv.FormatInt(now.UnixNano(), 10)).Int64Slice()
		cancel()
		if err != nil || len(res) < 2 {
			// fail open
			c.Next()
			return
		}
		allowed, remaining := res[0], res[1]

		c.Header("X-RateLimit-Limit", strconv.Itoa(burst))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(now.Add(window).Unix(), 10))

		if allowed == 0 {
			retry := int(window.Seconds())
			c.Header("Retry-After", fmt.Sprintf("%d", retry))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Too Many Requests",
				"message":     "rate limit exceeded",
				"retry_after": retry,
			})
			return
		}
		c.Next()
	}
}

// HybridRateLimit uses redis while it answers pings and the in-memory limiter
// otherwise.
func HybridRateLimit(redisClient *redis.Client, rps int, burst int) gin.HandlerFunc {
	memoryRateLimit := RateLimit(rps, burst)
	redisRateLimit := RedisRateLimit(redisClient, rps, burst)

	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 50*time.Millisecond)
		err := redisClient.Ping(ctx).Err()
		cancel()
		if err != nil {
			memoryRateLimit(c)
			return
		}
		redisRateLimit(c)
	}
}
