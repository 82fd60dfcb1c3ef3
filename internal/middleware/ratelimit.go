package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// limiterKey buckets authenticated callers by restaurant and everyone else by
// client IP.
func limiterKey(c *gin.Context) string {
	if rid, ok := RestaurantID(c); ok {
		return "restaurant:" + strconv.FormatInt(rid, 10)
	}
	ip := c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}
	return "ip:" + ip
}

func RateLimit(rps int, burst int) gin.HandlerFunc {
	type bucket struct {
		tokens float64
		last   time.Time
	}
	var mu sync.Mutex
	buckets := map[string]*bucket{}
	refill := float64(rps)
	return func(c *gin.Context) {
		key := limiterKey(c)
		now := time.Now()
		mu.Lock()
		b := buckets[key]
		if b == nil {
			b = &bucket{tokens: float64(burst), last: now}
			buckets[key] = b
		}
		elapsed := now.Sub(b.last).Seconds()
		b.tokens = min(float64(burst), b.tokens+elapsed*refill)
		b.last = now
		if b.tokens < 1 {
			mu.Unlock()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too Many Requests", "message": "rate limit exceeded"})
			return
		}
		b.tokens -= 1
		mu.Unlock()
		c.Next()
	}
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
