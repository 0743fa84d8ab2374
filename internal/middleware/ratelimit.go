package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/examhall/examhall-backend/internal/response"
	"github.com/gin-gonic/gin"
)

// bucket is a token bucket for a single client IP.
type bucket struct {
	tokens   float64
	lastFill time.Time
}

// RateLimiter is a per-IP token-bucket limiter. Intended for the open
// registration endpoint, where unauthenticated clients could otherwise flood
// the pending list.
type RateLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	rate     float64 // tokens added per second
	capacity float64
}

// NewRateLimiter creates a limiter allowing capacity requests in a burst,
// refilled at rate requests per second.
func NewRateLimiter(rate, capacity float64) *RateLimiter {
	rl := &RateLimiter{
		buckets:  make(map[string]*bucket),
		rate:     rate,
		capacity: capacity,
	}
	go rl.cleanupLoop()
	return rl
}

// Allow reports whether the client may proceed, consuming one token if so.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, ok := rl.buckets[ip]
	if !ok {
		rl.buckets[ip] = &bucket{tokens: rl.capacity - 1, lastFill: now}
		return true
	}

	b.tokens += now.Sub(b.lastFill).Seconds() * rl.rate
	if b.tokens > rl.capacity {
		b.tokens = rl.capacity
	}
	b.lastFill = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// cleanupLoop drops buckets that have fully refilled, keeping the map from
// growing with one entry per IP ever seen.
func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, b := range rl.buckets {
			if b.tokens+now.Sub(b.lastFill).Seconds()*rl.rate >= rl.capacity {
				delete(rl.buckets, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// Middleware returns the gin handler enforcing the limit.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			response.AbortFail(c, http.StatusTooManyRequests, response.ErrRateLimitExceeded)
			return
		}
		c.Next()
	}
}
