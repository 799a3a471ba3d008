package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/cafe1231/loadout-optimizer/internal/config"
)

// RateLimitInfo reports a key's current token-bucket state.
type RateLimitInfo struct {
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// MemoryRateLimiter is a per-key token-bucket limiter, one bucket per
// client_id submitting optimize jobs, with idle buckets reclaimed
// periodically.
type MemoryRateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	rate     rate.Limit
	burst    int
	cleanup  time.Duration
}

// NewMemoryRateLimiter builds a limiter allowing jobsPerMinute steady
// throughput and burst extra jobs in a single instant.
func NewMemoryRateLimiter(jobsPerMinute, burst int, cleanup time.Duration) *MemoryRateLimiter {
	rl := &MemoryRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(jobsPerMinute) / 60,
		burst:    burst,
		cleanup:  cleanup,
	}
	go rl.cleanupRoutine()
	return rl
}

// Allow reports whether one request against key is permitted right now.
func (rl *MemoryRateLimiter) Allow(key string) bool {
	return rl.getLimiter(key).AllowN(time.Now(), 1)
}

// Info reports key's current bucket state for response headers.
func (rl *MemoryRateLimiter) Info(key string) RateLimitInfo {
	limiter := rl.getLimiter(key)
	tokens := int(limiter.Tokens())
	if tokens > rl.burst {
		tokens = rl.burst
	}
	return RateLimitInfo{
		Limit:      rl.burst,
		Remaining:  tokens,
		ResetTime:  time.Now().Add(time.Duration(float64(rl.burst-tokens) / float64(rl.rate))),
		RetryAfter: time.Second,
	}
}

func (rl *MemoryRateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.RLock()
	limiter, exists := rl.limiters[key]
	rl.mu.RUnlock()
	if exists {
		return limiter
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if limiter, exists = rl.limiters[key]; !exists {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters[key] = limiter
	}
	return limiter
}

func (rl *MemoryRateLimiter) cleanupRoutine() {
	ticker := time.NewTicker(rl.cleanup)
	defer ticker.Stop()
	for range ticker.C {
		rl.mu.Lock()
		for key, limiter := range rl.limiters {
			if limiter.Tokens() >= float64(rl.burst) {
				delete(rl.limiters, key)
			}
		}
		rl.mu.Unlock()
	}
}

// RateLimit throttles job submission per client_id (set by JWTAuth),
// falling back to the caller's IP when no token was presented.
func RateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	limiter := NewMemoryRateLimiter(cfg.JobsPerMinute, cfg.BurstSize, cfg.CleanupInterval)

	return func(c *gin.Context) {
		key := clientKey(c)

		if !limiter.Allow(key) {
			info := limiter.Info(key)
			logrus.WithFields(logrus.Fields{
				"client_key": key,
				"path":       c.Request.URL.Path,
				"remaining":  info.Remaining,
			}).Warn("rate limit exceeded")

			c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
			c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
			c.Header("Retry-After", fmt.Sprintf("%.0f", info.RetryAfter.Seconds()))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": int(info.RetryAfter.Seconds()),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func clientKey(c *gin.Context) string {
	if id := c.GetString("client_id"); id != "" {
		return id
	}
	return c.ClientIP()
}
