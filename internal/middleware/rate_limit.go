package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/estatehub/estatehub-backend/internal/common"
	pkglogger "github.com/estatehub/estatehub-backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitConfig one sliding window limit
type RateLimitConfig struct {
	Name   string // redis key segment and metric label
	Limit  int
	Window time.Duration
	// PerUser keys the window by the authenticated user, falling back to the client IP
	PerUser bool
}

// GlobalRateLimit per-IP limit for the whole API
func GlobalRateLimit(perHour int) RateLimitConfig {
	return RateLimitConfig{Limit: perHour, Window: time.Hour, Name: "global"}
}

// LoginRateLimit per-IP limit for credential endpoints
func LoginRateLimit(perMinute int) RateLimitConfig {
	return RateLimitConfig{Limit: perMinute, Window: time.Minute, Name: "login"}
}

// EnquiryRateLimit per-user limit for sending enquiries
func EnquiryRateLimit(perHour int) RateLimitConfig {
	return RateLimitConfig{Limit: perHour, Window: time.Hour, Name: "enquiry", PerUser: true}
}

const rateLimitKeyPrefix = "estatehub:ratelimit:"

// rateLimitScript is an atomic Lua script for sliding window rate limiting
var rateLimitScript = redis.NewScript(`
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local window_start = now - window

redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)
local count = redis.call('ZCARD', key)

if count < limit then
    redis.call('ZADD', key, now, now .. ':' .. math.random(1000000))
    redis.call('PEXPIRE', key, window + 1000)
    return {1, limit - count - 1, 0}
else
    local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
    local reset_at = 0
    if #oldest >= 2 then
        reset_at = tonumber(oldest[2]) + window
    end
    return {0, 0, reset_at}
end
`)

// RateLimit enforces cfg with Redis. Without Redis, or on a Redis error, requests pass.
func RateLimit(redisClient *redis.Client, cfg RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if redisClient == nil || cfg.Limit <= 0 {
			c.Next()
			return
		}

		subject := "ip:" + c.ClientIP()
		if cfg.PerUser {
			if userID := GetUserID(c); userID != "" {
				subject = "user:" + userID
			}
		}

		now := time.Now().UnixMilli()
		result, err := rateLimitScript.Run(c.Request.Context(), redisClient, []string{rateLimitKeyPrefix + cfg.Name + ":" + subject},
			cfg.Limit, cfg.Window.Milliseconds(), now,
		).Int64Slice()
		if err != nil {
			pkglogger.FromContext(c.Request.Context()).Warn().Err(err).Str("limiter", cfg.Name).Msg("rate limit check failed")
			c.Next()
			return
		}

		allowed, remaining, resetAt := result[0] == 1, result[1], result[2]
		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if !allowed {
			retryAfter := (resetAt - now) / 1000
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("X-RateLimit-Reset", strconv.FormatInt(resetAt/1000, 10))
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
			rateLimited.WithLabelValues(cfg.Name).Inc()
			common.ErrorResponse(c, http.StatusTooManyRequests, "too many requests, try again later", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
