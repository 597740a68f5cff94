package ratelimit

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tair/techstore/pkg/logger"
)

// Limiter implements a sliding-window rate limit backed by a redis sorted set
type Limiter struct {
	redis       *redis.Client
	prefix      string
	maxRequests int
	window      time.Duration
}

// NewLimiter creates a limiter. A nil client disables limiting.
func NewLimiter(client *redis.Client, prefix string, maxRequests int, window time.Duration) *Limiter {
	return &Limiter{
		redis:       client,
		prefix:      prefix,
		maxRequests: maxRequests,
		window:      window,
	}
}

// Allow records a hit for the identifier and reports whether it is within the limit
func (l *Limiter) Allow(ctx context.Context, identifier string) (bool, int, time.Time, error) {
	key := fmt.Sprintf("ratelimit:%s:%s", l.prefix, identifier)
	now := time.Now()
	windowStart := now.Add(-l.window)

	pipe := l.redis.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart.UnixNano(), 10))
	countCmd := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: now.UnixNano(),
	})
	pipe.Expire(ctx, key, l.window+time.Minute)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := countCmd.Val()
	remaining := l.maxRequests - int(count) - 1
	if remaining < 0 {
		remaining = 0
	}
	return count < int64(l.maxRequests), remaining, now.Add(l.window), nil
}

// Middleware limits requests per client IP. Redis failures let the request through.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	if l == nil || l.redis == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identifier := clientIP(r)

		allowed, remaining, reset, err := l.Allow(r.Context(), identifier)
		if err != nil {
			logger.Error(r.Context()).
				Err(err).
				Str("identifier", identifier).
				Msg("Rate limiter error")
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.maxRequests))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

		if !allowed {
			logger.Warn(r.Context()).
				Str("identifier", identifier).
				Int("limit", l.maxRequests).
				Msg("Rate limit exceeded")

			retryAfter := time.Until(reset).Round(time.Second)
			w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success": false,
				"error":   fmt.Sprintf("Too many requests. Try again in %v", retryAfter),
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		ip, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(ip)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
