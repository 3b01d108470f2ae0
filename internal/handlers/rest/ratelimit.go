package rest

import (
	"errors"
	"fmt"
	"log"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/KirkDiggler/sealedroll/internal/common/clock"
	"github.com/redis/go-redis/v9"
)

// tokenBucketScript refills KEYS[1] in whole intervals and takes one token.
// It returns {allowed, remaining, retry_after_ms}.
var tokenBucketScript = redis.NewScript(`
local key = KEYS[1]
local now_ms = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local refill_tokens = tonumber(ARGV[3])
local interval_ms = tonumber(ARGV[4])
local ttl_seconds = tonumber(ARGV[5])

local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
local tokens = tonumber(state[1])
local last_refill = tonumber(state[2])

if tokens == nil or last_refill == nil then
	tokens = capacity
	last_refill = now_ms
end

if interval_ms > 0 and refill_tokens > 0 then
	local elapsed = math.max(0, now_ms - last_refill)
	local intervals = math.floor(elapsed / interval_ms)
	if intervals > 0 then
		tokens = math.min(capacity, tokens + (intervals * refill_tokens))
		last_refill = last_refill + (intervals * interval_ms)
	end
end

local allowed = 0
local retry_after_ms = 0
if tokens > 0 then
	allowed = 1
	tokens = tokens - 1
else
	retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
end

redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
redis.call('EXPIRE', key, ttl_seconds)

return { allowed, tokens, retry_after_ms }
`)

// RateLimitConfig holds configuration for the roll creation limiter
type RateLimitConfig struct {
	RedisClient *redis.Client

	// Capacity is the burst size per client
	Capacity int

	// RefillTokens are added every RefillInterval
	RefillTokens   int
	RefillInterval time.Duration

	// TTL of an idle bucket
	TTL time.Duration

	// Prefix of bucket keys, defaults to "rl"
	Prefix string

	// Optional clock, defaults to the system clock
	Clock clock.Clock
}

// RateLimiter is a per-IP token bucket kept in Redis
type RateLimiter struct {
	client         *redis.Client
	clock          clock.Clock
	capacity       int
	refillTokens   int
	refillInterval time.Duration
	ttl            time.Duration
	prefix         string
}

// NewRateLimiter creates a limiter. Zero values fall back to 20 rolls a
// burst and one more per three seconds.
func NewRateLimiter(cfg *RateLimitConfig) (*RateLimiter, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	rl := &RateLimiter{
		client:         cfg.RedisClient,
		clock:          cfg.Clock,
		capacity:       cfg.Capacity,
		refillTokens:   cfg.RefillTokens,
		refillInterval: cfg.RefillInterval,
		ttl:            cfg.TTL,
		prefix:         cfg.Prefix,
	}

	if rl.clock == nil {
		rl.clock = &clock.DefaultClock{}
	}
	if rl.capacity < 1 {
		rl.capacity = 20
	}
	if rl.refillTokens < 1 {
		rl.refillTokens = 1
	}
	if rl.refillInterval <= 0 {
		rl.refillInterval = 3 * time.Second
	}
	if minTTL := 5 * rl.refillInterval; rl.ttl < minTTL {
		rl.ttl = minTTL
	}
	if rl.prefix == "" {
		rl.prefix = "rl"
	}

	return rl, nil
}

// Middleware rejects requests with 429 once a client's bucket is empty.
// Redis failures let the request through.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := rl.key(r)

		vals, err := tokenBucketScript.Run(r.Context(), rl.client, []string{key},
			rl.clock.Now().UnixMilli(),
			rl.capacity,
			rl.refillTokens,
			rl.refillInterval.Milliseconds(),
			int64(rl.ttl/time.Second),
		).Int64Slice()
		if err != nil || len(vals) != 3 {
			log.Printf("[ratelimit] skipping limit for %s: %v", key, err)
			next.ServeHTTP(w, r)
			return
		}

		allowed, remaining, retryMs := vals[0] == 1, vals[1], vals[2]

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.capacity))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if !allowed {
			secs := int(math.Ceil(float64(retryMs) / 1000.0))
			w.Header().Set("Retry-After", strconv.Itoa(secs))
			writeError(w, http.StatusTooManyRequests, "Too many rolls, try again later")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) key(r *http.Request) string {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	if ip == "" {
		ip = "unknown"
	}
	return fmt.Sprintf("%s:rolls:ip:%s", rl.prefix, ip)
}
