package marketplace

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RateLimiter enforces a per-minute request budget for a marketplace API
// using a fixed window counter in Redis, so multiple server instances share
// one budget.
type RateLimiter struct {
	client  *redis.Client
	limit   int
	baseKey string
}

// NewRateLimiter creates a RateLimiter for the given budget (requests per
// minute). baseKey namespaces the counter per marketplace.
func NewRateLimiter(redisURL string, limit int, baseKey string) (*RateLimiter, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RateLimiter{
		client:  client,
		limit:   limit,
		baseKey: baseKey,
	}, nil
}

// SetLimit updates the per-minute budget.
func (r *RateLimiter) SetLimit(limit int) {
	r.limit = limit
}

// WaitForTicket blocks until a request is allowed or ctx is done.
func (r *RateLimiter) WaitForTicket(ctx context.Context) error {
	limit := r.limit
	if limit <= 0 {
		limit = 10 // safe fallback
	}

	now := time.Now()
	minuteKey := fmt.Sprintf("%s:%d", r.baseKey, now.Unix()/60)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		count, err := r.client.Incr(ctx, minuteKey).Result()
		if err != nil {
			log.Error().Err(err).Msg("RateLimiter: Redis error")
			// Sleep and retry rather than hammering a down Redis.
			time.Sleep(1 * time.Second)
			continue
		}

		if count == 1 {
			r.client.Expire(ctx, minuteKey, 2*time.Minute)
		}

		if count <= int64(limit) {
			return nil
		}

		log.Warn().
			Int64("count", count).
			Int("limit", limit).
			Str("key", r.baseKey).
			Msg("Rate limit exceeded, waiting...")

		// Wait until the next window opens, plus a small jitter.
		nextMinute := now.Truncate(time.Minute).Add(time.Minute).Add(100 * time.Millisecond)
		waitDuration := time.Until(nextMinute)
		if waitDuration < 0 {
			waitDuration = 1 * time.Second
		}

		timer := time.NewTimer(waitDuration)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			now = time.Now()
			minuteKey = fmt.Sprintf("%s:%d", r.baseKey, now.Unix()/60)
		}
	}
}

// Close closes the Redis client.
func (r *RateLimiter) Close() error {
	return r.client.Close()
}
