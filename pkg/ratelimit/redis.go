// Package ratelimit holds request counters shared by every API replica.
package ratelimit

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "frontdesk:ratelimit"

// RedisStore is a fixed-window counter: each key may make limit requests per window.
type RedisStore struct {
	client *redis.Client
	limit  int64
	window time.Duration
	now    func() time.Time
}

// NewClient parses a redis:// URL and checks the server answers.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}
	return client, nil
}

func NewRedisStore(client *redis.Client, limit int, window time.Duration) *RedisStore {
	if window <= 0 {
		window = time.Second
	}
	return &RedisStore{
		client: client,
		limit:  int64(limit),
		window: window,
		now:    time.Now,
	}
}

// LimitPerWindow converts a token bucket (rps, burst) into the request budget
// of one fixed window.
func LimitPerWindow(rps float64, burst int, window time.Duration) int {
	return int(math.Ceil(rps*window.Seconds())) + burst
}

// Allow counts one request for key. When the window's budget is spent it
// returns false and the time left until the next window opens.
func (s *RedisStore) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	now := s.now()
	windowStart := now.Truncate(s.window)
	redisKey := fmt.Sprintf("%s:%s:%d", keyPrefix, key, windowStart.Unix())

	pipe := s.client.TxPipeline()
	count := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, 2*s.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, fmt.Errorf("failed to count request: %w", err)
	}

	if count.Val() > s.limit {
		return false, windowStart.Add(s.window).Sub(now), nil
	}
	return true, 0, nil
}
