package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/rueidis"
)

// RedisLimiter is a fixed-window limiter whose counters live in redis, so
// every API instance shares one budget per client.
type RedisLimiter struct {
	client rueidis.Client
	prefix string
	limit  int
	window time.Duration
}

func NewRedisLimiter(client rueidis.Client, prefix string, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		prefix: prefix,
		limit:  limit,
		window: window,
	}
}

func (r *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	windowStart := time.Now().Truncate(r.window).Unix()
	redisKey := r.prefix + key + ":" + strconv.FormatInt(windowStart, 10)

	count, err := r.client.Do(ctx, r.client.B().Incr().Key(redisKey).Build()).AsInt64()
	if err != nil {
		return false, err
	}

	if count == 1 {
		expire := r.client.B().Expire().Key(redisKey).Seconds(int64(r.window.Seconds()) + 1).Build()
		if err := r.client.Do(ctx, expire).Error(); err != nil {
			return false, err
		}
	}

	return count <= int64(r.limit), nil
}
