package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rafidainsoft/mahrajan/pkg/logger"
)

// Redis is a fixed-window limiter over a shared Redis instance, for
// deployments running more than one API process. Fails open on Redis errors
// so a limiter outage never takes registration down with it.
type Redis struct {
	rdb    *redis.Client
	prefix string
	max    int
	window time.Duration
}

func NewRedis(rdb *redis.Client, prefix string, max int, window time.Duration) *Redis {
	return &Redis{rdb: rdb, prefix: prefix, max: max, window: window}
}

func (l *Redis) Allow(ctx context.Context, key string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	k := l.prefix + ":" + key

	count, err := l.rdb.Incr(ctx, k).Result()
	if err != nil {
		logger.WarnContext(ctx, "rate limiter unavailable, failing open", "error", err)
		return true, nil
	}
	if count == 1 {
		if err := l.rdb.Expire(ctx, k, l.window).Err(); err != nil {
			logger.WarnContext(ctx, "failed to set rate limit window", "error", err)
		}
	}

	return count <= int64(l.max), nil
}
