// Package cache provides Redis-backed caching for the API. Every entry
// is best effort: without a reachable Redis the application serves
// straight from the database.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"artfolio/internal/observability"

	"github.com/redis/go-redis/v9"
)

const connectTimeout = 5 * time.Second

var client *redis.Client

// errCounterHook feeds Redis command failures into the error counter.
// redis.Nil is a cache miss, not a failure.
type errCounterHook struct{}

func (errCounterHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (errCounterHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrors.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (errCounterHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrors.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

// InitRedis connects to the given address, either a redis:// URL or a
// bare host:port. A failed connection leaves the cache disabled rather
// than failing startup; the readiness check reports the degraded state.
func InitRedis(addr string) {
	opts, err := parseAddr(addr)
	if err != nil {
		slog.Warn("cache disabled: invalid redis address", "addr", addr, "error", err)
		client = nil
		return
	}

	c := redis.NewClient(opts)
	c.AddHook(errCounterHook{})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := c.Ping(ctx).Err(); err != nil {
		slog.Warn("cache disabled: redis unreachable", "addr", opts.Addr, "error", err)
		_ = c.Close()
		client = nil
		return
	}

	slog.Info("redis connected", "addr", opts.Addr)
	client = c
}

func parseAddr(addr string) (*redis.Options, error) {
	if strings.Contains(addr, "://") {
		return redis.ParseURL(addr)
	}
	return &redis.Options{Addr: addr}, nil
}

// SetClient overrides the Redis client. Intended for tests.
func SetClient(c *redis.Client) {
	client = c
}

// GetClient returns the current Redis client instance.
func GetClient() *redis.Client {
	return client
}
