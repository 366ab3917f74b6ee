package bootstrap

import (
	"context"
	"crypto/tls"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/redis/go-redis/v9"

	appconfig "github.com/wolfman30/ohc-assist/internal/config"
	httpmiddleware "github.com/wolfman30/ohc-assist/internal/http/middleware"
	"github.com/wolfman30/ohc-assist/pkg/logging"
)

// AWSLoader resolves the shared AWS SDK configuration. It is only called when
// a component needs AWS (Bedrock, SES).
type AWSLoader func(ctx context.Context) (aws.Config, error)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// BuildLimiter prefers a redis fixed window shared across instances and falls
// back to per-process token buckets. The memory limiter's eviction loop runs
// until ctx is done. A non-positive RATE_LIMIT_RPS disables limiting.
func BuildLimiter(ctx context.Context, cfg *appconfig.Config, rdb *redis.Client, logger *logging.Logger) httpmiddleware.Limiter {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.RateLimitRPS <= 0 {
		logger.Warn("rate limiting disabled")
		return nil
	}
	if rdb != nil {
		limit := int(cfg.RateLimitRPS * time.Minute.Seconds())
		if limit < cfg.RateLimitBurst {
			limit = cfg.RateLimitBurst
		}
		logger.Info("rate limiting via redis", "limit_per_minute", limit)
		return httpmiddleware.NewRedisLimiter(rdb, limit, time.Minute)
	}

	limiter := httpmiddleware.NewMemoryLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.RunEviction(ctx, 5*time.Minute, 15*time.Minute)
	logger.Info("rate limiting in memory", "rps", cfg.RateLimitRPS, "burst", cfg.RateLimitBurst)
	return limiter
}
