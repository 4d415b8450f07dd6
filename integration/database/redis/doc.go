// Package redis provides Redis client initialization and health checking for
// the presence marker store.
//
// It wraps the go-redis client with URL validation, exponential backoff on
// initial connection, and a ping-based health probe. Both redis:// and
// rediss:// (TLS) URL schemes are supported.
//
// All configuration is handled through the Config struct with environment
// variable mapping; REDIS_URL defaults to redis://localhost:6379/0 for local
// development.
//
// Usage:
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		log.Error("failed to connect to redis", logger.Error(err))
//	}
//	defer client.Close()
//
// Command retries are intentionally disabled on the returned client: the
// presence feature is best-effort and a slow or down store must not stall
// request handling. CommandTimeout bounds every dial, read, and write.
//
// Healthcheck returns a func(context.Context) error probe for readiness
// endpoints:
//
//	r.GET("/health/ready", httpapi.Readiness(log, redis.Healthcheck(client)))
//
// Errors are exposed as stable sentinel values (ErrEmptyConnectionURL,
// ErrFailedToParseRedisConnString, ErrRedisNotReady, ErrHealthcheckFailed)
// checkable with errors.Is.
package redis
