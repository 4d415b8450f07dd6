// Package pg provides PostgreSQL connection management with migrations and
// health checking for the daily analytics store.
//
// It wraps the pgx driver with connection retry logic, pool tuning, and
// integrated schema migration support using goose through the pgx stdlib
// adapter.
//
// Usage:
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		log.Error("failed to connect to database", logger.Error(err))
//		os.Exit(1)
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, log); err != nil {
//		log.Error("failed to migrate database", logger.Error(err))
//		os.Exit(1)
//	}
//
// Connection establishment retries with exponential backoff so that service
// and database restarts can race without failing startup. Healthcheck
// returns a func(context.Context) error probe for readiness endpoints.
package pg
