// Package server wraps http.Server with graceful shutdown, functional
// options, and environment-based configuration.
//
// Typical usage with errgroup-based lifecycle management:
//
//	var cfg server.Config
//	config.MustLoad(&cfg)
//
//	srv, err := server.NewFromConfig(cfg, server.WithLogger(log))
//	if err != nil {
//		log.Error("failed to create server", logger.Error(err))
//		os.Exit(1)
//	}
//
//	eg, ctx := errgroup.WithContext(ctx)
//	eg.Go(srv.Run(ctx, handler))
//
// Run starts the server, monitors context cancellation, and performs
// graceful shutdown when the context is cancelled.
package server
