package server

import "time"

// Defaults tuned for small JSON request/response bodies served by fast
// handlers. Heartbeat and analytics payloads are a few hundred bytes, so
// generous read/write windows only mask slow clients.
const (
	DefaultReadTimeout  = 10 * time.Second
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout keeps client keep-alive connections around long
	// enough for periodic heartbeats to reuse them.
	DefaultIdleTimeout = 60 * time.Second

	DefaultShutdownTimeout = 15 * time.Second

	DefaultMaxHeaderBytes = 1 << 20 // 1 MB
)
