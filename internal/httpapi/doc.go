// Package httpapi exposes the presence service over HTTP.
//
// Routes:
//
//	POST /api/online/heartbeat   record a session heartbeat
//	GET  /api/analytics/online   current online count + today's distinct sessions
//	GET  /health/live            liveness probe
//	GET  /health/ready           readiness probe (dependency checks)
//	GET  /metrics                Prometheus exposition
//
// The heartbeat endpoint validates request shape only; store failures are
// contained by the presence and analytics components and never turn into
// error responses.
package httpapi
