package httpapi

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pixeltool/presenced/core/logger"
	"github.com/pixeltool/presenced/internal/presence"
)

// PresenceService records heartbeats and estimates the online count.
type PresenceService interface {
	Heartbeat(ctx context.Context, sessionID string) error
	OnlineCount(ctx context.Context) presence.Snapshot
}

// AnalyticsStore persists per-day session statistics.
type AnalyticsStore interface {
	RecordHeartbeat(ctx context.Context, sessionID, widgetID string, at time.Time) error
	TodayUniqueSessions(ctx context.Context) (int, error)
}

// New assembles the service router: the presence API, health probes, and
// Prometheus exposition. readinessChecks are dependency probes run by
// GET /health/ready.
func New(presenceSvc PresenceService, analyticsStore AnalyticsStore, log *slog.Logger, readinessChecks ...func(context.Context) error) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(
		RequestID(),
		RequestLogger(log.With(logger.Component("http.request"))),
		Recovery(log.With(logger.Component("http.recovery"))),
	)

	r.GET("/health/live", Liveness)
	r.GET("/health/ready", Readiness(log, readinessChecks...))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := &handlers{
		presence:  presenceSvc,
		analytics: analyticsStore,
		log:       log.With(logger.Component("http.handler")),
	}

	api := r.Group("/api")
	api.POST("/online/heartbeat", h.heartbeat)
	api.GET("/analytics/online", h.online)

	return r
}

// Liveness indicates the process is running. No dependency checks.
func Liveness(c *gin.Context) {
	c.String(200, "ALIVE")
}

// Readiness verifies all service dependencies are functioning.
// Returns "READY" if all checks pass, 503 Service Unavailable if any fail.
func Readiness(log *slog.Logger, checks ...func(context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, check := range checks {
			if err := check(c.Request.Context()); err != nil {
				log.ErrorContext(c.Request.Context(), "readiness check failed", logger.Error(err))
				c.String(503, "NOT READY")
				return
			}
		}
		c.String(200, "READY")
	}
}
