package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pixeltool/presenced/core/logger"
)

const requestIDHeader = "X-Request-ID"

// requestIDKey is the gin context key under which the request id is stored.
const requestIDKey = "request_id"

// RequestID propagates an inbound X-Request-ID header or generates a new
// identifier, storing it in the context and echoing it on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// RequestLogger emits one structured record per request. Health and metrics
// probes are skipped to keep the log signal clean under frequent polling.
func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if path == "/health/live" || path == "/health/ready" || path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		level := slog.LevelInfo
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelError
		}

		log.LogAttrs(c.Request.Context(), level, "request completed",
			logger.RequestID(c.GetString(requestIDKey)),
			logger.Method(c.Request.Method),
			logger.Path(path),
			logger.StatusCode(c.Writer.Status()),
			logger.ClientIP(c.ClientIP()),
			logger.Latency(time.Since(start)),
		)
	}
}

// Recovery converts panics into a generic 500 response. Full detail goes to
// the structured log only; the body never reveals internals.
func Recovery(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.ErrorContext(c.Request.Context(), "handler panic recovered",
					logger.RequestID(c.GetString(requestIDKey)),
					logger.Path(c.Request.URL.Path),
					logger.Key("panic", rec),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"ok":    false,
					"error": "internal server error",
				})
			}
		}()
		c.Next()
	}
}
