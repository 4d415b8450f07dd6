package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pixeltool/presenced/core/logger"
)

type handlers struct {
	presence  PresenceService
	analytics AnalyticsStore
	log       *slog.Logger
}

type heartbeatRequest struct {
	SessionID string `json:"sessionId"`
	WidgetID  string `json:"widgetId"`
}

type heartbeatResponse struct {
	OK bool `json:"ok"`
}

type onlineResponse struct {
	OnlineUsers         int       `json:"onlineUsers"`
	TodayUniqueSessions int       `json:"todayUniqueSessions"`
	Timestamp           time.Time `json:"timestamp"`
}

// heartbeat handles POST /api/online/heartbeat.
//
// Missing sessionId is the only client error. Store failures are logged and
// swallowed: presence is best-effort and a dropped heartbeat costs count
// accuracy, not correctness, so the browser always gets ok:true.
func (h *handlers) heartbeat(c *gin.Context) {
	var req heartbeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request body"})
		return
	}
	if req.SessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "sessionId is required"})
		return
	}

	ctx := c.Request.Context()
	now := time.Now()

	if err := h.presence.Heartbeat(ctx, req.SessionID); err != nil {
		h.log.WarnContext(ctx, "heartbeat marker not written", logger.Error(err))
	}
	if err := h.analytics.RecordHeartbeat(ctx, req.SessionID, req.WidgetID, now); err != nil {
		h.log.WarnContext(ctx, "heartbeat analytics event not recorded", logger.Error(err))
	}

	c.JSON(http.StatusOK, heartbeatResponse{OK: true})
}

// online handles GET /api/analytics/online.
//
// The response must reflect near-real-time state, so intermediaries and
// browsers are told not to cache it. An unavailable analytics store
// degrades todayUniqueSessions to zero instead of failing the request.
func (h *handlers) online(c *gin.Context) {
	ctx := c.Request.Context()

	snap := h.presence.OnlineCount(ctx)

	today, err := h.analytics.TodayUniqueSessions(ctx)
	if err != nil {
		h.log.WarnContext(ctx, "daily session count unavailable", logger.Error(err))
		today = 0
	}

	c.Header("Cache-Control", "no-store, no-cache, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
	c.JSON(http.StatusOK, onlineResponse{
		OnlineUsers:         snap.Count,
		TodayUniqueSessions: today,
		Timestamp:           time.Now().UTC(),
	})
}
