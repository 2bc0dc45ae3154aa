package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 5 * time.Second
	maxInterval      = 60 * time.Second
	maxIntervalMilli = 60_000
)

// Envelope used for WebSocket messages.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

func (h *Handler) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{CheckOrigin: h.originAllowed}
}

// @Summary      Dashboard stream
// @Description  Upgrades to a WebSocket and pushes the caller's dashboard every interval. The token may be passed as ?token= for browsers.
// @Tags         tasks
// @Param        userId       path   string  true   "User id (must be the caller)"
// @Param        interval     query  string  false  "Push interval, e.g. 2s (max 60s)"
// @Param        interval_ms  query  int     false  "Push interval in milliseconds"
// @Param        token        query  string  false  "Bearer token when no Authorization header is sent"
// @Success      101  {string}  string  "Switching Protocols"
// @Failure      400  {object}  messageResponse
// @Failure      401  {object}  messageResponse
// @Failure      403  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /api/tasks/dashboard/{userId}/stream [get]
// @Security     BearerAuth
func (h *Handler) dashboardStream(c *gin.Context) {
	caller, _ := currentUser(c)
	userID := c.Param("userId")
	interval := h.parseInterval(c)

	// Reject before upgrading so errors reach the client as plain HTTP.
	if _, err := h.services.Tasks.Dashboard(c.Request.Context(), caller.ID, userID); err != nil {
		h.respondError(c, err, "ws_dashboard_rejected", "user_id", userID)
		return
	}

	conn, err := h.upgrader().Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	// Configure read limits and pong handler to extend read deadline.
	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go h.startReader(conn, done)

	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
	}()

	ctx := c.Request.Context()
	if err := h.sendDashboard(ctx, conn, caller.ID, userID); err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "err", err)
		}
		return
	}

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case <-ticker.C:
			if err := h.sendDashboard(ctx, conn, caller.ID, userID); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err)
				}
				return
			}
		}
	}
}

// parseInterval reads ?interval=2s or ?interval_ms=2000 with bounds.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}

	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}

	return defaultInterval
}

// startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
	}
}

// sendDashboard loads the dashboard and writes it with a write deadline.
// A failed load is reported to the client and keeps the stream open.
func (h *Handler) sendDashboard(ctx context.Context, conn *websocket.Conn, callerID, userID string) error {
	env := wsEnvelope{Type: "dashboard"}
	d, err := h.services.Tasks.Dashboard(ctx, callerID, userID)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_dashboard_failed", "err", err, "user_id", userID)
		}
		env = wsEnvelope{Type: "error", Error: err.Error()}
	} else {
		env.Data = d
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(env)
}
