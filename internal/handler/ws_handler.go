package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/unitq/unitq-backend/internal/middleware"
	"github.com/unitq/unitq-backend/internal/service"
	ws "github.com/unitq/unitq-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler handles the WebSocket study-timer stream.
type WSHandler struct {
	segmentService *service.SegmentService
	log            zerolog.Logger
	upgrader       websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(segmentService *service.SegmentService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		segmentService: segmentService,
		log:            log.With().Str("component", "ws_handler").Logger(),
		upgrader:       buildUpgrader(allowedOrigins),
	}
}

// SessionTimerStream godoc
// WS /ws/v1/sessions/:session_id/timer
// Upgrades to WebSocket. Each ping is a study-timer heartbeat; the pong
// carries the session's accumulated elapsed time. A silent client's open
// segment is closed by the reaper like any other stale heartbeat.
func (h *WSHandler) SessionTimerStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	sessionID, err := strconv.ParseInt(c.Param("session_id"), 10, 64)
	if err != nil || sessionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session ID"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()

	// Ownership check up front so a foreign session never gets a stream.
	if _, err := h.segmentService.ElapsedMs(ctx, claims.UserID, sessionID); err != nil {
		ws.WriteError(conn, "session not found")
		return
	}

	wsLog := h.log.With().
		Int64("user_id", claims.UserID).
		Int64("session_id", sessionID).
		Logger()

	wsLog.Info().Msg("timer stream connected")

	for {
		var msg ws.RequestEnvelope
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("unexpected close")
			} else {
				wsLog.Debug().Msg("connection closed")
			}
			break
		}

		switch msg.Action {
		case ws.ActionPing:
			h.handlePing(conn, wsLog, claims.UserID, sessionID)
		default:
			wsLog.Warn().Str("action", string(msg.Action)).Msg("unknown action")
			ws.WriteError(conn, "unknown action: "+string(msg.Action))
		}
	}
}

// handlePing records the heartbeat and answers with the elapsed total.
func (h *WSHandler) handlePing(conn *websocket.Conn, wsLog zerolog.Logger, userID, sessionID int64) {
	ctx := context.Background()

	if err := h.segmentService.Heartbeat(ctx, userID, sessionID); err != nil {
		wsLog.Error().Err(err).Msg("heartbeat failed")
		ws.WriteError(conn, "heartbeat failed")
		return
	}

	elapsed, err := h.segmentService.ElapsedMs(ctx, userID, sessionID)
	if err != nil {
		wsLog.Error().Err(err).Msg("elapsed query failed")
		ws.WriteError(conn, "elapsed query failed")
		return
	}

	ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong, ElapsedMs: elapsed})
}
