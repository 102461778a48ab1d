package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/lakeshorecc/classreg-backend/internal/service"
)

// monitorInterval is the push cadence of the occupancy stream.
const monitorInterval = 2 * time.Second

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowlist permits all origins (development mode).
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

// MonitorHandler streams live class occupancy to staff over WebSocket.
type MonitorHandler struct {
	classService *service.ClassService
	log          zerolog.Logger
	upgrader     websocket.Upgrader
}

// NewMonitorHandler creates a new MonitorHandler.
func NewMonitorHandler(classService *service.ClassService, log zerolog.Logger, allowedOrigins []string) *MonitorHandler {
	return &MonitorHandler{
		classService: classService,
		log:          log.With().Str("component", "monitor_handler").Logger(),
		upgrader:     buildUpgrader(allowedOrigins),
	}
}

// OccupancyStream godoc
// WS /ws/v1/staff/classes/:id/occupancy
// Pushes the class's seat snapshot every few seconds until the client
// disconnects or the class disappears.
func (h *MonitorHandler) OccupancyStream(c *gin.Context) {
	classID, err := strconv.Atoi(c.Param("id"))
	if err != nil || classID < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid class ID"})
		return
	}

	// Reject unknown classes before upgrading.
	if _, err := h.classService.GetOccupancy(c.Request.Context(), classID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "class not found"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Int("class_id", classID).Logger()
	wsLog.Info().Msg("occupancy monitor connected")

	// Reader goroutine: surface client close, discard everything else.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(monitorInterval)
	defer ticker.Stop()

	for {
		occ, err := h.classService.GetOccupancy(c.Request.Context(), classID)
		if err != nil {
			wsLog.Warn().Err(err).Msg("occupancy read failed, closing stream")
			return
		}
		conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteJSON(occ); err != nil {
			wsLog.Debug().Msg("occupancy monitor disconnected")
			return
		}

		select {
		case <-done:
			wsLog.Debug().Msg("occupancy monitor closed by client")
			return
		case <-ticker.C:
		}
	}
}
