package health

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/neekaru/whatsapp-gateway/internal/client"
)

// Version is reported by the health endpoint
const Version = "1.1.0"

// StatusSource exposes the session status
type StatusSource interface {
	Snapshot() client.Status
}

// Handlers contains HTTP handlers for health checks
type Handlers struct {
	status    StatusSource
	startTime time.Time
	now       func() time.Time
}

// NewHandlers creates a new health handlers instance
func NewHandlers(status StatusSource, startTime time.Time) *Handlers {
	return &Handlers{status: status, startTime: startTime, now: time.Now}
}

// RootHandler handles GET /
func (h *Handlers) RootHandler(c *gin.Context) {
	whatsapp := "desconectado"
	if h.status.Snapshot().State == client.StateReady {
		whatsapp = "conectado"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "servidor activo",
		"whatsapp": whatsapp,
	})
}

// StatusHandler handles GET /status
func (h *Handlers) StatusHandler(c *gin.Context) {
	snap := h.status.Snapshot()
	connected := snap.State == client.StateReady

	mensaje := "WhatsApp desconectado - revisa logs"
	if connected {
		mensaje = "WhatsApp conectado ✓"
	}

	c.JSON(http.StatusOK, gin.H{
		"conectado": connected,
		"mensaje":   mensaje,
		"estado":    snap.State.String(),
		"timestamp": h.now().UTC().Format("2006-01-02T15:04:05.000Z"),
	})
}

// HealthCheckHandler handles GET /health
func (h *Handlers) HealthCheckHandler(c *gin.Context) {
	snap := h.status.Snapshot()

	resp := gin.H{
		"status":            "ok",
		"uptime":            h.now().Sub(h.startTime).Round(time.Second).String(),
		"session_state":     snap.State.String(),
		"state_since":       snap.Since.Format(time.RFC3339),
		"pending_reconnect": snap.PendingReconnect,
		"version":           Version,
		"timestamp":         h.now().Format(time.RFC3339),
	}
	if snap.LastReason != "" {
		resp["last_reason"] = snap.LastReason
	}

	// Always return 200 OK status
	c.JSON(http.StatusOK, resp)
}
