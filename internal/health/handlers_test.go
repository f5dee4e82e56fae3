package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/neekaru/whatsapp-gateway/internal/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticStatus client.Status

func (s staticStatus) Snapshot() client.Status { return client.Status(s) }

func get(t *testing.T, h *Handlers, path string) map[string]any {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", h.RootHandler)
	r.GET("/status", h.StatusHandler)
	r.GET("/health", h.HealthCheckHandler)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRootReportsConnection(t *testing.T) {
	start := time.Now()

	ready := NewHandlers(staticStatus{State: client.StateReady}, start)
	assert.Equal(t, map[string]any{"status": "servidor activo", "whatsapp": "conectado"}, get(t, ready, "/"))

	pairing := NewHandlers(staticStatus{State: client.StateAwaitingPairing}, start)
	assert.Equal(t, "desconectado", get(t, pairing, "/")["whatsapp"])
}

func TestStatus(t *testing.T) {
	h := NewHandlers(staticStatus{State: client.StateReconnectScheduled}, time.Now())
	h.now = func() time.Time { return time.Date(2026, 5, 4, 12, 30, 0, 0, time.UTC) }

	body := get(t, h, "/status")

	assert.Equal(t, false, body["conectado"])
	assert.Equal(t, "WhatsApp desconectado - revisa logs", body["mensaje"])
	assert.Equal(t, "reconnect_scheduled", body["estado"])
	assert.Equal(t, "2026-05-04T12:30:00.000Z", body["timestamp"])
}

func TestHealth(t *testing.T) {
	start := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	h := NewHandlers(staticStatus{
		State:            client.StateReconnectScheduled,
		Since:            start,
		LastReason:       "stream replaced",
		PendingReconnect: true,
	}, start)
	h.now = func() time.Time { return start.Add(90 * time.Second) }

	body := get(t, h, "/health")

	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "1m30s", body["uptime"])
	assert.Equal(t, true, body["pending_reconnect"])
	assert.Equal(t, "stream replaced", body["last_reason"])
}
