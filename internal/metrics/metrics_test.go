package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/neekaru/whatsapp-gateway/internal/client"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestOnTransitionTracksState(t *testing.T) {
	m := New("test")

	m.OnTransition(client.Transition{From: client.StateUninitialized, To: client.StateAwaitingPairing, Event: client.NewQREvent("ref")})
	m.OnTransition(client.Transition{From: client.StateAwaitingPairing, To: client.StateAwaitingPairing, Event: client.NewQREvent("ref2")})
	m.OnTransition(client.Transition{From: client.StateReady, To: client.StateReconnectScheduled, Event: client.NewDisconnectedEvent("x")})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Reconnects))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionState.WithLabelValues("reconnect_scheduled")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.SessionState.WithLabelValues("awaiting_pairing")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionTransitions.WithLabelValues("qr")))
}

func TestPairingObserverCountsOnlyQR(t *testing.T) {
	m := New("test")
	obs := m.PairingObserver()

	obs.OnTransition(client.Transition{From: client.StateUninitialized, To: client.StateAwaitingPairing, Event: client.NewQREvent("ref")})
	obs.OnTransition(client.Transition{From: client.StateAwaitingPairing, To: client.StateAwaitingPairing, Event: client.NewQREvent("ref2")})
	obs.OnTransition(client.Transition{From: client.StateAwaitingPairing, To: client.StateAuthenticated, Event: client.NewAuthenticatedEvent()})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.PairingCodes))
}

func TestMiddlewareAndHandler(t *testing.T) {
	m := New("test")
	m.RecordSend("sent")

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/status", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/status", nil))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/status", "200")))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `test_messages_total{outcome="sent"} 1`))
	assert.Contains(t, body, `test_session_state{state="uninitialized"} 1`)
}
