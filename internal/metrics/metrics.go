package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/neekaru/whatsapp-gateway/internal/client"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the gateway.
type Metrics struct {
	registry *prometheus.Registry

	SessionState       *prometheus.GaugeVec
	SessionTransitions *prometheus.CounterVec
	Reconnects         prometheus.Counter
	PairingCodes       prometheus.Counter
	Sends              *prometheus.CounterVec
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
}

// New creates the gateway instruments on a private registry.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		SessionState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "session_state",
			Help:      "1 for the current WhatsApp session state, 0 otherwise.",
		}, []string{"state"}),
		SessionTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_transitions_total",
			Help:      "Session state transitions by triggering event.",
		}, []string{"event"}),
		Reconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconnects_scheduled_total",
			Help:      "Reconnect timers armed after a lost session.",
		}),
		PairingCodes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pairing_codes_total",
			Help:      "Pairing payloads received from WhatsApp.",
		}),
		Sends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_total",
			Help:      "Send requests by outcome.",
		}, []string{"outcome"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"method", "route", "code"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(m.SessionState, m.SessionTransitions, m.Reconnects, m.PairingCodes,
		m.Sends, m.HTTPRequests, m.HTTPDuration)

	m.setState(client.StateUninitialized)
	return m
}

// OnTransition tracks the session state machine.
func (m *Metrics) OnTransition(t client.Transition) {
	if !t.Changed() {
		return
	}
	m.SessionTransitions.WithLabelValues(string(t.Event.Type)).Inc()
	if t.To == client.StateReconnectScheduled {
		m.Reconnects.Inc()
	}
	m.setState(t.To)
}

// RecordSend counts a send attempt outcome.
func (m *Metrics) RecordSend(outcome string) {
	m.Sends.WithLabelValues(outcome).Inc()
}

// Middleware records request counts and latency per matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// PairingObserver counts pairing payloads received from WhatsApp.
func (m *Metrics) PairingObserver() client.Observer {
	return client.NewFilteredObserver(client.EventQR, client.ObserverFunc(func(client.Transition) {
		m.PairingCodes.Inc()
	}))
}

func (m *Metrics) setState(current client.SessionState) {
	for _, s := range client.AllStates() {
		v := 0.0
		if s == current {
			v = 1
		}
		m.SessionState.WithLabelValues(s.String()).Set(v)
	}
}
