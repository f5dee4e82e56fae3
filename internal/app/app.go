package app

import (
	"io"
	"time"

	"github.com/neekaru/whatsapp-gateway/internal/auth"
	"github.com/neekaru/whatsapp-gateway/internal/client"
	"github.com/neekaru/whatsapp-gateway/internal/config"
	"github.com/neekaru/whatsapp-gateway/internal/messaging"
	"github.com/neekaru/whatsapp-gateway/internal/metrics"
	"github.com/rs/zerolog"
)

// Session is the chat-network client the gateway drives
type Session interface {
	client.Initializer
	messaging.Sender
	SetEventSink(sink func(client.Event))
	Close() error
}

// App holds shared application state and resources
type App struct {
	Config    *config.Config
	Logger    zerolog.Logger
	StartTime time.Time // Track startup time for health checks

	Session   Session
	Manager   *client.ConnectionManager
	Presenter *auth.Presenter
	Messaging *messaging.Service
	Metrics   *metrics.Metrics
}

// NewApp wires the connection manager, QR presenter and messaging service
// around session. terminal receives the terminal rendering of pairing codes.
func NewApp(cfg *config.Config, session Session, terminal io.Writer, logger zerolog.Logger) *App {
	m := metrics.New("whatsapp_gateway")

	manager := client.NewConnectionManager(session, client.Options{
		ReconnectDelay: cfg.ReconnectDelay,
		Logger:         logger,
	})

	presenter := auth.NewPresenter(cfg.QRMode, terminal, logger)
	manager.RegisterObserver(presenter)
	manager.RegisterObserver(m)
	manager.RegisterObserver(m.PairingObserver())

	session.SetEventSink(manager.HandleEvent)

	policy := messaging.PhonePolicy{Prefix: cfg.PhonePrefix, LocalDigits: cfg.PhoneLocalDigits}
	svc := messaging.NewService(manager, session, policy, m, logger)

	return &App{
		Config:    cfg,
		Logger:    logger,
		StartTime: time.Now(),
		Session:   session,
		Manager:   manager,
		Presenter: presenter,
		Messaging: svc,
		Metrics:   m,
	}
}

// Close stops reconnects and releases the session
func (a *App) Close() error {
	a.Manager.Stop()
	return a.Session.Close()
}
