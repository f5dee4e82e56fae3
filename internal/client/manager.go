package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultReconnectDelay is used when Options.ReconnectDelay is zero.
const DefaultReconnectDelay = 10 * time.Second

// Initializer starts (or restarts) the handshake with the chat network.
// Failures may also surface later as disconnected or auth_failure events.
type Initializer interface {
	Initialize(ctx context.Context) error
}

// Options configures a ConnectionManager
type Options struct {
	ReconnectDelay time.Duration
	Scheduler      Scheduler
	Logger         zerolog.Logger
}

// Status is a point-in-time view of the session for status endpoints
type Status struct {
	State            SessionState
	Since            time.Time
	LastReason       string
	PendingReconnect bool
}

// ConnectionManager owns the lifecycle state of the chat-network session. It
// consumes typed events through HandleEvent, exposes readiness and drives the
// single-flight reconnect.
type ConnectionManager struct {
	session   Initializer
	scheduler Scheduler
	delay     time.Duration
	logger    zerolog.Logger
	now       func() time.Time

	// dispatchMu serializes event application and observer notification so
	// observers see transitions in emission order.
	dispatchMu sync.Mutex

	mu               sync.RWMutex
	state            SessionState
	since            time.Time
	lastReason       string
	pendingReconnect bool
	timer            Timer
	timerGen         uint64
	initializing     bool
	stopped          bool
	ctx              context.Context
	cancel           context.CancelFunc

	observersLock sync.RWMutex
	observers     []Observer
}

// NewConnectionManager creates a manager in the Uninitialized state
func NewConnectionManager(session Initializer, opts Options) *ConnectionManager {
	if opts.ReconnectDelay <= 0 {
		opts.ReconnectDelay = DefaultReconnectDelay
	}
	if opts.Scheduler == nil {
		opts.Scheduler = realScheduler{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &ConnectionManager{
		session:   session,
		scheduler: opts.Scheduler,
		delay:     opts.ReconnectDelay,
		logger:    opts.Logger.With().Str("component", "connection").Logger(),
		now:       time.Now,
		state:     StateUninitialized,
		since:     time.Now(),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// RegisterObserver registers an observer for every applied transition
func (m *ConnectionManager) RegisterObserver(observer Observer) {
	m.observersLock.Lock()
	defer m.observersLock.Unlock()
	m.observers = append(m.observers, observer)
}

// Start invokes the session's initialize operation. The context bounds every
// initialize call made by the manager, including reconnects.
func (m *ConnectionManager) Start(ctx context.Context) {
	m.mu.Lock()
	m.cancel()
	m.ctx, m.cancel = context.WithCancel(ctx)
	m.stopped = false
	m.mu.Unlock()

	m.logger.Info().Msg("Initializing WhatsApp client")
	m.initialize()
}

// Stop cancels any pending reconnect and prevents new ones from being armed.
func (m *ConnectionManager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopped = true
	m.timerGen++
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.cancel()
}

// IsReady reports whether the session can send messages right now
func (m *ConnectionManager) IsReady() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state == StateReady
}

// State returns the current session state
func (m *ConnectionManager) State() SessionState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// PendingReconnect reports whether a disconnection episode is being recovered
func (m *ConnectionManager) PendingReconnect() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pendingReconnect
}

// Snapshot returns the current status
func (m *ConnectionManager) Snapshot() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Status{
		State:            m.state,
		Since:            m.since,
		LastReason:       m.lastReason,
		PendingReconnect: m.pendingReconnect,
	}
}

// HandleEvent applies a lifecycle event. It never blocks on the network and
// never panics; unknown or out-of-order events are logged and ignored.
func (m *ConnectionManager) HandleEvent(evt Event) {
	m.dispatchMu.Lock()
	defer m.dispatchMu.Unlock()

	for _, t := range m.apply(evt) {
		m.notify(t)
	}
}

func (m *ConnectionManager) apply(evt Event) []Transition {
	m.mu.Lock()
	defer m.mu.Unlock()

	from := m.state
	switch evt.Type {
	case EventQR:
		if evt.Payload == "" {
			m.logger.Warn().Msg("Ignoring qr event with empty payload")
			return nil
		}
		return []Transition{m.setStateLocked(StateAwaitingPairing, evt)}

	case EventAuthenticated:
		return []Transition{m.setStateLocked(StateAuthenticated, evt)}

	case EventReady:
		if from != StateAuthenticated {
			m.logger.Warn().Str("state", from.String()).Msg("Ignoring ready event outside authenticated state")
			return nil
		}
		m.pendingReconnect = false
		m.cancelTimerLocked()
		m.lastReason = ""
		return []Transition{m.setStateLocked(StateReady, evt)}

	case EventDisconnected, EventAuthFailure:
		m.lastReason = evt.Reason
		if evt.Type == EventAuthFailure {
			m.logger.Error().Str("reason", evt.Reason).Msg("Authentication failed")
		} else {
			m.logger.Warn().Str("reason", evt.Reason).Msg("Client disconnected")
		}

		if from == StateReconnectScheduled && m.timer != nil {
			m.logger.Debug().Msg("Reconnect already scheduled")
			return []Transition{{From: from, To: from, Event: evt, At: m.now()}}
		}

		transitions := []Transition{m.setStateLocked(StateDisconnected, evt)}
		if m.scheduleReconnectLocked() {
			transitions = append(transitions, m.setStateLocked(StateReconnectScheduled, evt))
		}
		return transitions

	case EventLoadingScreen:
		m.logger.Info().Int("percent", evt.Percent).Str("message", evt.Message).Msg("Loading WhatsApp")
		return []Transition{{From: from, To: from, Event: evt, At: m.now()}}

	default:
		m.logger.Warn().Str("event", string(evt.Type)).Msg("Ignoring unknown lifecycle event")
		return nil
	}
}

// scheduleReconnectLocked arms the reconnect timer unless one is already
// outstanding. It reports whether a reconnect is scheduled afterwards.
func (m *ConnectionManager) scheduleReconnectLocked() bool {
	if m.stopped {
		return false
	}
	if m.timer != nil {
		return true
	}

	m.pendingReconnect = true
	m.timerGen++
	gen := m.timerGen
	m.timer = m.scheduler.AfterFunc(m.delay, func() { m.fireReconnect(gen) })
	m.logger.Info().Dur("delay", m.delay).Msg("Reconnect scheduled")
	return true
}

func (m *ConnectionManager) cancelTimerLocked() {
	m.timerGen++
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

func (m *ConnectionManager) fireReconnect(gen uint64) {
	m.dispatchMu.Lock()

	m.mu.Lock()
	if gen != m.timerGen {
		m.mu.Unlock()
		m.dispatchMu.Unlock()
		m.logger.Debug().Msg("Stale reconnect timer ignored")
		return
	}
	m.timer = nil
	if m.state != StateReconnectScheduled || m.stopped {
		state := m.state
		m.mu.Unlock()
		m.dispatchMu.Unlock()
		m.logger.Debug().Str("state", state.String()).Msg("Reconnect timer fired outside reconnect_scheduled; skipping")
		return
	}
	if m.initializing {
		// Stay scheduled and retry after another delay.
		m.scheduleReconnectLocked()
		m.mu.Unlock()
		m.dispatchMu.Unlock()
		m.logger.Warn().Msg("Previous initialize still running; reconnect postponed")
		return
	}
	t := m.setStateLocked(StateUninitialized, Event{Type: EventReconnect})
	ctx := m.beginInitializeLocked()
	m.mu.Unlock()

	m.notify(t)
	m.dispatchMu.Unlock()

	m.logger.Info().Msg("Re-initializing client")
	go m.runInitialize(ctx)
}

// initialize calls the session's Initialize on its own goroutine, at most one
// call at a time.
func (m *ConnectionManager) initialize() {
	m.mu.Lock()
	if m.initializing {
		m.mu.Unlock()
		m.logger.Debug().Msg("Initialize already in progress; skipping")
		return
	}
	ctx := m.beginInitializeLocked()
	m.mu.Unlock()

	go m.runInitialize(ctx)
}

func (m *ConnectionManager) beginInitializeLocked() context.Context {
	m.initializing = true
	return m.ctx
}

// runInitialize feeds a failed call back as a disconnected event.
func (m *ConnectionManager) runInitialize(ctx context.Context) {
	err := m.session.Initialize(ctx)

	m.mu.Lock()
	m.initializing = false
	m.mu.Unlock()

	if err == nil {
		return
	}
	if ctx.Err() != nil {
		m.logger.Debug().Err(err).Msg("Initialize aborted by shutdown")
		return
	}
	m.logger.Error().Err(err).Msg("Failed to initialize client")
	m.HandleEvent(NewDisconnectedEvent(fmt.Sprintf("initialize failed: %v", err)))
}

func (m *ConnectionManager) setStateLocked(to SessionState, evt Event) Transition {
	t := Transition{From: m.state, To: to, Event: evt, At: m.now()}
	if to != m.state {
		m.state = to
		m.since = t.At
		m.logger.Info().
			Str("from", t.From.String()).
			Str("to", to.String()).
			Str("event", string(evt.Type)).
			Msg("Session state changed")
	}
	return t
}

func (m *ConnectionManager) notify(t Transition) {
	m.observersLock.RLock()
	observers := make([]Observer, len(m.observers))
	copy(observers, m.observers)
	m.observersLock.RUnlock()

	for _, observer := range observers {
		m.safeNotify(observer, t)
	}
}

func (m *ConnectionManager) safeNotify(observer Observer, t Transition) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error().Interface("panic", r).Str("event", string(t.Event.Type)).Msg("Observer panicked")
		}
	}()
	observer.OnTransition(t)
}

// StateName returns the current state as a string
func (m *ConnectionManager) StateName() string {
	return m.State().String()
}
