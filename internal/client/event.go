package client

import "fmt"

// EventType identifies a lifecycle event emitted by the chat-network client
type EventType string

// Event types
const (
	EventQR            EventType = "qr"
	EventAuthenticated EventType = "authenticated"
	EventReady         EventType = "ready"
	EventAuthFailure   EventType = "auth_failure"
	EventDisconnected  EventType = "disconnected"
	EventLoadingScreen EventType = "loading_screen"

	// EventReconnect marks the transition taken when the reconnect timer fires.
	// It is produced internally and ignored if passed to HandleEvent.
	EventReconnect EventType = "reconnect"
)

// Event is a typed lifecycle event. Only the fields relevant to Type are set.
type Event struct {
	Type EventType

	// Payload is the raw pairing payload of a qr event.
	Payload string

	// Reason explains an auth_failure or disconnected event.
	Reason string

	// Percent and Message describe loading_screen progress.
	Percent int
	Message string
}

func (e Event) String() string {
	switch e.Type {
	case EventAuthFailure, EventDisconnected:
		return fmt.Sprintf("%s(%s)", e.Type, e.Reason)
	case EventLoadingScreen:
		return fmt.Sprintf("%s(%d%% %s)", e.Type, e.Percent, e.Message)
	default:
		return string(e.Type)
	}
}

// NewQREvent creates a new pairing payload event
func NewQREvent(payload string) Event {
	return Event{Type: EventQR, Payload: payload}
}

// NewAuthenticatedEvent creates a new authenticated event
func NewAuthenticatedEvent() Event {
	return Event{Type: EventAuthenticated}
}

// NewReadyEvent creates a new ready event
func NewReadyEvent() Event {
	return Event{Type: EventReady}
}

// NewAuthFailureEvent creates a new authentication failure event
func NewAuthFailureEvent(reason string) Event {
	return Event{Type: EventAuthFailure, Reason: reason}
}

// NewDisconnectedEvent creates a new disconnected event
func NewDisconnectedEvent(reason string) Event {
	return Event{Type: EventDisconnected, Reason: reason}
}

// NewLoadingScreenEvent creates a new loading progress event
func NewLoadingScreenEvent(percent int, message string) Event {
	return Event{Type: EventLoadingScreen, Percent: percent, Message: message}
}
