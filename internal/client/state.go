package client

// SessionState represents the lifecycle state of the chat-network session
type SessionState int

const (
	StateUninitialized SessionState = iota
	StateAwaitingPairing
	StateAuthenticated
	StateReady
	StateDisconnected
	StateReconnectScheduled
)

// String returns a string representation of the session state
func (s SessionState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateAwaitingPairing:
		return "awaiting_pairing"
	case StateAuthenticated:
		return "authenticated"
	case StateReady:
		return "ready"
	case StateDisconnected:
		return "disconnected"
	case StateReconnectScheduled:
		return "reconnect_scheduled"
	default:
		return "unknown"
	}
}

// AllStates lists every state in declaration order.
func AllStates() []SessionState {
	return []SessionState{
		StateUninitialized,
		StateAwaitingPairing,
		StateAuthenticated,
		StateReady,
		StateDisconnected,
		StateReconnectScheduled,
	}
}
