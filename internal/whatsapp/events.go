package whatsapp

import (
	"fmt"

	"github.com/neekaru/whatsapp-gateway/internal/client"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/types/events"
)

// translateEvent maps a whatsmeow event onto lifecycle events. Events that do
// not affect the session lifecycle map to nothing.
func translateEvent(evt interface{}) []client.Event {
	switch e := evt.(type) {
	case *events.PairSuccess:
		return []client.Event{client.NewAuthenticatedEvent()}

	case *events.Connected:
		// whatsmeow reports a usable connection in one step, for paired and
		// restored sessions alike.
		return []client.Event{client.NewAuthenticatedEvent(), client.NewReadyEvent()}

	case *events.Disconnected:
		return []client.Event{client.NewDisconnectedEvent("connection lost")}

	case *events.StreamReplaced:
		return []client.Event{client.NewDisconnectedEvent("stream replaced by another connection")}

	case *events.LoggedOut:
		reason := "logged out"
		if e.OnConnect {
			reason = fmt.Sprintf("logged out: %s", e.Reason.String())
		}
		return []client.Event{client.NewAuthFailureEvent(reason)}

	case *events.PairError:
		return []client.Event{client.NewAuthFailureEvent(fmt.Sprintf("pairing failed: %v", e.Error))}

	case *events.ConnectFailure:
		return []client.Event{client.NewAuthFailureEvent(fmt.Sprintf("connect failure: %s %s", e.Reason.String(), e.Message))}

	case *events.TemporaryBan:
		return []client.Event{client.NewAuthFailureEvent(e.String())}

	case *events.ClientOutdated:
		return []client.Event{client.NewAuthFailureEvent("client outdated")}

	case *events.OfflineSyncPreview:
		return []client.Event{client.NewLoadingScreenEvent(0, fmt.Sprintf("syncing %d offline events", e.Total))}

	case *events.OfflineSyncCompleted:
		return []client.Event{client.NewLoadingScreenEvent(100, fmt.Sprintf("synced %d offline events", e.Count))}
	}
	return nil
}

// translateQRItem maps a pairing channel item onto lifecycle events.
func translateQRItem(item whatsmeow.QRChannelItem) []client.Event {
	switch item.Event {
	case whatsmeow.QRChannelEventCode:
		return []client.Event{client.NewQREvent(item.Code)}
	case whatsmeow.QRChannelSuccess.Event:
		// PairSuccess already reported authentication.
		return nil
	case whatsmeow.QRChannelTimeout.Event:
		return []client.Event{client.NewDisconnectedEvent("pairing timed out")}
	case whatsmeow.QRChannelEventError:
		return []client.Event{client.NewAuthFailureEvent(fmt.Sprintf("pairing error: %v", item.Error))}
	default:
		return []client.Event{client.NewAuthFailureEvent(fmt.Sprintf("pairing error: %s", item.Event))}
	}
}
