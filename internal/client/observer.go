package client

import "time"

// Transition describes one applied lifecycle event. From and To are equal when
// the event refreshed state without changing it (a re-issued qr, loading_screen).
type Transition struct {
	From  SessionState
	To    SessionState
	Event Event
	At    time.Time
}

// Changed reports whether the transition moved to a different state.
func (t Transition) Changed() bool {
	return t.From != t.To
}

// Observer is the interface for transition observers
type Observer interface {
	OnTransition(t Transition)
}

// ObserverFunc is a function that implements the Observer interface
type ObserverFunc func(t Transition)

// OnTransition calls the observer function
func (f ObserverFunc) OnTransition(t Transition) {
	f(t)
}

// FilteredObserver is an observer that only receives transitions caused by one event type
type FilteredObserver struct {
	EventType EventType
	Observer  Observer
}

// NewFilteredObserver creates a new filtered observer
func NewFilteredObserver(eventType EventType, observer Observer) *FilteredObserver {
	return &FilteredObserver{
		EventType: eventType,
		Observer:  observer,
	}
}

// OnTransition calls the underlying observer if the event type matches
func (f *FilteredObserver) OnTransition(t Transition) {
	if t.Event.Type == f.EventType {
		f.Observer.OnTransition(t)
	}
}
