package models

import (
	"fmt"
	"time"
)

// EventKind identifies the type of a system event
type EventKind string

const (
	// EventDrinkPoured is recorded once for every pour
	EventDrinkPoured EventKind = "drink_poured"

	// EventSessionStarted is recorded once when a session begins
	EventSessionStarted EventKind = "session_started"

	// EventSessionJoined is recorded once per user per session
	EventSessionJoined EventKind = "session_joined"

	// EventKegTapped is recorded once when a keg goes online
	EventKegTapped EventKind = "keg_tapped"

	// EventKegVolumeLow is recorded once when a keg crosses the low
	// volume threshold
	EventKegVolumeLow EventKind = "keg_volume_low"

	// EventKegEnded is recorded once when a keg goes offline
	EventKegEnded EventKind = "keg_ended"
)

// SystemEvent is an immutable, append-only record of a notable lifecycle
// transition. Uniqueness per kind is enforced by existence queries in the
// pour service, not by the store.
type SystemEvent struct {
	// ID is the unique identifier for the event
	ID string `json:"id"`

	// Kind is the type of event
	Kind EventKind `json:"kind"`

	// Time is when the event happened
	Time time.Time `json:"time"`

	// UserID is the user responsible for the event, if any
	UserID string `json:"user_id,omitempty"`

	// DrinkID is the drink involved in the event, if any
	DrinkID string `json:"drink_id,omitempty"`

	// KegID is the keg involved in the event, if any
	KegID string `json:"keg_id,omitempty"`

	// SessionID is the session involved in the event, if any
	SessionID string `json:"session_id,omitempty"`
}

// String returns a short human-readable description of the event
func (e *SystemEvent) String() string {
	var desc string
	switch e.Kind {
	case EventDrinkPoured:
		desc = fmt.Sprintf("drink %s poured", e.DrinkID)
	case EventSessionStarted:
		desc = fmt.Sprintf("session %s started by drink %s", e.SessionID, e.DrinkID)
	case EventSessionJoined:
		desc = fmt.Sprintf("session %s joined by %s (drink %s)", e.SessionID, e.UserID, e.DrinkID)
	case EventKegTapped:
		desc = fmt.Sprintf("keg %s tapped", e.KegID)
	case EventKegVolumeLow:
		desc = fmt.Sprintf("keg %s volume low", e.KegID)
	case EventKegEnded:
		desc = fmt.Sprintf("keg %s ended", e.KegID)
	default:
		desc = fmt.Sprintf("unknown event kind (%s)", e.Kind)
	}
	return fmt.Sprintf("event %s: %s", e.ID, desc)
}
