package models

import (
	"time"
)

// Drink records a single pour event. Ticks, time, keg and user are
// historical facts; volume, user and session assignment may be corrected
// after the fact through the pour service, which rebuilds the affected
// session.
type Drink struct {
	// ID is the unique identifier for the drink
	ID string `json:"id"`

	// Ticks is the raw flow meter reading, never changed once recorded
	Ticks int `json:"ticks"`

	// VolumeML is the poured volume in milliliters
	VolumeML float64 `json:"volume_ml"`

	// Time is when the pour happened
	Time time.Time `json:"time"`

	// DurationSeconds is how long the pour took, if known
	DurationSeconds int `json:"duration_seconds,omitempty"`

	// UserID is the user responsible for the pour, empty if anonymous
	UserID string `json:"user_id,omitempty"`

	// KegID is the keg the pour is accounted against
	KegID string `json:"keg_id"`

	// SessionID is the drinking session the pour was grouped into
	SessionID string `json:"session_id"`

	// Shout is an optional comment from the drinker at pour time
	Shout string `json:"shout,omitempty"`
}
