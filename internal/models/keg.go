package models

import (
	"time"

	"github.com/kegwatch/kegwatch/internal/kegsize"
)

// Keg records a single physical keg
type Keg struct {
	// ID is the unique identifier for the keg
	ID string `json:"id"`

	// Beverage describes what the keg contains
	Beverage Beverage `json:"beverage"`

	// KegType is the container type, used to initialize the full volume
	KegType kegsize.KegSize `json:"keg_type"`

	// FullVolumeML is the keg's full volume in milliliters
	FullVolumeML float64 `json:"full_volume_ml"`

	// ServedVolumeML is the total volume accounted to drinks
	ServedVolumeML float64 `json:"served_volume_ml"`

	// SpilledVolumeML is volume poured without an associated drink
	SpilledVolumeML float64 `json:"spilled_volume_ml"`

	// StartTime is when the keg was first tapped
	StartTime time.Time `json:"start_time"`

	// EndTime is when the keg was finished or disconnected
	EndTime time.Time `json:"end_time"`

	// Online is true while the keg is attached to a tap
	Online bool `json:"online"`

	// Description is a user-visible description of the keg
	Description string `json:"description,omitempty"`
}

// RemainingVolumeML returns the unserved volume. It is not clamped; an
// overpoured keg reports a negative remainder.
func (k *Keg) RemainingVolumeML() float64 {
	return k.FullVolumeML - k.ServedVolumeML - k.SpilledVolumeML
}

// PercentFull returns the remaining volume as a percentage of the full
// volume, clamped to [0, 100]. A keg with zero full volume reports 0.
func (k *Keg) PercentFull() float64 {
	if k.FullVolumeML == 0 {
		return 0
	}
	result := k.RemainingVolumeML() / k.FullVolumeML * 100
	if result > 100 {
		return 100
	}
	if result < 0 {
		return 0
	}
	return result
}

// IsEmpty reports whether the keg has no volume remaining
func (k *Keg) IsEmpty() bool {
	return k.RemainingVolumeML() <= 0
}

// Age returns how long the keg has been (or was) online
func (k *Keg) Age(now time.Time) time.Duration {
	end := k.EndTime
	if k.Online {
		end = now
	}
	return end.Sub(k.StartTime)
}
