package models

// Tap represents a metered tap that kegs are mounted on
type Tap struct {
	// ID is the unique identifier for the tap
	ID string `json:"id"`

	// Name is the display name of the tap
	Name string `json:"name"`

	// MeterName identifies the upstream flow meter feeding this tap
	MeterName string `json:"meter_name,omitempty"`

	// CurrentKegID is the keg currently mounted, empty if none
	CurrentKegID string `json:"current_keg_id,omitempty"`
}

// IsActive reports whether a keg is currently mounted on the tap
func (t *Tap) IsActive() bool {
	return t.CurrentKegID != ""
}
