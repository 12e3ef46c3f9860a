package models

import "time"

// Span is the common time/volume extent shared by drinking sessions and
// session chunks. A span grows by absorbing pours: start time only moves
// backward, end time only moves forward, volume accumulates.
type Span struct {
	// StartTime is when the span begins
	StartTime time.Time `json:"start_time"`

	// EndTime is when the span ends (last pour time plus the idle timeout)
	EndTime time.Time `json:"end_time"`

	// VolumeML is the total poured volume in milliliters within the span
	VolumeML float64 `json:"volume_ml"`
}

// AddPour extends the span to cover a pour at pourTime of volumeML
// milliliters, using idleTimeout as the trailing window. The same rule is
// used for sessions and for all three chunk kinds.
func (s *Span) AddPour(pourTime time.Time, volumeML float64, idleTimeout time.Duration) {
	windowEnd := pourTime.Add(idleTimeout)

	if s.StartTime.After(pourTime) {
		s.StartTime = pourTime
	}
	if s.EndTime.Before(windowEnd) {
		s.EndTime = windowEnd
	}
	s.VolumeML += volumeML
}

// Duration returns the length of the span
func (s *Span) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}
