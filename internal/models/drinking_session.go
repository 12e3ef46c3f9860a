package models

import (
	"fmt"
	"time"
)

// DrinkingSession is a collection of contiguous drinks. Any two
// consecutive drinks in a session are separated by less than the idle
// timeout; the session's end time trails the last pour by the timeout.
type DrinkingSession struct {
	// Span holds the session's start/end time and total volume
	Span

	// ID is the unique identifier for the session
	ID string `json:"id"`

	// Name is an optional display name for the session
	Name string `json:"name,omitempty"`
}

// IsActive reports whether the session is still open at the given time,
// i.e. a pour at that instant would extend it rather than start a new one.
func (s *DrinkingSession) IsActive(now time.Time) bool {
	return s.EndTime.After(now)
}

// Title returns the session's display name
func (s *DrinkingSession) Title() string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("Session %s", s.ID)
}
