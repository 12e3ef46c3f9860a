package messaging

import "context"

// Service renders human-readable announcements for system events
type Service interface {
	// GetEventMessage returns the announcement text for a system event.
	// Routine events (drink_poured) render an empty message.
	GetEventMessage(ctx context.Context, input *GetEventMessageInput) (*GetEventMessageOutput, error)
}
