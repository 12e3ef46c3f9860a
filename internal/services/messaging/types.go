package messaging

import "github.com/kegwatch/kegwatch/internal/models"

// ServiceConfig holds configuration for the messaging service
type ServiceConfig struct {
	// SiteName is prepended to some announcements, optional
	SiteName string
}

// GetEventMessageInput contains parameters for rendering an event
// announcement
type GetEventMessageInput struct {
	// Event is the system event to announce
	Event *models.SystemEvent

	// Keg provides beverage and volume context for keg events, optional
	Keg *models.Keg

	// Session provides title context for session events, optional
	Session *models.DrinkingSession

	// UserName is the display name for the event's user, optional;
	// falls back to the event's user ID or a guest label
	UserName string
}

// GetEventMessageOutput contains the rendered announcement
type GetEventMessageOutput struct {
	// Message is the announcement text, empty for event kinds that are
	// not announced
	Message string
}
