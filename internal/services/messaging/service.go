package messaging

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/kegwatch/kegwatch/internal/models"
)

// service implements the Service interface
type service struct {
	siteName string

	// Random number generator for selecting random messages
	rand *rand.Rand
}

// NewService creates a new messaging service
func NewService(config *ServiceConfig) (Service, error) {
	if config == nil {
		return nil, errors.New("config cannot be nil")
	}

	source := rand.NewSource(time.Now().UnixNano())

	return &service{
		siteName: config.SiteName,
		rand:     rand.New(source),
	}, nil
}

// GetEventMessage returns the announcement text for a system event
func (s *service) GetEventMessage(ctx context.Context, input *GetEventMessageInput) (*GetEventMessageOutput, error) {
	if input == nil || input.Event == nil {
		return nil, errors.New("input and event cannot be nil")
	}

	var messages []string

	switch input.Event.Kind {
	case models.EventKegTapped:
		beverage := s.beverageName(input.Keg)
		messages = []string{
			fmt.Sprintf("New keg tapped: %s. Glasses ready!", beverage),
			fmt.Sprintf("Fresh keg on tap: %s.", beverage),
			fmt.Sprintf("A new keg of %s just went online.", beverage),
		}

	case models.EventKegEnded:
		beverage := s.beverageName(input.Keg)
		messages = []string{
			fmt.Sprintf("The keg of %s has been taken offline.", beverage),
			fmt.Sprintf("That's it for the %s keg. Pour one out.", beverage),
		}

	case models.EventKegVolumeLow:
		beverage := s.beverageName(input.Keg)
		if input.Keg != nil {
			messages = []string{
				fmt.Sprintf("Heads up: the %s keg is running low (%.0f%% left).", beverage, input.Keg.PercentFull()),
				fmt.Sprintf("The %s keg is almost kicked, %.0f%% remaining.", beverage, input.Keg.PercentFull()),
			}
		} else {
			messages = []string{
				fmt.Sprintf("Heads up: the %s keg is running low.", beverage),
			}
		}

	case models.EventSessionStarted:
		messages = []string{
			"A new drinking session has started!",
			"First pour of the session. Who's next?",
			"Session started. The taps are flowing.",
		}

	case models.EventSessionJoined:
		name := s.userName(input)
		messages = []string{
			fmt.Sprintf("%s joined the session.", name),
			fmt.Sprintf("%s is in! Welcome to the session.", name),
		}

	default:
		// Routine events are not announced
		return &GetEventMessageOutput{Message: ""}, nil
	}

	selectedMessage := messages[s.rand.Intn(len(messages))]
	if s.siteName != "" {
		selectedMessage = fmt.Sprintf("[%s] %s", s.siteName, selectedMessage)
	}

	return &GetEventMessageOutput{Message: selectedMessage}, nil
}

// beverageName returns the keg's beverage name, or a placeholder when the
// keg context is missing
func (s *service) beverageName(keg *models.Keg) string {
	if keg != nil && keg.Beverage.Name != "" {
		return keg.Beverage.Name
	}
	return "mystery beer"
}

// userName returns the best available display name for the event's user
func (s *service) userName(input *GetEventMessageInput) string {
	if input.UserName != "" {
		return input.UserName
	}
	if input.Event.UserID != "" {
		return input.Event.UserID
	}
	return "A guest"
}
