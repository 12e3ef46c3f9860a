package event

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/kegwatch/kegwatch/internal/repositories/event Repository

import (
	"context"
)

// Repository defines the interface for system event persistence. Events
// are append-only; the Has* queries back the at-most-once checks in the
// pour service.
type Repository interface {
	// AddEvent appends a system event
	AddEvent(ctx context.Context, input *AddEventInput) error

	// HasKegEvent reports whether a keg already has an event of a kind
	HasKegEvent(ctx context.Context, input *HasKegEventInput) (bool, error)

	// HasSessionEvent reports whether a session already has an event of a kind
	HasSessionEvent(ctx context.Context, input *HasSessionEventInput) (bool, error)

	// HasSessionUserEvent reports whether a (session, user) pair already
	// has an event of a kind
	HasSessionUserEvent(ctx context.Context, input *HasSessionUserEventInput) (bool, error)

	// ListRecentEvents retrieves the most recent events, newest first
	ListRecentEvents(ctx context.Context, input *ListRecentEventsInput) (*ListRecentEventsOutput, error)
}
