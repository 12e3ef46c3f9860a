package session

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/kegwatch/kegwatch/internal/repositories/session Repository

import (
	"context"

	"github.com/kegwatch/kegwatch/internal/models"
)

// Repository defines the interface for drinking session persistence
type Repository interface {
	// SaveSession persists a session and updates the end-time index
	SaveSession(ctx context.Context, input *SaveSessionInput) error

	// GetSession retrieves a session by ID
	GetSession(ctx context.Context, input *GetSessionInput) (*models.DrinkingSession, error)

	// GetLatestSession retrieves the session with the greatest end time,
	// or a nil session if none exist
	GetLatestSession(ctx context.Context, input *GetLatestSessionInput) (*GetLatestSessionOutput, error)

	// DeleteSession removes a session and its index entry
	DeleteSession(ctx context.Context, input *DeleteSessionInput) error
}
