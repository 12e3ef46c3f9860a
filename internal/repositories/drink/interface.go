package drink

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/kegwatch/kegwatch/internal/repositories/drink Repository

import (
	"context"

	"github.com/kegwatch/kegwatch/internal/models"
)

// Repository defines the interface for drink persistence
type Repository interface {
	// AddDrink persists a new drink and indexes it by session and keg
	AddDrink(ctx context.Context, input *AddDrinkInput) error

	// GetDrink retrieves a drink by ID
	GetDrink(ctx context.Context, input *GetDrinkInput) (*models.Drink, error)

	// UpdateDrink rewrites an existing drink record
	UpdateDrink(ctx context.Context, input *UpdateDrinkInput) error

	// RemoveDrink deletes a drink and removes it from all indexes
	RemoveDrink(ctx context.Context, input *RemoveDrinkInput) error

	// GetDrinksForSession retrieves a session's drinks ordered by time
	GetDrinksForSession(ctx context.Context, input *GetDrinksForSessionInput) (*GetDrinksForSessionOutput, error)

	// GetDrinksForKeg retrieves a keg's drinks ordered by time
	GetDrinksForKeg(ctx context.Context, input *GetDrinksForKegInput) (*GetDrinksForKegOutput, error)
}
