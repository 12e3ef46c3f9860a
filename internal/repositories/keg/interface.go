package keg

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/kegwatch/kegwatch/internal/repositories/keg Repository

import (
	"context"

	"github.com/kegwatch/kegwatch/internal/models"
)

// Repository defines the interface for keg and tap persistence
type Repository interface {
	// SaveKeg persists a keg
	SaveKeg(ctx context.Context, input *SaveKegInput) error

	// GetKeg retrieves a keg by ID
	GetKeg(ctx context.Context, input *GetKegInput) (*models.Keg, error)

	// SaveTap persists a tap
	SaveTap(ctx context.Context, input *SaveTapInput) error

	// GetTap retrieves a tap by ID
	GetTap(ctx context.Context, input *GetTapInput) (*models.Tap, error)

	// ListTaps retrieves all registered taps
	ListTaps(ctx context.Context, input *ListTapsInput) (*ListTapsOutput, error)
}
