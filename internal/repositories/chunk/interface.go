package chunk

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/kegwatch/kegwatch/internal/repositories/chunk Repository

import (
	"context"

	"github.com/kegwatch/kegwatch/internal/models"
)

// Repository defines the interface for session chunk persistence
type Repository interface {
	// SaveChunk persists a chunk under its key tuple
	SaveChunk(ctx context.Context, input *SaveChunkInput) error

	// GetChunk retrieves the chunk for an exact key tuple
	GetChunk(ctx context.Context, input *GetChunkInput) (*models.Chunk, error)

	// GetChunksForSession retrieves a session's chunks of one kind
	GetChunksForSession(ctx context.Context, input *GetChunksForSessionInput) (*GetChunksForSessionOutput, error)

	// DeleteChunksForSession removes all chunks of all kinds for a session
	DeleteChunksForSession(ctx context.Context, input *DeleteChunksForSessionInput) error
}
