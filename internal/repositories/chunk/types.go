package chunk

import "github.com/kegwatch/kegwatch/internal/models"

type SaveChunkInput struct {
	Chunk *models.Chunk
}

type GetChunkInput struct {
	Kind      models.ChunkKind
	SessionID string
	UserID    string
	KegID     string
}

type GetChunksForSessionInput struct {
	SessionID string
	Kind      models.ChunkKind
}

type GetChunksForSessionOutput struct {
	Chunks []*models.Chunk
}

type DeleteChunksForSessionInput struct {
	SessionID string
}
