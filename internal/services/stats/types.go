package stats

import (
	"github.com/kegwatch/kegwatch/internal/models"
	chunkRepo "github.com/kegwatch/kegwatch/internal/repositories/chunk"
	drinkRepo "github.com/kegwatch/kegwatch/internal/repositories/drink"
	sessionRepo "github.com/kegwatch/kegwatch/internal/repositories/session"
)

// Config holds configuration for the stats service
type Config struct {
	// Repository dependencies
	DrinkRepo   drinkRepo.Repository
	SessionRepo sessionRepo.Repository
	ChunkRepo   chunkRepo.Repository
}

type GetKegSessionsInput struct {
	KegID string
}

type GetKegSessionsOutput struct {
	// Sessions the keg contributed to, newest first
	Sessions []*models.DrinkingSession
}

type GetTopDrinkersInput struct {
	SessionID string
}

// TopDrinker is one entry in a session's volume ranking
type TopDrinker struct {
	// UserID is the ranked user; empty represents anonymous pours
	UserID string

	// VolumeML is the user's total poured volume in the session
	VolumeML float64
}

type GetTopDrinkersOutput struct {
	// Drinkers ranked by volume, largest first
	Drinkers []*TopDrinker
}
