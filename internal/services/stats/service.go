package stats

import (
	"context"
	"errors"
	"sort"

	"github.com/kegwatch/kegwatch/internal/models"
	chunkRepo "github.com/kegwatch/kegwatch/internal/repositories/chunk"
	drinkRepo "github.com/kegwatch/kegwatch/internal/repositories/drink"
	sessionRepo "github.com/kegwatch/kegwatch/internal/repositories/session"
)

// service implements the Service interface
type service struct {
	drinkRepo   drinkRepo.Repository
	sessionRepo sessionRepo.Repository
	chunkRepo   chunkRepo.Repository
}

// New creates a new stats service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.DrinkRepo == nil {
		return nil, ErrNilDrinkRepo
	}
	if cfg.SessionRepo == nil {
		return nil, ErrNilSessionRepo
	}
	if cfg.ChunkRepo == nil {
		return nil, ErrNilChunkRepo
	}

	return &service{
		drinkRepo:   cfg.DrinkRepo,
		sessionRepo: cfg.SessionRepo,
		chunkRepo:   cfg.ChunkRepo,
	}, nil
}

// GetKegSessions lists the sessions a keg contributed to, newest first
func (s *service) GetKegSessions(ctx context.Context, input *GetKegSessionsInput) (*GetKegSessionsOutput, error) {
	if input == nil || input.KegID == "" {
		return nil, errors.New("input and keg ID cannot be empty")
	}

	drinksOut, err := s.drinkRepo.GetDrinksForKeg(ctx, &drinkRepo.GetDrinksForKegInput{KegID: input.KegID})
	if err != nil {
		return nil, err
	}

	// Walk the keg's drinks newest first, collecting distinct sessions.
	seen := make(map[string]struct{})
	sessions := make([]*models.DrinkingSession, 0)

	drinks := drinksOut.Drinks
	for i := len(drinks) - 1; i >= 0; i-- {
		sessionID := drinks[i].SessionID
		if sessionID == "" {
			continue
		}
		if _, ok := seen[sessionID]; ok {
			continue
		}
		seen[sessionID] = struct{}{}

		sess, err := s.sessionRepo.GetSession(ctx, &sessionRepo.GetSessionInput{SessionID: sessionID})
		if err != nil {
			if errors.Is(err, sessionRepo.ErrSessionNotFound) {
				continue
			}
			return nil, err
		}
		sessions = append(sessions, sess)
	}

	return &GetKegSessionsOutput{Sessions: sessions}, nil
}

// GetTopDrinkers ranks a session's drinkers by poured volume
func (s *service) GetTopDrinkers(ctx context.Context, input *GetTopDrinkersInput) (*GetTopDrinkersOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.New("input and session ID cannot be empty")
	}

	chunksOut, err := s.chunkRepo.GetChunksForSession(ctx, &chunkRepo.GetChunksForSessionInput{
		SessionID: input.SessionID,
		Kind:      models.ChunkKindUser,
	})
	if err != nil {
		return nil, err
	}

	drinkers := make([]*TopDrinker, 0, len(chunksOut.Chunks))
	for _, c := range chunksOut.Chunks {
		drinkers = append(drinkers, &TopDrinker{
			UserID:   c.UserID,
			VolumeML: c.VolumeML,
		})
	}

	sort.Slice(drinkers, func(i, j int) bool {
		if drinkers[i].VolumeML != drinkers[j].VolumeML {
			return drinkers[i].VolumeML > drinkers[j].VolumeML
		}
		return drinkers[i].UserID < drinkers[j].UserID
	})

	return &GetTopDrinkersOutput{Drinkers: drinkers}, nil
}

var _ Service = (*service)(nil)
