package pour

import (
	"context"
	"errors"

	"github.com/kegwatch/kegwatch/internal/models"
	chunkRepo "github.com/kegwatch/kegwatch/internal/repositories/chunk"
	drinkRepo "github.com/kegwatch/kegwatch/internal/repositories/drink"
	sessionRepo "github.com/kegwatch/kegwatch/internal/repositories/session"
)

// assignSession places a drink in a drinking session: the most recently
// ended session is extended if the pour lands before its idle deadline,
// otherwise a new session begins. The timeline is global; pours from
// different taps and kegs interleave into the same session series.
// Caller holds the service mutex.
func (s *service) assignSession(ctx context.Context, d *models.Drink) (*models.DrinkingSession, error) {
	latest, err := s.sessionRepo.GetLatestSession(ctx, &sessionRepo.GetLatestSessionInput{})
	if err != nil {
		return nil, err
	}

	sess := latest.Session
	if sess == nil || !sess.IsActive(d.Time) {
		sess = &models.DrinkingSession{
			ID: s.uuid.NewUUID(),
			Span: models.Span{
				StartTime: d.Time,
				EndTime:   d.Time,
			},
		}
	}

	d.SessionID = sess.ID
	if err := s.addDrinkToSession(ctx, sess, d); err != nil {
		return nil, err
	}

	return sess, nil
}

// addDrinkToSession extends the session's span with the drink and keeps
// the three chunk views in step.
func (s *service) addDrinkToSession(ctx context.Context, sess *models.DrinkingSession, d *models.Drink) error {
	sess.AddPour(d.Time, d.VolumeML, s.config.IdleTimeout)
	if err := s.sessionRepo.SaveSession(ctx, &sessionRepo.SaveSessionInput{Session: sess}); err != nil {
		return err
	}

	return s.applyChunks(ctx, sess.ID, d)
}

// applyChunks finds or creates the chunk for each of the three key tuples
// and extends it with the drink, using the same span rule as the session.
func (s *service) applyChunks(ctx context.Context, sessionID string, d *models.Drink) error {
	keys := []struct {
		kind   models.ChunkKind
		userID string
		kegID  string
	}{
		{models.ChunkKindUserKeg, d.UserID, d.KegID},
		{models.ChunkKindUser, d.UserID, ""},
		{models.ChunkKindKeg, "", d.KegID},
	}

	for _, key := range keys {
		c, err := s.chunkRepo.GetChunk(ctx, &chunkRepo.GetChunkInput{
			Kind:      key.kind,
			SessionID: sessionID,
			UserID:    key.userID,
			KegID:     key.kegID,
		})
		if err != nil {
			if !errors.Is(err, chunkRepo.ErrChunkNotFound) {
				return err
			}
			c = &models.Chunk{
				Kind:      key.kind,
				SessionID: sessionID,
				UserID:    key.userID,
				KegID:     key.kegID,
				Span: models.Span{
					StartTime: d.Time,
					EndTime:   d.Time,
				},
			}
		}

		c.AddPour(d.Time, d.VolumeML, s.config.IdleTimeout)

		if err := s.chunkRepo.SaveChunk(ctx, &chunkRepo.SaveChunkInput{Chunk: c}); err != nil {
			return err
		}
	}

	return nil
}

// rebuildLocked recomputes a session's volume, bounds and chunks from its
// current drink set. The session identity is fixed; drinks are not
// re-windowed. A session left with no drinks is deleted. Caller holds the
// service mutex.
func (s *service) rebuildLocked(ctx context.Context, sessionID string) (*models.DrinkingSession, bool, error) {
	sess, err := s.sessionRepo.GetSession(ctx, &sessionRepo.GetSessionInput{SessionID: sessionID})
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return nil, false, ErrSessionNotFound
		}
		return nil, false, err
	}

	if err := s.chunkRepo.DeleteChunksForSession(ctx, &chunkRepo.DeleteChunksForSessionInput{SessionID: sessionID}); err != nil {
		return nil, false, err
	}

	drinksOut, err := s.drinkRepo.GetDrinksForSession(ctx, &drinkRepo.GetDrinksForSessionInput{SessionID: sessionID})
	if err != nil {
		return nil, false, err
	}
	drinks := drinksOut.Drinks

	if len(drinks) == 0 {
		if err := s.sessionRepo.DeleteSession(ctx, &sessionRepo.DeleteSessionInput{SessionID: sessionID}); err != nil {
			return nil, false, err
		}
		return nil, true, nil
	}

	sess.VolumeML = 0
	minTime := drinks[0].Time
	maxTime := drinks[0].Time

	for _, d := range drinks {
		if d.SessionID != sessionID {
			s.logger.Error().
				Str("session_id", sessionID).
				Str("drink_id", d.ID).
				Str("drink_session_id", d.SessionID).
				Msg("session index references drink from another session")
			return nil, false, ErrSessionMismatch
		}

		sess.VolumeML += d.VolumeML
		if d.Time.Before(minTime) {
			minTime = d.Time
		}
		if d.Time.After(maxTime) {
			maxTime = d.Time
		}

		if err := s.applyChunks(ctx, sessionID, d); err != nil {
			return nil, false, err
		}
	}

	sess.StartTime = minTime
	sess.EndTime = maxTime.Add(s.config.IdleTimeout)

	if err := s.sessionRepo.SaveSession(ctx, &sessionRepo.SaveSessionInput{Session: sess}); err != nil {
		return nil, false, err
	}

	return sess, false, nil
}
