package pour

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/kegwatch/kegwatch/internal/common/clock"
	"github.com/kegwatch/kegwatch/internal/common/uuid"
	"github.com/kegwatch/kegwatch/internal/kegsize"
	"github.com/kegwatch/kegwatch/internal/logging"
	"github.com/kegwatch/kegwatch/internal/models"
	chunkRepo "github.com/kegwatch/kegwatch/internal/repositories/chunk"
	drinkRepo "github.com/kegwatch/kegwatch/internal/repositories/drink"
	eventRepo "github.com/kegwatch/kegwatch/internal/repositories/event"
	kegRepo "github.com/kegwatch/kegwatch/internal/repositories/keg"
	sessionRepo "github.com/kegwatch/kegwatch/internal/repositories/session"
)

// service implements the Service interface.
//
// The session window's lookup-then-extend is a read-modify-write race, so
// every operation runs under one mutex: a single logical writer. Running
// multiple service instances against one store is not supported.
type service struct {
	config      *Config
	kegRepo     kegRepo.Repository
	drinkRepo   drinkRepo.Repository
	sessionRepo sessionRepo.Repository
	chunkRepo   chunkRepo.Repository
	eventRepo   eventRepo.Repository
	clock       clock.Clock
	uuid        uuid.UUID
	logger      zerolog.Logger

	mu sync.Mutex
}

// New creates a new pour service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.KegRepo == nil {
		return nil, ErrNilKegRepo
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
	if cfg.EventRepo == nil {
		return nil, ErrNilEventRepo
	}
	if cfg.Clock == nil {
		return nil, ErrNilClock
	}
	if cfg.UUID == nil {
		return nil, ErrNilUUIDGenerator
	}

	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.LowVolumeFraction <= 0 {
		cfg.LowVolumeFraction = DefaultLowVolumeFraction
	}

	return &service{
		config:      cfg,
		kegRepo:     cfg.KegRepo,
		drinkRepo:   cfg.DrinkRepo,
		sessionRepo: cfg.SessionRepo,
		chunkRepo:   cfg.ChunkRepo,
		eventRepo:   cfg.EventRepo,
		clock:       cfg.Clock,
		uuid:        cfg.UUID,
		logger:      logging.WithComponent("pour"),
	}, nil
}

// RecordPour records a pour event
func (s *service) RecordPour(ctx context.Context, input *RecordPourInput) (*RecordPourOutput, error) {
	if input == nil {
		return nil, ErrInvalidVolume
	}
	if input.VolumeML < 0 {
		return nil, ErrInvalidVolume
	}
	if input.TapID == "" && input.KegID == "" {
		return nil, ErrMissingTap
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	keg, err := s.resolveKeg(ctx, input.TapID, input.KegID)
	if err != nil {
		return nil, err
	}

	pourTime := input.Time
	if pourTime.IsZero() {
		pourTime = s.clock.Now()
	}

	// Ledger update: the served volume only ever grows.
	keg.ServedVolumeML += input.VolumeML
	if err := s.kegRepo.SaveKeg(ctx, &kegRepo.SaveKegInput{Keg: keg}); err != nil {
		return nil, err
	}

	d := &models.Drink{
		ID:              s.uuid.NewUUID(),
		Ticks:           input.Ticks,
		VolumeML:        input.VolumeML,
		Time:            pourTime,
		DurationSeconds: input.DurationSeconds,
		UserID:          input.UserID,
		KegID:           keg.ID,
		Shout:           input.Shout,
	}

	sess, err := s.assignSession(ctx, d)
	if err != nil {
		return nil, err
	}

	if err := s.drinkRepo.AddDrink(ctx, &drinkRepo.AddDrinkInput{Drink: d}); err != nil {
		return nil, err
	}

	events, err := s.derivePourEvents(ctx, d, sess, keg)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("drink_id", d.ID).
		Str("keg_id", keg.ID).
		Str("session_id", sess.ID).
		Float64("volume_ml", d.VolumeML).
		Msg("pour recorded")

	return &RecordPourOutput{
		Drink:   d,
		Session: sess,
		Events:  events,
	}, nil
}

// RecordSpill accounts volume poured without an associated drink
func (s *service) RecordSpill(ctx context.Context, input *RecordSpillInput) (*RecordSpillOutput, error) {
	if input == nil || input.VolumeML < 0 {
		return nil, ErrInvalidVolume
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	keg, err := s.getKeg(ctx, input.KegID)
	if err != nil {
		return nil, err
	}

	keg.SpilledVolumeML += input.VolumeML
	if err := s.kegRepo.SaveKeg(ctx, &kegRepo.SaveKegInput{Keg: keg}); err != nil {
		return nil, err
	}

	return &RecordSpillOutput{Keg: keg}, nil
}

// CancelDrink removes a drink and rebuilds its session
func (s *service) CancelDrink(ctx context.Context, input *CancelDrinkInput) (*CancelDrinkOutput, error) {
	if input == nil || input.DrinkID == "" {
		return nil, ErrDrinkNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.getDrink(ctx, input.DrinkID)
	if err != nil {
		return nil, err
	}

	// Refund the drink's volume to the keg before dropping the record.
	if d.KegID != "" {
		keg, err := s.getKeg(ctx, d.KegID)
		if err != nil {
			return nil, err
		}
		keg.ServedVolumeML -= d.VolumeML
		if err := s.kegRepo.SaveKeg(ctx, &kegRepo.SaveKegInput{Keg: keg}); err != nil {
			return nil, err
		}
	}

	if err := s.drinkRepo.RemoveDrink(ctx, &drinkRepo.RemoveDrinkInput{Drink: d}); err != nil {
		return nil, err
	}

	sess, deleted, err := s.rebuildLocked(ctx, d.SessionID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("drink_id", d.ID).
		Str("session_id", d.SessionID).
		Bool("session_deleted", deleted).
		Msg("drink cancelled")

	return &CancelDrinkOutput{
		Session:        sess,
		SessionDeleted: deleted,
	}, nil
}

// ReassignDrink changes a drink's user and rebuilds its session
func (s *service) ReassignDrink(ctx context.Context, input *ReassignDrinkInput) (*ReassignDrinkOutput, error) {
	if input == nil || input.DrinkID == "" {
		return nil, ErrDrinkNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.getDrink(ctx, input.DrinkID)
	if err != nil {
		return nil, err
	}

	if d.UserID == input.UserID {
		return &ReassignDrinkOutput{Drink: d}, nil
	}

	d.UserID = input.UserID
	if err := s.drinkRepo.UpdateDrink(ctx, &drinkRepo.UpdateDrinkInput{Drink: d}); err != nil {
		return nil, err
	}

	sess, _, err := s.rebuildLocked(ctx, d.SessionID)
	if err != nil {
		return nil, err
	}

	// The new user may be joining the session for the first time.
	var events []*models.SystemEvent
	if sess != nil && d.UserID != "" {
		joined, err := s.maybeEmitSessionJoined(ctx, d, sess)
		if err != nil {
			return nil, err
		}
		if joined != nil {
			events = append(events, joined)
		}
	}

	return &ReassignDrinkOutput{
		Drink:  d,
		Events: events,
	}, nil
}

// SetDrinkVolume corrects a drink's volume and rebuilds its session
func (s *service) SetDrinkVolume(ctx context.Context, input *SetDrinkVolumeInput) (*SetDrinkVolumeOutput, error) {
	if input == nil || input.DrinkID == "" {
		return nil, ErrDrinkNotFound
	}
	if input.VolumeML < 0 {
		return nil, ErrInvalidVolume
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.getDrink(ctx, input.DrinkID)
	if err != nil {
		return nil, err
	}

	if d.VolumeML == input.VolumeML {
		return &SetDrinkVolumeOutput{Drink: d}, nil
	}

	// Move the keg's served total by the correction delta.
	if d.KegID != "" {
		keg, err := s.getKeg(ctx, d.KegID)
		if err != nil {
			return nil, err
		}
		keg.ServedVolumeML += input.VolumeML - d.VolumeML
		if err := s.kegRepo.SaveKeg(ctx, &kegRepo.SaveKegInput{Keg: keg}); err != nil {
			return nil, err
		}
	}

	d.VolumeML = input.VolumeML
	if err := s.drinkRepo.UpdateDrink(ctx, &drinkRepo.UpdateDrinkInput{Drink: d}); err != nil {
		return nil, err
	}

	if _, _, err := s.rebuildLocked(ctx, d.SessionID); err != nil {
		return nil, err
	}

	return &SetDrinkVolumeOutput{Drink: d}, nil
}

// StartKeg mounts a new keg on a tap
func (s *service) StartKeg(ctx context.Context, input *StartKegInput) (*StartKegOutput, error) {
	if input == nil || input.TapID == "" {
		return nil, ErrTapNotFound
	}
	if input.FullVolumeML < 0 {
		return nil, ErrInvalidVolume
	}

	fullVolume := input.FullVolumeML
	if fullVolume == 0 {
		fullVolume = kegsize.VolumeML(input.KegType)
	}
	if fullVolume <= 0 {
		return nil, ErrInvalidKegSize
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tap, err := s.getTap(ctx, input.TapID)
	if err != nil {
		return nil, err
	}

	var events []*models.SystemEvent

	// A tap holds one keg at a time; displace the current one first.
	if tap.CurrentKegID != "" {
		_, ended, err := s.endKegLocked(ctx, tap)
		if err != nil {
			return nil, err
		}
		events = append(events, ended...)
	}

	now := s.clock.Now()
	keg := &models.Keg{
		ID:           s.uuid.NewUUID(),
		Beverage:     input.Beverage,
		KegType:      input.KegType,
		FullVolumeML: fullVolume,
		StartTime:    now,
		EndTime:      now,
		Online:       true,
		Description:  input.Description,
	}

	if err := s.kegRepo.SaveKeg(ctx, &kegRepo.SaveKegInput{Keg: keg}); err != nil {
		return nil, err
	}

	tap.CurrentKegID = keg.ID
	if err := s.kegRepo.SaveTap(ctx, &kegRepo.SaveTapInput{Tap: tap}); err != nil {
		return nil, err
	}

	tapped, err := s.deriveKegStateEvents(ctx, keg)
	if err != nil {
		return nil, err
	}
	events = append(events, tapped...)

	s.logger.Info().
		Str("keg_id", keg.ID).
		Str("tap_id", tap.ID).
		Str("beverage", keg.Beverage.Name).
		Float64("full_volume_ml", keg.FullVolumeML).
		Msg("keg tapped")

	return &StartKegOutput{
		Keg:    keg,
		Events: events,
	}, nil
}

// EndKeg takes the keg on a tap offline
func (s *service) EndKeg(ctx context.Context, input *EndKegInput) (*EndKegOutput, error) {
	if input == nil || input.TapID == "" {
		return nil, ErrTapNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tap, err := s.getTap(ctx, input.TapID)
	if err != nil {
		return nil, err
	}

	if tap.CurrentKegID == "" {
		return nil, ErrNoKegOnTap
	}

	keg, events, err := s.endKegLocked(ctx, tap)
	if err != nil {
		return nil, err
	}

	return &EndKegOutput{
		Keg:    keg,
		Events: events,
	}, nil
}

// endKegLocked takes a tap's current keg offline, back-fills the keg's
// time bounds from its drink history and emits the keg_ended event.
// Caller holds the service mutex.
func (s *service) endKegLocked(ctx context.Context, tap *models.Tap) (*models.Keg, []*models.SystemEvent, error) {
	keg, err := s.getKeg(ctx, tap.CurrentKegID)
	if err != nil {
		return nil, nil, err
	}

	keg.Online = false
	keg.EndTime = s.clock.Now()

	// Pin the keg's bounds to its first and last pour.
	drinksOut, err := s.drinkRepo.GetDrinksForKeg(ctx, &drinkRepo.GetDrinksForKegInput{KegID: keg.ID})
	if err != nil {
		return nil, nil, err
	}
	if n := len(drinksOut.Drinks); n > 0 {
		first := drinksOut.Drinks[0]
		last := drinksOut.Drinks[n-1]
		if first.Time.Before(keg.StartTime) {
			keg.StartTime = first.Time
		}
		if last.Time.After(keg.EndTime) {
			keg.EndTime = last.Time
		}
	}

	if err := s.kegRepo.SaveKeg(ctx, &kegRepo.SaveKegInput{Keg: keg}); err != nil {
		return nil, nil, err
	}

	tap.CurrentKegID = ""
	if err := s.kegRepo.SaveTap(ctx, &kegRepo.SaveTapInput{Tap: tap}); err != nil {
		return nil, nil, err
	}

	events, err := s.deriveKegStateEvents(ctx, keg)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info().
		Str("keg_id", keg.ID).
		Str("tap_id", tap.ID).
		Float64("remaining_ml", keg.RemainingVolumeML()).
		Msg("keg ended")

	return keg, events, nil
}

// RebuildSession recomputes a session's derived state from its drinks
func (s *service) RebuildSession(ctx context.Context, input *RebuildSessionInput) (*RebuildSessionOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, deleted, err := s.rebuildLocked(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	return &RebuildSessionOutput{
		Session: sess,
		Deleted: deleted,
	}, nil
}

// SyncKegEvents emits any missing keg lifecycle events
func (s *service) SyncKegEvents(ctx context.Context, input *SyncKegEventsInput) (*SyncKegEventsOutput, error) {
	if input == nil || input.KegID == "" {
		return nil, ErrKegNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	keg, err := s.getKeg(ctx, input.KegID)
	if err != nil {
		return nil, err
	}

	events, err := s.deriveKegStateEvents(ctx, keg)
	if err != nil {
		return nil, err
	}

	return &SyncKegEventsOutput{Events: events}, nil
}

// resolveKeg finds the keg a pour is accounted against, via the tap when
// a tap identity was given.
func (s *service) resolveKeg(ctx context.Context, tapID, kegID string) (*models.Keg, error) {
	if tapID != "" {
		tap, err := s.getTap(ctx, tapID)
		if err != nil {
			return nil, err
		}
		if tap.CurrentKegID == "" {
			return nil, ErrNoKegOnTap
		}
		kegID = tap.CurrentKegID
	}

	return s.getKeg(ctx, kegID)
}

func (s *service) getKeg(ctx context.Context, kegID string) (*models.Keg, error) {
	keg, err := s.kegRepo.GetKeg(ctx, &kegRepo.GetKegInput{KegID: kegID})
	if err != nil {
		if errors.Is(err, kegRepo.ErrKegNotFound) {
			return nil, ErrKegNotFound
		}
		return nil, err
	}
	return keg, nil
}

func (s *service) getTap(ctx context.Context, tapID string) (*models.Tap, error) {
	tap, err := s.kegRepo.GetTap(ctx, &kegRepo.GetTapInput{TapID: tapID})
	if err != nil {
		if errors.Is(err, kegRepo.ErrTapNotFound) {
			return nil, ErrTapNotFound
		}
		return nil, err
	}
	return tap, nil
}

func (s *service) getDrink(ctx context.Context, drinkID string) (*models.Drink, error) {
	d, err := s.drinkRepo.GetDrink(ctx, &drinkRepo.GetDrinkInput{DrinkID: drinkID})
	if err != nil {
		if errors.Is(err, drinkRepo.ErrDrinkNotFound) {
			return nil, ErrDrinkNotFound
		}
		return nil, err
	}
	return d, nil
}

var _ Service = (*service)(nil)
