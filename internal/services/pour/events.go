package pour

import (
	"context"

	"github.com/kegwatch/kegwatch/internal/models"
	eventRepo "github.com/kegwatch/kegwatch/internal/repositories/event"
)

// deriveKegStateEvents emits the lifecycle event matching the keg's
// current state, if it is missing: keg_tapped for an online keg,
// keg_ended for an offline one. Repeat calls emit nothing; the existence
// query is the at-most-once guard. Caller holds the service mutex.
func (s *service) deriveKegStateEvents(ctx context.Context, keg *models.Keg) ([]*models.SystemEvent, error) {
	var events []*models.SystemEvent

	kind := models.EventKegEnded
	eventTime := keg.EndTime
	if keg.Online {
		kind = models.EventKegTapped
		eventTime = keg.StartTime
	}

	has, err := s.eventRepo.HasKegEvent(ctx, &eventRepo.HasKegEventInput{
		KegID: keg.ID,
		Kind:  kind,
	})
	if err != nil {
		return nil, err
	}
	if has {
		return events, nil
	}

	e, err := s.emitEvent(ctx, &models.SystemEvent{
		Kind:  kind,
		Time:  eventTime,
		KegID: keg.ID,
	})
	if err != nil {
		return nil, err
	}

	return append(events, e), nil
}

// derivePourEvents emits the events a committed pour qualifies for, in a
// fixed order: session_started, session_joined, drink_poured,
// keg_volume_low. Caller holds the service mutex.
func (s *service) derivePourEvents(ctx context.Context, d *models.Drink, sess *models.DrinkingSession, keg *models.Keg) ([]*models.SystemEvent, error) {
	var events []*models.SystemEvent

	hasStarted, err := s.eventRepo.HasSessionEvent(ctx, &eventRepo.HasSessionEventInput{
		SessionID: sess.ID,
		Kind:      models.EventSessionStarted,
	})
	if err != nil {
		return nil, err
	}
	if !hasStarted {
		e, err := s.emitEvent(ctx, &models.SystemEvent{
			Kind:      models.EventSessionStarted,
			Time:      sess.StartTime,
			UserID:    d.UserID,
			DrinkID:   d.ID,
			SessionID: sess.ID,
		})
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	if d.UserID != "" {
		joined, err := s.maybeEmitSessionJoined(ctx, d, sess)
		if err != nil {
			return nil, err
		}
		if joined != nil {
			events = append(events, joined)
		}
	}

	poured, err := s.emitEvent(ctx, &models.SystemEvent{
		Kind:      models.EventDrinkPoured,
		Time:      d.Time,
		UserID:    d.UserID,
		DrinkID:   d.ID,
		KegID:     keg.ID,
		SessionID: sess.ID,
	})
	if err != nil {
		return nil, err
	}
	events = append(events, poured)

	low, err := s.maybeEmitKegVolumeLow(ctx, d, sess, keg)
	if err != nil {
		return nil, err
	}
	if low != nil {
		events = append(events, low)
	}

	return events, nil
}

// maybeEmitSessionJoined emits session_joined for the drink's user unless
// the user already joined this session.
func (s *service) maybeEmitSessionJoined(ctx context.Context, d *models.Drink, sess *models.DrinkingSession) (*models.SystemEvent, error) {
	hasJoined, err := s.eventRepo.HasSessionUserEvent(ctx, &eventRepo.HasSessionUserEventInput{
		SessionID: sess.ID,
		UserID:    d.UserID,
		Kind:      models.EventSessionJoined,
	})
	if err != nil {
		return nil, err
	}
	if hasJoined {
		return nil, nil
	}

	return s.emitEvent(ctx, &models.SystemEvent{
		Kind:      models.EventSessionJoined,
		Time:      d.Time,
		UserID:    d.UserID,
		DrinkID:   d.ID,
		SessionID: sess.ID,
	})
}

// maybeEmitKegVolumeLow emits keg_volume_low when this pour took the keg
// across the low-volume threshold. The falling-edge check makes the event
// one-shot per keg: once below the threshold, later pours never cross it
// again, since the served volume is monotonic. The existence query guards
// the edge case of a volume correction re-crossing the threshold.
func (s *service) maybeEmitKegVolumeLow(ctx context.Context, d *models.Drink, sess *models.DrinkingSession, keg *models.Keg) (*models.SystemEvent, error) {
	volumeNow := keg.RemainingVolumeML()
	volumeBefore := volumeNow + d.VolumeML
	threshold := keg.FullVolumeML * s.config.LowVolumeFraction

	if !(volumeNow <= threshold && volumeBefore > threshold) {
		return nil, nil
	}

	has, err := s.eventRepo.HasKegEvent(ctx, &eventRepo.HasKegEventInput{
		KegID: keg.ID,
		Kind:  models.EventKegVolumeLow,
	})
	if err != nil {
		return nil, err
	}
	if has {
		return nil, nil
	}

	s.logger.Info().
		Str("keg_id", keg.ID).
		Float64("remaining_ml", volumeNow).
		Float64("threshold_ml", threshold).
		Msg("keg volume low")

	return s.emitEvent(ctx, &models.SystemEvent{
		Kind:      models.EventKegVolumeLow,
		Time:      d.Time,
		UserID:    d.UserID,
		DrinkID:   d.ID,
		KegID:     keg.ID,
		SessionID: sess.ID,
	})
}

// emitEvent assigns the event an ID and appends it to the store. A zero
// event time falls back to now.
func (s *service) emitEvent(ctx context.Context, e *models.SystemEvent) (*models.SystemEvent, error) {
	e.ID = s.uuid.NewUUID()
	if e.Time.IsZero() {
		e.Time = s.clock.Now()
	}

	if err := s.eventRepo.AddEvent(ctx, &eventRepo.AddEventInput{Event: e}); err != nil {
		return nil, err
	}

	return e, nil
}
