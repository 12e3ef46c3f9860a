package pour

import (
	"time"

	"github.com/kegwatch/kegwatch/internal/common/clock"
	"github.com/kegwatch/kegwatch/internal/common/uuid"
	"github.com/kegwatch/kegwatch/internal/kegsize"
	"github.com/kegwatch/kegwatch/internal/models"
	chunkRepo "github.com/kegwatch/kegwatch/internal/repositories/chunk"
	drinkRepo "github.com/kegwatch/kegwatch/internal/repositories/drink"
	eventRepo "github.com/kegwatch/kegwatch/internal/repositories/event"
	kegRepo "github.com/kegwatch/kegwatch/internal/repositories/keg"
	sessionRepo "github.com/kegwatch/kegwatch/internal/repositories/session"
)

const (
	// DefaultIdleTimeout is the default maximum gap between pours in one
	// drinking session
	DefaultIdleTimeout = 180 * time.Minute

	// DefaultLowVolumeFraction is the default fraction of a keg's full
	// volume below which a low-volume event fires
	DefaultLowVolumeFraction = 0.15
)

// Config holds configuration for the pour service
type Config struct {
	// IdleTimeout is the session idle window; pours closer together than
	// this land in the same session. Defaults to DefaultIdleTimeout.
	IdleTimeout time.Duration

	// LowVolumeFraction is the keg low-volume threshold as a fraction of
	// full volume. Defaults to DefaultLowVolumeFraction.
	LowVolumeFraction float64

	// Repository dependencies
	KegRepo     kegRepo.Repository
	DrinkRepo   drinkRepo.Repository
	SessionRepo sessionRepo.Repository
	ChunkRepo   chunkRepo.Repository
	EventRepo   eventRepo.Repository

	// Common dependencies
	Clock clock.Clock
	UUID  uuid.UUID
}

// RecordPourInput contains parameters for recording a pour. Either TapID
// or KegID must be set; when both are set the tap wins.
type RecordPourInput struct {
	// TapID identifies the tap the pour came from
	TapID string

	// KegID identifies the keg directly, for pours recorded off-tap
	KegID string

	// Ticks is the raw flow meter reading
	Ticks int

	// VolumeML is the pour volume in milliliters, converted upstream
	VolumeML float64

	// UserID is the pouring user, empty for anonymous pours
	UserID string

	// Time is when the pour happened; zero means now
	Time time.Time

	// DurationSeconds is how long the pour took, if known
	DurationSeconds int

	// Shout is an optional comment from the drinker
	Shout string
}

// RecordPourOutput contains the result of recording a pour
type RecordPourOutput struct {
	// Drink is the created drink with its resolved session
	Drink *models.Drink

	// Session is the session the drink was grouped into
	Session *models.DrinkingSession

	// Events are the system events derived from this pour, in emission order
	Events []*models.SystemEvent
}

// RecordSpillInput contains parameters for recording spilled volume
type RecordSpillInput struct {
	KegID    string
	VolumeML float64
}

// RecordSpillOutput contains the updated keg
type RecordSpillOutput struct {
	Keg *models.Keg
}

// CancelDrinkInput contains parameters for cancelling a drink
type CancelDrinkInput struct {
	DrinkID string
}

// CancelDrinkOutput contains the result of cancelling a drink
type CancelDrinkOutput struct {
	// Session is the rebuilt session, nil if it was deleted
	Session *models.DrinkingSession

	// SessionDeleted is true when the cancelled drink was the session's last
	SessionDeleted bool
}

// ReassignDrinkInput contains parameters for changing a drink's user
type ReassignDrinkInput struct {
	DrinkID string

	// UserID is the new user, empty to make the drink anonymous
	UserID string
}

// ReassignDrinkOutput contains the result of reassigning a drink
type ReassignDrinkOutput struct {
	Drink *models.Drink

	// Events holds a session_joined event if the new user had not joined
	// the session before
	Events []*models.SystemEvent
}

// SetDrinkVolumeInput contains parameters for correcting a drink's volume
type SetDrinkVolumeInput struct {
	DrinkID  string
	VolumeML float64
}

// SetDrinkVolumeOutput contains the corrected drink
type SetDrinkVolumeOutput struct {
	Drink *models.Drink
}

// StartKegInput contains parameters for tapping a new keg
type StartKegInput struct {
	// TapID is the tap to mount the keg on
	TapID string

	// Beverage describes the keg contents
	Beverage models.Beverage

	// KegType initializes the keg's full volume
	KegType kegsize.KegSize

	// FullVolumeML overrides the size-derived full volume when positive
	FullVolumeML float64

	// Description is an optional user-visible description
	Description string
}

// StartKegOutput contains the result of tapping a keg
type StartKegOutput struct {
	Keg *models.Keg

	// Events holds the keg_tapped event, plus a keg_ended event for any
	// keg that was displaced from the tap
	Events []*models.SystemEvent
}

// EndKegInput contains parameters for ending the keg on a tap
type EndKegInput struct {
	TapID string
}

// EndKegOutput contains the result of ending a keg
type EndKegOutput struct {
	Keg *models.Keg

	// Events holds the keg_ended event if it was newly emitted
	Events []*models.SystemEvent
}

// RebuildSessionInput contains parameters for rebuilding a session
type RebuildSessionInput struct {
	SessionID string
}

// RebuildSessionOutput contains the result of rebuilding a session
type RebuildSessionOutput struct {
	// Session is the recomputed session, nil if it was deleted
	Session *models.DrinkingSession

	// Deleted is true when the session had no drinks left
	Deleted bool
}

// SyncKegEventsInput contains parameters for re-deriving keg lifecycle events
type SyncKegEventsInput struct {
	KegID string
}

// SyncKegEventsOutput contains any newly emitted events
type SyncKegEventsOutput struct {
	Events []*models.SystemEvent
}
