package pour

// PourError is a custom error type for pour accounting errors
type PourError string

// Error implements the error interface
func (e PourError) Error() string {
	return string(e)
}

// Define errors
const (
	// Validation errors, rejected before any state is touched
	ErrInvalidVolume  PourError = "volume cannot be negative"
	ErrInvalidKegSize PourError = "unknown keg size and no explicit volume given"
	ErrMissingTap     PourError = "tap or keg identity is required"

	// Not-found errors
	ErrTapNotFound     PourError = "tap not found"
	ErrKegNotFound     PourError = "keg not found"
	ErrDrinkNotFound   PourError = "drink not found"
	ErrSessionNotFound PourError = "session not found"
	ErrNoKegOnTap      PourError = "no keg mounted on tap"

	// ErrSessionMismatch indicates a drink indexed under a session that
	// claims a different session. Should never happen; the operation is
	// aborted and the store needs manual repair.
	ErrSessionMismatch PourError = "drink does not belong to session"

	// Constructor errors
	ErrNilConfig        PourError = "config cannot be nil"
	ErrNilKegRepo       PourError = "keg repository cannot be nil"
	ErrNilDrinkRepo     PourError = "drink repository cannot be nil"
	ErrNilSessionRepo   PourError = "session repository cannot be nil"
	ErrNilChunkRepo     PourError = "chunk repository cannot be nil"
	ErrNilEventRepo     PourError = "event repository cannot be nil"
	ErrNilClock         PourError = "clock cannot be nil"
	ErrNilUUIDGenerator PourError = "UUID generator cannot be nil"
)
