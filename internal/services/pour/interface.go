package pour

import "context"

// Service defines the interface for the keg and session accounting engine.
// All operations serialize against each other; see the package notes on
// the single-writer model in service.go.
type Service interface {
	// RecordPour records a pour event: updates the keg's served volume,
	// assigns the pour to a drinking session, maintains the session's
	// aggregate chunks and derives system events
	RecordPour(ctx context.Context, input *RecordPourInput) (*RecordPourOutput, error)

	// RecordSpill accounts volume poured without an associated drink
	RecordSpill(ctx context.Context, input *RecordSpillInput) (*RecordSpillOutput, error)

	// CancelDrink removes a drink, refunds its volume to the keg and
	// rebuilds the affected session
	CancelDrink(ctx context.Context, input *CancelDrinkInput) (*CancelDrinkOutput, error)

	// ReassignDrink changes a drink's user and rebuilds the affected session
	ReassignDrink(ctx context.Context, input *ReassignDrinkInput) (*ReassignDrinkOutput, error)

	// SetDrinkVolume corrects a drink's volume, adjusts the keg's served
	// volume by the difference and rebuilds the affected session
	SetDrinkVolume(ctx context.Context, input *SetDrinkVolumeInput) (*SetDrinkVolumeOutput, error)

	// StartKeg mounts a new keg on a tap, ending any keg already there
	StartKeg(ctx context.Context, input *StartKegInput) (*StartKegOutput, error)

	// EndKeg takes the keg on a tap offline and finalizes its time bounds
	EndKeg(ctx context.Context, input *EndKegInput) (*EndKegOutput, error)

	// RebuildSession recomputes a session's bounds, volume and chunks
	// from its current drink set, deleting the session if no drinks remain
	RebuildSession(ctx context.Context, input *RebuildSessionInput) (*RebuildSessionOutput, error)

	// SyncKegEvents emits any missing keg lifecycle events for a keg's
	// current state; calling it repeatedly emits nothing new
	SyncKegEvents(ctx context.Context, input *SyncKegEventsInput) (*SyncKegEventsOutput, error)
}
