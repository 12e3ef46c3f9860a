package stats

import "context"

// Service defines read-only derived views over the accounting state
type Service interface {
	// GetKegSessions lists the sessions a keg contributed to, newest first
	GetKegSessions(ctx context.Context, input *GetKegSessionsInput) (*GetKegSessionsOutput, error)

	// GetTopDrinkers ranks a session's drinkers by poured volume
	GetTopDrinkers(ctx context.Context, input *GetTopDrinkersInput) (*GetTopDrinkersOutput, error)
}
