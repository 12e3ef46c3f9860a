package stats

// StatsError is a custom error type for stats errors
type StatsError string

// Error implements the error interface
func (e StatsError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrNilConfig      StatsError = "config cannot be nil"
	ErrNilDrinkRepo   StatsError = "drink repository cannot be nil"
	ErrNilSessionRepo StatsError = "session repository cannot be nil"
	ErrNilChunkRepo   StatsError = "chunk repository cannot be nil"
)
