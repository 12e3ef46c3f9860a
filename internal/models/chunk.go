package models

// ChunkKind identifies which aggregate view a chunk belongs to
type ChunkKind string

const (
	// ChunkKindUserKeg aggregates one user's pours from one keg in a session
	ChunkKindUserKeg ChunkKind = "user_keg"

	// ChunkKindUser aggregates one user's pours across all kegs in a session
	ChunkKindUser ChunkKind = "user"

	// ChunkKindKeg aggregates one keg's pours across all users in a session
	ChunkKindKeg ChunkKind = "keg"
)

// ChunkKinds lists all aggregate views maintained per session
var ChunkKinds = []ChunkKind{ChunkKindUserKeg, ChunkKindUser, ChunkKindKeg}

// Chunk is a derived partial aggregate of a session, keyed by user and/or
// keg depending on kind. Chunks are never authored directly; they are
// maintained by the pour service and regenerated on rebuild. At most one
// chunk exists per (kind, session, user, keg) key.
type Chunk struct {
	// Span holds the chunk's start/end time and total volume
	Span

	// Kind selects which aggregate view this chunk belongs to
	Kind ChunkKind `json:"kind"`

	// SessionID is the session this chunk belongs to
	SessionID string `json:"session_id"`

	// UserID is the keyed user; empty for keg chunks or anonymous pours
	UserID string `json:"user_id,omitempty"`

	// KegID is the keyed keg; empty for user chunks
	KegID string `json:"keg_id,omitempty"`
}
