package chunk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kegwatch/kegwatch/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefixes for Redis
	chunkKeyPrefix = "chunk:"

	// sessionChunksKeyPrefix is the set of chunk keys per session, used
	// for listing and bulk deletion on rebuild
	sessionChunksKeyPrefix = "session_chunks:"
)

// ErrChunkNotFound is returned when a chunk is not found
var ErrChunkNotFound = errors.New("chunk not found")

// Config holds configuration for the Redis chunk repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed chunk repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// chunkKey builds the storage key for a chunk's key tuple. Empty user or
// keg segments are legal: user chunks have no keg, keg chunks no user, and
// anonymous pours produce chunks with an empty user.
func chunkKey(kind models.ChunkKind, sessionID, userID, kegID string) string {
	return fmt.Sprintf("%s%s:%s:%s:%s", chunkKeyPrefix, kind, sessionID, userID, kegID)
}

// SaveChunk persists a chunk under its key tuple
func (r *redisRepository) SaveChunk(ctx context.Context, input *SaveChunkInput) error {
	if input == nil || input.Chunk == nil {
		return errors.New("input and chunk cannot be nil")
	}

	c := input.Chunk
	if c.SessionID == "" {
		return errors.New("chunk session ID cannot be empty")
	}

	chunkJSON, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal chunk: %w", err)
	}

	key := chunkKey(c.Kind, c.SessionID, c.UserID, c.KegID)

	pipe := r.client.Pipeline()
	pipe.Set(ctx, key, chunkJSON, 0)
	pipe.SAdd(ctx, sessionChunksKeyPrefix+c.SessionID, key)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save chunk: %w", err)
	}

	return nil
}

// GetChunk retrieves the chunk for an exact key tuple
func (r *redisRepository) GetChunk(ctx context.Context, input *GetChunkInput) (*models.Chunk, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.New("input and session ID cannot be empty")
	}

	key := chunkKey(input.Kind, input.SessionID, input.UserID, input.KegID)
	chunkJSON, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrChunkNotFound
		}
		return nil, fmt.Errorf("failed to get chunk: %w", err)
	}

	var c models.Chunk
	if err := json.Unmarshal([]byte(chunkJSON), &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chunk: %w", err)
	}

	return &c, nil
}

// GetChunksForSession retrieves a session's chunks of one kind
func (r *redisRepository) GetChunksForSession(ctx context.Context, input *GetChunksForSessionInput) (*GetChunksForSessionOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.New("input and session ID cannot be empty")
	}

	keys, err := r.client.SMembers(ctx, sessionChunksKeyPrefix+input.SessionID).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list chunk keys: %w", err)
	}

	if len(keys) == 0 {
		return &GetChunksForSessionOutput{Chunks: []*models.Chunk{}}, nil
	}

	pipe := r.client.Pipeline()
	chunkCommands := make([]*redis.StringCmd, len(keys))
	for i, key := range keys {
		chunkCommands[i] = pipe.Get(ctx, key)
	}

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to get chunks: %w", err)
	}

	chunks := make([]*models.Chunk, 0, len(keys))
	for i, cmd := range chunkCommands {
		chunkJSON, err := cmd.Result()
		if err != nil {
			if err == redis.Nil {
				// Chunk was deleted between listing and fetching
				continue
			}
			return nil, fmt.Errorf("failed to get chunk %s: %w", keys[i], err)
		}

		var c models.Chunk
		if err := json.Unmarshal([]byte(chunkJSON), &c); err != nil {
			return nil, fmt.Errorf("failed to unmarshal chunk %s: %w", keys[i], err)
		}

		if c.Kind != input.Kind {
			continue
		}

		chunks = append(chunks, &c)
	}

	return &GetChunksForSessionOutput{Chunks: chunks}, nil
}

// DeleteChunksForSession removes all chunks of all kinds for a session
func (r *redisRepository) DeleteChunksForSession(ctx context.Context, input *DeleteChunksForSessionInput) error {
	if input == nil || input.SessionID == "" {
		return errors.New("input and session ID cannot be empty")
	}

	setKey := sessionChunksKeyPrefix + input.SessionID
	keys, err := r.client.SMembers(ctx, setKey).Result()
	if err != nil {
		return fmt.Errorf("failed to list chunk keys: %w", err)
	}

	pipe := r.client.Pipeline()
	if len(keys) > 0 {
		pipe.Del(ctx, keys...)
	}
	pipe.Del(ctx, setKey)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete chunks: %w", err)
	}

	return nil
}
