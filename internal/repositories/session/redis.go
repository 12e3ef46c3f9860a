package session

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
	sessionKeyPrefix = "session:"

	// sessionsByEndKey indexes session IDs by end time
	sessionsByEndKey = "sessions_by_end"
)

// ErrSessionNotFound is returned when a session is not found
var ErrSessionNotFound = errors.New("session not found")

// Config holds configuration for the Redis session repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed session repository
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

// SaveSession persists a session. Re-saving a session with a new end time
// moves it within the end-time index, which keeps the latest-session
// lookup correct as sessions get extended.
func (r *redisRepository) SaveSession(ctx context.Context, input *SaveSessionInput) error {
	if input == nil || input.Session == nil {
		return errors.New("input and session cannot be nil")
	}

	s := input.Session
	if s.ID == "" {
		return errors.New("session ID cannot be empty")
	}

	sessionJSON, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	pipe := r.client.Pipeline()

	pipe.Set(ctx, sessionKeyPrefix+s.ID, sessionJSON, 0)
	pipe.ZAdd(ctx, sessionsByEndKey, redis.Z{
		Score:  float64(s.EndTime.UnixMilli()),
		Member: s.ID,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// GetSession retrieves a session by ID
func (r *redisRepository) GetSession(ctx context.Context, input *GetSessionInput) (*models.DrinkingSession, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.New("input and session ID cannot be empty")
	}

	sessionJSON, err := r.client.Get(ctx, sessionKeyPrefix+input.SessionID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var s models.DrinkingSession
	if err := json.Unmarshal([]byte(sessionJSON), &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &s, nil
}

// GetLatestSession retrieves the session with the greatest end time
func (r *redisRepository) GetLatestSession(ctx context.Context, input *GetLatestSessionInput) (*GetLatestSessionOutput, error) {
	sessionIDs, err := r.client.ZRevRange(ctx, sessionsByEndKey, 0, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get latest session ID: %w", err)
	}

	if len(sessionIDs) == 0 {
		return &GetLatestSessionOutput{Session: nil}, nil
	}

	s, err := r.GetSession(ctx, &GetSessionInput{SessionID: sessionIDs[0]})
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			// Session was deleted between the index read and the fetch
			return &GetLatestSessionOutput{Session: nil}, nil
		}
		return nil, err
	}

	return &GetLatestSessionOutput{Session: s}, nil
}

// DeleteSession removes a session and its index entry
func (r *redisRepository) DeleteSession(ctx context.Context, input *DeleteSessionInput) error {
	if input == nil || input.SessionID == "" {
		return errors.New("input and session ID cannot be empty")
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, sessionKeyPrefix+input.SessionID)
	pipe.ZRem(ctx, sessionsByEndKey, input.SessionID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}
