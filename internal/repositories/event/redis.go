package event

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
	eventKeyPrefix = "event:"

	// eventsByTimeKey indexes event IDs by event time
	eventsByTimeKey = "events_by_time"

	// Existence-check index prefixes
	kegEventsKeyPrefix         = "keg_events:"
	sessionEventsKeyPrefix     = "session_events:"
	sessionUserEventsKeyPrefix = "session_user_events:"
)

// Config holds configuration for the Redis event repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed event repository
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

// AddEvent appends a system event and updates the existence indexes
func (r *redisRepository) AddEvent(ctx context.Context, input *AddEventInput) error {
	if input == nil || input.Event == nil {
		return errors.New("input and event cannot be nil")
	}

	e := input.Event
	if e.ID == "" {
		return errors.New("event ID cannot be empty")
	}

	eventJSON, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	pipe := r.client.Pipeline()

	pipe.Set(ctx, eventKeyPrefix+e.ID, eventJSON, 0)
	pipe.ZAdd(ctx, eventsByTimeKey, redis.Z{
		Score:  float64(e.Time.UnixMilli()),
		Member: e.ID,
	})

	if e.KegID != "" {
		pipe.SAdd(ctx, fmt.Sprintf("%s%s:%s", kegEventsKeyPrefix, e.KegID, e.Kind), e.ID)
	}
	if e.SessionID != "" {
		pipe.SAdd(ctx, fmt.Sprintf("%s%s:%s", sessionEventsKeyPrefix, e.SessionID, e.Kind), e.ID)
	}
	if e.SessionID != "" && e.UserID != "" {
		pipe.SAdd(ctx, fmt.Sprintf("%s%s:%s:%s", sessionUserEventsKeyPrefix, e.SessionID, e.UserID, e.Kind), e.ID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to add event: %w", err)
	}

	return nil
}

// HasKegEvent reports whether a keg already has an event of a kind
func (r *redisRepository) HasKegEvent(ctx context.Context, input *HasKegEventInput) (bool, error) {
	if input == nil || input.KegID == "" {
		return false, errors.New("input and keg ID cannot be empty")
	}

	count, err := r.client.SCard(ctx, fmt.Sprintf("%s%s:%s", kegEventsKeyPrefix, input.KegID, input.Kind)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check keg events: %w", err)
	}

	return count > 0, nil
}

// HasSessionEvent reports whether a session already has an event of a kind
func (r *redisRepository) HasSessionEvent(ctx context.Context, input *HasSessionEventInput) (bool, error) {
	if input == nil || input.SessionID == "" {
		return false, errors.New("input and session ID cannot be empty")
	}

	count, err := r.client.SCard(ctx, fmt.Sprintf("%s%s:%s", sessionEventsKeyPrefix, input.SessionID, input.Kind)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session events: %w", err)
	}

	return count > 0, nil
}

// HasSessionUserEvent reports whether a (session, user) pair already has
// an event of a kind
func (r *redisRepository) HasSessionUserEvent(ctx context.Context, input *HasSessionUserEventInput) (bool, error) {
	if input == nil || input.SessionID == "" || input.UserID == "" {
		return false, errors.New("input, session ID and user ID cannot be empty")
	}

	count, err := r.client.SCard(ctx, fmt.Sprintf("%s%s:%s:%s", sessionUserEventsKeyPrefix, input.SessionID, input.UserID, input.Kind)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session user events: %w", err)
	}

	return count > 0, nil
}

// ListRecentEvents retrieves the most recent events, newest first
func (r *redisRepository) ListRecentEvents(ctx context.Context, input *ListRecentEventsInput) (*ListRecentEventsOutput, error) {
	limit := 100
	if input != nil && input.Limit > 0 {
		limit = input.Limit
	}

	eventIDs, err := r.client.ZRevRange(ctx, eventsByTimeKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get event IDs: %w", err)
	}

	if len(eventIDs) == 0 {
		return &ListRecentEventsOutput{Events: []*models.SystemEvent{}}, nil
	}

	pipe := r.client.Pipeline()
	eventCommands := make([]*redis.StringCmd, len(eventIDs))
	for i, eventID := range eventIDs {
		eventCommands[i] = pipe.Get(ctx, eventKeyPrefix+eventID)
	}

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}

	events := make([]*models.SystemEvent, 0, len(eventIDs))
	for i, cmd := range eventCommands {
		eventJSON, err := cmd.Result()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			return nil, fmt.Errorf("failed to get event %s: %w", eventIDs[i], err)
		}

		var e models.SystemEvent
		if err := json.Unmarshal([]byte(eventJSON), &e); err != nil {
			return nil, fmt.Errorf("failed to unmarshal event %s: %w", eventIDs[i], err)
		}

		events = append(events, &e)
	}

	return &ListRecentEventsOutput{Events: events}, nil
}
