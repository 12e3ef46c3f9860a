package keg

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
	kegKeyPrefix = "keg:"
	tapKeyPrefix = "tap:"

	// tapsKey is the set of all registered tap IDs
	tapsKey = "taps"
)

// ErrKegNotFound is returned when a keg is not found
var ErrKegNotFound = errors.New("keg not found")

// ErrTapNotFound is returned when a tap is not found
var ErrTapNotFound = errors.New("tap not found")

// Config holds configuration for the Redis keg repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed keg repository
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

// SaveKeg persists a keg
func (r *redisRepository) SaveKeg(ctx context.Context, input *SaveKegInput) error {
	if input == nil || input.Keg == nil {
		return errors.New("input and keg cannot be nil")
	}

	if input.Keg.ID == "" {
		return errors.New("keg ID cannot be empty")
	}

	kegJSON, err := json.Marshal(input.Keg)
	if err != nil {
		return fmt.Errorf("failed to marshal keg: %w", err)
	}

	kegKey := kegKeyPrefix + input.Keg.ID
	if err := r.client.Set(ctx, kegKey, kegJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to save keg: %w", err)
	}

	return nil
}

// GetKeg retrieves a keg by ID
func (r *redisRepository) GetKeg(ctx context.Context, input *GetKegInput) (*models.Keg, error) {
	if input == nil || input.KegID == "" {
		return nil, errors.New("input and keg ID cannot be empty")
	}

	kegKey := kegKeyPrefix + input.KegID
	kegJSON, err := r.client.Get(ctx, kegKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrKegNotFound
		}
		return nil, fmt.Errorf("failed to get keg: %w", err)
	}

	var keg models.Keg
	if err := json.Unmarshal([]byte(kegJSON), &keg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal keg: %w", err)
	}

	return &keg, nil
}

// SaveTap persists a tap
func (r *redisRepository) SaveTap(ctx context.Context, input *SaveTapInput) error {
	if input == nil || input.Tap == nil {
		return errors.New("input and tap cannot be nil")
	}

	if input.Tap.ID == "" {
		return errors.New("tap ID cannot be empty")
	}

	tapJSON, err := json.Marshal(input.Tap)
	if err != nil {
		return fmt.Errorf("failed to marshal tap: %w", err)
	}

	pipe := r.client.Pipeline()

	tapKey := tapKeyPrefix + input.Tap.ID
	pipe.Set(ctx, tapKey, tapJSON, 0)
	pipe.SAdd(ctx, tapsKey, input.Tap.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save tap: %w", err)
	}

	return nil
}

// GetTap retrieves a tap by ID
func (r *redisRepository) GetTap(ctx context.Context, input *GetTapInput) (*models.Tap, error) {
	if input == nil || input.TapID == "" {
		return nil, errors.New("input and tap ID cannot be empty")
	}

	tapKey := tapKeyPrefix + input.TapID
	tapJSON, err := r.client.Get(ctx, tapKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrTapNotFound
		}
		return nil, fmt.Errorf("failed to get tap: %w", err)
	}

	var tap models.Tap
	if err := json.Unmarshal([]byte(tapJSON), &tap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tap: %w", err)
	}

	return &tap, nil
}

// ListTaps retrieves all registered taps
func (r *redisRepository) ListTaps(ctx context.Context, input *ListTapsInput) (*ListTapsOutput, error) {
	tapIDs, err := r.client.SMembers(ctx, tapsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list tap IDs: %w", err)
	}

	if len(tapIDs) == 0 {
		return &ListTapsOutput{Taps: []*models.Tap{}}, nil
	}

	pipe := r.client.Pipeline()
	tapCommands := make(map[string]*redis.StringCmd)

	for _, tapID := range tapIDs {
		tapCommands[tapID] = pipe.Get(ctx, tapKeyPrefix+tapID)
	}

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to get taps: %w", err)
	}

	taps := make([]*models.Tap, 0, len(tapIDs))
	for tapID, cmd := range tapCommands {
		tapJSON, err := cmd.Result()
		if err != nil {
			if err == redis.Nil {
				// Tap was deleted between listing and fetching
				continue
			}
			return nil, fmt.Errorf("failed to get tap %s: %w", tapID, err)
		}

		var tap models.Tap
		if err := json.Unmarshal([]byte(tapJSON), &tap); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tap %s: %w", tapID, err)
		}

		taps = append(taps, &tap)
	}

	return &ListTapsOutput{Taps: taps}, nil
}
