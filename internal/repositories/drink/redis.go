package drink

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
	drinkKeyPrefix         = "drink:"
	sessionDrinksKeyPrefix = "session_drinks:"
	kegDrinksKeyPrefix     = "keg_drinks:"
)

// ErrDrinkNotFound is returned when a drink is not found
var ErrDrinkNotFound = errors.New("drink not found")

// Config holds configuration for the Redis drink repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed drink repository
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

// AddDrink persists a new drink and indexes it by session and keg. The
// index score is the pour time, so range reads come back time-ordered.
func (r *redisRepository) AddDrink(ctx context.Context, input *AddDrinkInput) error {
	if input == nil || input.Drink == nil {
		return errors.New("input and drink cannot be nil")
	}

	d := input.Drink
	if d.ID == "" {
		return errors.New("drink ID cannot be empty")
	}

	drinkJSON, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal drink: %w", err)
	}

	pipe := r.client.Pipeline()

	pipe.Set(ctx, drinkKeyPrefix+d.ID, drinkJSON, 0)

	score := float64(d.Time.UnixMilli())
	if d.SessionID != "" {
		pipe.ZAdd(ctx, sessionDrinksKeyPrefix+d.SessionID, redis.Z{
			Score:  score,
			Member: d.ID,
		})
	}
	if d.KegID != "" {
		pipe.ZAdd(ctx, kegDrinksKeyPrefix+d.KegID, redis.Z{
			Score:  score,
			Member: d.ID,
		})
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to add drink: %w", err)
	}

	return nil
}

// GetDrink retrieves a drink by ID
func (r *redisRepository) GetDrink(ctx context.Context, input *GetDrinkInput) (*models.Drink, error) {
	if input == nil || input.DrinkID == "" {
		return nil, errors.New("input and drink ID cannot be empty")
	}

	drinkJSON, err := r.client.Get(ctx, drinkKeyPrefix+input.DrinkID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrDrinkNotFound
		}
		return nil, fmt.Errorf("failed to get drink: %w", err)
	}

	var d models.Drink
	if err := json.Unmarshal([]byte(drinkJSON), &d); err != nil {
		return nil, fmt.Errorf("failed to unmarshal drink: %w", err)
	}

	return &d, nil
}

// UpdateDrink rewrites an existing drink record. Pour time, session and
// keg are fixed facts of a drink, so the indexes are left untouched.
func (r *redisRepository) UpdateDrink(ctx context.Context, input *UpdateDrinkInput) error {
	if input == nil || input.Drink == nil {
		return errors.New("input and drink cannot be nil")
	}

	if input.Drink.ID == "" {
		return errors.New("drink ID cannot be empty")
	}

	drinkKey := drinkKeyPrefix + input.Drink.ID
	exists, err := r.client.Exists(ctx, drinkKey).Result()
	if err != nil {
		return fmt.Errorf("failed to check drink existence: %w", err)
	}
	if exists == 0 {
		return ErrDrinkNotFound
	}

	drinkJSON, err := json.Marshal(input.Drink)
	if err != nil {
		return fmt.Errorf("failed to marshal drink: %w", err)
	}

	if err := r.client.Set(ctx, drinkKey, drinkJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to update drink: %w", err)
	}

	return nil
}

// RemoveDrink deletes a drink and removes it from all indexes
func (r *redisRepository) RemoveDrink(ctx context.Context, input *RemoveDrinkInput) error {
	if input == nil || input.Drink == nil {
		return errors.New("input and drink cannot be nil")
	}

	d := input.Drink
	pipe := r.client.Pipeline()

	pipe.Del(ctx, drinkKeyPrefix+d.ID)
	if d.SessionID != "" {
		pipe.ZRem(ctx, sessionDrinksKeyPrefix+d.SessionID, d.ID)
	}
	if d.KegID != "" {
		pipe.ZRem(ctx, kegDrinksKeyPrefix+d.KegID, d.ID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to remove drink: %w", err)
	}

	return nil
}

// GetDrinksForSession retrieves a session's drinks ordered by time
func (r *redisRepository) GetDrinksForSession(ctx context.Context, input *GetDrinksForSessionInput) (*GetDrinksForSessionOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.New("input and session ID cannot be empty")
	}

	drinks, err := r.getDrinksByIndex(ctx, sessionDrinksKeyPrefix+input.SessionID)
	if err != nil {
		return nil, err
	}

	return &GetDrinksForSessionOutput{Drinks: drinks}, nil
}

// GetDrinksForKeg retrieves a keg's drinks ordered by time
func (r *redisRepository) GetDrinksForKeg(ctx context.Context, input *GetDrinksForKegInput) (*GetDrinksForKegOutput, error) {
	if input == nil || input.KegID == "" {
		return nil, errors.New("input and keg ID cannot be empty")
	}

	drinks, err := r.getDrinksByIndex(ctx, kegDrinksKeyPrefix+input.KegID)
	if err != nil {
		return nil, err
	}

	return &GetDrinksForKegOutput{Drinks: drinks}, nil
}

// getDrinksByIndex fetches all drinks listed in a sorted-set index,
// preserving the index order.
func (r *redisRepository) getDrinksByIndex(ctx context.Context, indexKey string) ([]*models.Drink, error) {
	drinkIDs, err := r.client.ZRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get drink IDs: %w", err)
	}

	if len(drinkIDs) == 0 {
		return []*models.Drink{}, nil
	}

	pipe := r.client.Pipeline()
	drinkCommands := make([]*redis.StringCmd, len(drinkIDs))

	for i, drinkID := range drinkIDs {
		drinkCommands[i] = pipe.Get(ctx, drinkKeyPrefix+drinkID)
	}

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to get drinks: %w", err)
	}

	drinks := make([]*models.Drink, 0, len(drinkIDs))
	for i, cmd := range drinkCommands {
		drinkJSON, err := cmd.Result()
		if err != nil {
			if err == redis.Nil {
				// Drink was deleted between getting the IDs and fetching it
				continue
			}
			return nil, fmt.Errorf("failed to get drink %s: %w", drinkIDs[i], err)
		}

		var d models.Drink
		if err := json.Unmarshal([]byte(drinkJSON), &d); err != nil {
			return nil, fmt.Errorf("failed to unmarshal drink %s: %w", drinkIDs[i], err)
		}

		drinks = append(drinks, &d)
	}

	return drinks, nil
}
