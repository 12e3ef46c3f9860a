package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/kegwatch/kegwatch/internal/common/clock"
	"github.com/kegwatch/kegwatch/internal/common/uuid"
	"github.com/kegwatch/kegwatch/internal/handlers/discord"
	"github.com/kegwatch/kegwatch/internal/logging"
	"github.com/kegwatch/kegwatch/internal/models"
	chunkRepo "github.com/kegwatch/kegwatch/internal/repositories/chunk"
	drinkRepo "github.com/kegwatch/kegwatch/internal/repositories/drink"
	eventRepo "github.com/kegwatch/kegwatch/internal/repositories/event"
	kegRepo "github.com/kegwatch/kegwatch/internal/repositories/keg"
	sessionRepo "github.com/kegwatch/kegwatch/internal/repositories/session"
	"github.com/kegwatch/kegwatch/internal/services/messaging"
	"github.com/kegwatch/kegwatch/internal/services/pour"
)

func main() {
	// Load .env if present; real environment wins
	_ = godotenv.Load()

	logging.Init(logging.Config{
		Level:      logging.Level(getEnv("LOG_LEVEL", "info")),
		JSONOutput: getEnv("LOG_FORMAT", "console") == "json",
	})
	logger := logging.WithComponent("main")

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})

	// Test Redis connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to Redis")
	}

	// Initialize repositories
	kegs, err := kegRepo.NewRedis(&kegRepo.Config{RedisClient: redisClient})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create keg repository")
	}

	drinks, err := drinkRepo.NewRedis(&drinkRepo.Config{RedisClient: redisClient})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create drink repository")
	}

	sessions, err := sessionRepo.NewRedis(&sessionRepo.Config{RedisClient: redisClient})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create session repository")
	}

	chunks, err := chunkRepo.NewRedis(&chunkRepo.Config{RedisClient: redisClient})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create chunk repository")
	}

	events, err := eventRepo.NewRedis(&eventRepo.Config{RedisClient: redisClient})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create event repository")
	}

	// Initialize the pour service
	idleTimeoutMinutes := getEnvInt("SESSION_IDLE_TIMEOUT_MINUTES", 180)
	pourSvc, err := pour.New(&pour.Config{
		IdleTimeout: time.Duration(idleTimeoutMinutes) * time.Minute,
		KegRepo:     kegs,
		DrinkRepo:   drinks,
		SessionRepo: sessions,
		ChunkRepo:   chunks,
		EventRepo:   events,
		Clock:       &clock.DefaultClock{},
		UUID:        uuid.New(),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create pour service")
	}
	// Register configured taps
	for _, tapID := range splitList(getEnv("TAPS", "")) {
		if err := registerTap(ctx, kegs, tapID); err != nil {
			logger.Fatal().Err(err).Str("tap_id", tapID).Msg("failed to register tap")
		}
	}

	// Backfill any keg lifecycle events missed before a restart
	tapsOut, err := kegs.ListTaps(ctx, &kegRepo.ListTapsInput{})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to list taps")
	}
	for _, tap := range tapsOut.Taps {
		if tap.CurrentKegID == "" {
			continue
		}
		if _, err := pourSvc.SyncKegEvents(ctx, &pour.SyncKegEventsInput{KegID: tap.CurrentKegID}); err != nil {
			logger.Error().Err(err).Str("keg_id", tap.CurrentKegID).Msg("failed to sync keg events")
		}
	}

	// Optionally start the Discord announcer
	var announcer *discord.Announcer
	discordToken := getEnv("DISCORD_TOKEN", "")
	if discordToken != "" {
		messagingSvc, err := messaging.NewService(&messaging.ServiceConfig{
			SiteName: getEnv("SITE_NAME", ""),
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create messaging service")
		}

		announcer, err = discord.New(&discord.Config{
			Token:     discordToken,
			ChannelID: getEnv("DISCORD_CHANNEL_ID", ""),
			Messaging: messagingSvc,
			KegRepo:   kegs,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create Discord announcer")
		}

		if err := announcer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("failed to start Discord announcer")
		}
	}

	// Announce new events as they appear
	stopAnnouncing := make(chan struct{})
	if announcer != nil {
		go announceLoop(events, announcer, stopAnnouncing)
	}

	logger.Info().Msg("kegwatchd is running")

	// Wait for interrupt signal to gracefully shutdown
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	close(stopAnnouncing)
	if announcer != nil {
		if err := announcer.Stop(); err != nil {
			logger.Error().Err(err).Msg("error stopping announcer")
		}
	}

	logger.Info().Msg("kegwatchd has shut down")
}

// registerTap creates the tap if it does not exist yet
func registerTap(ctx context.Context, kegs kegRepo.Repository, tapID string) error {
	_, err := kegs.GetTap(ctx, &kegRepo.GetTapInput{TapID: tapID})
	if err == nil {
		return nil
	}
	if err != kegRepo.ErrTapNotFound {
		return err
	}

	return kegs.SaveTap(ctx, &kegRepo.SaveTapInput{
		Tap: &models.Tap{
			ID:   tapID,
			Name: tapID,
		},
	})
}

// announceLoop polls for new system events and posts announcements
func announceLoop(events eventRepo.Repository, announcer *discord.Announcer, stop <-chan struct{}) {
	seen := make(map[string]struct{})
	started := time.Now()

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		out, err := events.ListRecentEvents(ctx, &eventRepo.ListRecentEventsInput{Limit: 50})
		if err != nil {
			cancel()
			continue
		}

		// Oldest first so announcements come out in event order
		batch := make([]*models.SystemEvent, 0)
		for i := len(out.Events) - 1; i >= 0; i-- {
			e := out.Events[i]
			if e.Time.Before(started) {
				continue
			}
			if _, ok := seen[e.ID]; ok {
				continue
			}
			seen[e.ID] = struct{}{}
			batch = append(batch, e)
		}

		if len(batch) > 0 {
			announcer.AnnounceEvents(ctx, batch)
		}
		cancel()
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// splitList splits a comma-separated list, dropping empty entries
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
