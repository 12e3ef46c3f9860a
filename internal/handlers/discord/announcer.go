package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/kegwatch/kegwatch/internal/logging"
	"github.com/kegwatch/kegwatch/internal/models"
	kegRepo "github.com/kegwatch/kegwatch/internal/repositories/keg"
	"github.com/kegwatch/kegwatch/internal/services/messaging"
)

// Announcer posts system event announcements to a Discord channel
type Announcer struct {
	session   *discordgo.Session
	messaging messaging.Service
	kegRepo   kegRepo.Repository
	config    *Config
	logger    zerolog.Logger
}

// Config holds the configuration for the announcer
type Config struct {
	// Discord bot token
	Token string

	// ChannelID is the channel announcements are posted to
	ChannelID string

	// Messaging service renders the announcement text
	Messaging messaging.Service

	// KegRepo provides beverage/volume context for keg events
	KegRepo kegRepo.Repository
}

// New creates a new Discord announcer
func New(cfg *Config) (*Announcer, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Token == "" {
		return nil, errors.New("token cannot be empty")
	}

	if cfg.ChannelID == "" {
		return nil, errors.New("channel ID cannot be empty")
	}

	if cfg.Messaging == nil {
		return nil, errors.New("messaging service cannot be nil")
	}

	// Create a new Discord session
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	return &Announcer{
		session:   session,
		messaging: cfg.Messaging,
		kegRepo:   cfg.KegRepo,
		config:    cfg,
		logger:    logging.WithComponent("discord"),
	}, nil
}

// Start opens the Discord connection
func (a *Announcer) Start() error {
	if err := a.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	a.logger.Info().Str("channel_id", a.config.ChannelID).Msg("announcer connected")
	return nil
}

// Stop gracefully shuts down the Discord connection
func (a *Announcer) Stop() error {
	return a.session.Close()
}

// AnnounceEvents posts announcements for the given events in order.
// Events whose kind has no announcement text are skipped. Posting
// failures are logged, not returned; announcements are best effort and
// never fail the accounting operation that produced them.
func (a *Announcer) AnnounceEvents(ctx context.Context, events []*models.SystemEvent) {
	for _, e := range events {
		input := &messaging.GetEventMessageInput{Event: e}

		if e.KegID != "" && a.kegRepo != nil {
			keg, err := a.kegRepo.GetKeg(ctx, &kegRepo.GetKegInput{KegID: e.KegID})
			if err == nil {
				input.Keg = keg
			}
		}

		out, err := a.messaging.GetEventMessage(ctx, input)
		if err != nil {
			a.logger.Error().Err(err).Str("event_id", e.ID).Msg("failed to render announcement")
			continue
		}

		if out.Message == "" {
			continue
		}

		if _, err := a.session.ChannelMessageSend(a.config.ChannelID, out.Message); err != nil {
			a.logger.Error().Err(err).Str("event_id", e.ID).Msg("failed to post announcement")
		}
	}
}
