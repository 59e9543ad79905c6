package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/NgigiN/wallet/internal/analyzer"
	"github.com/NgigiN/wallet/internal/config"
)

// Bot answers analyzer queries in one channel and appends M-PESA
// confirmations posted there to the in-memory collection.
type Bot struct {
	session   *discordgo.Session
	engine    *analyzer.Engine
	channelID string
	startTime time.Time
	log       zerolog.Logger
	health    *http.Server
}

func NewBot(cfg *config.Config, engine *analyzer.Engine, log zerolog.Logger) (*Bot, error) {
	if err := cfg.ValidateDiscord(); err != nil {
		return nil, err
	}
	session, err := discordgo.New("Bot " + cfg.DiscordBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	bot := newBot(engine, cfg.DiscordChannelId, log)
	bot.session = session
	bot.health = &http.Server{
		Addr:              cfg.HealthAddr,
		Handler:           bot.healthMux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	session.AddHandler(bot.handleMessage)
	session.Identify.Intents = discordgo.IntentGuildMessages | discordgo.IntentMessageContent

	return bot, nil
}

func newBot(engine *analyzer.Engine, channelID string, log zerolog.Logger) *Bot {
	return &Bot{
		engine:    engine,
		channelID: channelID,
		startTime: time.Now(),
		log:       log,
	}
}

func (b *Bot) Start() error {
	go func() {
		if err := b.health.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			b.log.Error().Err(err).Str("addr", b.health.Addr).Msg("Health server stopped")
		}
	}()

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}
	b.log.Info().Str("channel_id", b.channelID).Int("transactions", b.engine.Len()).Msg("Discord bot connected")
	return nil
}

func (b *Bot) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := b.health.Shutdown(ctx); err != nil {
		b.log.Warn().Err(err).Msg("Health server shutdown")
	}
	if err := b.session.Close(); err != nil {
		b.log.Warn().Err(err).Msg("Discord session close")
	}
}

func (b *Bot) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == s.State.User.ID {
		return //bot's messages
	}

	if m.ChannelID != b.channelID {
		return //specific to the channel
	}

	reply := b.respond(m.Content)
	if reply == "" {
		return
	}
	if _, err := s.ChannelMessageSend(m.ChannelID, reply); err != nil {
		b.log.Error().Err(err).Str("channel_id", m.ChannelID).Msg("Failed to send reply")
	}
}
