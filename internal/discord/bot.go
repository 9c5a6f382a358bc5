// Package discord connects the gateway to the command router, the presence
// watcher and the voice manager.
package discord

import (
	"context"
	"fmt"

	"github.com/keshon/zara-music-bot/internal/command"
	"github.com/keshon/zara-music-bot/internal/presence"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

const intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsDirectMessages |
	discordgo.IntentsGuildVoiceStates |
	discordgo.IntentsMessageContent

// NewSession creates an unopened gateway session with the intents the bot
// relies on.
func NewSession(token string) (*discordgo.Session, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	dg.Identify.Intents = intents
	return dg, nil
}

// Bot forwards gateway events to the router and the watcher.
type Bot struct {
	dg      *discordgo.Session
	router  *command.Router
	watcher *presence.Watcher

	ctx context.Context
}

func NewBot(dg *discordgo.Session, router *command.Router, watcher *presence.Watcher) *Bot {
	return &Bot{dg: dg, router: router, watcher: watcher, ctx: context.Background()}
}

// Run opens the gateway and blocks until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	b.ctx = ctx

	b.dg.AddHandler(b.onReady)
	b.dg.AddHandler(b.onMessageCreate)
	b.dg.AddHandler(b.onVoiceStateUpdate)

	if err := b.dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer func() {
		if err := b.dg.Close(); err != nil {
			log.Warn().Err(err).Msg("closing Discord session")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("❎ Shutdown signal received. Cleaning up...")
	return nil
}

func (b *Bot) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	log.Info().
		Str("user", r.User.Username).
		Int("guilds", len(r.Guilds)).
		Int("commands", len(b.router.Commands())).
		Msg("✅ Discord bot is running")
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || isSelf(s, m.Author.ID) {
		return
	}
	b.router.Dispatch(b.ctx, toMessage(m.Message))
}

func (b *Bot) onVoiceStateUpdate(_ *discordgo.Session, v *discordgo.VoiceStateUpdate) {
	if v.VoiceState == nil {
		return
	}
	b.watcher.Submit(toTransition(v))
}

func isSelf(s *discordgo.Session, userID string) bool {
	return s.State != nil && s.State.User != nil && s.State.User.ID == userID
}

// toMessage strips the gateway message down to what commands see. Caller
// identity is only carried for guild messages.
func toMessage(m *discordgo.Message) *command.Message {
	msg := &command.Message{
		ID:        m.ID,
		ChannelID: m.ChannelID,
		GuildID:   m.GuildID,
		Content:   m.Content,
	}
	if m.GuildID != "" && m.Author != nil {
		msg.AuthorID = m.Author.ID
		msg.AuthorName = m.Author.Username
	}
	return msg
}

func toTransition(v *discordgo.VoiceStateUpdate) presence.Transition {
	t := presence.Transition{
		GuildID:  v.GuildID,
		MemberID: v.UserID,
		After:    v.ChannelID,
	}
	if v.Member != nil && v.Member.User != nil {
		t.MemberName = v.Member.User.Username
	}
	if v.BeforeUpdate != nil {
		t.Before = v.BeforeUpdate.ChannelID
	}
	return t
}
