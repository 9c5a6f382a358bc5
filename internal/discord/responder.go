package discord

import (
	"context"

	"github.com/keshon/zara-music-bot/internal/command"

	"github.com/bwmarrin/discordgo"
)

// Responder posts command output through the REST API.
type Responder struct {
	dg *discordgo.Session
}

func NewResponder(dg *discordgo.Session) *Responder {
	return &Responder{dg: dg}
}

func (r *Responder) Reply(ctx context.Context, msg *command.Message, text string) error {
	ref := &discordgo.MessageReference{
		MessageID: msg.ID,
		ChannelID: msg.ChannelID,
		GuildID:   msg.GuildID,
	}
	_, err := r.dg.ChannelMessageSendReply(msg.ChannelID, text, ref, discordgo.WithContext(ctx))
	return err
}

func (r *Responder) Send(ctx context.Context, channelID, text string) error {
	_, err := r.dg.ChannelMessageSend(channelID, text, discordgo.WithContext(ctx))
	return err
}
