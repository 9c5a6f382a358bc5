package discord

import (
	"context"
	"fmt"

	"github.com/keshon/zara-music-bot/internal/voice"

	"github.com/bwmarrin/discordgo"
)

// Transport joins voice channels through the gateway session.
type Transport struct {
	dg *discordgo.Session
}

func NewTransport(dg *discordgo.Session) *Transport {
	return &Transport{dg: dg}
}

// Join connects deafened and unmuted. Joining a channel in a guild that
// already has a connection moves that connection.
func (t *Transport) Join(ctx context.Context, guildID, channelID string) (voice.Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	vc, err := t.dg.ChannelVoiceJoin(guildID, channelID, false, true)
	if err != nil {
		return nil, fmt.Errorf("channel voice join: %w", err)
	}
	return &conn{vc: vc}, nil
}

func (t *Transport) Connection(guildID string) (voice.Conn, bool) {
	t.dg.RLock()
	vc, ok := t.dg.VoiceConnections[guildID]
	t.dg.RUnlock()
	if !ok || vc == nil {
		return nil, false
	}
	return &conn{vc: vc}, true
}

type conn struct {
	vc *discordgo.VoiceConnection
}

func (c *conn) GuildID() string {
	c.vc.RLock()
	defer c.vc.RUnlock()
	return c.vc.GuildID
}

func (c *conn) ChannelID() string {
	c.vc.RLock()
	defer c.vc.RUnlock()
	return c.vc.ChannelID
}

func (c *conn) Speaking(on bool) error  { return c.vc.Speaking(on) }
func (c *conn) OpusSend() chan<- []byte { return c.vc.OpusSend }

// VoiceLocator reads member voice states from the session cache.
type VoiceLocator struct {
	dg *discordgo.Session
}

func NewVoiceLocator(dg *discordgo.Session) *VoiceLocator {
	return &VoiceLocator{dg: dg}
}

func (l *VoiceLocator) UserVoiceChannel(guildID, userID string) (string, bool) {
	vs, err := l.dg.State.VoiceState(guildID, userID)
	if err != nil || vs == nil || vs.ChannelID == "" {
		return "", false
	}
	return vs.ChannelID, true
}
