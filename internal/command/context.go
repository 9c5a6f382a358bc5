// Package command routes inbound text messages to at most one handler.
package command

import (
	"context"
	"errors"

	"github.com/keshon/zara-music-bot/internal/clip"
	"github.com/keshon/zara-music-bot/internal/voice"
	"github.com/keshon/zara-music-bot/pkg/cmd"
)

// Message is an inbound text message, already stripped of transport detail.
type Message struct {
	ID        string
	ChannelID string
	GuildID   string
	Content   string

	// Caller identity. Only set for messages sent inside a guild.
	AuthorID   string
	AuthorName string
}

// Responder sends text back to the chat.
type Responder interface {
	// Reply answers msg with a message that references it.
	Reply(ctx context.Context, msg *Message, text string) error
	// Send posts text to a channel.
	Send(ctx context.Context, channelID, text string) error
}

// Context is the payload handlers receive through cmd.Invocation.Data.
type Context struct {
	Message   *Message
	Responder Responder
}

var ErrNoContext = errors.New("invocation carries no message context")

// FromInvocation extracts the message context set by the router.
func FromInvocation(inv *cmd.Invocation) (*Context, error) {
	c, ok := inv.Data.(*Context)
	if !ok || c == nil || c.Message == nil {
		return nil, ErrNoContext
	}
	return c, nil
}

// Reply answers the invoking message.
func (c *Context) Reply(ctx context.Context, text string) error {
	return c.Responder.Reply(ctx, c.Message, text)
}

// Send posts to the invoking message's channel.
func (c *Context) Send(ctx context.Context, text string) error {
	return c.Responder.Send(ctx, c.Message.ChannelID, text)
}

// ClipStore is the record storage the music commands need.
type ClipStore interface {
	Owner(ctx context.Context, userID string) (*clip.OwnerRecord, error)
	SaveOwner(ctx context.Context, userID string, rec clip.OwnerRecord) error
	RoomClip(ctx context.Context, kind, id string) (*clip.RoomClip, error)
	SaveRoomClip(ctx context.Context, kind, id string, rc clip.RoomClip) error
}

// Sessions is the voice session surface the music commands drive.
type Sessions interface {
	Connect(ctx context.Context, guildID, channelID string) (voice.Conn, error)
	HasExistingConnection(guildID string) bool
	Stop(guildID string)
	StopAll()
	Play(conn voice.Conn, spec clip.ClipSpec) error
}

// VoiceLocator finds the voice channel a member currently sits in.
type VoiceLocator interface {
	UserVoiceChannel(guildID, userID string) (string, bool)
}
