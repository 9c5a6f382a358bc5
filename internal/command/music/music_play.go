package music

import (
	"context"

	"github.com/keshon/zara-music-bot/internal/clip"
	"github.com/keshon/zara-music-bot/internal/command"
	"github.com/keshon/zara-music-bot/pkg/cmd"

	"github.com/rs/zerolog/log"
)

// PlayCommand joins the caller's voice channel and plays a room clip:
//
//	!music-play <kind> <id> [fallback url]
//
// The fallback is stored as the room's clip the first time the room is
// played; once a clip is stored the fallback is ignored.
type PlayCommand struct {
	Store    command.ClipStore
	Sessions command.Sessions
	Voice    command.VoiceLocator
}

func (c *PlayCommand) Name() string         { return "music-play" }
func (c *PlayCommand) Description() string  { return "Play a room clip in your voice channel" }
func (c *PlayCommand) Trigger() cmd.Trigger { return cmd.Substring("!music-play") }

func (c *PlayCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	cc, err := command.FromInvocation(inv)
	if err != nil {
		return err
	}
	msg := cc.Message

	kind, id, fallback := inv.Arg(1), inv.Arg(2), inv.Arg(3)
	if kind == "" || id == "" {
		return cmd.Reject("usage: !music-play <kind> <id> [url]")
	}
	if kind == clip.UsersCollection {
		return cmd.Reject("%q is reserved for user clips", kind)
	}
	if msg.GuildID == "" || msg.AuthorID == "" {
		return cmd.Reject("only available inside a server")
	}
	channelID, ok := c.Voice.UserVoiceChannel(msg.GuildID, msg.AuthorID)
	if !ok {
		return cmd.Reject("join a voice channel first")
	}

	stored, err := c.Store.RoomClip(ctx, kind, id)
	if err != nil {
		return err
	}
	if stored == nil && fallback == "" {
		return cmd.Reject("no clip stored for %s/%s and no url given", kind, id)
	}

	if c.Sessions.HasExistingConnection(msg.GuildID) {
		c.Sessions.Stop(msg.GuildID)
	}
	conn, err := c.Sessions.Connect(ctx, msg.GuildID, channelID)
	if err != nil {
		return err
	}

	var spec clip.ClipSpec
	if stored == nil {
		if err := c.Store.SaveRoomClip(ctx, kind, id, clip.RoomClip{URL: fallback}); err != nil {
			return err
		}
		log.Info().Str("kind", kind).Str("id", id).Str("url", fallback).Msg("room clip stored")
		spec = clip.NewClipSpec(fallback)
	} else {
		spec = stored.Spec()
	}
	return c.Sessions.Play(conn, spec)
}
