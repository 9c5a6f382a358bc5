package music

import (
	"context"
	"strings"

	"github.com/keshon/zara-music-bot/internal/clip"
	"github.com/keshon/zara-music-bot/internal/command"
	"github.com/keshon/zara-music-bot/pkg/cmd"
)

// UpdateCommand registers or overwrites the caller's clip:
//
//	!music-update <youtube url> [start] [duration]
type UpdateCommand struct {
	Store        command.ClipStore
	ReservedName string
}

func (c *UpdateCommand) Name() string         { return "music-update" }
func (c *UpdateCommand) Description() string  { return "Register your entrance clip" }
func (c *UpdateCommand) Trigger() cmd.Trigger { return cmd.Substring("!music-update") }

func (c *UpdateCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	cc, err := command.FromInvocation(inv)
	if err != nil {
		return err
	}
	msg := cc.Message

	url := inv.Arg(1)
	if !strings.Contains(url, "youtube.com") {
		return cmd.Reject("a youtube.com url is required")
	}
	spec := clip.ClipSpec{
		URLs:     []string{url},
		Start:    clip.ParseNumber(inv.Arg(2), clip.DefaultStart, clip.NonNegative),
		Duration: clip.ParseNumber(inv.Arg(3), clip.DefaultDuration, clip.Positive),
	}

	if msg.AuthorID == "" || msg.AuthorName == "" {
		return cmd.Reject("caller unknown")
	}
	if msg.AuthorName == c.ReservedName {
		return cmd.Reject("the bot cannot register a clip for itself")
	}

	if err := c.Store.SaveOwner(ctx, msg.AuthorID, clip.OwnerRecord{Name: msg.AuthorName, Clip: spec}); err != nil {
		return err
	}
	return cc.Send(ctx, "更新! url: "+url)
}
