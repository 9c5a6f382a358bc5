package music

import (
	"context"
	"fmt"

	"github.com/keshon/zara-music-bot/internal/command"
	"github.com/keshon/zara-music-bot/pkg/cmd"
)

const msgClipNotFound = "登場曲が見つからないッス"

// MeCommand shows the caller's registered clip.
type MeCommand struct {
	Store command.ClipStore
}

func (c *MeCommand) Name() string         { return "music-me" }
func (c *MeCommand) Description() string  { return "Show your entrance clip" }
func (c *MeCommand) Trigger() cmd.Trigger { return cmd.Exact("!music-me") }

func (c *MeCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	cc, err := command.FromInvocation(inv)
	if err != nil {
		return err
	}
	msg := cc.Message
	if msg.AuthorID == "" {
		return cmd.Reject("caller unknown")
	}

	rec, err := c.Store.Owner(ctx, msg.AuthorID)
	if err != nil {
		return err
	}
	if rec == nil {
		return cc.Send(ctx, msgClipNotFound)
	}

	name := msg.AuthorName
	if name == "" {
		name = rec.Name
	}
	return cc.Send(ctx, fmt.Sprintf("%sの登場曲: %s", name, rec.Clip))
}
