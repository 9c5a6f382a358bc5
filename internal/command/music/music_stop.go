package music

import (
	"context"

	"github.com/keshon/zara-music-bot/internal/command"
	"github.com/keshon/zara-music-bot/pkg/cmd"
)

// StopCommand silences the sink serving the caller's server. Sent outside a
// server it silences every sink.
type StopCommand struct {
	Sessions command.Sessions
}

func (c *StopCommand) Name() string         { return "music-stop" }
func (c *StopCommand) Description() string  { return "Stop the clip playing in this server" }
func (c *StopCommand) Trigger() cmd.Trigger { return cmd.Exact("!music-stop") }

func (c *StopCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	cc, err := command.FromInvocation(inv)
	if err != nil {
		return err
	}
	if cc.Message.GuildID == "" {
		c.Sessions.StopAll()
		return nil
	}
	c.Sessions.Stop(cc.Message.GuildID)
	return nil
}
