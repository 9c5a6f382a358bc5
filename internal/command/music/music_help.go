package music

import (
	"context"

	"github.com/keshon/zara-music-bot/internal/command"
	"github.com/keshon/zara-music-bot/pkg/cmd"
)

var helpMessages = []string{
	"曲の登録・更新\n```!music-update youtubeのurl 始まりの時間(s) 動画の長さ(s)\n例）!music-update https://www.youtube.com/watch?v=upODO6OuOOk 9 15```",
	"自分が登録した曲の確認\n```!music-me```",
	"曲を止めたいとき\n```!music-stop```",
}

type HelpCommand struct{}

func (c *HelpCommand) Name() string         { return "music-help" }
func (c *HelpCommand) Description() string  { return "Explain the music commands" }
func (c *HelpCommand) Trigger() cmd.Trigger { return cmd.Exact("!music-help") }

func (c *HelpCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	cc, err := command.FromInvocation(inv)
	if err != nil {
		return err
	}
	for _, msg := range helpMessages {
		if err := cc.Send(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}
