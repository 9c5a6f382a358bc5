// Package chat holds the small talk commands.
package chat

import (
	"context"

	"github.com/keshon/zara-music-bot/internal/command"
	"github.com/keshon/zara-music-bot/pkg/cmd"
)

const (
	DefaultGreetingTrigger = "こんにちは"
	DefaultGreetingReply   = "オイッスー！"
)

type HelloCommand struct{}

func (c *HelloCommand) Name() string         { return "hello" }
func (c *HelloCommand) Description() string  { return "Say hi back" }
func (c *HelloCommand) Trigger() cmd.Trigger { return cmd.Exact("Hello") }

func (c *HelloCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	cc, err := command.FromInvocation(inv)
	if err != nil {
		return err
	}
	return cc.Reply(ctx, "Hi")
}

// GreetCommand answers the localized greeting.
type GreetCommand struct {
	Greeting string
	Reply    string
}

func NewGreetCommand(greeting, reply string) *GreetCommand {
	if greeting == "" {
		greeting = DefaultGreetingTrigger
	}
	if reply == "" {
		reply = DefaultGreetingReply
	}
	return &GreetCommand{Greeting: greeting, Reply: reply}
}

func (c *GreetCommand) Name() string         { return "greet" }
func (c *GreetCommand) Description() string  { return "Answer the localized greeting" }
func (c *GreetCommand) Trigger() cmd.Trigger { return cmd.Exact(c.Greeting) }

func (c *GreetCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	cc, err := command.FromInvocation(inv)
	if err != nil {
		return err
	}
	return cc.Send(ctx, c.Reply)
}
