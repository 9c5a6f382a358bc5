package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/keshon/zara-music-bot/internal/metrics"
	"github.com/keshon/zara-music-bot/pkg/cmd"
	"github.com/keshon/zara-music-bot/pkg/ratelimit"

	"github.com/rs/zerolog/log"
)

var errPanic = errors.New("handler panicked")

// WithRecover turns a panicking handler into a failed dispatch.
func WithRecover() cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%w: %v", errPanic, r)
				}
			}()
			return c.Run(ctx, inv)
		})
	}
}

// WithLogging logs every dispatch with its outcome and counts it.
func WithLogging() cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			start := time.Now()
			err := c.Run(ctx, inv)
			out := Classify(c.Name(), err)

			ev := log.Info()
			switch out.Status {
			case StatusRejected:
				ev = log.Debug().Str("reason", out.Reason)
			case StatusFailed:
				ev = log.Error().Err(out.Err)
			}
			if cc, cerr := FromInvocation(inv); cerr == nil {
				ev = ev.Str("guild", cc.Message.GuildID).
					Str("channel", cc.Message.ChannelID).
					Str("user", cc.Message.AuthorID)
			}
			ev.Str("command", c.Name()).
				Str("status", string(out.Status)).
				Dur("took", time.Since(start)).
				Msg("command dispatched")

			metrics.CommandDispatched(c.Name(), string(out.Status))
			return err
		})
	}
}

// WithGuildOnly rejects messages sent outside a guild.
func WithGuildOnly() cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			cc, err := FromInvocation(inv)
			if err != nil {
				return err
			}
			if cc.Message.GuildID == "" {
				return cmd.Reject("only available inside a server")
			}
			return c.Run(ctx, inv)
		})
	}
}

// WithRateLimit rejects a caller who sends commands faster than lim allows.
// Callers without an identity are limited per channel.
func WithRateLimit(lim *ratelimit.Keyed) cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		if lim == nil {
			return c
		}
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			cc, err := FromInvocation(inv)
			if err != nil {
				return err
			}
			key := "user:" + cc.Message.AuthorID
			if cc.Message.AuthorID == "" {
				key = "channel:" + cc.Message.ChannelID
			}
			if !lim.Allow(key) {
				return cmd.Reject("slow down")
			}
			return c.Run(ctx, inv)
		})
	}
}
