package command

import (
	"context"
	"fmt"

	"github.com/keshon/zara-music-bot/pkg/cmd"

	"github.com/rs/zerolog/log"
)

// Status tags the result of a dispatch.
type Status string

const (
	StatusOK       Status = "ok"
	StatusRejected Status = "rejected"
	StatusFailed   Status = "failed"
	StatusNoMatch  Status = "no-match"
)

// Outcome is what Dispatch reports for one message.
type Outcome struct {
	Command string
	Status  Status
	Reason  string
	Err     error
}

// Classify maps a handler's return value onto an Outcome.
func Classify(name string, err error) Outcome {
	if err == nil {
		return Outcome{Command: name, Status: StatusOK}
	}
	if reason, ok := cmd.AsRejection(err); ok {
		return Outcome{Command: name, Status: StatusRejected, Reason: reason}
	}
	return Outcome{Command: name, Status: StatusFailed, Err: err}
}

type Options struct {
	// ReportRejections answers rejected commands with a one-line diagnostic
	// instead of staying silent.
	ReportRejections bool
}

// Router matches a message against its commands in registration order and
// runs the first match only.
type Router struct {
	registry  *cmd.Registry
	responder Responder
	opts      Options
}

// NewRouter registers commands in priority order. Every command is wrapped
// with panic recovery and dispatch logging.
func NewRouter(responder Responder, opts Options, commands ...cmd.Command) *Router {
	reg := cmd.NewRegistry()
	for _, c := range commands {
		reg.Register(cmd.Apply(c, WithRecover(), WithLogging()))
	}
	return &Router{registry: reg, responder: responder, opts: opts}
}

// Commands lists the registered commands in priority order, without their
// middleware.
func (r *Router) Commands() []cmd.Command {
	all := r.registry.GetAll()
	out := make([]cmd.Command, len(all))
	for i, c := range all {
		out[i] = cmd.Root(c)
	}
	return out
}

// Dispatch runs the handler for msg, if any. It never panics and never
// returns an error: failures are reported in the Outcome and logged.
func (r *Router) Dispatch(ctx context.Context, msg *Message) Outcome {
	c := r.registry.Match(msg.Content)
	if c == nil {
		return Outcome{Status: StatusNoMatch}
	}

	cctx := &Context{Message: msg, Responder: r.responder}
	out := Classify(c.Name(), c.Run(ctx, cmd.NewInvocation(msg.Content, cctx)))

	if out.Status == StatusRejected && r.opts.ReportRejections {
		if err := cctx.Reply(ctx, fmt.Sprintf("⚠️ %s: %s", c.Name(), out.Reason)); err != nil {
			log.Warn().Err(err).Str("command", c.Name()).Msg("failed to report rejection")
		}
	}
	return out
}
