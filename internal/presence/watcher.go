// Package presence reacts to members moving between voice channels.
package presence

import (
	"context"
	"fmt"

	"github.com/keshon/zara-music-bot/internal/clip"
	"github.com/keshon/zara-music-bot/internal/metrics"
	"github.com/keshon/zara-music-bot/internal/voice"
	"github.com/keshon/zara-music-bot/pkg/jobmgr"

	"github.com/rs/zerolog/log"
)

// Transition is one member's voice channel change. An empty channel means
// "not in voice".
type Transition struct {
	GuildID    string
	MemberID   string
	MemberName string
	Before     string
	After      string
}

// Decision is what Handle did with a transition.
type Decision string

const (
	IgnoredSelf        Decision = "ignored-self"
	IgnoredSameChannel Decision = "ignored-same-channel"
	IgnoredAnonymous   Decision = "ignored-anonymous"
	Left               Decision = "left"
	NoRecord           Decision = "no-record"
	Played             Decision = "played"
	Failed             Decision = "failed"
)

type Owners interface {
	Owner(ctx context.Context, userID string) (*clip.OwnerRecord, error)
}

type Sessions interface {
	Connect(ctx context.Context, guildID, channelID string) (voice.Conn, error)
	Play(conn voice.Conn, spec clip.ClipSpec) error
}

// Watcher plays a member's entrance clip when they join a voice channel.
type Watcher struct {
	owners       Owners
	sessions     Sessions
	reservedName string
	jobs         *jobmgr.Manager
}

func NewWatcher(owners Owners, sessions Sessions, reservedName string) *Watcher {
	return &Watcher{
		owners:       owners,
		sessions:     sessions,
		reservedName: reservedName,
		jobs:         jobmgr.NewManager(reportTask),
	}
}

// Handle runs the transition to completion.
func (w *Watcher) Handle(ctx context.Context, t Transition) (Decision, error) {
	switch {
	case t.MemberName != "" && t.MemberName == w.reservedName:
		return IgnoredSelf, nil
	case t.Before == t.After:
		return IgnoredSameChannel, nil
	case t.After == "":
		log.Info().Str("guild", t.GuildID).Str("user", t.MemberID).Str("name", t.MemberName).Msg("left voice channel")
		return Left, nil
	case t.MemberName == "":
		// joins without a resolvable member name are skipped
		return IgnoredAnonymous, nil
	}

	rec, err := w.owners.Owner(ctx, t.MemberID)
	if err != nil {
		return Failed, err
	}
	if rec == nil {
		return NoRecord, nil
	}

	conn, err := w.sessions.Connect(ctx, t.GuildID, t.After)
	if err != nil {
		return Failed, err
	}
	if err := w.sessions.Play(conn, rec.Clip); err != nil {
		return Failed, fmt.Errorf("play entrance clip for %s: %w", t.MemberID, err)
	}
	log.Info().Str("guild", t.GuildID).Str("channel", t.After).Str("user", t.MemberID).Msg("entrance clip queued")
	return Played, nil
}

// Submit handles t on its own goroutine so the gateway is never blocked.
// Errors and panics are logged by the task reporter.
func (w *Watcher) Submit(t Transition) {
	w.jobs.Go("presence:"+t.GuildID+":"+t.MemberID, func(ctx context.Context) error {
		d, err := w.Handle(ctx, t)
		metrics.PresenceDecision(string(d))
		return err
	})
}

// Wait blocks until every submitted transition has been handled.
func (w *Watcher) Wait() { w.jobs.Wait() }

// Close cancels in-flight transitions and waits for them.
func (w *Watcher) Close() { w.jobs.Shutdown() }

func reportTask(e jobmgr.Event) {
	switch e.State {
	case jobmgr.StateError:
		log.Error().Err(e.Err).Str("task", e.Name).Msg("presence transition failed")
	case jobmgr.StateCanceled:
		log.Debug().Str("task", e.Name).Msg("presence transition canceled")
	}
}
