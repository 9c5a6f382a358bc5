// Package voice tracks voice connections and the audio sink each one feeds.
package voice

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/keshon/zara-music-bot/internal/clip"
	"github.com/keshon/zara-music-bot/internal/metrics"
	"github.com/keshon/zara-music-bot/pkg/jobmgr"

	"github.com/rs/zerolog/log"
)

var ErrNoConnection = errors.New("no voice connection")

// Conn is a live voice-channel session.
type Conn interface {
	GuildID() string
	ChannelID() string
	Speaking(on bool) error
	OpusSend() chan<- []byte
}

// Transport joins voice channels and knows which ones are live.
type Transport interface {
	Join(ctx context.Context, guildID, channelID string) (Conn, error)
	Connection(guildID string) (Conn, bool)
}

// Player streams a clip into a connection until it ends or ctx is done.
type Player interface {
	Play(ctx context.Context, conn Conn, spec clip.ClipSpec) error
}

// Mode decides how guilds map onto sinks.
type Mode string

const (
	// ModePerGuild gives every guild its own sink.
	ModePerGuild Mode = "per-guild"
	// ModeShared routes every guild through one process-wide sink, so the
	// most recent Play anywhere silences the previous one.
	ModeShared Mode = "shared"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModePerGuild, ModeShared:
		return Mode(s), nil
	case "":
		return ModePerGuild, nil
	}
	return "", fmt.Errorf("unknown sink mode %q", s)
}

const sharedSink = "shared"

// Manager owns the current connection per sink and the playback job running
// on it. It is safe for concurrent use; racing calls resolve last-write-wins.
type Manager struct {
	transport Transport
	player    Player
	mode      Mode
	jobs      *jobmgr.Manager

	mu    sync.Mutex
	conns map[string]Conn
}

func NewManager(transport Transport, player Player, mode Mode) *Manager {
	if mode == "" {
		mode = ModePerGuild
	}
	return &Manager{
		transport: transport,
		player:    player,
		mode:      mode,
		jobs:      jobmgr.NewManager(reportPlayback),
		conns:     make(map[string]Conn),
	}
}

func (m *Manager) Mode() Mode { return m.mode }

func (m *Manager) sinkKey(guildID string) string {
	if m.mode == ModeShared {
		return sharedSink
	}
	return guildID
}

func jobKey(sink string) string { return "sink:" + sink }

// Connect joins channelID and makes the connection current for the guild's
// sink. A previous connection is left to the transport.
func (m *Manager) Connect(ctx context.Context, guildID, channelID string) (Conn, error) {
	conn, err := m.transport.Join(ctx, guildID, channelID)
	if err != nil {
		return nil, fmt.Errorf("join voice %s/%s: %w", guildID, channelID, err)
	}

	m.mu.Lock()
	m.conns[m.sinkKey(guildID)] = conn
	m.mu.Unlock()

	log.Debug().Str("guild", guildID).Str("channel", channelID).Msg("voice connected")
	return conn, nil
}

// HasExistingConnection asks the transport whether the guild has a live connection.
func (m *Manager) HasExistingConnection(guildID string) bool {
	_, ok := m.transport.Connection(guildID)
	return ok
}

// Current returns the connection last made current for the guild's sink.
func (m *Manager) Current(guildID string) (Conn, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	conn, ok := m.conns[m.sinkKey(guildID)]
	return conn, ok
}

// Stop silences the sink serving guildID. Safe to call when nothing plays.
func (m *Manager) Stop(guildID string) {
	if !m.jobs.Stop(jobKey(m.sinkKey(guildID))) {
		return
	}
	ev := log.Debug().Str("guild", guildID)
	if conn, ok := m.Current(guildID); ok {
		ev = ev.Str("channel", conn.ChannelID())
	}
	ev.Msg("playback stopped")
}

// Play stops whatever the connection's sink is playing and starts spec on it.
// It returns once the clip has been handed to a playback job.
func (m *Manager) Play(conn Conn, spec clip.ClipSpec) error {
	if conn == nil {
		return ErrNoConnection
	}
	if err := spec.Validate(); err != nil {
		return fmt.Errorf("play: %w", err)
	}

	guildID := conn.GuildID()
	m.jobs.Replace(jobKey(m.sinkKey(guildID)), func(ctx context.Context) error {
		metrics.PlaybackStarted()
		log.Info().Str("guild", guildID).Str("channel", conn.ChannelID()).Strs("urls", spec.URLs).Msg("playback started")

		err := m.player.Play(ctx, conn, spec)
		if err == nil && ctx.Err() != nil {
			err = ctx.Err()
		}
		metrics.PlaybackFinished(err != nil && !errors.Is(err, context.Canceled))
		return err
	})
	return nil
}

// StopAll silences every sink.
func (m *Manager) StopAll() {
	log.Debug().Str("jobs", m.jobs.Status()).Msg("stopping all playback")
	for _, key := range m.jobs.List() {
		m.jobs.Stop(key)
	}
}

// Close stops all playback and waits for it to wind down.
func (m *Manager) Close() {
	m.jobs.Shutdown()
}

func reportPlayback(e jobmgr.Event) {
	switch e.State {
	case jobmgr.StateError:
		log.Error().Err(e.Err).Str("job", e.Name).Msg("playback failed")
	case jobmgr.StateCanceled:
		log.Debug().Str("job", e.Name).Msg("playback interrupted")
	case jobmgr.StateDone:
		log.Debug().Str("job", e.Name).Msg("playback finished")
	}
}
