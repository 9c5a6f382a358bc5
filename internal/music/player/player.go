// Package player streams clips into voice connections.
package player

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/keshon/zara-music-bot/internal/clip"
	"github.com/keshon/zara-music-bot/internal/music/parsers"
	"github.com/keshon/zara-music-bot/internal/music/sources/youtube"
	"github.com/keshon/zara-music-bot/internal/music/stream"
	"github.com/keshon/zara-music-bot/internal/voice"

	"github.com/rs/zerolog/log"
)

var ErrNoPlayableURL = errors.New("no playable url in clip")

// Player implements voice.Player on top of the parser chain.
type Player struct {
	registry stream.Registry
	order    []string

	// NewEncoder creates one encoder per playback.
	NewEncoder func() (stream.Encoder, error)
}

var _ voice.Player = (*Player)(nil)

// New creates a player that tries parsers in order.
func New(registry stream.Registry, order []string) *Player {
	return &Player{
		registry:   registry,
		order:      order,
		NewEncoder: stream.NewOpusEncoder,
	}
}

// Play opens the clip's URLs in turn and streams the first one that opens.
// It returns nil once the clip ends or ctx is canceled.
func (p *Player) Play(ctx context.Context, conn voice.Conn, spec clip.ClipSpec) error {
	if len(spec.URLs) == 0 {
		return ErrNoPlayableURL
	}

	var lastErr error
	for _, raw := range spec.URLs {
		track := &parsers.Track{
			URL:      youtube.CleanVideoURL(raw),
			Start:    spec.Start,
			Duration: spec.Duration,
		}

		pcm, cleanup, parser, err := stream.AutoOpen(ctx, p.registry, youtube.ParsersFor(track.URL, p.order), track)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Warn().Str("component", "player").Err(err).Str("url", track.URL).Msg("cannot open clip url")
			lastErr = err
			continue
		}

		log.Debug().Str("component", "player").Str("url", track.URL).Str("parser", parser).Str("title", track.Title).Msg("stream opened")
		err = p.stream(ctx, conn, pcm)
		pcm.Close()
		cleanup()
		return err
	}

	return fmt.Errorf("%w: %w", ErrNoPlayableURL, lastErr)
}

func (p *Player) stream(ctx context.Context, conn voice.Conn, pcm io.Reader) error {
	enc, err := p.NewEncoder()
	if err != nil {
		return err
	}

	if err := conn.Speaking(true); err != nil {
		log.Warn().Str("component", "player").Err(err).Str("guild", conn.GuildID()).Msg("speaking on")
	}
	defer func() {
		if err := conn.Speaking(false); err != nil {
			log.Debug().Str("component", "player").Err(err).Str("guild", conn.GuildID()).Msg("speaking off")
		}
	}()

	err = stream.ToSink(ctx, pcm, enc, conn.OpusSend())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stream to voice: %w", err)
	}
	return nil
}
