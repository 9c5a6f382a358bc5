// Package stream opens PCM streams through the parser chain and feeds them
// to a voice sink as opus packets.
package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/keshon/zara-music-bot/internal/music/parsers"
	"github.com/keshon/zara-music-bot/internal/music/parsers/ffmpeg"
	"github.com/keshon/zara-music-bot/internal/music/parsers/kkdai"
	"github.com/keshon/zara-music-bot/internal/music/parsers/ytdlp"

	"github.com/rs/zerolog/log"
)

var ErrAllParsersFailed = errors.New("all parsers failed")

// Registry maps parser names to streamers.
type Registry map[string]parsers.Streamer

// NewRegistry wires the built-in streamers. youtubeProxy is only used by kkdai.
func NewRegistry(youtubeProxy string) Registry {
	return Registry{
		parsers.KkdaiLink:  kkdai.New(youtubeProxy),
		parsers.YtdlpLink:  ytdlp.New(),
		parsers.FfmpegLink: ffmpeg.New(),
	}
}

// Validate checks that every name in order is registered.
func (r Registry) Validate(order []string) error {
	for _, name := range order {
		if _, ok := r[name]; !ok {
			return fmt.Errorf("unknown parser %q", name)
		}
	}
	return nil
}

// AutoOpen tries each parser in order and returns the first stream that
// opens, plus the name of the parser that produced it.
func AutoOpen(ctx context.Context, reg Registry, order []string, track *parsers.Track) (io.ReadCloser, func(), string, error) {
	var errs []string
	for _, name := range order {
		if err := ctx.Err(); err != nil {
			return nil, nil, "", err
		}

		streamer, ok := reg[name]
		if !ok {
			errs = append(errs, fmt.Sprintf("%s: not registered", name))
			continue
		}

		r, cleanup, err := streamer.Open(ctx, track)
		if err == nil {
			return r, cleanup, name, nil
		}
		errs = append(errs, fmt.Sprintf("%s: %v", name, err))
		log.Debug().Err(err).Str("parser", name).Str("url", track.URL).Msg("parser failed, trying next")
	}

	if len(errs) == 0 {
		return nil, nil, "", fmt.Errorf("%w for %s: no parser can open it", ErrAllParsersFailed, track.URL)
	}
	return nil, nil, "", fmt.Errorf("%w for %s: %s", ErrAllParsersFailed, track.URL, strings.Join(errs, "; "))
}
