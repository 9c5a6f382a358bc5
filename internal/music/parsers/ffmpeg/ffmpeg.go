// Package ffmpeg feeds a URL straight to ffmpeg. It handles anything ffmpeg
// can read itself: direct media links, radio streams, local files.
package ffmpeg

import (
	"context"
	"io"

	"github.com/keshon/zara-music-bot/internal/music/parsers"
)

type Streamer struct{}

func New() *Streamer { return &Streamer{} }

func (s *Streamer) Open(ctx context.Context, track *parsers.Track) (io.ReadCloser, func(), error) {
	if track.URL == "" {
		return nil, nil, parsers.ErrUnsupported
	}
	return parsers.StartFFmpeg(ctx, parsers.FFmpegArgs(track.URL, track, true), nil)
}
