// Package ytdlp resolves a media URL with yt-dlp and decodes it with ffmpeg.
package ytdlp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/keshon/zara-music-bot/internal/music/parsers"
)

type Streamer struct {
	// Binary defaults to "yt-dlp" on PATH.
	Binary string
}

func New() *Streamer { return &Streamer{Binary: "yt-dlp"} }

func (s *Streamer) Open(ctx context.Context, track *parsers.Track) (io.ReadCloser, func(), error) {
	bin := s.Binary
	if bin == "" {
		bin = "yt-dlp"
	}

	output, err := exec.CommandContext(ctx, bin, "-j", "-f", "bestaudio", "--no-playlist", track.URL).Output()
	if err != nil {
		return nil, nil, fmt.Errorf("yt-dlp get-url error: %w", err)
	}

	link, title, err := parseInfo(output)
	if err != nil {
		return nil, nil, err
	}
	if track.Title == "" {
		track.Title = title
	}

	return parsers.StartFFmpeg(ctx, parsers.FFmpegArgs(link, track, true), nil)
}

type info struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Formats []struct {
		URL string `json:"url"`
	} `json:"formats"`
}

// parseInfo pulls the direct media URL out of yt-dlp's -j output.
func parseInfo(output []byte) (link, title string, err error) {
	var i info
	if err := json.Unmarshal(output, &i); err != nil {
		return "", "", fmt.Errorf("json unmarshal error: %w", err)
	}

	link = strings.TrimSpace(i.URL)
	if link == "" && len(i.Formats) > 0 {
		link = strings.TrimSpace(i.Formats[0].URL)
	}
	if link == "" {
		return "", "", errors.New("empty URL returned from yt-dlp")
	}
	return link, i.Title, nil
}
