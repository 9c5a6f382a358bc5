// Package parsers turns a source URL into a raw PCM stream.
package parsers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
)

// PCM output format shared by every streamer.
const (
	Channels   = 2
	SampleRate = 48000
	FrameSize  = 960 // 20ms at 48kHz
)

// Parser names as used in PLAYBACK_PARSERS.
const (
	KkdaiLink  = "kkdai-link"
	YtdlpLink  = "ytdlp-link"
	FfmpegLink = "ffmpeg-link"
)

var ErrUnsupported = errors.New("url not supported by parser")

// Track is what a streamer is asked to open. Start and Duration are seconds;
// a zero Duration streams to the end.
type Track struct {
	URL      string
	Title    string
	Start    float64
	Duration float64
}

// Streamer opens a s16le 48kHz stereo stream for a track. The returned
// cleanup must be called once the caller is done reading.
type Streamer interface {
	Open(ctx context.Context, track *Track) (io.ReadCloser, func(), error)
}

// FFmpegArgs builds the ffmpeg command line that decodes input into the
// shared PCM format, trimmed to the track window.
func FFmpegArgs(input string, track *Track, remote bool) []string {
	var args []string
	if track.Start > 0 {
		args = append(args, "-ss", strconv.FormatFloat(track.Start, 'f', 3, 64))
	}
	if remote {
		args = append(args,
			"-reconnect", "1",
			"-reconnect_streamed", "1",
			"-reconnect_delay_max", "5",
		)
	}
	args = append(args, "-i", input)
	if track.Duration > 0 {
		args = append(args, "-t", strconv.FormatFloat(track.Duration, 'f', 3, 64))
	}
	return append(args,
		"-vn",
		"-f", "s16le",
		"-ar", strconv.Itoa(SampleRate),
		"-ac", strconv.Itoa(Channels),
		"-loglevel", "warning",
		"pipe:1",
	)
}

// StartFFmpeg runs ffmpeg with args. stdin may be nil.
func StartFFmpeg(ctx context.Context, args []string, stdin io.Reader) (io.ReadCloser, func(), error) {
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	cmd.Stdin = stdin

	reader, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("ffmpeg stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, nil, fmt.Errorf("ffmpeg start: %w", err)
	}

	cleanup := func() {
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
		_ = cmd.Wait()
	}
	return reader, cleanup, nil
}
