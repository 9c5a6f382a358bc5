package player

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/keshon/zara-music-bot/internal/clip"
	"github.com/keshon/zara-music-bot/internal/music/parsers"
	"github.com/keshon/zara-music-bot/internal/music/stream"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type fakeConn struct {
	mu       sync.Mutex
	speaking []bool
	send     chan []byte
}

func (c *fakeConn) GuildID() string   { return "g1" }
func (c *fakeConn) ChannelID() string { return "c1" }
func (c *fakeConn) Speaking(on bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.speaking = append(c.speaking, on)
	return nil
}
func (c *fakeConn) OpusSend() chan<- []byte { return c.send }

type recordingStreamer struct {
	fail   map[string]bool
	opened []parsers.Track
	pcm    []byte
}

func (s *recordingStreamer) Open(_ context.Context, track *parsers.Track) (io.ReadCloser, func(), error) {
	s.opened = append(s.opened, *track)
	if s.fail[track.URL] {
		return nil, nil, errors.New("unavailable")
	}
	return io.NopCloser(bytes.NewReader(s.pcm)), func() {}, nil
}

type countingEncoder struct{ n int }

func (e *countingEncoder) Encode(pcm []int16, data []byte) (int, error) {
	e.n++
	data[0] = 1
	return 1, nil
}

func newTestPlayer(s *recordingStreamer, enc *countingEncoder) *Player {
	p := New(stream.Registry{parsers.FfmpegLink: s, parsers.KkdaiLink: s}, []string{parsers.KkdaiLink, parsers.FfmpegLink})
	p.NewEncoder = func() (stream.Encoder, error) { return enc, nil }
	return p
}

func TestPlayFallsBackToNextURL(t *testing.T) {
	frame := make([]byte, parsers.FrameSize*parsers.Channels*2)
	s := &recordingStreamer{
		fail: map[string]bool{"https://example.com/broken.mp3": true},
		pcm:  append(frame, frame...),
	}
	enc := &countingEncoder{}
	conn := &fakeConn{send: make(chan []byte, 4)}

	spec := clip.ClipSpec{
		URLs:     []string{"https://example.com/broken.mp3", "https://example.com/ok.mp3"},
		Start:    9,
		Duration: 15,
	}
	if err := newTestPlayer(s, enc).Play(context.Background(), conn, spec); err != nil {
		t.Fatal(err)
	}

	if len(s.opened) != 2 || s.opened[1].URL != "https://example.com/ok.mp3" {
		t.Fatalf("opened = %+v", s.opened)
	}
	if s.opened[1].Start != 9 || s.opened[1].Duration != 15 {
		t.Errorf("window not passed through: %+v", s.opened[1])
	}
	if enc.n != 2 || len(conn.send) != 2 {
		t.Errorf("encoded %d frames, sent %d", enc.n, len(conn.send))
	}
	if len(conn.speaking) != 2 || !conn.speaking[0] || conn.speaking[1] {
		t.Errorf("speaking = %v, want [true false]", conn.speaking)
	}
}

func TestPlayCleansYouTubeURL(t *testing.T) {
	s := &recordingStreamer{}
	conn := &fakeConn{send: make(chan []byte, 1)}
	spec := clip.NewClipSpec("https://www.youtube.com/watch?v=upODO6OuOOk&list=abc")

	if err := newTestPlayer(s, &countingEncoder{}).Play(context.Background(), conn, spec); err != nil {
		t.Fatal(err)
	}
	if len(s.opened) != 1 || s.opened[0].URL != "https://www.youtube.com/watch?v=upODO6OuOOk" {
		t.Errorf("opened = %+v", s.opened)
	}
}

func TestPlayReportsUnplayableClip(t *testing.T) {
	s := &recordingStreamer{fail: map[string]bool{"https://example.com/a.mp3": true}}
	err := newTestPlayer(s, &countingEncoder{}).Play(context.Background(), &fakeConn{}, clip.NewClipSpec("https://example.com/a.mp3"))
	if !errors.Is(err, ErrNoPlayableURL) || !errors.Is(err, stream.ErrAllParsersFailed) {
		t.Errorf("err = %v", err)
	}
}

func TestPlayCanceledIsNotAnError(t *testing.T) {
	s := &recordingStreamer{pcm: make([]byte, parsers.FrameSize*parsers.Channels*2*10)}
	conn := &fakeConn{send: make(chan []byte)} // never drained
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- newTestPlayer(s, &countingEncoder{}).Play(ctx, conn, clip.NewClipSpec("https://example.com/a.mp3"))
	}()
	cancel()

	if err := <-done; err != nil {
		t.Errorf("err = %v, want nil", err)
	}
}

func TestPlayLogsWithComponentField(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	s := &recordingStreamer{fail: map[string]bool{"https://example.com/a.mp3": true}}
	newTestPlayer(s, &countingEncoder{}).Play(context.Background(), &fakeConn{}, clip.NewClipSpec("https://example.com/a.mp3"))

	out := buf.String()
	if !strings.Contains(out, `"component":"player"`) || !strings.Contains(out, `"message":"cannot open clip url"`) {
		t.Errorf("log output = %s", out)
	}
	if strings.Contains(out, "[Player]") {
		t.Errorf("message carries a bracket tag: %s", out)
	}
}
