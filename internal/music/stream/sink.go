package stream

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/keshon/zara-music-bot/internal/music/parsers"

	"gopkg.in/hraban/opus.v2"
)

// maxPacket is the largest opus packet we accept from the encoder.
const maxPacket = 4000

// Encoder turns one frame of interleaved PCM into an opus packet.
type Encoder interface {
	Encode(pcm []int16, data []byte) (int, error)
}

// NewOpusEncoder returns a libopus encoder for the shared PCM format.
func NewOpusEncoder() (Encoder, error) {
	enc, err := opus.NewEncoder(parsers.SampleRate, parsers.Channels, opus.AppAudio)
	if err != nil {
		return nil, fmt.Errorf("opus encoder: %w", err)
	}
	return enc, nil
}

// ToSink reads 20ms PCM frames from pcm, encodes them and pushes the packets
// into sink. A trailing partial frame is padded with silence. It returns nil
// at end of stream and ctx.Err() when canceled.
func ToSink(ctx context.Context, pcm io.Reader, enc Encoder, sink chan<- []byte) error {
	pcmBuf := make([]byte, parsers.FrameSize*parsers.Channels*2)
	intBuf := make([]int16, parsers.FrameSize*parsers.Channels)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := io.ReadFull(pcm, pcmBuf)
		last := false
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, io.ErrUnexpectedEOF):
			clear(pcmBuf[n:])
			last = true
		case err != nil:
			return fmt.Errorf("read error: %w", err)
		}

		for i := range intBuf {
			intBuf[i] = int16(binary.LittleEndian.Uint16(pcmBuf[i*2 : i*2+2]))
		}

		packet := make([]byte, maxPacket)
		size, err := enc.Encode(intBuf, packet)
		if err != nil {
			return fmt.Errorf("encode error: %w", err)
		}

		select {
		case sink <- packet[:size]:
		case <-ctx.Done():
			return ctx.Err()
		}

		if last {
			return nil
		}
	}
}
