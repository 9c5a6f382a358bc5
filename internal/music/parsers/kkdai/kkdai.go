// Package kkdai resolves YouTube audio through github.com/kkdai/youtube and
// decodes it with ffmpeg.
package kkdai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/keshon/zara-music-bot/internal/music/parsers"
	ytsource "github.com/keshon/zara-music-bot/internal/music/sources/youtube"

	_ "github.com/bdandy/go-socks4"
	youtube "github.com/kkdai/youtube/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/proxy"
)

type Streamer struct {
	client *youtube.Client
}

// New returns a streamer whose client goes through proxyStr when set.
func New(proxyStr string) *Streamer {
	client, _ := NewClient(proxyStr)
	return &Streamer{client: client}
}

func (s *Streamer) Open(ctx context.Context, track *parsers.Track) (io.ReadCloser, func(), error) {
	videoID, err := ytsource.ExtractVideoID(track.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", parsers.ErrUnsupported, err)
	}

	video, err := s.client.GetVideoContext(ctx, videoID)
	if err != nil {
		return nil, nil, fmt.Errorf("youtube client error: %w", err)
	}
	if track.Title == "" {
		track.Title = video.Title
	}

	formats := video.Formats.WithAudioChannels()
	if len(formats) == 0 {
		return nil, nil, errors.New("no audio formats found for video")
	}

	link, err := s.client.GetStreamURLContext(ctx, video, &formats[0])
	if err != nil {
		return nil, nil, fmt.Errorf("get stream URL error: %w", err)
	}

	return parsers.StartFFmpeg(ctx, parsers.FFmpegArgs(link, track, true), nil)
}

// NewClient builds a kkdai client. Supported proxy schemes are http, https,
// socks5 and socks4; anything unusable falls back to a direct client. The
// second result is the proxy actually in use.
func NewClient(proxyStr string) (*youtube.Client, string) {
	direct := &youtube.Client{HTTPClient: &http.Client{Timeout: 15 * time.Second}}
	if proxyStr == "" {
		return direct, ""
	}

	proxyURL, err := url.Parse(proxyStr)
	if err != nil {
		log.Warn().Str("component", "kkdai").Err(err).Msg("invalid proxy format, going direct")
		return direct, ""
	}

	transport, err := proxyTransport(proxyURL)
	if err != nil {
		log.Warn().Str("component", "kkdai").Err(err).Str("scheme", proxyURL.Scheme).Msg("proxy unusable, going direct")
		return direct, ""
	}

	log.Info().Str("component", "kkdai").Str("scheme", proxyURL.Scheme).Str("host", proxyURL.Host).Msg("using proxy")
	return &youtube.Client{
		HTTPClient: &http.Client{
			Timeout:   15 * time.Second,
			Transport: transport,
		},
	}, proxyStr
}

func proxyTransport(proxyURL *url.URL) (*http.Transport, error) {
	switch proxyURL.Scheme {
	case "http", "https":
		return &http.Transport{Proxy: http.ProxyURL(proxyURL)}, nil

	case "socks5":
		var auth *proxy.Auth
		if proxyURL.User != nil {
			auth = &proxy.Auth{User: proxyURL.User.Username()}
			auth.Password, _ = proxyURL.User.Password()
		}
		dialer, err := proxy.SOCKS5("tcp", proxyURL.Host, auth, &net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 10 * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("socks5 dialer: %w", err)
		}
		return &http.Transport{DialContext: dialContext(dialer)}, nil

	case "socks4":
		// go-socks4 registers the scheme with proxy.FromURL on import.
		dialer, err := proxy.FromURL(proxyURL, &net.Dialer{Timeout: 10 * time.Second})
		if err != nil {
			return nil, fmt.Errorf("socks4 dialer: %w", err)
		}
		return &http.Transport{DialContext: dialContext(dialer)}, nil
	}
	return nil, fmt.Errorf("unsupported proxy scheme %q", proxyURL.Scheme)
}

func dialContext(d proxy.Dialer) func(ctx context.Context, network, addr string) (net.Conn, error) {
	if cd, ok := d.(proxy.ContextDialer); ok {
		return cd.DialContext
	}
	return func(_ context.Context, network, addr string) (net.Conn, error) {
		return d.Dial(network, addr)
	}
}
