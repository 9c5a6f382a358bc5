// Package youtube recognises YouTube links and picks the parsers able to play them.
package youtube

import (
	"slices"

	"github.com/keshon/zara-music-bot/internal/music/parsers"
)

// youtubeOnly lists parsers that cannot open anything but YouTube.
var youtubeOnly = []string{parsers.KkdaiLink}

// ParsersFor filters the configured parser order down to the ones that can
// open url. ffmpeg-link is dropped for YouTube pages since ffmpeg cannot read
// the watch page itself.
func ParsersFor(url string, configured []string) []string {
	yt := IsYouTubeURL(url)
	out := make([]string, 0, len(configured))
	for _, p := range configured {
		if yt && p == parsers.FfmpegLink {
			continue
		}
		if !yt && slices.Contains(youtubeOnly, p) {
			continue
		}
		out = append(out, p)
	}
	return out
}
