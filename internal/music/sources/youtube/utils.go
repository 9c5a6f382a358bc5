package youtube

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	youtubeRegex = regexp.MustCompile(`(?:https?:\/\/)?(?:www\.|music\.|m\.)?(youtube\.com|youtu\.be)\/\S+`)
	videoIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

	ErrNotVideoURL = errors.New("not a youtube video url")
)

// IsYouTubeURL reports whether input points at youtube.com or youtu.be.
func IsYouTubeURL(input string) bool {
	return youtubeRegex.MatchString(input)
}

// ExtractVideoID returns the 11-character id of a watch, short, shorts or
// embed URL.
func ExtractVideoID(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotVideoURL, err)
	}

	var id string
	switch strings.TrimPrefix(u.Hostname(), "www.") {
	case "youtu.be":
		id = strings.Trim(u.Path, "/")
	case "youtube.com", "m.youtube.com", "music.youtube.com":
		switch {
		case u.Path == "/watch":
			id = u.Query().Get("v")
		case strings.HasPrefix(u.Path, "/shorts/"):
			id = strings.TrimPrefix(u.Path, "/shorts/")
		case strings.HasPrefix(u.Path, "/embed/"):
			id = strings.TrimPrefix(u.Path, "/embed/")
		}
	}

	id = strings.Trim(id, "/")
	if !videoIDRegex.MatchString(id) {
		return "", ErrNotVideoURL
	}
	return id, nil
}

// CleanVideoURL drops everything except the video id from a video URL.
// Anything that is not a recognisable video URL comes back untouched.
func CleanVideoURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	host := u.Hostname()
	switch host {
	case "youtu.be":
		vid := strings.Trim(u.Path, "/")
		if vid == "" {
			return raw
		}
		return fmt.Sprintf("https://youtu.be/%s", vid)

	case "www.youtube.com", "youtube.com", "m.youtube.com", "music.youtube.com":
		if u.Path == "/watch" {
			if vid := u.Query().Get("v"); vid != "" {
				return fmt.Sprintf("https://%s/watch?v=%s", host, vid)
			}
		}
	}
	return raw
}
