package youtube

import (
	"errors"
	"slices"
	"testing"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://www.youtube.com/watch?v=upODO6OuOOk", "upODO6OuOOk"},
		{"https://youtube.com/watch?v=upODO6OuOOk&t=9s", "upODO6OuOOk"},
		{"https://music.youtube.com/watch?v=upODO6OuOOk", "upODO6OuOOk"},
		{"https://youtu.be/upODO6OuOOk?t=3", "upODO6OuOOk"},
		{"https://www.youtube.com/shorts/upODO6OuOOk", "upODO6OuOOk"},
		{"https://www.youtube.com/embed/upODO6OuOOk", "upODO6OuOOk"},
	}
	for _, tt := range tests {
		got, err := ExtractVideoID(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ExtractVideoID(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}

	for _, bad := range []string{"", "https://example.com/watch?v=upODO6OuOOk", "https://www.youtube.com/watch", "https://youtu.be/short"} {
		if _, err := ExtractVideoID(bad); !errors.Is(err, ErrNotVideoURL) {
			t.Errorf("ExtractVideoID(%q) err = %v", bad, err)
		}
	}
}

func TestCleanVideoURL(t *testing.T) {
	tests := map[string]string{
		"https://www.youtube.com/watch?v=abc&list=xyz&index=2": "https://www.youtube.com/watch?v=abc",
		"https://youtu.be/abc?t=10":                            "https://youtu.be/abc",
		"https://example.com/a.mp3?x=1":                        "https://example.com/a.mp3?x=1",
	}
	for in, want := range tests {
		if got := CleanVideoURL(in); got != want {
			t.Errorf("CleanVideoURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParsersFor(t *testing.T) {
	order := []string{"kkdai-link", "ytdlp-link", "ffmpeg-link"}

	got := ParsersFor("https://www.youtube.com/watch?v=upODO6OuOOk", order)
	if !slices.Equal(got, []string{"kkdai-link", "ytdlp-link"}) {
		t.Errorf("youtube parsers = %v", got)
	}
	got = ParsersFor("https://example.com/jingle.mp3", order)
	if !slices.Equal(got, []string{"ytdlp-link", "ffmpeg-link"}) {
		t.Errorf("direct parsers = %v", got)
	}
}
