package ytdlp

import "testing"

func TestParseInfo(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		link    string
		wantErr bool
	}{
		{"root url", `{"title":"jingle","url":" https://cdn/a.webm "}`, "https://cdn/a.webm", false},
		{"format fallback", `{"formats":[{"url":"https://cdn/b.m4a"}]}`, "https://cdn/b.m4a", false},
		{"no url", `{"title":"x"}`, "", true},
		{"garbage", `not json`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link, _, err := parseInfo([]byte(tt.in))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v", err)
			}
			if link != tt.link {
				t.Errorf("link = %q, want %q", link, tt.link)
			}
		})
	}
}
