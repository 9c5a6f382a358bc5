package clip

import (
	"math"
	"testing"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		def    float64
		accept func(float64) bool
		want   float64
	}{
		{"empty", "", 15, Positive, 15},
		{"integer", "9", 0, NonNegative, 9},
		{"fraction", "2.5", 0, NonNegative, 2.5},
		{"exponent", "1e1", 0, NonNegative, 10},
		{"words", "abc", 15, Positive, 15},
		{"nan", "NaN", 0, nil, 0},
		{"infinity", "Inf", 15, nil, 15},
		{"negative start", "-3", 0, NonNegative, 0},
		{"zero duration", "0", 15, Positive, 15},
		{"zero start", "0", 7, NonNegative, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseNumber(tt.token, tt.def, tt.accept); got != tt.want {
				t.Errorf("ParseNumber(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestClipSpecValidate(t *testing.T) {
	if err := NewClipSpec("https://www.youtube.com/watch?v=abc").Validate(); err != nil {
		t.Fatalf("default spec should be valid: %v", err)
	}
	if err := (ClipSpec{Duration: 15}).Validate(); err != ErrNoURLs {
		t.Errorf("expected ErrNoURLs, got %v", err)
	}
	if err := (ClipSpec{URLs: []string{"u"}, Start: -1, Duration: 1}).Validate(); err == nil {
		t.Error("expected error for negative start")
	}
	if err := (ClipSpec{URLs: []string{"u"}, Duration: math.NaN()}).Validate(); err == nil {
		t.Error("expected error for NaN duration")
	}
}

func TestClipSpecNormalizedAndString(t *testing.T) {
	c := ClipSpec{URLs: []string{"a", "b"}, Start: 9.5}.Normalized()
	if c.Duration != DefaultDuration {
		t.Fatalf("duration = %v, want default", c.Duration)
	}
	if got, want := c.String(), "a,b 9.5 15"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestRoomClipSpec(t *testing.T) {
	spec := RoomClip{URL: "http://example.com/a.mp3"}.Spec()
	if len(spec.URLs) != 1 || spec.URLs[0] != "http://example.com/a.mp3" {
		t.Fatalf("unexpected urls %v", spec.URLs)
	}
	if spec.Start != 0 || spec.Duration != 15 {
		t.Errorf("unexpected window %v/%v", spec.Start, spec.Duration)
	}
}

func TestParseNumberNegativeZero(t *testing.T) {
	v := ParseNumber("-0", DefaultStart, NonNegative)
	if math.Signbit(v) {
		t.Fatalf("ParseNumber(-0) kept the sign bit")
	}
	spec := ClipSpec{URLs: []string{"https://www.youtube.com/watch?v=x"}, Start: v, Duration: 15}
	if got := spec.String(); got != "https://www.youtube.com/watch?v=x 0 15" {
		t.Errorf("String() = %q", got)
	}
}
