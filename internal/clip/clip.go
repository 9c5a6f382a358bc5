// Package clip holds the entrance-clip records the bot stores and plays.
package clip

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// UsersCollection is the collection that holds per-user OwnerRecords.
const UsersCollection = "users"

const (
	DefaultStart    float64 = 0
	DefaultDuration float64 = 15
)

var ErrNoURLs = errors.New("clip has no urls")

// ClipSpec is a registered media reference: source URLs plus a trim window in seconds.
type ClipSpec struct {
	URLs     []string `json:"urls"`
	Start    float64  `json:"start"`
	Duration float64  `json:"duration"`
}

// NewClipSpec builds a spec for a single URL, applying the default window.
func NewClipSpec(url string) ClipSpec {
	return ClipSpec{URLs: []string{url}, Start: DefaultStart, Duration: DefaultDuration}
}

// Validate checks the stored-record invariants.
func (c ClipSpec) Validate() error {
	if len(c.URLs) == 0 {
		return ErrNoURLs
	}
	if c.Start < 0 || math.IsNaN(c.Start) || math.IsInf(c.Start, 0) {
		return errors.New("clip start must be a non-negative number")
	}
	if c.Duration <= 0 || math.IsNaN(c.Duration) || math.IsInf(c.Duration, 0) {
		return errors.New("clip duration must be a positive number")
	}
	return nil
}

// Normalized fills missing window values with defaults.
// Records written by older clients may lack start or duration.
func (c ClipSpec) Normalized() ClipSpec {
	if c.Start < 0 || math.IsNaN(c.Start) || math.IsInf(c.Start, 0) {
		c.Start = DefaultStart
	}
	if c.Duration <= 0 || math.IsNaN(c.Duration) || math.IsInf(c.Duration, 0) {
		c.Duration = DefaultDuration
	}
	return c
}

// String renders the clip the way the bot reports it back to users.
func (c ClipSpec) String() string {
	return strings.Join(c.URLs, ",") + " " + FormatNumber(c.Start) + " " + FormatNumber(c.Duration)
}

// OwnerRecord wraps a ClipSpec with the display name of the user who registered it.
// The clip is persisted under "music" to stay compatible with existing documents.
type OwnerRecord struct {
	Name string   `json:"name"`
	Clip ClipSpec `json:"music"`
}

// RoomClip is a clip bound to a (room kind, room id) pair instead of a user.
type RoomClip struct {
	URL string `json:"url"`
}

// Spec converts a room clip into a playable spec.
func (r RoomClip) Spec() ClipSpec {
	return NewClipSpec(r.URL)
}

// ParseNumber converts a command token into a number. Missing tokens, tokens
// that do not parse, NaN, infinities and values rejected by accept all
// produce def.
func ParseNumber(token string, def float64, accept func(float64) bool) float64 {
	token = strings.TrimSpace(token)
	if token == "" {
		return def
	}
	v, err := strconv.ParseFloat(token, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	if accept != nil && !accept(v) {
		return def
	}
	if v == 0 {
		// "-0" parses to negative zero
		return 0
	}
	return v
}

// NonNegative accepts v >= 0.
func NonNegative(v float64) bool { return v >= 0 }

// Positive accepts v > 0.
func Positive(v float64) bool { return v > 0 }

// FormatNumber prints a number without trailing zeros: 15, 9.5.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
