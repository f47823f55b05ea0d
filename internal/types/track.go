package types

import "fmt"

// Track is one playable item offered to a discovery session. Identity is the
// ID alone: the deck and the UI diff by ID, display metadata is free to vary
// between pages of the same feed.
type Track struct {
	ID           string   `json:"id" yaml:"id" dynamodbav:"id"`
	Title        string   `json:"title" yaml:"title" dynamodbav:"title"`
	Artists      []string `json:"artists,omitempty" yaml:"artists" dynamodbav:"artists"`
	ThumbnailURL string   `json:"thumbnail_url,omitempty" yaml:"thumbnail_url" dynamodbav:"thumbnail_url"`
	DurationSec  int      `json:"duration_sec,omitempty" yaml:"duration_sec" dynamodbav:"duration_sec"`
}

// Cursor is the opaque continuation token of a paged source. Callers never
// construct or inspect one; the empty string means "no further pages".
type Cursor string

// Page is one fetch result: the tracks of the page in feed order plus the
// continuation token for the page after it, if any.
type Page struct {
	Tracks       []Track `json:"tracks"`
	Continuation Cursor  `json:"continuation,omitempty"`
}

// Seed identifies what a discovery session is spun from. At most one field
// should be set; which kinds a source understands is up to the source.
type Seed struct {
	PlaylistID string `json:"playlist_id,omitempty" yaml:"playlist_id"`
	VideoID    string `json:"video_id,omitempty" yaml:"video_id"`
	Station    string `json:"station,omitempty" yaml:"station"`
}

// IsZero reports whether no seed field is set.
func (s Seed) IsZero() bool {
	return s.PlaylistID == "" && s.VideoID == "" && s.Station == ""
}

// Key returns a stable identifier for the seed, usable in cache keys and logs.
func (s Seed) Key() string {
	switch {
	case s.PlaylistID != "":
		return fmt.Sprintf("playlist:%s", s.PlaylistID)
	case s.VideoID != "":
		return fmt.Sprintf("video:%s", s.VideoID)
	case s.Station != "":
		return fmt.Sprintf("station:%s", s.Station)
	}
	return "none"
}

// Polarity is the verdict a consumer reports for a track it was shown.
type Polarity int

const (
	PolarityPositive Polarity = iota + 1
	PolarityNegative
)

var PolarityTextMap = map[Polarity]string{
	PolarityPositive: "positive",
	PolarityNegative: "negative",
}

// ParsePolarity maps the wire form back to a Polarity. Unknown input yields
// the zero Polarity.
func ParsePolarity(s string) Polarity {
	for p, text := range PolarityTextMap {
		if s == text {
			return p
		}
	}
	return 0
}

// FeedbackEvent is the fan-out record of one verdict, as consumed by
// downstream taste-model subscribers.
type FeedbackEvent struct {
	TrackID string `json:"track_id"`
	Verdict string `json:"verdict"`
	At      int64  `json:"at"`
}
