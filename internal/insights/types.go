package insights

import "errors"

// ErrNoData is returned by Aggregate when the listener has no recorded
// events. It is a recognized terminal state, not a failure.
var ErrNoData = errors.New("no listening data")

// PlayEvent is one play of a song. Timestamp is either a unix-seconds
// string or RFC3339. Events are supplied in chronological order and are
// never re-sorted.
type PlayEvent struct {
	SongID    string
	Timestamp string
}

// SongInfo is the metadata a SongResolver returns for a song id.
type SongInfo struct {
	Artist          string `yaml:"artist"`
	Title           string `yaml:"title"`
	Genre           string `yaml:"genre"`
	DurationSeconds int64  `yaml:"duration_seconds"`
}

// Key is the canonical identity of a song throughout aggregation.
func (s SongInfo) Key() string {
	return s.Artist + " - " + s.Title
}

// Insight is one reporting row.
type Insight struct {
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
}

type EventSource interface {
	FetchEvents(listenerID string) ([]PlayEvent, error)
}

type SongResolver interface {
	ResolveSong(songID string) (SongInfo, error)
}
