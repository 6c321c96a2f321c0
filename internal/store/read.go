package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ademuri/listen-insights/internal/insights"
)

// ErrSongNotFound is returned by ResolveSong for a song id with no catalog
// entry. Aggregation treats this as fatal, so it must be distinguishable
// from query failures.
var ErrSongNotFound = errors.New("song not found")

type ListenerCount struct {
	ID      string
	Listens int64
}

// ListListeners returns every known listener with their event count.
func (s *Store) ListListeners() ([]ListenerCount, error) {
	query := `
		SELECT l.id, COUNT(n.id)
		FROM Listener l
		LEFT JOIN Listen n ON n.listener = l.id
		GROUP BY l.id
		ORDER BY l.id
	`
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("querying listeners: %w", err)
	}
	defer rows.Close()

	var listeners []ListenerCount
	for rows.Next() {
		var lc ListenerCount
		if err := rows.Scan(&lc.ID, &lc.Listens); err != nil {
			return nil, err
		}
		listeners = append(listeners, lc)
	}
	return listeners, rows.Err()
}

// FetchEvents returns the listener's play events in the order they were
// recorded. Insertion order is the chronological order the events arrived
// in, which the aggregation's tie-break rules depend on.
func (s *Store) FetchEvents(listenerID string) ([]insights.PlayEvent, error) {
	rows, err := s.db.Query("SELECT song, date FROM Listen WHERE listener = ? ORDER BY id ASC", listenerID)
	if err != nil {
		return nil, fmt.Errorf("querying listens for %q: %w", listenerID, err)
	}
	defer rows.Close()

	var events []insights.PlayEvent
	for rows.Next() {
		var event insights.PlayEvent
		if err := rows.Scan(&event.SongID, &event.Timestamp); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func (s *Store) ResolveSong(songID string) (insights.SongInfo, error) {
	row := s.db.QueryRow("SELECT artist, title, genre, duration_seconds FROM Song WHERE id = ?", songID)
	var song insights.SongInfo
	err := row.Scan(&song.Artist, &song.Title, &song.Genre, &song.DurationSeconds)
	if err == sql.ErrNoRows {
		return insights.SongInfo{}, fmt.Errorf("%w: %q", ErrSongNotFound, songID)
	}
	if err != nil {
		return insights.SongInfo{}, fmt.Errorf("resolving song %q: %w", songID, err)
	}
	return song, nil
}

func (s *Store) GetLastSynced(listenerID string) (time.Time, error) {
	row := s.db.QueryRow("SELECT last_synced FROM Listener WHERE id = ?", listenerID)
	var t sql.NullTime
	err := row.Scan(&t)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("getting last synced: %w", err)
	}
	return t.Time, nil
}
