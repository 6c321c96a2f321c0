package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ademuri/listen-insights/internal/insights"
)

type ListenImport struct {
	SongID    string
	Timestamp string // unix-seconds string or RFC3339, stored verbatim
}

// CreateListener ensures a listener exists in the database.
func (s *Store) CreateListener(listenerID string) error {
	row := s.db.QueryRow("SELECT id FROM Listener WHERE id = ?", listenerID)
	var id string
	err := row.Scan(&id)
	if err == sql.ErrNoRows {
		_, err := s.db.Exec("INSERT INTO Listener (id) VALUES (?)", listenerID)
		if err != nil {
			return fmt.Errorf("inserting listener %q: %w", listenerID, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking listener %q: %w", listenerID, err)
	}
	return nil
}

func (s *Store) SetLastSynced(listenerID string, synced time.Time) error {
	_, err := s.db.Exec("UPDATE Listener SET last_synced = ? WHERE id = ?", synced, listenerID)
	if err != nil {
		return fmt.Errorf("updating last_synced for %q: %w", listenerID, err)
	}
	return nil
}

// UpsertSong inserts or replaces a catalog entry.
func (s *Store) UpsertSong(songID string, song insights.SongInfo) error {
	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO Song (id, artist, title, genre, duration_seconds) VALUES (?, ?, ?, ?, ?)",
		songID, song.Artist, song.Title, song.Genre, song.DurationSeconds)
	if err != nil {
		return fmt.Errorf("upserting song %q: %w", songID, err)
	}
	return nil
}

// AddListens inserts a batch of listens transactionally, preserving slice
// order. Re-importing the same listen is a no-op.
func (s *Store) AddListens(listenerID string, listens []ListenImport) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, listen := range listens {
		if err := createListen(tx, listenerID, listen.SongID, listen.Timestamp); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func createListen(tx *sql.Tx, listenerID, songID, date string) error {
	// Check for duplicate listen
	var dummy int64
	err := tx.QueryRow("SELECT id FROM Listen WHERE listener = ? AND song = ? AND date = ?", listenerID, songID, date).Scan(&dummy)
	if err == nil {
		return nil // Already exists
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("checking listen: %w", err)
	}

	_, err = tx.Exec("INSERT INTO Listen (listener, song, date) VALUES (?, ?, ?)", listenerID, songID, date)
	if err != nil {
		return fmt.Errorf("inserting listen: %w", err)
	}
	return nil
}
