package cmd

import (
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/ademuri/listen-insights/internal/insights"
	"github.com/ademuri/listen-insights/internal/store"
)

func createTestDb(t *testing.T) (*store.Store, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "listens.db")

	db, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("store.New(%s) error: %v", dbPath, err)
	}
	t.Cleanup(func() { db.Close() })

	return db, dbPath
}

func seedSong(t *testing.T, db *store.Store, songID string, song insights.SongInfo) {
	t.Helper()
	if err := db.UpsertSong(songID, song); err != nil {
		t.Fatalf("UpsertSong(%q): %v", songID, err)
	}
}

func seedListens(t *testing.T, db *store.Store, listener string, songIDs []string, start time.Time) {
	t.Helper()
	if err := db.CreateListener(listener); err != nil {
		t.Fatalf("CreateListener(%q): %v", listener, err)
	}

	var listens []store.ListenImport
	for i, songID := range songIDs {
		at := start.Add(time.Duration(i) * time.Hour)
		listens = append(listens, store.ListenImport{
			SongID:    songID,
			Timestamp: strconv.FormatInt(at.Unix(), 10),
		})
	}
	if err := db.AddListens(listener, listens); err != nil {
		t.Fatalf("AddListens(%q): %v", listener, err)
	}
}
