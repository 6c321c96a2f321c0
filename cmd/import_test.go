package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestImportFile(t *testing.T) {
	_, dbPath := createTestDb(t)

	archive := `{
  "songs": [
    {"id": "s1", "artist": "Artist A", "title": "Song One", "genre": "rock", "durationSeconds": 200},
    {"id": "s2", "artist": "Artist B", "title": "Song Two", "genre": "jazz", "durationSeconds": 500}
  ],
  "listens": [
    {"songId": "s2", "timestamp": "2024-03-04T09:00:00Z"},
    {"songId": "s1", "timestamp": "2024-03-04T10:00:00Z"},
    {"songId": "s2", "timestamp": "2024-03-04T11:00:00Z"}
  ]
}`
	path := filepath.Join(t.TempDir(), "archive.json")
	if err := os.WriteFile(path, []byte(archive), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	if err := importFile(dbPath, "testuser", path); err != nil {
		t.Fatalf("importFile: %v", err)
	}

	results, err := listenerInsights(dbPath, "testuser")
	if err != nil {
		t.Fatalf("listenerInsights: %v", err)
	}
	if len(results) == 0 {
		t.Fatalf("expected insights after import")
	}
	if results[0].Answer != "Artist B - Song Two" {
		t.Errorf("most listened song = %q, want %q", results[0].Answer, "Artist B - Song Two")
	}
}

func TestImportFilePerListenRecipient(t *testing.T) {
	_, dbPath := createTestDb(t)

	archive := `{
  "songs": [{"id": "s1", "artist": "Artist A", "title": "Song One", "genre": "rock", "durationSeconds": 200}],
  "listens": [
    {"listener": "alice", "songId": "s1", "timestamp": "1709546400"},
    {"listener": "bob", "songId": "s1", "timestamp": "1709550000"}
  ]
}`
	path := filepath.Join(t.TempDir(), "archive.json")
	if err := os.WriteFile(path, []byte(archive), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	if err := importFile(dbPath, "", path); err != nil {
		t.Fatalf("importFile: %v", err)
	}

	for _, listener := range []string{"alice", "bob"} {
		if _, err := listenerInsights(dbPath, listener); err != nil {
			t.Errorf("listenerInsights(%q): %v", listener, err)
		}
	}
}

func TestImportFileNoListener(t *testing.T) {
	_, dbPath := createTestDb(t)

	archive := `{
  "songs": [{"id": "s1", "artist": "Artist A", "title": "Song One", "genre": "rock", "durationSeconds": 200}],
  "listens": [{"songId": "s1", "timestamp": "1709546400"}]
}`
	path := filepath.Join(t.TempDir(), "archive.json")
	if err := os.WriteFile(path, []byte(archive), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	err := importFile(dbPath, "", path)
	if err == nil {
		t.Fatalf("importFile should fail when no listener is resolvable")
	}
	if !strings.Contains(err.Error(), "no listener") {
		t.Errorf("unexpected error: %v", err)
	}
}
