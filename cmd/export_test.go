package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ademuri/listen-insights/internal/insights"
)

func seedExportDb(t *testing.T) string {
	t.Helper()
	db, dbPath := createTestDb(t)

	seedSong(t, db, "s1", insights.SongInfo{Artist: "Artist A", Title: "Song One", Genre: "rock", DurationSeconds: 200})
	seedListens(t, db, "testuser", []string{"s1", "s1"},
		time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC))

	return dbPath
}

func TestExportCsv(t *testing.T) {
	dbPath := seedExportDb(t)
	out := filepath.Join(t.TempDir(), "insights.csv")

	if err := exportInsights(dbPath, "testuser", "csv", out); err != nil {
		t.Fatalf("exportInsights: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading %q: %v", out, err)
	}
	got := string(data)
	if !strings.HasPrefix(got, "Question,Answer\n") {
		t.Errorf("csv missing header:\n%s", got)
	}
	if !strings.Contains(got, "Artist A - Song One") {
		t.Errorf("csv missing song row:\n%s", got)
	}
}

func TestExportYaml(t *testing.T) {
	dbPath := seedExportDb(t)
	out := filepath.Join(t.TempDir(), "insights.yaml")

	if err := exportInsights(dbPath, "testuser", "yaml", out); err != nil {
		t.Fatalf("exportInsights: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading %q: %v", out, err)
	}
	got := string(data)
	for _, want := range []string{"listener: testuser", "insights:", "Artist A - Song One"} {
		if !strings.Contains(got, want) {
			t.Errorf("yaml missing %q:\n%s", want, got)
		}
	}
}

func TestExportXlsx(t *testing.T) {
	dbPath := seedExportDb(t)
	out := filepath.Join(t.TempDir(), "insights.xlsx")

	if err := exportInsights(dbPath, "testuser", "xlsx", out); err != nil {
		t.Fatalf("exportInsights: %v", err)
	}

	if info, err := os.Stat(out); err != nil || info.Size() == 0 {
		t.Errorf("xlsx export produced no file: %v", err)
	}
}

func TestExportPdf(t *testing.T) {
	dbPath := seedExportDb(t)
	out := filepath.Join(t.TempDir(), "insights.pdf")

	if err := exportInsights(dbPath, "testuser", "pdf", out); err != nil {
		t.Fatalf("exportInsights: %v", err)
	}

	if info, err := os.Stat(out); err != nil || info.Size() == 0 {
		t.Errorf("pdf export produced no file: %v", err)
	}
}

func TestExportUnknownFormat(t *testing.T) {
	dbPath := seedExportDb(t)

	err := exportInsights(dbPath, "testuser", "xml", "")
	if err == nil {
		t.Fatalf("exportInsights should reject unknown formats")
	}
	if !strings.Contains(err.Error(), "xml") {
		t.Errorf("unexpected error: %v", err)
	}
}
