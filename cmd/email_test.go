package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/ademuri/listen-insights/internal/insights"
)

func TestGenerateEmailContent(t *testing.T) {
	db, dbPath := createTestDb(t)

	seedSong(t, db, "s1", insights.SongInfo{Artist: "Test Artist", Title: "Test Song", Genre: "rock", DurationSeconds: 180})
	seedListens(t, db, "testuser", []string{"s1", "s1"},
		time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC))

	subject, body, err := generateEmailContent(SendEmailConfig{
		DbPath:   dbPath,
		Listener: "testuser",
	})
	if err != nil {
		t.Fatalf("generateEmailContent: %v", err)
	}

	if subject != "Listening insights for testuser" {
		t.Errorf("subject = %q", subject)
	}
	for _, want := range []string{
		"<h2>Listening insights for testuser:</h2>",
		"<td>Most listened song (count)</td>",
		"Test Artist - Test Song",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
}

func TestGenerateEmailContentReportName(t *testing.T) {
	db, dbPath := createTestDb(t)

	seedSong(t, db, "s1", insights.SongInfo{Artist: "Test Artist", Title: "Test Song", Genre: "rock", DurationSeconds: 180})
	seedListens(t, db, "testuser", []string{"s1"},
		time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC))

	subject, _, err := generateEmailContent(SendEmailConfig{
		DbPath:     dbPath,
		Listener:   "testuser",
		ReportName: "monthly",
	})
	if err != nil {
		t.Fatalf("generateEmailContent: %v", err)
	}

	if subject != "Listening insights for testuser: monthly" {
		t.Errorf("subject = %q", subject)
	}
}

func TestGenerateEmailContentNoListens(t *testing.T) {
	db, dbPath := createTestDb(t)
	if err := db.CreateListener("empty"); err != nil {
		t.Fatalf("CreateListener: %v", err)
	}

	_, body, err := generateEmailContent(SendEmailConfig{
		DbPath:   dbPath,
		Listener: "empty",
	})
	if err != nil {
		t.Fatalf("generateEmailContent: %v", err)
	}

	if !strings.Contains(body, "No listens found.") {
		t.Errorf("body should note missing listens:\n%s", body)
	}
}
