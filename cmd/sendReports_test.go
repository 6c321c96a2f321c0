package cmd

import (
	"testing"
	"time"

	"github.com/ademuri/listen-insights/internal/insights"
	"github.com/ademuri/listen-insights/internal/store"
)

func TestSendReportsDryRun(t *testing.T) {
	db, dbPath := createTestDb(t)

	seedSong(t, db, "s1", insights.SongInfo{Artist: "Artist A", Title: "Song One", Genre: "rock", DurationSeconds: 200})
	seedListens(t, db, "testuser", []string{"s1"},
		time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC))
	seedListens(t, db, "otheruser", []string{"s1"},
		time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC))

	if err := addReport(dbPath, "testuser", "monthly", "testuser@gmail.com", 1); err != nil {
		t.Fatalf("addReport: %v", err)
	}
	if err := addReport(dbPath, "otheruser", "monthly", "otheruser@gmail.com", 1); err != nil {
		t.Fatalf("addReport: %v", err)
	}

	config := SendReportsConfig{
		DbPath: dbPath,
		From:   "from@from.com",
		DryRun: true,
	}
	if err := sendReports(config); err != nil {
		t.Fatalf("sendReports: %v", err)
	}
}

func TestReportAlreadySent(t *testing.T) {
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		runDay int
		sent   time.Time
		want   bool
	}{
		{"never sent", 1, time.Time{}, false},
		{"sent after this month's run day", 1, time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC), true},
		{"sent last window, run day passed", 1, time.Date(2024, time.February, 2, 0, 0, 0, 0, time.UTC), false},
		{"run day not reached, sent last window", 20, time.Date(2024, time.February, 21, 0, 0, 0, 0, time.UTC), true},
		{"run day not reached, sent before last window", 20, time.Date(2024, time.January, 25, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			report := store.Report{RunDay: tc.runDay, Sent: tc.sent}
			if got := reportAlreadySent(report, now); got != tc.want {
				t.Errorf("reportAlreadySent(runDay=%d, sent=%s) = %v, want %v",
					tc.runDay, tc.sent.Format("2006-01-02"), got, tc.want)
			}
		})
	}
}
