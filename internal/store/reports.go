package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Report is a recurring emailed insight report for one listener.
type Report struct {
	ID       int64
	Listener string
	Name     string
	Email    string
	RunDay   int
	Sent     time.Time
}

func (s *Store) AddReport(listenerID, name, email string, runDay int) error {
	_, err := s.db.Exec(
		"INSERT INTO Report (listener, name, email, run_day) VALUES (?, ?, ?, ?)",
		listenerID, name, email, runDay)
	if err != nil {
		return fmt.Errorf("inserting report %q: %w", name, err)
	}
	return nil
}

// ListReports returns all reports, or only the given listener's when
// listenerID is non-empty.
func (s *Store) ListReports(listenerID string) ([]Report, error) {
	var rows *sql.Rows
	var err error
	if listenerID != "" {
		rows, err = s.db.Query("SELECT id, listener, name, email, run_day, sent FROM Report WHERE listener = ?", listenerID)
	} else {
		rows, err = s.db.Query("SELECT id, listener, name, email, run_day, sent FROM Report")
	}
	if err != nil {
		return nil, fmt.Errorf("querying reports: %w", err)
	}
	defer rows.Close()

	var reports []Report
	for rows.Next() {
		var r Report
		var sent sql.NullTime
		if err := rows.Scan(&r.ID, &r.Listener, &r.Name, &r.Email, &r.RunDay, &sent); err != nil {
			return nil, err
		}
		if sent.Valid {
			r.Sent = sent.Time
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

func (s *Store) DeleteReport(listenerID, name, email string) error {
	res, err := s.db.Exec("DELETE FROM Report WHERE listener = ? AND name = ? AND email = ?", listenerID, name, email)
	if err != nil {
		return fmt.Errorf("deleting report: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no report found with name %q and email %q for listener %q", name, email, listenerID)
	}
	return nil
}

func (s *Store) MarkReportSent(id int64, sent time.Time) error {
	_, err := s.db.Exec("UPDATE Report SET sent = ? WHERE id = ?", sent, id)
	if err != nil {
		return fmt.Errorf("recording report send time: %w", err)
	}
	return nil
}
