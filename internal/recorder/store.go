package recorder

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"slideboard/internal/room"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store is an append-only log of committed whiteboard events.
type Store struct {
	db *sql.DB
}

// Record is one stored event.
type Record struct {
	ID    string
	Seq   int64
	Event room.Event
}

func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	// WAL lets Events read while listeners append
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	log.Printf("[Recorder] database initialized at %s", dbPath)
	return &Store{db: db}, nil
}

func createTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS whiteboard_events (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		meeting_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		presentation_id TEXT NOT NULL DEFAULT '',
		page_number INTEGER NOT NULL DEFAULT 0,
		payload TEXT NOT NULL,
		occurred_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_whiteboard_events_meeting ON whiteboard_events(meeting_id, seq);
	`

	_, err := db.Exec(schema)
	return err
}

// SaveEvent appends ev and returns its id.
func (s *Store) SaveEvent(ev room.Event) (string, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return "", fmt.Errorf("marshal event: %w", err)
	}

	id := uuid.NewString()
	_, err = s.db.Exec(
		`INSERT INTO whiteboard_events (id, meeting_id, kind, presentation_id, page_number, payload, occurred_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, ev.MeetingID, string(ev.Kind), ev.PresentationID, ev.PageNumber, string(payload), ev.At.UnixNano(),
	)
	if err != nil {
		return "", fmt.Errorf("insert event: %w", err)
	}
	return id, nil
}

// Events returns every stored event of a meeting in commit order.
func (s *Store) Events(meetingID string) ([]Record, error) {
	rows, err := s.db.Query(
		`SELECT seq, id, payload FROM whiteboard_events WHERE meeting_id = ? ORDER BY seq ASC`,
		meetingID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec     Record
			payload string
		)
		if err := rows.Scan(&rec.Seq, &rec.ID, &payload); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(payload), &rec.Event); err != nil {
			return nil, fmt.Errorf("decode event %s: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// DeleteBefore removes events that occurred before cutoff and returns how
// many were deleted.
func (s *Store) DeleteBefore(cutoff time.Time) (int64, error) {
	result, err := s.db.Exec(`DELETE FROM whiteboard_events WHERE occurred_at < ?`, cutoff.UnixNano())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (s *Store) Close() error {
	return s.db.Close()
}
