package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Entry is one recorded action outcome.
type Entry struct {
	ID       string
	Action   string
	TargetID int
	OK       bool
	Message  string
	At       time.Time
}

// Store handles the activity table.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Record inserts e, filling ID and At when empty, and returns the stored entry.
func (s *Store) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.At.IsZero() {
		e.At = s.now()
	}
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO activity(id, action, target_id, ok, message, at)
	VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.Action, e.TargetID, e.OK, e.Message, e.At.UTC())
	if err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
	SELECT id, action, target_id, ok, message, at
	FROM activity ORDER BY at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Action, &e.TargetID, &e.OK, &e.Message, &e.At); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Prune deletes entries recorded before cutoff and reports how many went.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	var n int64
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM activity WHERE at < ?`, cutoff.UTC())
		if err != nil {
			return fmt.Errorf("prune activity: %w", err)
		}
		n, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, err
	}
	if n > 0 {
		_, _ = s.db.ExecContext(ctx, "VACUUM")
	}
	return n, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}
