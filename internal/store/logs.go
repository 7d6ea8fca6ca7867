package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ykchoudhary110/Communtity-Fridge/internal/model"
)

// AppendStatusLog appends an immutable status log entry for a fridge.
// Entries are never updated or deleted afterwards.
func AppendStatusLog(ctx context.Context, db *sql.DB, fridgeID, status, note string) (*model.StatusLogEntry, error) {
	entry := &model.StatusLogEntry{
		ID:        uuid.NewString(),
		FridgeID:  fridgeID,
		Status:    status,
		Note:      note,
		CreatedAt: time.Now().UTC(),
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO fridge_status_logs (id, fridge_id, status, note, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		entry.ID, entry.FridgeID, entry.Status, entry.Note, entry.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("appending status log: %w", err)
	}
	return entry, nil
}

// ListStatusLogs returns a fridge's log entries, newest first.
func ListStatusLogs(ctx context.Context, db *sql.DB, fridgeID string) ([]model.StatusLogEntry, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, fridge_id, status, note, created_at
		 FROM fridge_status_logs
		 WHERE fridge_id = ?
		 ORDER BY created_at DESC`, fridgeID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing status logs: %w", err)
	}
	defer rows.Close()

	var entries []model.StatusLogEntry
	for rows.Next() {
		var e model.StatusLogEntry
		var note sql.NullString
		if err := rows.Scan(&e.ID, &e.FridgeID, &e.Status, &note, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning status log: %w", err)
		}
		e.Note = note.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
