package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/spec-kit/bugreport-service/internal/domain"
)

const sqliteHistorySchema = `
CREATE TABLE IF NOT EXISTS ticket_history (
    position           INTEGER NOT NULL,
    issue_key          TEXT NOT NULL,
    summary            TEXT NOT NULL DEFAULT '',
    created_at         TEXT NOT NULL,
    status             TEXT NOT NULL DEFAULT '',
    last_status_check  TEXT NOT NULL,
    is_deleted         INTEGER NOT NULL DEFAULT 0
);`

type sqliteHistoryRepository struct {
	db *sql.DB
}

// NewSQLiteHistoryRepository stores the history in a local SQLite database.
func NewSQLiteHistoryRepository(db *sql.DB) (HistoryRepository, error) {
	if _, err := db.Exec(sqliteHistorySchema); err != nil {
		return nil, fmt.Errorf("creating history table: %w", err)
	}
	return &sqliteHistoryRepository{db: db}, nil
}

func (r *sqliteHistoryRepository) Load(ctx context.Context) ([]domain.HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT issue_key, summary, created_at, status, last_status_check, is_deleted
        FROM ticket_history ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		var entry domain.HistoryEntry
		var createdAt, lastCheck string
		var deleted int
		if err := rows.Scan(&entry.IssueKey, &entry.Summary, &createdAt, &entry.Status, &lastCheck, &deleted); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		entry.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		entry.LastStatusCheckAt, _ = time.Parse(time.RFC3339Nano, lastCheck)
		entry.IsDeleted = deleted != 0
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *sqliteHistoryRepository) Save(ctx context.Context, entries []domain.HistoryEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM ticket_history`); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	for i, entry := range entries {
		deleted := 0
		if entry.IsDeleted {
			deleted = 1
		}
		_, err := tx.ExecContext(ctx, `
            INSERT INTO ticket_history (position, issue_key, summary, created_at, status, last_status_check, is_deleted)
            VALUES (?, ?, ?, ?, ?, ?, ?)`,
			i, entry.IssueKey, entry.Summary,
			entry.CreatedAt.Format(time.RFC3339Nano),
			entry.Status,
			entry.LastStatusCheckAt.Format(time.RFC3339Nano),
			deleted,
		)
		if err != nil {
			return fmt.Errorf("inserting history row: %w", err)
		}
	}
	return tx.Commit()
}

func (r *sqliteHistoryRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM ticket_history`)
	return err
}
