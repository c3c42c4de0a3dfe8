package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/bugreport-service/internal/domain"
)

const postgresHistorySchema = `
CREATE TABLE IF NOT EXISTS ticket_history (
    position           INT NOT NULL,
    issue_key          TEXT NOT NULL,
    summary            TEXT NOT NULL DEFAULT '',
    created_at         TIMESTAMPTZ NOT NULL,
    status             TEXT NOT NULL DEFAULT '',
    last_status_check  TIMESTAMPTZ NOT NULL,
    is_deleted         BOOLEAN NOT NULL DEFAULT FALSE
)`

type postgresHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresHistoryRepository stores the history in Postgres, for
// deployments that already run one.
func NewPostgresHistoryRepository(ctx context.Context, pool *pgxpool.Pool) (HistoryRepository, error) {
	if _, err := pool.Exec(ctx, postgresHistorySchema); err != nil {
		return nil, fmt.Errorf("creating history table: %w", err)
	}
	return &postgresHistoryRepository{pool: pool}, nil
}

func (r *postgresHistoryRepository) Load(ctx context.Context) ([]domain.HistoryEntry, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT issue_key, summary, created_at, status, last_status_check, is_deleted
        FROM ticket_history ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		var entry domain.HistoryEntry
		if err := rows.Scan(&entry.IssueKey, &entry.Summary, &entry.CreatedAt,
			&entry.Status, &entry.LastStatusCheckAt, &entry.IsDeleted); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *postgresHistoryRepository) Save(ctx context.Context, entries []domain.HistoryEntry) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM ticket_history`); err != nil {
			return fmt.Errorf("clearing history: %w", err)
		}
		for i, entry := range entries {
			_, err := tx.Exec(ctx, `
                INSERT INTO ticket_history (position, issue_key, summary, created_at, status, last_status_check, is_deleted)
                VALUES ($1,$2,$3,$4,$5,$6,$7)`,
				i, entry.IssueKey, entry.Summary, entry.CreatedAt,
				entry.Status, entry.LastStatusCheckAt, entry.IsDeleted,
			)
			if err != nil {
				return fmt.Errorf("inserting history row: %w", err)
			}
		}
		return nil
	})
}

func (r *postgresHistoryRepository) Clear(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM ticket_history`)
	return err
}
