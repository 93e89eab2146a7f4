package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sfk-console-api/internal/models"
	appErrors "github.com/noah-isme/sfk-console-api/pkg/errors"
)

// SyncRunRepository keeps a history of sync runs in Postgres.
type SyncRunRepository struct {
	db *sqlx.DB
}

// NewSyncRunRepository constructs the repository.
func NewSyncRunRepository(db *sqlx.DB) *SyncRunRepository {
	return &SyncRunRepository{db: db}
}

type syncRunRow struct {
	models.SyncResult
	CountsJSON []byte `db:"counts"`
}

// Create records a finished run.
func (r *SyncRunRepository) Create(ctx context.Context, run *models.SyncResult) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	counts, err := json.Marshal(run.Counts)
	if err != nil {
		return fmt.Errorf("marshal sync counts: %w", err)
	}
	const query = `INSERT INTO sync_runs (id, mode, source, success, message, counts, started_at, finished_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := r.db.ExecContext(ctx, query, run.ID, run.Mode, run.Source, run.Success, run.Message, counts, run.StartedAt, run.FinishedAt); err != nil {
		return fmt.Errorf("insert sync run: %w", err)
	}
	return nil
}

// ListRecent returns the latest runs, newest first.
func (r *SyncRunRepository) ListRecent(ctx context.Context, limit int) ([]models.SyncResult, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	const query = `SELECT id, mode, source, success, message, counts, started_at, finished_at
        FROM sync_runs ORDER BY started_at DESC LIMIT $1`
	var rows []syncRunRow
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("list sync runs: %w", err)
	}
	runs := make([]models.SyncResult, 0, len(rows))
	for _, row := range rows {
		run := row.SyncResult
		if len(row.CountsJSON) > 0 {
			_ = json.Unmarshal(row.CountsJSON, &run.Counts)
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// PurgeBefore deletes runs older than the cutoff and returns how many were removed.
func (r *SyncRunRepository) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sync_runs WHERE started_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge sync runs: %w", err)
	}
	return res.RowsAffected()
}

func isMiss(err error) bool {
	return errors.Is(err, appErrors.ErrCacheMiss)
}
