package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sfk-console-api/internal/models"
)

// RetentionRepository persists retention outreach actions in Postgres.
type RetentionRepository struct {
	db *sqlx.DB
}

// NewRetentionRepository constructs the repository.
func NewRetentionRepository(db *sqlx.DB) *RetentionRepository {
	return &RetentionRepository{db: db}
}

// Create inserts an action, filling ID and timestamp when absent.
func (r *RetentionRepository) Create(ctx context.Context, action *models.RetentionAction) error {
	if action.ID == "" {
		action.ID = uuid.NewString()
	}
	if action.CreatedAt.IsZero() {
		action.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO retention_actions (id, alert_id, student_id, performed_by, channel, note, created_at)
        VALUES (:id, :alert_id, :student_id, :performed_by, :channel, :note, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, action); err != nil {
		return fmt.Errorf("insert retention action: %w", err)
	}
	return nil
}

// List returns actions newest first, optionally for one student.
func (r *RetentionRepository) List(ctx context.Context, studentID string) ([]models.RetentionAction, error) {
	query := `SELECT id, alert_id, student_id, performed_by, channel, note, created_at FROM retention_actions`
	var args []interface{}
	if studentID != "" {
		query += " WHERE student_id = $1"
		args = append(args, studentID)
	}
	query += " ORDER BY created_at DESC"

	var actions []models.RetentionAction
	if err := r.db.SelectContext(ctx, &actions, query, args...); err != nil {
		return nil, fmt.Errorf("list retention actions: %w", err)
	}
	return actions, nil
}

// AlertIDs returns the set of alert IDs that already have an action.
func (r *RetentionRepository) AlertIDs(ctx context.Context) (map[string]struct{}, error) {
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, `SELECT DISTINCT alert_id FROM retention_actions`); err != nil {
		return nil, fmt.Errorf("list retention alert ids: %w", err)
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

type snapshotLoader interface {
	Load(ctx context.Context, name string, dest interface{}) error
	Save(ctx context.Context, name string, value interface{}) error
}

// SnapshotRetentionRepository keeps retention actions in the snapshot store. It backs the
// retention log when Postgres is disabled.
type SnapshotRetentionRepository struct {
	store snapshotLoader
}

// NewSnapshotRetentionRepository constructs the fallback repository.
func NewSnapshotRetentionRepository(store snapshotLoader) *SnapshotRetentionRepository {
	return &SnapshotRetentionRepository{store: store}
}

func (r *SnapshotRetentionRepository) load(ctx context.Context) ([]models.RetentionAction, error) {
	var actions []models.RetentionAction
	if err := r.store.Load(ctx, KeyRetentionActions, &actions); err != nil {
		if isMiss(err) {
			return nil, nil
		}
		return nil, err
	}
	return actions, nil
}

// Create appends an action.
func (r *SnapshotRetentionRepository) Create(ctx context.Context, action *models.RetentionAction) error {
	if action.ID == "" {
		action.ID = uuid.NewString()
	}
	if action.CreatedAt.IsZero() {
		action.CreatedAt = time.Now().UTC()
	}
	actions, err := r.load(ctx)
	if err != nil {
		return err
	}
	actions = append([]models.RetentionAction{*action}, actions...)
	return r.store.Save(ctx, KeyRetentionActions, actions)
}

// List returns actions newest first, optionally for one student.
func (r *SnapshotRetentionRepository) List(ctx context.Context, studentID string) ([]models.RetentionAction, error) {
	actions, err := r.load(ctx)
	if err != nil || studentID == "" {
		return actions, err
	}
	filtered := make([]models.RetentionAction, 0, len(actions))
	for _, a := range actions {
		if a.StudentID == studentID {
			filtered = append(filtered, a)
		}
	}
	return filtered, nil
}

// AlertIDs returns the set of alert IDs that already have an action.
func (r *SnapshotRetentionRepository) AlertIDs(ctx context.Context) (map[string]struct{}, error) {
	actions, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(actions))
	for _, a := range actions {
		set[a.AlertID] = struct{}{}
	}
	return set, nil
}
