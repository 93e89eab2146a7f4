package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sfk-console-api/internal/models"
)

func newSQLMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestRetentionRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newSQLMock(t)
	defer cleanup()
	repo := NewRetentionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO retention_actions")).
		WithArgs(sqlmock.AnyArg(), "ana|centro|judo|2024-03-15", "ana", "gestor", "whatsapp", "ligou", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	action := &models.RetentionAction{AlertID: "ana|centro|judo|2024-03-15", StudentID: "ana", PerformedBy: "gestor", Channel: "whatsapp", Note: "ligou"}
	require.NoError(t, repo.Create(context.Background(), action))
	assert.NotEmpty(t, action.ID)
	assert.False(t, action.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRetentionRepositoryListByStudent(t *testing.T) {
	db, mock, cleanup := newSQLMock(t)
	defer cleanup()
	repo := NewRetentionRepository(db)

	rows := sqlmock.NewRows([]string{"id", "alert_id", "student_id", "performed_by", "channel", "note", "created_at"}).
		AddRow("r1", "a1", "ana", "gestor", "phone", "", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, alert_id, student_id, performed_by, channel, note, created_at FROM retention_actions WHERE student_id = $1 ORDER BY created_at DESC")).
		WithArgs("ana").
		WillReturnRows(rows)

	actions, err := repo.List(context.Background(), "ana")
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, "a1", actions[0].AlertID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRetentionRepositoryAlertIDs(t *testing.T) {
	db, mock, cleanup := newSQLMock(t)
	defer cleanup()
	repo := NewRetentionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT alert_id FROM retention_actions")).
		WillReturnRows(sqlmock.NewRows([]string{"alert_id"}).AddRow("a1").AddRow("a2"))

	ids, err := repo.AlertIDs(context.Background())
	require.NoError(t, err)
	assert.Len(t, ids, 2)
	assert.Contains(t, ids, "a2")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotRetentionRepositoryRoundTrip(t *testing.T) {
	store := NewMemorySnapshotRepository()
	repo := NewSnapshotRetentionRepository(store)
	ctx := context.Background()

	ids, err := repo.AlertIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, repo.Create(ctx, &models.RetentionAction{AlertID: "a1", StudentID: "ana"}))
	require.NoError(t, repo.Create(ctx, &models.RetentionAction{AlertID: "b1", StudentID: "bia"}))

	ids, err = repo.AlertIDs(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 2)

	actions, err := repo.List(ctx, "ana")
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, "a1", actions[0].AlertID)

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "b1", all[0].AlertID)
}

// Retention actions mark alerts as handled, so neither store may join the nightly purge.
func TestRetentionStoresAreNotPurgeable(t *testing.T) {
	type purger interface {
		PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
	}
	var sqlStore interface{} = &RetentionRepository{}
	var snapshotStore interface{} = &SnapshotRetentionRepository{}
	_, ok := sqlStore.(purger)
	assert.False(t, ok)
	_, ok = snapshotStore.(purger)
	assert.False(t, ok)

	var runs interface{} = &SyncRunRepository{}
	_, ok = runs.(purger)
	assert.True(t, ok)
}
