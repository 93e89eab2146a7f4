package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sfk-console-api/internal/models"
	appErrors "github.com/noah-isme/sfk-console-api/pkg/errors"
)

func TestMemorySnapshotRepositoryReplacesCollections(t *testing.T) {
	store := NewMemorySnapshotRepository()
	ctx := context.Background()

	var classes []models.Class
	err := store.Load(ctx, KeyClasses, &classes)
	assert.True(t, errors.Is(err, appErrors.ErrCacheMiss))

	require.NoError(t, store.Save(ctx, KeyClasses, []models.Class{{ID: "Judô", Name: "Judô"}, {ID: "Ballet", Name: "Ballet"}}))
	require.NoError(t, store.Save(ctx, KeyClasses, []models.Class{{ID: "Xadrez", Name: "Xadrez"}}))

	require.NoError(t, store.Load(ctx, KeyClasses, &classes))
	require.Len(t, classes, 1)
	assert.Equal(t, "Xadrez", classes[0].ID)
}

func TestSnapshotRepositoryWithoutClientMisses(t *testing.T) {
	store := NewSnapshotRepository(nil, "sfk", nil)
	var users []models.User
	err := store.Load(context.Background(), KeyUsers, &users)
	assert.True(t, errors.Is(err, appErrors.ErrCacheMiss))
	assert.NoError(t, store.Save(context.Background(), KeyUsers, users))
	assert.Equal(t, "sfk:users", store.key(KeyUsers))
}
