package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sfk-console-api/internal/dto"
	"github.com/noah-isme/sfk-console-api/internal/models"
	"github.com/noah-isme/sfk-console-api/internal/repository"
)

func TestSettingsDefaultsAndOverrides(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemorySnapshotRepository()
	svc := NewSettingsService(store, models.Settings{
		EndpointURL:  "https://config.example/exec",
		SyncSchedule: []string{"07:00"},
	}, nil, nil)

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://config.example/exec", got.EndpointURL)
	assert.Equal(t, DefaultReminderTemplate, got.ReminderTemplate)
	assert.False(t, got.FirstRunDone)

	endpoint := "https://override.example/exec"
	updated, err := svc.Update(ctx, dto.UpdateSettingsRequest{
		EndpointURL:  &endpoint,
		SyncSchedule: []string{"08:00", "19:30"},
	})
	require.NoError(t, err)
	assert.Equal(t, endpoint, updated.EndpointURL)
	assert.Equal(t, []string{"08:00", "19:30"}, updated.SyncSchedule)
	assert.Equal(t, DefaultAbsenceTemplate, updated.AbsenceTemplate)

	require.NoError(t, svc.MarkSynced(ctx, "10/03/2024 12:04"))
	got, err = svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "10/03/2024 12:04", got.LastSyncedAt)
	assert.True(t, got.FirstRunDone)
	assert.Equal(t, endpoint, got.EndpointURL)

	var raw models.Settings
	require.NoError(t, store.Load(ctx, repository.KeySettings, &raw))
	assert.Empty(t, raw.ReminderTemplate, "defaults are not frozen into the store")
}

func TestSettingsUpdateValidation(t *testing.T) {
	svc := NewSettingsService(repository.NewMemorySnapshotRepository(), models.Settings{}, nil, nil)

	bad := "not a url"
	_, err := svc.Update(context.Background(), dto.UpdateSettingsRequest{WebhookURL: &bad})
	assert.Error(t, err)

	_, err = svc.Update(context.Background(), dto.UpdateSettingsRequest{SyncSchedule: []string{"25:99"}})
	assert.Error(t, err)
}
