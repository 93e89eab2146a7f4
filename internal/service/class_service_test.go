package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sfk-console-api/internal/models"
)

func seedRoster(t *testing.T) *Collections {
	t.Helper()
	ctx := context.Background()
	data, _ := newTestCollections()
	mustSave(t, data.SaveClasses(ctx, []models.Class{
		{ID: "Judô 1", Name: "Judô 1", Unit: "Centro", Capacity: 3},
		{ID: "Ballet", Name: "Ballet", Unit: "Norte", Capacity: 1},
	}))
	mustSave(t, data.SaveStudents(ctx, []models.Student{
		{ID: "ana", Name: "Ana", Status: models.StudentStatusActive, Unit: "Centro"},
		{ID: "bia", Name: "Bia", Status: models.StudentStatusActive, Unit: "Norte"},
		{ID: "caio", Name: "Caio", Status: models.StudentStatusCancelled, Unit: "Centro"},
	}))
	mustSave(t, data.SaveEnrollments(ctx, []models.Enrollment{
		{ID: "e1", StudentID: "ana", ClassID: "judo", Unit: "Centro"},
		{ID: "e2", StudentID: "bia", ClassID: "Judô", Unit: "Norte"},
		{ID: "e3", StudentID: "bia", ClassID: "ballet"},
		{ID: "e4", StudentID: "ana", ClassID: "Judô", Unit: ""},
	}))
	return data
}

func TestClassRosterMatchesFuzzily(t *testing.T) {
	svc := NewClassService(seedRoster(t), nil)

	roster, err := svc.Roster(context.Background(), "judô 1")
	require.NoError(t, err)
	require.Len(t, roster.Students, 1, "Norte enrollment does not match the Centro class")
	assert.Equal(t, "ana", roster.Students[0].ID)
	assert.Equal(t, 1, roster.Occupied)
	assert.Equal(t, 2, roster.Free)

	ballet, err := svc.Roster(context.Background(), "Ballet")
	require.NoError(t, err)
	assert.Equal(t, 1, ballet.Occupied)
	assert.Equal(t, 0, ballet.Free)

	_, err = svc.Roster(context.Background(), "Xadrez")
	assert.Error(t, err)
}

func TestClassListByUnit(t *testing.T) {
	classes, err := NewClassService(seedRoster(t), nil).List(context.Background(), "norte")
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, "Ballet", classes[0].ID)
}

func TestStudentListFiltersAndPaginates(t *testing.T) {
	svc := NewStudentService(seedRoster(t), nil)

	active, page, err := svc.List(context.Background(), models.StudentFilter{Status: models.StudentStatusActive}, 1, 1)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Ana", active[0].Name)
	assert.Equal(t, 2, page.TotalCount)

	found, _, err := svc.List(context.Background(), models.StudentFilter{Search: "cai"}, 0, 0)
	require.NoError(t, err)
	require.Len(t, found, 1)

	_, err = svc.Get(context.Background(), "nobody")
	assert.Error(t, err)
}

func TestEnrollmentListFilters(t *testing.T) {
	svc := NewEnrollmentService(seedRoster(t))
	list, err := svc.List(context.Background(), models.EnrollmentFilter{StudentID: "bia"})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	judo, err := svc.List(context.Background(), models.EnrollmentFilter{ClassID: "JUDO"})
	require.NoError(t, err)
	assert.Len(t, judo, 3)
}
