package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sfk-console-api/internal/models"
)

func TestCollectionsReturnStoredValues(t *testing.T) {
	data, _ := newTestCollections()
	ctx := context.Background()

	mustSave(t, data.SaveStudents(ctx, []models.Student{{ID: "ana"}, {ID: "bia"}}))
	mustSave(t, data.SaveClasses(ctx, []models.Class{{ID: "Judô"}, {ID: "Ballet"}}))
	mustSave(t, data.SaveEnrollments(ctx, []models.Enrollment{{ID: "ana|judô|"}, {ID: "bia|ballet|"}}))
	mustSave(t, data.SaveAttendance(ctx, []models.AttendanceRecord{{ID: "a1"}, {ID: "a2"}}))
	mustSave(t, data.SaveTrialLeads(ctx, []models.TrialLead{{ID: "l1"}, {ID: "l2"}}))

	students, err := data.Students(ctx)
	require.NoError(t, err)
	assert.Len(t, students, 2)
	classes, err := data.Classes(ctx)
	require.NoError(t, err)
	assert.Len(t, classes, 2)
	enrollments, err := data.Enrollments(ctx)
	require.NoError(t, err)
	assert.Len(t, enrollments, 2)
	records, err := data.Attendance(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 2)
	leads, err := data.TrialLeads(ctx)
	require.NoError(t, err)
	assert.Equal(t, "l2", leads[1].ID)
}

func TestCollectionsNeverStoredReadEmpty(t *testing.T) {
	data, _ := newTestCollections()
	students, err := data.Students(context.Background())
	require.NoError(t, err)
	assert.Empty(t, students)
}
