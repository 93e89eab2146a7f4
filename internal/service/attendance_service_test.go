package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sfk-console-api/internal/dto"
	"github.com/noah-isme/sfk-console-api/internal/models"
)

func TestAttendanceSaveReplacesClassDate(t *testing.T) {
	ctx := context.Background()
	data, _ := newTestCollections()
	mustSave(t, data.SaveAttendance(ctx, []models.AttendanceRecord{
		{ID: "old", StudentID: "ana", ClassID: "Judô", Date: "2024-03-10", Status: models.AttendanceAbsent},
		{ID: "other-day", StudentID: "ana", ClassID: "Judô", Date: "2024-03-09"},
		{ID: "other-class", StudentID: "ana", ClassID: "Ballet", Date: "2024-03-10"},
	}))
	poster := &stubPoster{}
	svc := NewAttendanceService(data, poster, nil, nil)

	resp, err := svc.Save(ctx, dto.SaveAttendanceRequest{
		ClassID: "Judô",
		Date:    "10/03/2024",
		Records: []dto.AttendanceEntry{
			{StudentName: "Ana", Status: "Presente"},
			{StudentName: "Bruno Lima", Status: "Ausente"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Saved)
	assert.True(t, resp.RemoteSaved)
	assert.Empty(t, resp.Notice)
	assert.Equal(t, []string{ActionSaveAttendance}, poster.actions)

	records, err := svc.List(ctx, models.AttendanceFilter{ClassID: "Judô", Date: "2024-03-10"})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "ana", records[0].StudentID)
	assert.Equal(t, models.AttendancePresent, records[0].Status)
	assert.Equal(t, "bruno_lima", records[1].StudentID)

	all, err := data.Attendance(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestAttendanceSaveKeepsLocalWhenRemoteFails(t *testing.T) {
	ctx := context.Background()
	data, _ := newTestCollections()
	svc := NewAttendanceService(data, &stubPoster{err: errBoom}, nil, nil)

	resp, err := svc.Save(ctx, dto.SaveAttendanceRequest{
		ClassID: "Judô",
		Date:    "2024-03-10",
		Records: []dto.AttendanceEntry{{StudentName: "Ana", Status: "Ausente"}},
	})
	require.NoError(t, err)
	assert.False(t, resp.RemoteSaved)
	assert.Equal(t, LocalOnlyNotice, resp.Notice)

	all, err := data.Attendance(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestAttendanceSaveValidation(t *testing.T) {
	data, _ := newTestCollections()
	svc := NewAttendanceService(data, &stubPoster{}, nil, nil)

	_, err := svc.Save(context.Background(), dto.SaveAttendanceRequest{ClassID: "Judô", Date: "2024-03-10"})
	assert.Error(t, err)

	_, err = svc.Save(context.Background(), dto.SaveAttendanceRequest{
		ClassID: "Judô",
		Date:    "sem data definida",
		Records: []dto.AttendanceEntry{{StudentName: "Ana", Status: "Presente"}},
	})
	assert.Error(t, err)

	_, err = svc.Save(context.Background(), dto.SaveAttendanceRequest{
		ClassID: "Judô",
		Date:    "2024-03-10",
		Records: []dto.AttendanceEntry{{StudentName: "Ana", Status: "talvez"}},
	})
	assert.Error(t, err)
}
