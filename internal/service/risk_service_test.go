package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sfk-console-api/internal/models"
)

func attendanceSeries(student, class string, statuses ...models.AttendanceStatus) []models.AttendanceRecord {
	// statuses are given oldest first
	records := make([]models.AttendanceRecord, 0, len(statuses))
	for i, st := range statuses {
		records = append(records, models.AttendanceRecord{
			StudentID:   student,
			StudentName: student,
			ClassID:     class,
			Unit:        "Centro",
			Date:        fmt.Sprintf("2024-03-%02d", i+1),
			Status:      st,
			SubmittedAt: time.Date(2024, 3, i+1, 18, 0, 0, 0, time.UTC),
		})
	}
	return records
}

const (
	P = models.AttendancePresent
	A = models.AttendanceAbsent
)

func TestEvaluateRiskConsecutiveAbsences(t *testing.T) {
	alerts := evaluateRisk(attendanceSeries("Ana", "Judô", P, P, A, A, A))
	require.Len(t, alerts, 1)
	assert.Equal(t, models.RiskConsecutiveAbsences, alerts[0].Reason)
	assert.Equal(t, "ana|centro|judô|2024-03-05", alerts[0].ID)
	assert.Equal(t, "2024-03-05", alerts[0].LastDate)
}

func TestEvaluateRiskAbsenceRate(t *testing.T) {
	// newest nine: A P A P A P A P A -> five absences
	alerts := evaluateRisk(attendanceSeries("Bia", "Ballet", P, A, P, A, P, A, P, A, P, A))
	require.Len(t, alerts, 1)
	assert.Equal(t, models.RiskHighAbsenceRate, alerts[0].Reason)
	assert.Equal(t, 5, alerts[0].Absences)
	assert.Equal(t, 9, alerts[0].Window)
}

func TestEvaluateRiskNotFlagged(t *testing.T) {
	assert.Empty(t, evaluateRisk(attendanceSeries("Caio", "Judô", A, A)))
	assert.Empty(t, evaluateRisk(attendanceSeries("Caio", "Judô", A, A, A, P)))
	assert.Empty(t, evaluateRisk(attendanceSeries("Caio", "Judô", P, A, P, A, P, A, P, A, P)), "four of nine is under half")
}

func TestEvaluateRiskGroupsByClass(t *testing.T) {
	records := append(attendanceSeries("Ana", "Judô", A, A), attendanceSeries("Ana", "Ballet", A)...)
	assert.Empty(t, evaluateRisk(records))
}

func TestRiskServiceAlertsHandledAndJoined(t *testing.T) {
	ctx := context.Background()
	data, _ := newTestCollections()
	records := append(attendanceSeries("Ana", "Judô", A, A, A), attendanceSeries("Bia", "Judô", A, A, A)...)
	records[len(records)-1].AlarmSent = true
	records = append(records, attendanceSeries("Caio", "Judô", A, A, A)...)
	mustSave(t, data.SaveAttendance(ctx, records))
	mustSave(t, data.SaveStudents(ctx, []models.Student{{ID: "ana", Name: "Ana", Guardian1: "Rita", Guardian1Phone: "11912345678"}}))

	actions := &memoryRetention{actions: []models.RetentionAction{{AlertID: "caio|centro|judô|2024-03-03"}}}
	metrics := NewMetricsService()
	svc := NewRiskService(data, actions, metrics, nil)

	summary, err := svc.Alerts(ctx)
	require.NoError(t, err)
	require.Len(t, summary.Alerts, 3)
	assert.Equal(t, 1, summary.Actionable)

	first := summary.Alerts[0]
	assert.Equal(t, "ana", first.StudentID)
	assert.False(t, first.Handled)
	assert.Equal(t, "Rita", first.GuardianName)
	assert.Equal(t, "11912345678", first.GuardianPhone)

	for _, a := range summary.Alerts[1:] {
		assert.True(t, a.Handled)
	}

	found, err := svc.Find(ctx, "bia|centro|judô|2024-03-03")
	require.NoError(t, err)
	assert.True(t, found.HandledByAlarm)

	_, err = svc.Find(ctx, "missing")
	assert.Error(t, err)
}
