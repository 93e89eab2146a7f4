package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sfk-console-api/internal/models"
	"github.com/noah-isme/sfk-console-api/internal/repository"
)

func TestFinanceReport(t *testing.T) {
	ctx := context.Background()
	data, _ := newTestCollections()
	mustSave(t, data.SaveClasses(ctx, []models.Class{
		{ID: "Judô", Name: "Judô", Unit: "Centro", MonthlyPrice: 150},
		{ID: "Ballet 2", Name: "Ballet 2", Unit: "", MonthlyPrice: 200.5},
	}))
	mustSave(t, data.SaveEnrollments(ctx, []models.Enrollment{
		{ID: "1", StudentID: "ana", ClassID: "judo", Unit: "Centro"},
		{ID: "2", StudentID: "bia", ClassID: "Judô", Unit: "centro"},
		{ID: "3", StudentID: "caio", ClassID: "Ballet", Unit: "Norte"},
		{ID: "4", StudentID: "duda", ClassID: "Xadrez", Unit: "Norte"},
	}))
	mustSave(t, data.SaveStudents(ctx, []models.Student{
		{ID: "eva", CancelledCourses: []models.CancelledCourse{
			{Course: "Judô", CancellationDate: "2024-03-02"},
			{Course: "Judô", CancellationDate: "2024-01-02"},
		}},
	}))

	svc := NewReportService(data, nil, time.UTC, nil)
	svc.now = func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) }

	report, _, err := svc.Finance(ctx, "")
	require.NoError(t, err)
	require.Len(t, report.Lines, 2)
	assert.Equal(t, 1, report.UnpricedEnrollments)
	assert.Equal(t, 1, report.CancellationsMonth)
	assert.InDelta(t, 500.5, report.Total, 0.001)

	var judo models.FinanceLine
	for _, l := range report.Lines {
		if l.ClassID == "Judô" {
			judo = l
		}
	}
	assert.Equal(t, 2, judo.ActiveCount)
	assert.InDelta(t, 300, judo.Expected, 0.001)

	north, _, err := svc.Finance(ctx, "norte")
	require.NoError(t, err)
	assert.InDelta(t, 200.5, north.Total, 0.001)
}

func TestTrialFunnel(t *testing.T) {
	ctx := context.Background()
	data, _ := newTestCollections()
	mustSave(t, data.SaveTrialLeads(ctx, []models.TrialLead{
		{ID: "1", Course: "Ballet", Status: models.TrialPresent, Converted: true},
		{ID: "2", Course: "ballet", Status: models.TrialAbsent},
		{ID: "3", Course: "Judô", Status: models.TrialPending},
		{ID: "4", Course: "Ballet", Status: models.TrialPresent},
	}))

	funnel, _, err := NewReportService(data, nil, nil, nil).TrialFunnel(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, funnel.Total)
	assert.Equal(t, 1, funnel.Converted)
	assert.InDelta(t, 0.25, funnel.Rate, 0.001)
	assert.Equal(t, 2, funnel.ByStatus[models.TrialPresent])
	require.Len(t, funnel.ByCourse, 2)
	assert.Equal(t, 3, funnel.ByCourse[0].Leads)
	assert.Equal(t, 2, funnel.ByCourse[0].Attended)
	assert.InDelta(t, 0.33, funnel.ByCourse[0].Rate, 0.001)
}

func TestReportsAreCachedUntilInvalidated(t *testing.T) {
	ctx := context.Background()
	data, _ := newTestCollections()
	mustSave(t, data.SaveTrialLeads(ctx, []models.TrialLead{{ID: "1", Course: "Ballet", Status: models.TrialPending}}))

	cache := NewCacheService(repository.NewMemoryCacheRepository(), nil, time.Minute, nil)
	svc := NewReportService(data, cache, nil, nil)

	first, hit, err := svc.TrialFunnel(ctx)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 1, first.Total)

	mustSave(t, data.SaveTrialLeads(ctx, []models.TrialLead{{ID: "1"}, {ID: "2"}}))
	cached, hit, err := svc.TrialFunnel(ctx)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, cached.Total)

	require.NoError(t, cache.InvalidateReports(ctx))
	fresh, hit, err := svc.TrialFunnel(ctx)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, fresh.Total)
}
