package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sfk-console-api/internal/models"
)

type countingRunner struct {
	mu    sync.Mutex
	modes []models.SyncMode
}

func (r *countingRunner) Sync(ctx context.Context, mode models.SyncMode) models.SyncResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modes = append(r.modes, mode)
	return models.SyncResult{Success: true}
}

func (r *countingRunner) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.modes)
}

type countingPurger struct{ cutoffs []time.Time }

func (p *countingPurger) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	p.cutoffs = append(p.cutoffs, cutoff)
	return 1, nil
}

func TestSchedulerTickFiresOncePerMinute(t *testing.T) {
	runner := &countingRunner{}
	settings := &stubSettings{settings: models.Settings{SyncSchedule: []string{"07:00", "12:00", "18:00"}}}
	loc := time.FixedZone("BRT", -3*3600)
	s := NewScheduler(runner, settings, nil, nil, SchedulerConfig{Location: loc})

	now := time.Date(2024, 3, 10, 15, 0, 10, 0, time.UTC) // 12:00 local
	s.now = func() time.Time { return now }

	assert.True(t, s.Tick(context.Background()))
	now = now.Add(30 * time.Second)
	assert.False(t, s.Tick(context.Background()), "same minute does not fire twice")
	now = now.Add(time.Minute)
	assert.False(t, s.Tick(context.Background()), "12:01 is not a slot")

	now = time.Date(2024, 3, 11, 15, 0, 0, 0, time.UTC)
	assert.True(t, s.Tick(context.Background()), "next day fires again")
	assert.Equal(t, []models.SyncMode{models.SyncSilent, models.SyncSilent}, runner.modes)
}

func TestSchedulerPurgesHistoryOncePerDay(t *testing.T) {
	purger := &countingPurger{}
	s := NewScheduler(&countingRunner{}, &stubSettings{}, purger, nil, SchedulerConfig{})
	now := time.Date(2024, 3, 10, 3, 30, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	assert.False(t, s.Tick(context.Background()))
	require.Len(t, purger.cutoffs, 1)
	assert.Equal(t, now.Add(-historyRetention), purger.cutoffs[0])
}

func TestSchedulerStartRunsStartupSync(t *testing.T) {
	runner := &countingRunner{}
	s := NewScheduler(runner, &stubSettings{}, nil, nil, SchedulerConfig{OnStartup: true, Interval: time.Hour})
	s.Start(context.Background())
	require.Eventually(t, func() bool { return runner.count() == 1 }, time.Second, 10*time.Millisecond)
	s.Stop()
}

func TestScheduledSlots(t *testing.T) {
	assert.True(t, scheduled([]string{"7:00"}, "07:00"))
	assert.False(t, scheduled([]string{"bad"}, "07:00"))
	assert.False(t, scheduled(nil, "07:00"))
}
