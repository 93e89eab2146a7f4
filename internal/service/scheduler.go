package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sfk-console-api/internal/models"
)

const (
	historyRetention = 30 * 24 * time.Hour
	purgeMinute      = "03:30"
)

type syncRunner interface {
	Sync(ctx context.Context, mode models.SyncMode) models.SyncResult
}

type historyPurger interface {
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// SchedulerConfig tunes the sync scheduler.
type SchedulerConfig struct {
	Location  *time.Location
	OnStartup bool
	Interval  time.Duration
	Reporter  ErrorReporter
}

// Scheduler runs silent syncs at the HH:MM slots listed in settings. It checks once per
// interval and fires at most once per calendar minute.
type Scheduler struct {
	runner   syncRunner
	settings settingsReader
	purger   historyPurger
	logger   *zap.Logger
	cfg      SchedulerConfig
	now      func() time.Time

	mu        sync.Mutex
	lastFired string
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewScheduler constructs a Scheduler. purger may be nil.
func NewScheduler(runner syncRunner, settings settingsReader, purger historyPurger, logger *zap.Logger, cfg SchedulerConfig) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.Reporter == nil {
		cfg.Reporter = func(error, ...string) {}
	}
	return &Scheduler{runner: runner, settings: settings, purger: purger, logger: logger, cfg: cfg, now: time.Now}
}

// Start launches the loop, running a startup sync first when configured.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if s.cfg.OnStartup {
			s.safely(ctx, func(ctx context.Context) { s.runner.Sync(ctx, models.SyncSilent) })
		}
		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.safely(ctx, func(ctx context.Context) { s.Tick(ctx) })
			}
		}
	}()
	s.logger.Info("sync scheduler started", zap.String("timezone", s.cfg.Location.String()))
}

// Stop cancels the loop and waits for an in-flight tick.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}

// Tick evaluates the schedule for the current minute and reports whether a sync ran.
func (s *Scheduler) Tick(ctx context.Context) bool {
	now := s.now().In(s.cfg.Location)
	minute := now.Format("2006-01-02 15:04")
	hhmm := now.Format("15:04")

	if hhmm == purgeMinute {
		s.purge(ctx, now)
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		s.logger.Warn("scheduler could not read settings", zap.Error(err))
		return false
	}
	if !scheduled(settings.SyncSchedule, hhmm) {
		return false
	}

	s.mu.Lock()
	if s.lastFired == minute {
		s.mu.Unlock()
		return false
	}
	s.lastFired = minute
	s.mu.Unlock()

	s.logger.Info("scheduled sync", zap.String("slot", hhmm))
	s.runner.Sync(ctx, models.SyncSilent)
	return true
}

func (s *Scheduler) purge(ctx context.Context, now time.Time) {
	if s.purger == nil {
		return
	}
	n, err := s.purger.PurgeBefore(ctx, now.Add(-historyRetention).UTC())
	if err != nil {
		s.logger.Warn("failed to purge history", zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Info("purged old history", zap.Int64("items", n))
	}
}

func (s *Scheduler) safely(ctx context.Context, fn func(context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic in scheduler: %v", r)
			s.cfg.Reporter(err, "component", "scheduler")
			s.logger.Error("scheduler recovered", zap.Error(err))
		}
	}()
	fn(ctx)
}

func scheduled(slots []string, hhmm string) bool {
	for _, slot := range slots {
		t, err := time.Parse("15:04", slot)
		if err != nil {
			continue
		}
		if t.Format("15:04") == hhmm {
			return true
		}
	}
	return false
}
