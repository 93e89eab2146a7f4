package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sfk-console-api/internal/models"
	appErrors "github.com/noah-isme/sfk-console-api/pkg/errors"
	"github.com/noah-isme/sfk-console-api/pkg/sheets"
)

// LastSyncedLayout is how the last sync time is shown to operators.
const LastSyncedLayout = "02/01/2006 15:04"

// Sync sources.
const (
	SourceEndpoint = "endpoint"
	SourceWorkbook = "workbook"
)

// countEnrollments is the Counts key for enrollments derived from the base section.
const countEnrollments = "matriculas"

type sheetsFetcher interface {
	Fetch(ctx context.Context, endpoint string) (sheets.Payload, error)
}

type syncRunRecorder interface {
	Create(ctx context.Context, run *models.SyncResult) error
	ListRecent(ctx context.Context, limit int) ([]models.SyncResult, error)
}

type settingsStore interface {
	Get(ctx context.Context) (models.Settings, error)
	MarkSynced(ctx context.Context, lastSynced string) error
}

// ErrorReporter forwards failures to an error tracker.
type ErrorReporter func(err error, tags ...string)

// SyncServiceConfig tunes the orchestrator.
type SyncServiceConfig struct {
	Seeds    []models.User
	Location *time.Location
	Reporter ErrorReporter
	Now      func() time.Time
}

// SyncService pulls the spreadsheet and replaces the local collections. Overlapping runs
// are not serialized; the last one to write a collection wins.
type SyncService struct {
	fetcher  sheetsFetcher
	data     *Collections
	settings settingsStore
	runs     syncRunRecorder
	metrics  *MetricsService
	logger   *zap.Logger

	seeds    []models.User
	loc      *time.Location
	reporter ErrorReporter
	now      func() time.Time
	after    []func(context.Context)
}

// NewSyncService constructs a SyncService. runs may be nil when no database is configured.
func NewSyncService(fetcher sheetsFetcher, data *Collections, settings settingsStore, runs syncRunRecorder, metrics *MetricsService, logger *zap.Logger, cfg SyncServiceConfig) *SyncService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Reporter == nil {
		cfg.Reporter = func(error, ...string) {}
	}
	return &SyncService{
		fetcher:  fetcher,
		data:     data,
		settings: settings,
		runs:     runs,
		metrics:  metrics,
		logger:   logger,
		seeds:    cfg.Seeds,
		loc:      cfg.Location,
		reporter: cfg.Reporter,
		now:      cfg.Now,
	}
}

// AfterSync registers fn to run after every successful sync.
func (s *SyncService) AfterSync(fn func(context.Context)) {
	s.after = append(s.after, fn)
}

// Sync fetches the endpoint and applies every section it returned. It never returns an
// error: the outcome is in the result.
func (s *SyncService) Sync(ctx context.Context, mode models.SyncMode) models.SyncResult {
	return s.run(ctx, mode, SourceEndpoint, func(ctx context.Context) (sheets.Payload, error) {
		settings, err := s.settings.Get(ctx)
		if err != nil {
			return nil, err
		}
		if settings.EndpointURL == "" {
			return nil, appErrors.ErrEndpointMissing
		}
		payload, err := s.fetcher.Fetch(ctx, settings.EndpointURL)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "falha ao buscar dados da planilha")
		}
		return payload, nil
	})
}

// Import applies an already loaded payload, such as one read from a workbook upload.
func (s *SyncService) Import(ctx context.Context, mode models.SyncMode, payload sheets.Payload) models.SyncResult {
	return s.run(ctx, mode, SourceWorkbook, func(context.Context) (sheets.Payload, error) {
		return payload, nil
	})
}

func (s *SyncService) run(ctx context.Context, mode models.SyncMode, source string, load func(context.Context) (sheets.Payload, error)) (result models.SyncResult) {
	started := s.now()
	result = models.SyncResult{Mode: mode, Source: source, StartedAt: started.UTC()}

	defer func() {
		if r := recover(); r != nil {
			s.fail(&result, fmt.Errorf("sync panicked: %v", r))
		}
		result.FinishedAt = s.now().UTC()
		s.metrics.ObserveSync(string(mode), source, result.Success, result.Counts, result.FinishedAt.Sub(started))
		s.record(ctx, result)
	}()

	payload, err := load(ctx)
	if err != nil {
		s.fail(&result, err)
		return result
	}

	counts, err := s.apply(ctx, payload)
	if err != nil {
		s.fail(&result, err)
		return result
	}

	lastSynced := s.now().In(s.loc).Format(LastSyncedLayout)
	if err := s.settings.MarkSynced(ctx, lastSynced); err != nil {
		s.logger.Warn("failed to record last sync time", zap.Error(err))
	}

	result.Success = true
	result.Counts = counts
	result.LastSyncedAt = lastSynced
	if mode == models.SyncManual {
		result.Message = "Sincronização concluída"
	}
	s.logger.Info("sync finished",
		zap.String("mode", string(mode)),
		zap.String("source", source),
		zap.Any("counts", counts),
	)

	for _, fn := range s.after {
		fn(ctx)
	}
	return result
}

func (s *SyncService) fail(result *models.SyncResult, err error) {
	result.Success = false
	s.reporter(err, "component", "sync", "mode", string(result.Mode), "source", result.Source)
	if result.Mode == models.SyncManual {
		result.Message = "Falha na sincronização: " + appErrors.FromError(err).Error()
		s.logger.Error("manual sync failed", zap.String("source", result.Source), zap.Error(err))
		return
	}
	s.logger.Warn("background sync failed", zap.String("source", result.Source), zap.Error(err))
}

func (s *SyncService) record(ctx context.Context, result models.SyncResult) {
	if s.runs == nil {
		return
	}
	if err := s.runs.Create(ctx, &result); err != nil {
		s.logger.Warn("failed to record sync run", zap.Error(err))
	}
}

// apply replaces each collection whose section is present in payload.
func (s *SyncService) apply(ctx context.Context, payload sheets.Payload) (map[string]int, error) {
	counts := make(map[string]int)

	if payload.Has(models.SectionUsers) {
		users := mapUsers(payload[models.SectionUsers], s.seeds)
		if err := s.data.SaveUsers(ctx, users); err != nil {
			return nil, err
		}
		counts[models.SectionUsers] = len(users)
	}

	if payload.Has(models.SectionClasses) {
		classes := mapClasses(payload[models.SectionClasses])
		if err := s.data.SaveClasses(ctx, classes); err != nil {
			return nil, err
		}
		counts[models.SectionClasses] = len(classes)
	}

	if payload.Has(models.SectionRoster) {
		students, enrollments := mapRoster(payload[models.SectionRoster])
		if err := s.data.SaveStudents(ctx, students); err != nil {
			return nil, err
		}
		if err := s.data.SaveEnrollments(ctx, enrollments); err != nil {
			return nil, err
		}
		counts[models.SectionRoster] = len(students)
		counts[countEnrollments] = len(enrollments)
	}

	if payload.Has(models.SectionAttendance) {
		records := mapAttendance(payload[models.SectionAttendance])
		// An empty result keeps what is stored rather than wiping it.
		if len(records) > 0 {
			if err := s.data.SaveAttendance(ctx, records); err != nil {
				return nil, err
			}
		}
		counts[models.SectionAttendance] = len(records)
	}

	if payload.Has(models.SectionTrials) {
		leads := mapTrialLeads(payload[models.SectionTrials])
		if err := s.data.SaveTrialLeads(ctx, leads); err != nil {
			return nil, err
		}
		counts[models.SectionTrials] = len(leads)
	}

	return counts, nil
}

// Status reports the last sync time, the schedule and recent runs when history is kept.
func (s *SyncService) Status(ctx context.Context) (models.SyncStatus, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return models.SyncStatus{}, err
	}
	status := models.SyncStatus{
		LastSyncedAt: settings.LastSyncedAt,
		Schedule:     settings.SyncSchedule,
		RecentRuns:   []models.SyncResult{},
	}
	if s.runs != nil {
		runs, err := s.runs.ListRecent(ctx, 10)
		if err != nil {
			return models.SyncStatus{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sync runs")
		}
		status.RecentRuns = runs
	}
	return status, nil
}
