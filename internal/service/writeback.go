package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/sfk-console-api/internal/models"
	"github.com/noah-isme/sfk-console-api/pkg/jobs"
	"github.com/noah-isme/sfk-console-api/pkg/middleware/requestid"
)

// Write-back actions understood by the spreadsheet endpoint. They double as job types.
const (
	ActionSaveTrialLead  = "save_experimental"
	ActionSaveAttendance = "save_frequencia"
)

type sheetsPoster interface {
	Post(ctx context.Context, endpoint, action string, data interface{}) (int, error)
}

type settingsReader interface {
	Get(ctx context.Context) (models.Settings, error)
}

type enqueuer interface {
	Enqueue(job jobs.Job) error
}

// WriteBackService pushes local edits back to the spreadsheet. Only transport errors count
// as failures; the endpoint's status code is logged but not trusted.
type WriteBackService struct {
	poster   sheetsPoster
	settings settingsReader
	queue    enqueuer
	reporter ErrorReporter
	logger   *zap.Logger
}

// NewWriteBackService constructs a WriteBackService. queue may be nil, in which case
// asynchronous write-backs run inline.
func NewWriteBackService(poster sheetsPoster, settings settingsReader, queue enqueuer, reporter ErrorReporter, logger *zap.Logger) *WriteBackService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if reporter == nil {
		reporter = func(error, ...string) {}
	}
	return &WriteBackService{poster: poster, settings: settings, queue: queue, reporter: reporter, logger: logger}
}

// Post sends action synchronously.
func (s *WriteBackService) Post(ctx context.Context, action string, data interface{}) error {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return err
	}
	if settings.EndpointURL == "" {
		return fmt.Errorf("%s: no endpoint configured", action)
	}
	reqID := requestid.FromContext(ctx)
	status, err := s.poster.Post(ctx, settings.EndpointURL, action, data)
	if err != nil {
		s.reporter(err, "component", "writeback", "action", action, "request_id", reqID)
		return err
	}
	if status/100 != 2 {
		s.logger.Warn("write-back answered with non-2xx", zap.String("action", action), zap.Int("status", status), zap.String("request_id", reqID))
		return nil
	}
	s.logger.Debug("write-back delivered", zap.String("action", action), zap.String("request_id", reqID))
	return nil
}

// Enqueue schedules action for delivery by the worker pool. Errors are logged only.
func (s *WriteBackService) Enqueue(ctx context.Context, action string, data interface{}) {
	if s.queue == nil {
		if err := s.Post(ctx, action, data); err != nil {
			s.logger.Warn("write-back failed", zap.String("action", action), zap.Error(err))
		}
		return
	}
	if err := s.queue.Enqueue(jobs.Job{Type: action, Payload: data, RequestID: requestid.FromContext(ctx)}); err != nil {
		s.logger.Warn("failed to enqueue write-back", zap.String("action", action), zap.Error(err))
	}
}

// HandleJob is the queue handler for write-back job types.
func (s *WriteBackService) HandleJob(ctx context.Context, job jobs.Job) error {
	return s.Post(ctx, job.Type, job.Payload)
}
