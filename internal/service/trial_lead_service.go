package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sfk-console-api/internal/dto"
	"github.com/noah-isme/sfk-console-api/internal/models"
	appErrors "github.com/noah-isme/sfk-console-api/pkg/errors"
	"github.com/noah-isme/sfk-console-api/pkg/normalize"
)

type asyncPoster interface {
	Enqueue(ctx context.Context, action string, data interface{})
}

type messageNotifier interface {
	Send(ctx context.Context, phone, text string) error
}

type reportInvalidator interface {
	InvalidateReports(ctx context.Context) error
}

// TrialLeadService manages trial-class leads. Every local edit is mirrored to the
// spreadsheet in the background.
type TrialLeadService struct {
	data      *Collections
	writeBack asyncPoster
	notifier  messageNotifier
	settings  settingsReader
	reports   reportInvalidator
	validator *validator.Validate
	logger    *zap.Logger

	mu sync.Mutex
}

// NewTrialLeadService constructs a TrialLeadService. reports may be nil; when set, every lead
// edit drops the cached reports so the trial funnel reflects it.
func NewTrialLeadService(data *Collections, writeBack asyncPoster, notifier messageNotifier, settings settingsReader, reports reportInvalidator, validate *validator.Validate, logger *zap.Logger) *TrialLeadService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrialLeadService{data: data, writeBack: writeBack, notifier: notifier, settings: settings, reports: reports, validator: validate, logger: logger}
}

// List returns leads matching filter, soonest trial first.
func (s *TrialLeadService) List(ctx context.Context, filter models.TrialLeadFilter) ([]models.TrialLead, error) {
	leads, err := s.data.TrialLeads(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.TrialLead, 0, len(leads))
	for _, l := range leads {
		if filter.Status != "" && l.Status != filter.Status {
			continue
		}
		if filter.Course != "" && normalize.NormalizeCourse(l.Course) != normalize.NormalizeCourse(filter.Course) {
			continue
		}
		if filter.Unit != "" && normalize.NormalizeKey(l.Unit) != normalize.NormalizeKey(filter.Unit) {
			continue
		}
		out = append(out, l)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ScheduledDate < out[j].ScheduledDate })
	return out, nil
}

// Get returns one lead.
func (s *TrialLeadService) Get(ctx context.Context, id string) (*models.TrialLead, error) {
	leads, err := s.data.TrialLeads(ctx)
	if err != nil {
		return nil, err
	}
	for i := range leads {
		if leads[i].ID == id {
			return &leads[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "trial lead not found")
}

// Update applies the patch locally and queues the write-back.
func (s *TrialLeadService) Update(ctx context.Context, id string, req dto.UpdateTrialLeadRequest) (*models.TrialLead, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid trial lead payload")
	}
	return s.mutate(ctx, id, func(l *models.TrialLead) {
		if req.Status != nil {
			l.Status = models.TrialStatus(*req.Status)
		}
		if req.FollowUpSent != nil {
			l.FollowUpSent = *req.FollowUpSent
		}
		if req.ReminderSent != nil {
			l.ReminderSent = *req.ReminderSent
		}
		if req.Converted != nil {
			l.Converted = *req.Converted
		}
		if req.Note != nil {
			l.Note = strings.TrimSpace(*req.Note)
		}
	})
}

// SendReminder messages the guardian about the trial class and marks the reminder sent.
// An empty message uses the reminder template.
func (s *TrialLeadService) SendReminder(ctx context.Context, id string, req dto.SendReminderRequest) (*models.TrialLead, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reminder payload")
	}
	lead, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	text := req.Message
	if text == "" {
		settings, err := s.settings.Get(ctx)
		if err != nil {
			return nil, err
		}
		text = settings.ReminderTemplate
	}
	text = RenderTemplate(text, TemplateVars{
		Student:  lead.StudentName,
		Guardian: lead.GuardianName,
		Course:   lead.Course,
		Date:     lead.ScheduledDate,
		Unit:     lead.Unit,
	})
	if err := s.notifier.Send(ctx, lead.GuardianPhone, text); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(l *models.TrialLead) { l.ReminderSent = true })
}

func (s *TrialLeadService) mutate(ctx context.Context, id string, fn func(*models.TrialLead)) (*models.TrialLead, error) {
	s.mu.Lock()
	leads, err := s.data.TrialLeads(ctx)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	idx := -1
	for i := range leads {
		if leads[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return nil, appErrors.Clone(appErrors.ErrNotFound, "trial lead not found")
	}
	fn(&leads[idx])
	updated := leads[idx]
	err = s.data.SaveTrialLeads(ctx, leads)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	if s.reports != nil {
		if err := s.reports.InvalidateReports(ctx); err != nil {
			s.logger.Warn("report cache not invalidated after lead edit", zap.String("lead", id), zap.Error(err))
		}
	}
	s.writeBack.Enqueue(ctx, ActionSaveTrialLead, updated)
	return &updated, nil
}
