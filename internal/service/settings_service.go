package service

import (
	"context"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sfk-console-api/internal/dto"
	"github.com/noah-isme/sfk-console-api/internal/models"
	"github.com/noah-isme/sfk-console-api/internal/repository"
	appErrors "github.com/noah-isme/sfk-console-api/pkg/errors"
)

// Default message templates. Placeholders: {aluno} {responsavel} {curso} {data} {unidade}.
const (
	DefaultReminderTemplate = "Olá {responsavel}! Lembramos da aula experimental de {curso} de {aluno} no dia {data} na unidade {unidade}. Até lá!"
	DefaultFollowUpTemplate = "Olá {responsavel}! O que {aluno} achou da aula experimental de {curso}? Estamos à disposição para a matrícula."
	DefaultAbsenceTemplate  = "Olá {responsavel}! Sentimos falta de {aluno} nas últimas aulas de {curso} ({unidade}). Está tudo bem?"
)

// SettingsService stores operator settings next to the synced collections. Stored values
// override the config defaults field by field.
type SettingsService struct {
	store     snapshotStore
	defaults  models.Settings
	validator *validator.Validate
	logger    *zap.Logger

	mu sync.Mutex
}

// NewSettingsService constructs a SettingsService.
func NewSettingsService(store snapshotStore, defaults models.Settings, validate *validator.Validate, logger *zap.Logger) *SettingsService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaults.ReminderTemplate == "" {
		defaults.ReminderTemplate = DefaultReminderTemplate
	}
	if defaults.FollowUpTemplate == "" {
		defaults.FollowUpTemplate = DefaultFollowUpTemplate
	}
	if defaults.AbsenceTemplate == "" {
		defaults.AbsenceTemplate = DefaultAbsenceTemplate
	}
	return &SettingsService{store: store, defaults: defaults, validator: validate, logger: logger}
}

// Get returns the effective settings.
func (s *SettingsService) Get(ctx context.Context) (models.Settings, error) {
	var stored models.Settings
	if err := s.store.Load(ctx, repository.KeySettings, &stored); err != nil {
		if !isCacheMiss(err) {
			return models.Settings{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load settings")
		}
	}
	return s.merge(stored), nil
}

func (s *SettingsService) merge(stored models.Settings) models.Settings {
	out := s.defaults
	if stored.EndpointURL != "" {
		out.EndpointURL = stored.EndpointURL
	}
	if stored.WebhookURL != "" {
		out.WebhookURL = stored.WebhookURL
	}
	if stored.WebhookToken != "" {
		out.WebhookToken = stored.WebhookToken
	}
	if stored.ReminderTemplate != "" {
		out.ReminderTemplate = stored.ReminderTemplate
	}
	if stored.FollowUpTemplate != "" {
		out.FollowUpTemplate = stored.FollowUpTemplate
	}
	if stored.AbsenceTemplate != "" {
		out.AbsenceTemplate = stored.AbsenceTemplate
	}
	if len(stored.SyncSchedule) > 0 {
		out.SyncSchedule = stored.SyncSchedule
	}
	out.LastSyncedAt = stored.LastSyncedAt
	out.FirstRunDone = stored.FirstRunDone
	return out
}

// Update applies a patch and returns the effective settings.
func (s *SettingsService) Update(ctx context.Context, req dto.UpdateSettingsRequest) (models.Settings, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Settings{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid settings payload")
	}
	return s.mutate(ctx, func(st *models.Settings) {
		if req.EndpointURL != nil {
			st.EndpointURL = strings.TrimSpace(*req.EndpointURL)
		}
		if req.WebhookURL != nil {
			st.WebhookURL = strings.TrimSpace(*req.WebhookURL)
		}
		if req.WebhookToken != nil {
			st.WebhookToken = strings.TrimSpace(*req.WebhookToken)
		}
		if req.ReminderTemplate != nil {
			st.ReminderTemplate = *req.ReminderTemplate
		}
		if req.FollowUpTemplate != nil {
			st.FollowUpTemplate = *req.FollowUpTemplate
		}
		if req.AbsenceTemplate != nil {
			st.AbsenceTemplate = *req.AbsenceTemplate
		}
		if req.SyncSchedule != nil {
			st.SyncSchedule = req.SyncSchedule
		}
	})
}

// MarkSynced records the human-readable time of the last successful sync.
func (s *SettingsService) MarkSynced(ctx context.Context, lastSynced string) error {
	_, err := s.mutate(ctx, func(st *models.Settings) {
		st.LastSyncedAt = lastSynced
		st.FirstRunDone = true
	})
	return err
}

// mutate edits the raw stored document, not the merged view, so defaults are never frozen
// into the store.
func (s *SettingsService) mutate(ctx context.Context, fn func(*models.Settings)) (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stored models.Settings
	if err := s.store.Load(ctx, repository.KeySettings, &stored); err != nil && !isCacheMiss(err) {
		return models.Settings{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load settings")
	}
	fn(&stored)
	if err := s.store.Save(ctx, repository.KeySettings, stored); err != nil {
		return models.Settings{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save settings")
	}
	s.logger.Debug("settings updated")
	return s.merge(stored), nil
}
