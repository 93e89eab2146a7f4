package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sfk-console-api/internal/dto"
	"github.com/noah-isme/sfk-console-api/internal/models"
	appErrors "github.com/noah-isme/sfk-console-api/pkg/errors"
)

type alertFinder interface {
	Find(ctx context.Context, alertID string) (models.RiskAlert, error)
}

type backgroundNotifier interface {
	Enqueue(ctx context.Context, phone, text string)
}

// RetentionService logs the outreach made for risk alerts.
type RetentionService struct {
	actions   retentionStore
	alerts    alertFinder
	notifier  backgroundNotifier
	settings  settingsReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRetentionService constructs a RetentionService.
func NewRetentionService(actions retentionStore, alerts alertFinder, notifier backgroundNotifier, settings settingsReader, validate *validator.Validate, logger *zap.Logger) *RetentionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RetentionService{actions: actions, alerts: alerts, notifier: notifier, settings: settings, validator: validate, logger: logger}
}

// Record marks alertID handled. With Notify set the guardian also gets the absence message.
func (s *RetentionService) Record(ctx context.Context, alertID string, req dto.CreateRetentionActionRequest, actor *models.JWTClaims) (*models.RetentionAction, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid retention payload")
	}
	alert, err := s.alerts.Find(ctx, alertID)
	if err != nil {
		return nil, err
	}

	action := &models.RetentionAction{
		AlertID:   alert.ID,
		StudentID: alert.StudentID,
		Channel:   req.Channel,
		Note:      req.Note,
	}
	if actor != nil {
		action.PerformedBy = actor.Login
	}
	if err := s.actions.Create(ctx, action); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record retention action")
	}

	if req.Notify {
		if alert.GuardianPhone == "" {
			s.logger.Warn("retention notice skipped: no guardian phone", zap.String("alert", alert.ID))
		} else {
			settings, err := s.settings.Get(ctx)
			if err != nil {
				s.logger.Warn("retention notice skipped: settings unavailable", zap.String("alert", alert.ID), zap.Error(err))
				return action, nil
			}
			text := RenderTemplate(settings.AbsenceTemplate, TemplateVars{
				Student:  alert.StudentName,
				Guardian: alert.GuardianName,
				Course:   alert.ClassID,
				Date:     alert.LastDate,
				Unit:     alert.Unit,
			})
			s.notifier.Enqueue(ctx, alert.GuardianPhone, text)
		}
	}
	return action, nil
}

// History lists actions for a student, or all when studentID is empty.
func (s *RetentionService) History(ctx context.Context, studentID string) ([]models.RetentionAction, error) {
	actions, err := s.actions.List(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list retention actions")
	}
	return actions, nil
}
