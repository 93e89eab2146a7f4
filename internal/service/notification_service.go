package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/sfk-console-api/pkg/errors"
	"github.com/noah-isme/sfk-console-api/pkg/jobs"
	"github.com/noah-isme/sfk-console-api/pkg/middleware/requestid"
	"github.com/noah-isme/sfk-console-api/pkg/normalize"
	"github.com/noah-isme/sfk-console-api/pkg/whatsapp"
)

// JobSendMessage is the queue job type for outbound WhatsApp messages.
const JobSendMessage = "whatsapp_message"

// TemplateVars fills the placeholders of a message template.
type TemplateVars struct {
	Student  string
	Guardian string
	Course   string
	Date     string
	Unit     string
}

// RenderTemplate substitutes {aluno} {responsavel} {curso} {data} {unidade}. ISO dates are
// shown as DD/MM/YYYY.
func RenderTemplate(tmpl string, vars TemplateVars) string {
	date := vars.Date
	if t := normalize.ParseDate(date); !normalize.IsZeroDate(t) {
		date = t.Format("02/01/2006")
	}
	return strings.NewReplacer(
		"{aluno}", vars.Student,
		"{responsavel}", vars.Guardian,
		"{curso}", vars.Course,
		"{data}", date,
		"{unidade}", vars.Unit,
	).Replace(tmpl)
}

type messageSender interface {
	Send(ctx context.Context, target whatsapp.Target, msg whatsapp.Message) error
}

// NotificationService sends WhatsApp messages through the configured webhook.
type NotificationService struct {
	sender   messageSender
	settings settingsReader
	queue    enqueuer
	reporter ErrorReporter
	logger   *zap.Logger
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(sender messageSender, settings settingsReader, queue enqueuer, reporter ErrorReporter, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if reporter == nil {
		reporter = func(error, ...string) {}
	}
	return &NotificationService{sender: sender, settings: settings, queue: queue, reporter: reporter, logger: logger}
}

// Send delivers text to phone now. Stored phones have no country code; it is added here.
func (s *NotificationService) Send(ctx context.Context, phone, text string) error {
	phone = normalize.SanitizePhone(phone)
	if phone == "" {
		return appErrors.Clone(appErrors.ErrValidation, "telefone do responsável ausente")
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return err
	}
	if settings.WebhookURL == "" {
		return appErrors.ErrWebhookMissing
	}
	target := whatsapp.Target{URL: settings.WebhookURL, Token: settings.WebhookToken}
	if err := s.sender.Send(ctx, target, whatsapp.Message{Phone: normalize.InternationalPhone(phone), Text: text}); err != nil {
		s.reporter(err, "component", "whatsapp", "request_id", requestid.FromContext(ctx))
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "falha ao enviar mensagem")
	}
	s.logger.Info("message sent", zap.String("phone", maskPhone(phone)), zap.String("request_id", requestid.FromContext(ctx)))
	return nil
}

// Enqueue sends in the background. Without a queue it sends inline and only logs failures.
func (s *NotificationService) Enqueue(ctx context.Context, phone, text string) {
	msg := whatsapp.Message{Phone: phone, Text: text}
	if s.queue == nil {
		if err := s.Send(ctx, phone, text); err != nil {
			s.logger.Warn("message not sent", zap.Error(err))
		}
		return
	}
	if err := s.queue.Enqueue(jobs.Job{Type: JobSendMessage, Payload: msg, RequestID: requestid.FromContext(ctx)}); err != nil {
		s.logger.Warn("failed to enqueue message", zap.Error(err))
	}
}

// HandleJob is the queue handler for JobSendMessage.
func (s *NotificationService) HandleJob(ctx context.Context, job jobs.Job) error {
	msg, ok := job.Payload.(whatsapp.Message)
	if !ok {
		return fmt.Errorf("unexpected payload %T", job.Payload)
	}
	return s.Send(ctx, msg.Phone, msg.Text)
}

func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return phone
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}
