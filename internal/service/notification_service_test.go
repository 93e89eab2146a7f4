package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sfk-console-api/internal/models"
	appErrors "github.com/noah-isme/sfk-console-api/pkg/errors"
	"github.com/noah-isme/sfk-console-api/pkg/jobs"
	"github.com/noah-isme/sfk-console-api/pkg/middleware/requestid"
	"github.com/noah-isme/sfk-console-api/pkg/whatsapp"
)

func TestRenderTemplate(t *testing.T) {
	out := RenderTemplate("{responsavel}: {aluno} / {curso} / {data} / {unidade} / {outro}", TemplateVars{
		Student:  "Lia",
		Guardian: "Rita",
		Course:   "Ballet",
		Date:     "2024-03-12",
		Unit:     "Centro",
	})
	assert.Equal(t, "Rita: Lia / Ballet / 12/03/2024 / Centro / {outro}", out)
	assert.Equal(t, "em breve", RenderTemplate("{data}", TemplateVars{Date: "em breve"}))
}

func TestNotificationSendAddsCountryCode(t *testing.T) {
	sender := &stubSender{}
	settings := &stubSettings{settings: models.Settings{WebhookURL: "https://hook.example", WebhookToken: "tok"}}
	svc := NewNotificationService(sender, settings, nil, nil, nil)

	require.NoError(t, svc.Send(context.Background(), "(11) 91234-5678", "oi"))
	require.Len(t, sender.messages, 1)
	assert.Equal(t, "5511912345678", sender.messages[0].Phone)
	assert.Equal(t, whatsapp.Target{URL: "https://hook.example", Token: "tok"}, sender.targets[0])
}

func TestNotificationSendErrors(t *testing.T) {
	svc := NewNotificationService(&stubSender{}, &stubSettings{}, nil, nil, nil)
	assert.ErrorIs(t, svc.Send(context.Background(), "11912345678", "oi"), appErrors.ErrWebhookMissing)
	assert.ErrorIs(t, svc.Send(context.Background(), "", "oi"), appErrors.ErrValidation)

	failing := NewNotificationService(&stubSender{err: errBoom}, &stubSettings{settings: models.Settings{WebhookURL: "https://hook.example"}}, nil, nil, nil)
	assert.ErrorIs(t, failing.Send(context.Background(), "11912345678", "oi"), appErrors.ErrUpstream)
}

func TestNotificationEnqueueAndHandle(t *testing.T) {
	queue := &stubQueue{}
	sender := &stubSender{}
	settings := &stubSettings{settings: models.Settings{WebhookURL: "https://hook.example"}}
	svc := NewNotificationService(sender, settings, queue, nil, nil)

	svc.Enqueue(requestid.NewContext(context.Background(), "req-3"), "11912345678", "oi")
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, JobSendMessage, queue.jobs[0].Type)
	assert.Equal(t, "req-3", queue.jobs[0].RequestID)
	assert.Empty(t, sender.messages)

	require.NoError(t, svc.HandleJob(context.Background(), queue.jobs[0]))
	assert.Len(t, sender.messages, 1)

	assert.Error(t, svc.HandleJob(context.Background(), jobs.Job{Type: JobSendMessage, Payload: "wrong"}))
}
