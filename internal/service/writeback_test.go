package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/sfk-console-api/internal/models"
	"github.com/noah-isme/sfk-console-api/pkg/jobs"
	"github.com/noah-isme/sfk-console-api/pkg/middleware/requestid"
)

type statusPoster struct {
	status   int
	err      error
	endpoint string
	action   string
}

func (p *statusPoster) Post(ctx context.Context, endpoint, action string, data interface{}) (int, error) {
	p.endpoint, p.action = endpoint, action
	return p.status, p.err
}

func TestWriteBackPost(t *testing.T) {
	settings := &stubSettings{settings: models.Settings{EndpointURL: "https://script.example"}}

	ok := &statusPoster{status: 200}
	require.NoError(t, NewWriteBackService(ok, settings, nil, nil, nil).Post(context.Background(), ActionSaveTrialLead, nil))
	assert.Equal(t, "https://script.example", ok.endpoint)

	// a non-2xx answer is logged, not treated as failure
	odd := &statusPoster{status: 500}
	assert.NoError(t, NewWriteBackService(odd, settings, nil, nil, nil).Post(context.Background(), ActionSaveTrialLead, nil))

	var reported bool
	broken := &statusPoster{err: errBoom}
	svc := NewWriteBackService(broken, settings, nil, func(error, ...string) { reported = true }, nil)
	assert.ErrorIs(t, svc.Post(context.Background(), ActionSaveAttendance, nil), errBoom)
	assert.True(t, reported)

	assert.Error(t, NewWriteBackService(ok, &stubSettings{}, nil, nil, nil).Post(context.Background(), ActionSaveTrialLead, nil))
}

func TestWriteBackEnqueueUsesQueue(t *testing.T) {
	queue := &stubQueue{}
	poster := &statusPoster{status: 200}
	settings := &stubSettings{settings: models.Settings{EndpointURL: "https://script.example"}}
	svc := NewWriteBackService(poster, settings, queue, nil, nil)

	svc.Enqueue(context.Background(), ActionSaveTrialLead, models.TrialLead{ID: "lia"})
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, ActionSaveTrialLead, queue.jobs[0].Type)
	assert.Empty(t, poster.action)

	require.NoError(t, svc.HandleJob(context.Background(), jobs.Job{Type: ActionSaveTrialLead, Payload: queue.jobs[0].Payload}))
	assert.Equal(t, ActionSaveTrialLead, poster.action)
}

func TestWriteBackCarriesRequestID(t *testing.T) {
	ctx := requestid.NewContext(context.Background(), "req-7")
	settings := &stubSettings{settings: models.Settings{EndpointURL: "https://script.example"}}

	queue := &stubQueue{}
	NewWriteBackService(&statusPoster{status: 200}, settings, queue, nil, nil).Enqueue(ctx, ActionSaveTrialLead, nil)
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, "req-7", queue.jobs[0].RequestID)

	core, logs := observer.New(zapcore.WarnLevel)
	svc := NewWriteBackService(&statusPoster{status: 302}, settings, nil, nil, zap.New(core))
	require.NoError(t, svc.Post(ctx, ActionSaveAttendance, nil))
	entries := logs.FilterMessage("write-back answered with non-2xx").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-7", entries[0].ContextMap()["request_id"])
}
