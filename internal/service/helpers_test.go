package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sfk-console-api/internal/models"
	"github.com/noah-isme/sfk-console-api/internal/repository"
	"github.com/noah-isme/sfk-console-api/pkg/jobs"
	"github.com/noah-isme/sfk-console-api/pkg/sheets"
	"github.com/noah-isme/sfk-console-api/pkg/whatsapp"
)

func newTestCollections() (*Collections, *repository.MemorySnapshotRepository) {
	store := repository.NewMemorySnapshotRepository()
	return NewCollections(store, nil), store
}

type stubSettings struct {
	mu         sync.Mutex
	settings   models.Settings
	err        error
	lastSynced string
}

func (s *stubSettings) Get(ctx context.Context) (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings, s.err
}

func (s *stubSettings) MarkSynced(ctx context.Context, lastSynced string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSynced = lastSynced
	s.settings.LastSyncedAt = lastSynced
	return nil
}

type stubFetcher struct {
	payload sheets.Payload
	err     error
	urls    []string
}

func (f *stubFetcher) Fetch(ctx context.Context, endpoint string) (sheets.Payload, error) {
	f.urls = append(f.urls, endpoint)
	return f.payload, f.err
}

type stubRuns struct {
	created []models.SyncResult
	purged  int
}

func (r *stubRuns) Create(ctx context.Context, run *models.SyncResult) error {
	r.created = append(r.created, *run)
	return nil
}

func (r *stubRuns) ListRecent(ctx context.Context, limit int) ([]models.SyncResult, error) {
	return r.created, nil
}

type stubPoster struct {
	mu      sync.Mutex
	actions []string
	data    []interface{}
	err     error
}

func (p *stubPoster) Post(ctx context.Context, action string, data interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.actions = append(p.actions, action)
	p.data = append(p.data, data)
	return p.err
}

func (p *stubPoster) Enqueue(ctx context.Context, action string, data interface{}) {
	_ = p.Post(ctx, action, data)
}

type stubSender struct {
	targets  []whatsapp.Target
	messages []whatsapp.Message
	err      error
}

func (s *stubSender) Send(ctx context.Context, target whatsapp.Target, msg whatsapp.Message) error {
	s.targets = append(s.targets, target)
	s.messages = append(s.messages, msg)
	return s.err
}

type stubQueue struct {
	jobs []jobs.Job
}

func (q *stubQueue) Enqueue(job jobs.Job) error {
	q.jobs = append(q.jobs, job)
	return nil
}

type memoryRetention struct {
	actions []models.RetentionAction
}

func (m *memoryRetention) Create(ctx context.Context, action *models.RetentionAction) error {
	if action.ID == "" {
		action.ID = "act-" + action.AlertID
	}
	m.actions = append(m.actions, *action)
	return nil
}

func (m *memoryRetention) List(ctx context.Context, studentID string) ([]models.RetentionAction, error) {
	return m.actions, nil
}

func (m *memoryRetention) AlertIDs(ctx context.Context) (map[string]struct{}, error) {
	ids := make(map[string]struct{}, len(m.actions))
	for _, a := range m.actions {
		ids[a.AlertID] = struct{}{}
	}
	return ids, nil
}

var errBoom = errors.New("boom")

func mustSave(t *testing.T, err error) {
	t.Helper()
	require.NoError(t, err)
}
