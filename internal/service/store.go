package service

import (
	"context"
	"errors"
	"time"

	"github.com/noah-isme/sfk-console-api/internal/models"
	"github.com/noah-isme/sfk-console-api/internal/repository"
	appErrors "github.com/noah-isme/sfk-console-api/pkg/errors"
)

type snapshotStore interface {
	Load(ctx context.Context, name string, dest interface{}) error
	Save(ctx context.Context, name string, value interface{}) error
}

// Collections gives typed access to the synced collections. A collection that was never
// stored reads as empty.
type Collections struct {
	store   snapshotStore
	metrics *MetricsService
}

// NewCollections wraps a snapshot store.
func NewCollections(store snapshotStore, metrics *MetricsService) *Collections {
	return &Collections{store: store, metrics: metrics}
}

func (c *Collections) load(ctx context.Context, key string, dest interface{}) error {
	start := time.Now()
	err := c.store.Load(ctx, key, dest)
	c.metrics.ObserveStore("load", key, time.Since(start))
	if err != nil && !isCacheMiss(err) {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read "+key)
	}
	return nil
}

func (c *Collections) save(ctx context.Context, key string, value interface{}) error {
	start := time.Now()
	err := c.store.Save(ctx, key, value)
	c.metrics.ObserveStore("save", key, time.Since(start))
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to write "+key)
	}
	return nil
}

func (c *Collections) Students(ctx context.Context) ([]models.Student, error) {
	var out []models.Student
	err := c.load(ctx, repository.KeyStudents, &out)
	return out, err
}

func (c *Collections) SaveStudents(ctx context.Context, v []models.Student) error {
	return c.save(ctx, repository.KeyStudents, v)
}

func (c *Collections) Classes(ctx context.Context) ([]models.Class, error) {
	var out []models.Class
	err := c.load(ctx, repository.KeyClasses, &out)
	return out, err
}

func (c *Collections) SaveClasses(ctx context.Context, v []models.Class) error {
	return c.save(ctx, repository.KeyClasses, v)
}

func (c *Collections) Enrollments(ctx context.Context) ([]models.Enrollment, error) {
	var out []models.Enrollment
	err := c.load(ctx, repository.KeyEnrollments, &out)
	return out, err
}

func (c *Collections) SaveEnrollments(ctx context.Context, v []models.Enrollment) error {
	return c.save(ctx, repository.KeyEnrollments, v)
}

func (c *Collections) Attendance(ctx context.Context) ([]models.AttendanceRecord, error) {
	var out []models.AttendanceRecord
	err := c.load(ctx, repository.KeyAttendance, &out)
	return out, err
}

func (c *Collections) SaveAttendance(ctx context.Context, v []models.AttendanceRecord) error {
	return c.save(ctx, repository.KeyAttendance, v)
}

// storedUser keeps the credentials that models.User hides from JSON responses.
type storedUser struct {
	Login        string          `json:"login"`
	Password     string          `json:"password,omitempty"`
	PasswordHash string          `json:"password_hash,omitempty"`
	Role         models.UserRole `json:"role"`
	Name         string          `json:"name"`
	Seed         bool            `json:"seed,omitempty"`
}

func (c *Collections) Users(ctx context.Context) ([]models.User, error) {
	var stored []storedUser
	if err := c.load(ctx, repository.KeyUsers, &stored); err != nil {
		return nil, err
	}
	out := make([]models.User, 0, len(stored))
	for _, u := range stored {
		out = append(out, models.User(u))
	}
	return out, nil
}

func (c *Collections) SaveUsers(ctx context.Context, v []models.User) error {
	stored := make([]storedUser, 0, len(v))
	for _, u := range v {
		stored = append(stored, storedUser(u))
	}
	return c.save(ctx, repository.KeyUsers, stored)
}

func (c *Collections) TrialLeads(ctx context.Context) ([]models.TrialLead, error) {
	var out []models.TrialLead
	err := c.load(ctx, repository.KeyTrialLeads, &out)
	return out, err
}

func (c *Collections) SaveTrialLeads(ctx context.Context, v []models.TrialLead) error {
	return c.save(ctx, repository.KeyTrialLeads, v)
}

func isCacheMiss(err error) bool {
	return errors.Is(err, appErrors.ErrCacheMiss)
}
