package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/sfk-console-api/pkg/errors"
)

// Snapshot keys, one per synced collection plus settings.
const (
	KeyStudents         = "students"
	KeyClasses          = "classes"
	KeyEnrollments      = "enrollments"
	KeyAttendance       = "attendance"
	KeyUsers            = "users"
	KeyTrialLeads       = "trial_leads"
	KeyRetentionActions = "retention_actions"
	KeySettings         = "settings"
)

// SnapshotRepository persists whole collections as JSON documents in Redis. Values never
// expire: the store is the console's durable copy, rebuilt on every sync.
type SnapshotRepository struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

// NewSnapshotRepository constructs a Redis-backed snapshot store.
func NewSnapshotRepository(client *redis.Client, prefix string, logger *zap.Logger) *SnapshotRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotRepository{client: client, prefix: prefix, logger: logger}
}

func (r *SnapshotRepository) key(name string) string {
	if r.prefix == "" {
		return name
	}
	return r.prefix + ":" + name
}

// Load unmarshals the stored collection into dest. A missing key returns ErrCacheMiss.
func (r *SnapshotRepository) Load(ctx context.Context, name string, dest interface{}) error {
	if r.client == nil {
		return appErrors.ErrCacheMiss
	}

	raw, err := r.client.Get(ctx, r.key(name)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return appErrors.ErrCacheMiss
		}
		return fmt.Errorf("redis get %s: %w", name, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("unmarshal snapshot %s: %w", name, err)
	}
	return nil
}

// Save replaces the stored collection.
func (r *SnapshotRepository) Save(ctx context.Context, name string, value interface{}) error {
	if r.client == nil {
		return nil
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal snapshot %s: %w", name, err)
	}

	if err := r.client.Set(ctx, r.key(name), payload, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", name, err)
	}
	r.logger.Debug("snapshot saved", zap.String("key", name), zap.Int("bytes", len(payload)))
	return nil
}

// Ping checks connectivity for readiness probes.
func (r *SnapshotRepository) Ping(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	return r.client.Ping(ctx).Err()
}

// Close releases the underlying Redis connection if present.
func (r *SnapshotRepository) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}

// MemorySnapshotRepository keeps snapshots in process memory. It is used when Redis is
// disabled and in tests.
type MemorySnapshotRepository struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemorySnapshotRepository constructs an empty in-memory store.
func NewMemorySnapshotRepository() *MemorySnapshotRepository {
	return &MemorySnapshotRepository{data: make(map[string][]byte)}
}

// Load unmarshals the stored collection into dest.
func (r *MemorySnapshotRepository) Load(ctx context.Context, name string, dest interface{}) error {
	r.mu.RLock()
	raw, ok := r.data[name]
	r.mu.RUnlock()
	if !ok {
		return appErrors.ErrCacheMiss
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("unmarshal snapshot %s: %w", name, err)
	}
	return nil
}

// Save replaces the stored collection.
func (r *MemorySnapshotRepository) Save(ctx context.Context, name string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal snapshot %s: %w", name, err)
	}
	r.mu.Lock()
	r.data[name] = payload
	r.mu.Unlock()
	return nil
}

// Ping always succeeds.
func (r *MemorySnapshotRepository) Ping(ctx context.Context) error { return nil }
