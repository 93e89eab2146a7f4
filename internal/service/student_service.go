package service

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/sfk-console-api/internal/models"
	appErrors "github.com/noah-isme/sfk-console-api/pkg/errors"
	"github.com/noah-isme/sfk-console-api/pkg/normalize"
)

// StudentService serves the synced student roster.
type StudentService struct {
	data   *Collections
	logger *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(data *Collections, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{data: data, logger: logger}
}

// List filters and paginates students sorted by name. page is 1-based; size 0 returns all.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter, page, size int) ([]models.Student, *models.Pagination, error) {
	students, err := s.data.Students(ctx)
	if err != nil {
		return nil, nil, err
	}
	search := normalize.NormalizeKey(filter.Search)
	unit := normalize.NormalizeKey(filter.Unit)

	out := make([]models.Student, 0, len(students))
	for _, st := range students {
		if filter.Status != "" && st.Status != filter.Status {
			continue
		}
		if unit != "" && normalize.NormalizeKey(st.Unit) != unit {
			continue
		}
		if filter.Stage != "" && !strings.EqualFold(st.Stage, filter.Stage) {
			continue
		}
		if search != "" && !strings.Contains(normalize.NormalizeKey(st.Name), search) {
			continue
		}
		out = append(out, st)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	total := len(out)
	if page < 1 {
		page = 1
	}
	if size > 0 {
		start := (page - 1) * size
		if start > total {
			start = total
		}
		end := start + size
		if end > total {
			end = total
		}
		out = out[start:end]
	}
	return out, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns one student by slug ID.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	students, err := s.data.Students(ctx)
	if err != nil {
		return nil, err
	}
	for i := range students {
		if students[i].ID == id {
			return &students[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
}
