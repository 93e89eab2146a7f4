package service

import (
	"context"
	"sort"

	"github.com/noah-isme/sfk-console-api/internal/models"
	"github.com/noah-isme/sfk-console-api/pkg/normalize"
)

// EnrollmentService serves active enrollments.
type EnrollmentService struct {
	data *Collections
}

// NewEnrollmentService constructs an EnrollmentService.
func NewEnrollmentService(data *Collections) *EnrollmentService {
	return &EnrollmentService{data: data}
}

// List returns enrollments matching filter, newest first. ClassID matches fuzzily.
func (s *EnrollmentService) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, error) {
	enrollments, err := s.data.Enrollments(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Enrollment, 0, len(enrollments))
	for _, e := range enrollments {
		if filter.StudentID != "" && e.StudentID != filter.StudentID {
			continue
		}
		if filter.ClassID != "" && normalize.NormalizeCourse(e.ClassID) != normalize.NormalizeCourse(filter.ClassID) {
			continue
		}
		if filter.Unit != "" && normalize.NormalizeKey(e.Unit) != normalize.NormalizeKey(filter.Unit) {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].EnrollmentDate.After(out[j].EnrollmentDate) })
	return out, nil
}
