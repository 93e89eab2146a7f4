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

// ClassService serves classes and their rosters. Enrollments point at classes by course
// name, so rosters are matched fuzzily.
type ClassService struct {
	data   *Collections
	logger *zap.Logger
}

// NewClassService constructs a ClassService.
func NewClassService(data *Collections, logger *zap.Logger) *ClassService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{data: data, logger: logger}
}

// List returns classes, optionally for one unit.
func (s *ClassService) List(ctx context.Context, unit string) ([]models.Class, error) {
	classes, err := s.data.Classes(ctx)
	if err != nil {
		return nil, err
	}
	want := normalize.NormalizeKey(unit)
	out := make([]models.Class, 0, len(classes))
	for _, c := range classes {
		if want != "" && normalize.NormalizeKey(c.Unit) != want {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Get finds a class by ID, falling back to a case-insensitive match.
func (s *ClassService) Get(ctx context.Context, id string) (*models.Class, error) {
	classes, err := s.data.Classes(ctx)
	if err != nil {
		return nil, err
	}
	for i := range classes {
		if classes[i].ID == id {
			return &classes[i], nil
		}
	}
	for i := range classes {
		if strings.EqualFold(classes[i].ID, id) {
			return &classes[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
}

// Roster lists the students actively enrolled in the class.
func (s *ClassService) Roster(ctx context.Context, id string) (*models.ClassRoster, error) {
	class, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	enrollments, err := s.data.Enrollments(ctx)
	if err != nil {
		return nil, err
	}
	students, err := s.data.Students(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Student, len(students))
	for _, st := range students {
		byID[st.ID] = st
	}

	roster := &models.ClassRoster{Class: *class, Students: []models.Student{}}
	seen := make(map[string]struct{})
	for _, enr := range enrollments {
		if !normalize.MatchCourse(enr.ClassID, enr.Unit, class.Name, class.Unit) {
			continue
		}
		if _, dup := seen[enr.StudentID]; dup {
			continue
		}
		seen[enr.StudentID] = struct{}{}
		st, ok := byID[enr.StudentID]
		if !ok {
			st = models.Student{ID: enr.StudentID, Status: models.StudentStatusActive}
		}
		roster.Students = append(roster.Students, st)
	}
	sort.SliceStable(roster.Students, func(i, j int) bool { return roster.Students[i].Name < roster.Students[j].Name })
	roster.Occupied = len(roster.Students)
	if free := class.Capacity - roster.Occupied; free > 0 {
		roster.Free = free
	}
	return roster, nil
}
