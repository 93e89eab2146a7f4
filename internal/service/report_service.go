package service

import (
	"context"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sfk-console-api/internal/models"
	"github.com/noah-isme/sfk-console-api/pkg/normalize"
)

// ReportService derives the management reports from the synced collections.
type ReportService struct {
	data   *Collections
	cache  *CacheService
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

// NewReportService constructs a ReportService. cache may be nil.
func NewReportService(data *Collections, cache *CacheService, loc *time.Location, logger *zap.Logger) *ReportService {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{data: data, cache: cache, loc: loc, now: time.Now, logger: logger}
}

// Finance estimates monthly revenue as active enrollments times the matched class price.
// Enrollments whose class cannot be matched are counted but not priced. The boolean reports
// whether the result came from cache.
func (s *ReportService) Finance(ctx context.Context, unit string) (*models.FinanceReport, bool, error) {
	cacheKey := "reports:finance:" + normalize.Slug(unit)
	var cached models.FinanceReport
	if s.cache.Get(ctx, cacheKey, &cached) {
		return &cached, true, nil
	}
	report, err := s.finance(ctx, unit)
	if err != nil {
		return nil, false, err
	}
	s.cache.Set(ctx, cacheKey, report)
	return report, false, nil
}

func (s *ReportService) finance(ctx context.Context, unit string) (*models.FinanceReport, error) {
	enrollments, err := s.data.Enrollments(ctx)
	if err != nil {
		return nil, err
	}
	classes, err := s.data.Classes(ctx)
	if err != nil {
		return nil, err
	}
	students, err := s.data.Students(ctx)
	if err != nil {
		return nil, err
	}

	wantUnit := normalize.NormalizeKey(unit)
	lines := make(map[string]*models.FinanceLine)
	report := &models.FinanceReport{ByUnit: map[string]float64{}, GeneratedAt: s.now().UTC()}

	for _, enr := range enrollments {
		if wantUnit != "" && normalize.NormalizeKey(enr.Unit) != wantUnit {
			continue
		}
		class, ok := matchClass(classes, enr.ClassID, enr.Unit)
		if !ok {
			report.UnpricedEnrollments++
			continue
		}
		lineUnit := enr.Unit
		if lineUnit == "" {
			lineUnit = class.Unit
		}
		key := normalize.NormalizeKey(lineUnit) + "|" + class.ID
		line, ok := lines[key]
		if !ok {
			line = &models.FinanceLine{Unit: lineUnit, ClassID: class.ID, MonthlyPrice: class.MonthlyPrice}
			lines[key] = line
		}
		line.ActiveCount++
		line.Expected = round2(float64(line.ActiveCount) * line.MonthlyPrice)
	}

	report.Lines = make([]models.FinanceLine, 0, len(lines))
	for _, line := range lines {
		report.Lines = append(report.Lines, *line)
		report.ByUnit[line.Unit] = round2(report.ByUnit[line.Unit] + line.Expected)
		report.Total = round2(report.Total + line.Expected)
	}
	sort.Slice(report.Lines, func(i, j int) bool {
		if report.Lines[i].Unit != report.Lines[j].Unit {
			return report.Lines[i].Unit < report.Lines[j].Unit
		}
		return report.Lines[i].ClassID < report.Lines[j].ClassID
	})

	now := s.now().In(s.loc)
	for _, st := range students {
		for _, cc := range st.CancelledCourses {
			if wantUnit != "" && normalize.NormalizeKey(cc.Unit) != wantUnit {
				continue
			}
			d := normalize.ParseDate(cc.CancellationDate)
			if !normalize.IsZeroDate(d) && d.Year() == now.Year() && d.Month() == now.Month() {
				report.CancellationsMonth++
			}
		}
	}
	return report, nil
}

// TrialFunnel counts leads per status and the share that converted, overall and per course.
func (s *ReportService) TrialFunnel(ctx context.Context) (*models.TrialFunnel, bool, error) {
	const cacheKey = "reports:trial-funnel"
	var cached models.TrialFunnel
	if s.cache.Get(ctx, cacheKey, &cached) {
		return &cached, true, nil
	}
	funnel, err := s.trialFunnel(ctx)
	if err != nil {
		return nil, false, err
	}
	s.cache.Set(ctx, cacheKey, funnel)
	return funnel, false, nil
}

func (s *ReportService) trialFunnel(ctx context.Context) (*models.TrialFunnel, error) {
	leads, err := s.data.TrialLeads(ctx)
	if err != nil {
		return nil, err
	}
	funnel := &models.TrialFunnel{ByStatus: map[models.TrialStatus]int{
		models.TrialPending: 0,
		models.TrialPresent: 0,
		models.TrialAbsent:  0,
	}}
	courses := make(map[string]*models.FunnelLine)
	var order []string
	for _, l := range leads {
		funnel.Total++
		funnel.ByStatus[l.Status]++
		key := normalize.NormalizeCourse(l.Course)
		line, ok := courses[key]
		if !ok {
			line = &models.FunnelLine{Course: l.Course}
			courses[key] = line
			order = append(order, key)
		}
		line.Leads++
		if l.Status == models.TrialPresent {
			line.Attended++
		}
		if l.Converted {
			line.Converted++
			funnel.Converted++
		}
	}
	funnel.Rate = ratio(funnel.Converted, funnel.Total)
	funnel.ByCourse = make([]models.FunnelLine, 0, len(order))
	for _, key := range order {
		line := courses[key]
		line.Rate = ratio(line.Converted, line.Leads)
		funnel.ByCourse = append(funnel.ByCourse, *line)
	}
	sort.SliceStable(funnel.ByCourse, func(i, j int) bool { return funnel.ByCourse[i].Leads > funnel.ByCourse[j].Leads })
	return funnel, nil
}

func matchClass(classes []models.Class, course, unit string) (models.Class, bool) {
	for _, c := range classes {
		if normalize.MatchCourse(course, unit, c.Name, c.Unit) {
			return c, true
		}
	}
	return models.Class{}, false
}

func ratio(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(part) / float64(total))
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
