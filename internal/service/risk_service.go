package service

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/noah-isme/sfk-console-api/internal/models"
	appErrors "github.com/noah-isme/sfk-console-api/pkg/errors"
	"github.com/noah-isme/sfk-console-api/pkg/normalize"
)

const (
	consecutiveWindow = 3
	rateWindow        = 9
)

type retentionStore interface {
	Create(ctx context.Context, action *models.RetentionAction) error
	List(ctx context.Context, studentID string) ([]models.RetentionAction, error)
	AlertIDs(ctx context.Context) (map[string]struct{}, error)
}

// RiskService flags students whose recent attendance suggests they are about to drop out.
type RiskService struct {
	data    *Collections
	actions retentionStore
	metrics *MetricsService
	logger  *zap.Logger
}

// NewRiskService constructs a RiskService.
func NewRiskService(data *Collections, actions retentionStore, metrics *MetricsService, logger *zap.Logger) *RiskService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RiskService{data: data, actions: actions, metrics: metrics, logger: logger}
}

// Alerts evaluates every attendance group. Handled alerts stay in the list but do not count
// as actionable.
func (s *RiskService) Alerts(ctx context.Context) (models.RiskSummary, error) {
	records, err := s.data.Attendance(ctx)
	if err != nil {
		return models.RiskSummary{}, err
	}
	students, err := s.data.Students(ctx)
	if err != nil {
		return models.RiskSummary{}, err
	}
	handled, err := s.actions.AlertIDs(ctx)
	if err != nil {
		return models.RiskSummary{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load retention log")
	}

	byID := make(map[string]models.Student, len(students))
	for _, st := range students {
		byID[st.ID] = st
	}

	alerts := evaluateRisk(records)
	summary := models.RiskSummary{Alerts: make([]models.RiskAlert, 0, len(alerts))}
	for _, alert := range alerts {
		if st, ok := byID[alert.StudentID]; ok {
			alert.StudentName = st.Name
			alert.GuardianName = st.PrimaryGuardian()
			alert.GuardianPhone = st.PrimaryPhone()
		}
		if _, ok := handled[alert.ID]; ok {
			alert.Handled = true
		}
		if alert.HandledByAlarm {
			alert.Handled = true
		}
		if !alert.Handled {
			summary.Actionable++
		}
		summary.Alerts = append(summary.Alerts, alert)
	}

	sort.SliceStable(summary.Alerts, func(i, j int) bool {
		a, b := summary.Alerts[i], summary.Alerts[j]
		if a.Handled != b.Handled {
			return !a.Handled
		}
		return a.LastDate > b.LastDate
	})

	s.metrics.SetActionableAlerts(summary.Actionable)
	return summary, nil
}

// Find returns one alert by ID.
func (s *RiskService) Find(ctx context.Context, alertID string) (models.RiskAlert, error) {
	summary, err := s.Alerts(ctx)
	if err != nil {
		return models.RiskAlert{}, err
	}
	for _, alert := range summary.Alerts {
		if alert.ID == alertID {
			return alert, nil
		}
	}
	return models.RiskAlert{}, appErrors.Clone(appErrors.ErrNotFound, "alert not found")
}

// Refresh recomputes alerts to keep the actionable gauge current.
func (s *RiskService) Refresh(ctx context.Context) {
	if _, err := s.Alerts(ctx); err != nil {
		s.logger.Warn("failed to refresh risk alerts", zap.Error(err))
	}
}

func riskGroupKey(r models.AttendanceRecord) string {
	student := normalize.Slug(r.StudentName)
	if student == "" {
		student = r.StudentID
	}
	return student + "|" + normalize.Slug(r.Unit) + "|" + normalize.Slug(r.ClassID)
}

// evaluateRisk groups records by (student, unit, class) and returns one alert per flagged
// group, keyed by the group and the date of its newest record.
func evaluateRisk(records []models.AttendanceRecord) []models.RiskAlert {
	groups := make(map[string][]models.AttendanceRecord)
	var keys []string
	for _, r := range records {
		key := riskGroupKey(r)
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], r)
	}

	var alerts []models.RiskAlert
	for _, key := range keys {
		group := groups[key]
		sort.SliceStable(group, func(i, j int) bool {
			if group[i].Date != group[j].Date {
				return group[i].Date > group[j].Date
			}
			return group[i].SubmittedAt.After(group[j].SubmittedAt)
		})

		reason, absences, window, flagged := assessGroup(group)
		if !flagged {
			continue
		}
		newest := group[0]
		studentID := normalize.Slug(newest.StudentName)
		if studentID == "" {
			studentID = newest.StudentID
		}
		alerts = append(alerts, models.RiskAlert{
			ID:             key + "|" + newest.Date,
			GroupKey:       key,
			StudentID:      studentID,
			StudentName:    newest.StudentName,
			Unit:           newest.Unit,
			ClassID:        newest.ClassID,
			Reason:         reason,
			Absences:       absences,
			Window:         window,
			LastDate:       newest.Date,
			HandledByAlarm: newest.AlarmSent,
		})
	}
	return alerts
}

// assessGroup expects records newest first.
func assessGroup(group []models.AttendanceRecord) (models.RiskReason, int, int, bool) {
	if len(group) >= consecutiveWindow {
		allAbsent := true
		for _, r := range group[:consecutiveWindow] {
			if r.Status != models.AttendanceAbsent {
				allAbsent = false
				break
			}
		}
		if allAbsent {
			return models.RiskConsecutiveAbsences, consecutiveWindow, consecutiveWindow, true
		}
	}
	if len(group) >= rateWindow {
		absences := 0
		for _, r := range group[:rateWindow] {
			if r.Status == models.AttendanceAbsent {
				absences++
			}
		}
		if absences*2 >= rateWindow {
			return models.RiskHighAbsenceRate, absences, rateWindow, true
		}
	}
	return "", 0, 0, false
}
