package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sfk-console-api/internal/dto"
	"github.com/noah-isme/sfk-console-api/internal/models"
	appErrors "github.com/noah-isme/sfk-console-api/pkg/errors"
	"github.com/noah-isme/sfk-console-api/pkg/normalize"
)

// LocalOnlyNotice is shown when a call was stored but the spreadsheet did not receive it.
const LocalOnlyNotice = "Salvo apenas localmente"

type remotePoster interface {
	Post(ctx context.Context, action string, data interface{}) error
}

// AttendanceService records class calls locally and mirrors them to the spreadsheet.
type AttendanceService struct {
	data      *Collections
	remote    remotePoster
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time

	mu sync.Mutex
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(data *Collections, remote remotePoster, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{data: data, remote: remote, validator: validate, logger: logger, now: time.Now}
}

// List returns attendance records matching filter, newest first.
func (s *AttendanceService) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, error) {
	records, err := s.data.Attendance(ctx)
	if err != nil {
		return nil, err
	}
	day := ""
	if filter.Date != "" {
		day = normalize.FormatDate(normalize.ParseDate(filter.Date))
	}
	out := make([]models.AttendanceRecord, 0, len(records))
	for _, r := range records {
		if filter.ClassID != "" && !strings.EqualFold(r.ClassID, filter.ClassID) {
			continue
		}
		if day != "" && r.Date != day {
			continue
		}
		if filter.StudentID != "" && r.StudentID != filter.StudentID {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].StudentName < out[j].StudentName
	})
	return out, nil
}

// Save replaces the call for (class, date) and then posts it to the spreadsheet. The local
// write stands even when the remote one fails.
func (s *AttendanceService) Save(ctx context.Context, req dto.SaveAttendanceRequest) (*dto.SaveAttendanceResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}
	date := normalize.ParseDate(req.Date)
	if normalize.IsZeroDate(date) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid attendance date")
	}
	day := normalize.FormatDate(date)
	submitted := s.now().UTC()

	batch := make([]models.AttendanceRecord, 0, len(req.Records))
	for _, entry := range req.Records {
		studentID := entry.StudentID
		if studentID == "" {
			studentID = normalize.Slug(entry.StudentName)
		}
		batch = append(batch, models.AttendanceRecord{
			ID:          studentID + "|" + normalize.Slug(req.ClassID) + "|" + day,
			StudentID:   studentID,
			StudentName: strings.TrimSpace(entry.StudentName),
			ClassID:     req.ClassID,
			Unit:        req.Unit,
			Date:        day,
			Status:      models.AttendanceStatus(entry.Status),
			Note:        entry.Note,
			SubmittedAt: submitted,
		})
	}

	if err := s.replaceLocal(ctx, req.ClassID, day, batch); err != nil {
		return nil, err
	}

	resp := &dto.SaveAttendanceResponse{Saved: len(batch), RemoteSaved: true}
	if err := s.remote.Post(ctx, ActionSaveAttendance, map[string]interface{}{"records": batch}); err != nil {
		s.logger.Warn("attendance kept locally", zap.String("class", req.ClassID), zap.String("date", day), zap.Error(err))
		resp.RemoteSaved = false
		resp.Notice = LocalOnlyNotice
	}
	return resp, nil
}

func (s *AttendanceService) replaceLocal(ctx context.Context, classID, day string, batch []models.AttendanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.data.Attendance(ctx)
	if err != nil {
		return err
	}
	kept := make([]models.AttendanceRecord, 0, len(existing)+len(batch))
	for _, r := range existing {
		if r.ClassID == classID && r.Date == day {
			continue
		}
		kept = append(kept, r)
	}
	kept = append(kept, batch...)
	return s.data.SaveAttendance(ctx, kept)
}
