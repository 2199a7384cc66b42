package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/acadops/campus-admin-api/internal/dto"
	"github.com/acadops/campus-admin-api/internal/models"
	appErrors "github.com/acadops/campus-admin-api/pkg/errors"
)

const attendanceTableName = "attendance_records"

type attendanceRepository interface {
	ListByCourseDate(ctx context.Context, courseID string, date time.Time) ([]models.AttendanceRecord, error)
	ListDates(ctx context.Context, courseID string) ([]time.Time, error)
	ReplaceDay(ctx context.Context, courseID string, date time.Time, records []models.AttendanceRecord) error
	DeleteDay(ctx context.Context, courseID string, date time.Time) error
}

type attendanceStampRepository interface {
	Touch(ctx context.Context, tableName, courseID string) error
}

// AttendanceService manages per-day attendance for a course. A day's marks
// are always saved as a complete set.
type AttendanceService struct {
	repo      attendanceRepository
	stamps    attendanceStampRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs the service.
func NewAttendanceService(repo attendanceRepository, stamps attendanceStampRepository, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{repo: repo, stamps: stamps, validator: validate, logger: logger}
}

// GetDay returns all marks for a course on one date.
func (s *AttendanceService) GetDay(ctx context.Context, courseID, date string) ([]dto.AttendanceRecordResponse, error) {
	if courseID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course id is required")
	}
	day, err := dto.ParseDate(date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}

	records, err := s.repo.ListByCourseDate(ctx, courseID, day)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance")
	}

	out := make([]dto.AttendanceRecordResponse, len(records))
	for i, rec := range records {
		out[i] = dto.AttendanceRecordResponse{
			ID:        rec.ID,
			CourseID:  rec.CourseID,
			StudentID: rec.StudentID,
			Date:      dto.FormatDate(rec.Date),
			Status:    string(rec.Status),
			Note:      rec.Note,
		}
	}
	return out, nil
}

// ListDates returns the dates a course has attendance stored for.
func (s *AttendanceService) ListDates(ctx context.Context, courseID string) (*dto.AttendanceDatesResponse, error) {
	if courseID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course id is required")
	}

	dates, err := s.repo.ListDates(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance dates")
	}

	out := &dto.AttendanceDatesResponse{Dates: make([]string, len(dates))}
	for i, d := range dates {
		out.Dates[i] = dto.FormatDate(d)
	}
	return out, nil
}

// SaveDay replaces a course's marks for one date.
func (s *AttendanceService) SaveDay(ctx context.Context, courseID string, req dto.SaveAttendanceRequest) error {
	if courseID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "course id is required")
	}
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}

	day, err := dto.ParseDate(req.Date)
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}

	records := make([]models.AttendanceRecord, len(req.Marks))
	for i, mark := range req.Marks {
		records[i] = models.AttendanceRecord{
			StudentID: mark.StudentID,
			Status:    models.AttendanceStatus(mark.Status),
			Note:      mark.Note,
		}
	}

	if err := s.repo.ReplaceDay(ctx, courseID, day, records); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save attendance")
	}

	s.touch(ctx, courseID)
	return nil
}

// DeleteDay removes a course's marks for one date.
func (s *AttendanceService) DeleteDay(ctx context.Context, courseID, date string) error {
	if courseID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "course id is required")
	}
	day, err := dto.ParseDate(date)
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}

	if err := s.repo.DeleteDay(ctx, courseID, day); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete attendance")
	}

	s.touch(ctx, courseID)
	return nil
}

func (s *AttendanceService) touch(ctx context.Context, courseID string) {
	if s.stamps == nil {
		return
	}
	if err := s.stamps.Touch(ctx, attendanceTableName, courseID); err != nil {
		s.logger.Warn("failed to bump course stamp",
			zap.String("course_id", courseID),
			zap.Error(err))
	}
}
