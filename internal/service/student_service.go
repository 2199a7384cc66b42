package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/acadops/campus-admin-api/internal/dto"
	"github.com/acadops/campus-admin-api/internal/models"
	appErrors "github.com/acadops/campus-admin-api/pkg/errors"
)

const studentsTableName = "students"

type studentRepository interface {
	ListByCourse(ctx context.Context, courseID string) ([]models.Student, error)
	Create(ctx context.Context, s *models.Student) error
	Update(ctx context.Context, s *models.Student) error
	Delete(ctx context.Context, id string) error
}

type studentStampRepository interface {
	Touch(ctx context.Context, tableName, courseID string) error
}

// StudentService manages course rosters. The roster editor saves the full
// list at once, so the main mutation is a wholesale replace.
type StudentService struct {
	repo      studentRepository
	stamps    studentStampRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the service.
func NewStudentService(repo studentRepository, stamps studentStampRepository, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, stamps: stamps, validator: validate, logger: logger}
}

// List returns a course's roster.
func (s *StudentService) List(ctx context.Context, courseID string) ([]dto.StudentResponse, error) {
	if courseID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course id is required")
	}

	students, err := s.repo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}

	out := make([]dto.StudentResponse, len(students))
	for i, st := range students {
		out[i] = dto.StudentResponse{
			ID:       st.ID,
			CourseID: st.CourseID,
			FullName: st.FullName,
			Email:    st.Email,
		}
	}
	return out, nil
}

// Replace swaps a course's roster for the given list. Entries with a known
// id are updated, new entries created, and stored students absent from the
// list removed. Creates run first, then updates, then deletes; failures
// are counted and skipped.
func (s *StudentService) Replace(ctx context.Context, courseID string, req dto.ReplaceRosterRequest) (*dto.ReplaceRosterResponse, error) {
	if courseID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course id is required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}

	stored, err := s.repo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}
	storedByID := make(map[string]models.Student, len(stored))
	for _, st := range stored {
		storedByID[st.ID] = st
	}

	var creates []dto.RosterItem
	var updates []dto.RosterItem
	keep := make(map[string]struct{}, len(req.Students))
	for _, item := range req.Students {
		if item.ID == nil || *item.ID == "" {
			creates = append(creates, item)
			continue
		}
		if _, ok := storedByID[*item.ID]; !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown student id %s", *item.ID))
		}
		keep[*item.ID] = struct{}{}
		updates = append(updates, item)
	}

	result := &dto.ReplaceRosterResponse{}

	for _, item := range creates {
		st := &models.Student{
			CourseID: courseID,
			FullName: item.FullName,
			Email:    item.Email,
		}
		if err := s.repo.Create(ctx, st); err != nil {
			result.Failed++
			s.logger.Warn("student create failed during roster replace",
				zap.String("course_id", courseID),
				zap.String("student", item.FullName),
				zap.Error(err))
			continue
		}
		result.Created++
	}

	for _, item := range updates {
		st := storedByID[*item.ID]
		st.FullName = item.FullName
		st.Email = item.Email
		if err := s.repo.Update(ctx, &st); err != nil {
			result.Failed++
			s.logger.Warn("student update failed during roster replace",
				zap.String("course_id", courseID),
				zap.String("student_id", st.ID),
				zap.Error(err))
			continue
		}
		result.Updated++
	}

	for _, st := range stored {
		if _, ok := keep[st.ID]; ok {
			continue
		}
		if err := s.repo.Delete(ctx, st.ID); err != nil {
			result.Failed++
			s.logger.Warn("student delete failed during roster replace",
				zap.String("course_id", courseID),
				zap.String("student_id", st.ID),
				zap.Error(err))
			continue
		}
		result.Deleted++
	}

	if result.Created+result.Updated+result.Deleted > 0 {
		s.touch(ctx, courseID)
	}

	return result, nil
}

func (s *StudentService) touch(ctx context.Context, courseID string) {
	if s.stamps == nil {
		return
	}
	if err := s.stamps.Touch(ctx, studentsTableName, courseID); err != nil {
		s.logger.Warn("failed to bump course stamp",
			zap.String("course_id", courseID),
			zap.Error(err))
	}
}
