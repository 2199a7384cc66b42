package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/acadops/campus-admin-api/internal/dto"
	"github.com/acadops/campus-admin-api/internal/models"
	appErrors "github.com/acadops/campus-admin-api/pkg/errors"
)

type moduleRepository interface {
	ListByCourse(ctx context.Context, courseID string) ([]models.CourseModule, error)
	GetByID(ctx context.Context, id string) (*models.CourseModule, error)
	Create(ctx context.Context, m *models.CourseModule) error
	Update(ctx context.Context, m *models.CourseModule) error
	Delete(ctx context.Context, id string) error
	ListCourses(ctx context.Context) ([]models.Course, error)
}

type moduleStampRepository interface {
	Touch(ctx context.Context, tableName, courseID string) error
}

// ModuleService manages a course's curriculum modules, including the
// wholesale sync used by the curriculum editor.
type ModuleService struct {
	repo      moduleRepository
	stamps    moduleStampRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewModuleService constructs the service.
func NewModuleService(repo moduleRepository, stamps moduleStampRepository, validate *validator.Validate, logger *zap.Logger) *ModuleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModuleService{repo: repo, stamps: stamps, validator: validate, logger: logger}
}

// ListCourses returns every course key that has modules.
func (s *ModuleService) ListCourses(ctx context.Context) ([]dto.CourseResponse, error) {
	courses, err := s.repo.ListCourses(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}

	out := make([]dto.CourseResponse, len(courses))
	for i, c := range courses {
		out[i] = dto.CourseResponse{ID: c.ID, ModuleCount: c.ModuleCount}
	}
	return out, nil
}

// List returns a course's modules in sequence order.
func (s *ModuleService) List(ctx context.Context, courseID string) ([]dto.ModuleResponse, error) {
	if courseID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course id is required")
	}

	modules, err := s.repo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list modules")
	}

	out := make([]dto.ModuleResponse, len(modules))
	for i, m := range modules {
		out[i] = toModuleResponse(m)
	}
	return out, nil
}

// Get returns one module.
func (s *ModuleService) Get(ctx context.Context, id string) (*dto.ModuleResponse, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "module not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get module")
	}
	resp := toModuleResponse(*m)
	return &resp, nil
}

// Create adds a module to a course.
func (s *ModuleService) Create(ctx context.Context, courseID string, req dto.CreateModuleRequest) (*dto.ModuleResponse, error) {
	if courseID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course id is required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}

	m := &models.CourseModule{
		CourseID:      courseID,
		Name:          req.Name,
		Description:   req.Description,
		DurationWeeks: req.DurationWeeks,
		OrderNum:      req.OrderNum,
	}
	if err := applyDates(m, req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create module")
	}

	s.touch(ctx, courseID)
	resp := toModuleResponse(*m)
	return &resp, nil
}

// Update replaces a module's editable fields.
func (s *ModuleService) Update(ctx context.Context, id string, req dto.UpdateModuleRequest) (*dto.ModuleResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}

	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "module not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load module")
	}

	m.Name = req.Name
	m.Description = req.Description
	m.DurationWeeks = req.DurationWeeks
	m.OrderNum = req.OrderNum
	if err := applyDates(m, req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, m); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update module")
	}

	s.touch(ctx, m.CourseID)
	resp := toModuleResponse(*m)
	return &resp, nil
}

// Delete removes a module.
func (s *ModuleService) Delete(ctx context.Context, id string) error {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "module not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load module")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete module")
	}

	s.touch(ctx, m.CourseID)
	return nil
}

// Sync replaces a course's module list wholesale. Items with a known id
// are compared against the stored row and updated only when a field
// differs, new items created, and stored modules absent from the request
// deleted. All input is validated before the first write, so a malformed
// item leaves the course untouched. Mutations run creates first, then
// updates, then deletes; a failed write is counted and skipped without
// rolling back the ones before it.
func (s *ModuleService) Sync(ctx context.Context, courseID string, req dto.SyncModulesRequest) (*dto.SyncModulesResponse, error) {
	if courseID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course id is required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}

	stored, err := s.repo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load modules")
	}
	storedByID := make(map[string]models.CourseModule, len(stored))
	for _, m := range stored {
		storedByID[m.ID] = m
	}

	var creates []models.CourseModule
	var updates []models.CourseModule
	keep := make(map[string]struct{}, len(req.Modules))
	for _, item := range req.Modules {
		if item.ID == nil || *item.ID == "" {
			m := models.CourseModule{
				CourseID:      courseID,
				Name:          item.Name,
				Description:   item.Description,
				DurationWeeks: item.DurationWeeks,
				OrderNum:      item.OrderNum,
			}
			if err := applyDates(&m, item.StartDate, item.EndDate); err != nil {
				return nil, err
			}
			creates = append(creates, m)
			continue
		}
		old, ok := storedByID[*item.ID]
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown module id %s", *item.ID))
		}
		keep[*item.ID] = struct{}{}

		m := old
		m.Name = item.Name
		m.Description = item.Description
		m.DurationWeeks = item.DurationWeeks
		m.OrderNum = item.OrderNum
		if err := applyDates(&m, item.StartDate, item.EndDate); err != nil {
			return nil, err
		}
		if moduleChanged(old, m) {
			updates = append(updates, m)
		}
	}

	result := &dto.SyncModulesResponse{}

	for i := range creates {
		m := creates[i]
		if err := s.repo.Create(ctx, &m); err != nil {
			result.Failed++
			s.logger.Warn("module create failed during sync",
				zap.String("course_id", courseID),
				zap.String("module", m.Name),
				zap.Error(err))
			continue
		}
		result.Created++
	}

	for i := range updates {
		m := updates[i]
		if err := s.repo.Update(ctx, &m); err != nil {
			result.Failed++
			s.logger.Warn("module update failed during sync",
				zap.String("course_id", courseID),
				zap.String("module_id", m.ID),
				zap.Error(err))
			continue
		}
		result.Updated++
	}

	for _, m := range stored {
		if _, ok := keep[m.ID]; ok {
			continue
		}
		if err := s.repo.Delete(ctx, m.ID); err != nil {
			result.Failed++
			s.logger.Warn("module delete failed during sync",
				zap.String("course_id", courseID),
				zap.String("module_id", m.ID),
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

func (s *ModuleService) touch(ctx context.Context, courseID string) {
	if s.stamps == nil {
		return
	}
	if err := s.stamps.Touch(ctx, modulesTableName, courseID); err != nil {
		s.logger.Warn("failed to bump course stamp",
			zap.String("course_id", courseID),
			zap.Error(err))
	}
}

// moduleChanged reports whether any editable field differs between the
// stored row and the incoming one.
func moduleChanged(old, updated models.CourseModule) bool {
	return old.Name != updated.Name ||
		!stringPtrEqual(old.Description, updated.Description) ||
		old.DurationWeeks != updated.DurationWeeks ||
		old.OrderNum != updated.OrderNum ||
		!datePtrEqual(old.StartDate, updated.StartDate) ||
		!datePtrEqual(old.EndDate, updated.EndDate)
}

func stringPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func datePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func applyDates(m *models.CourseModule, start, end *string) error {
	var startDate, endDate *time.Time

	if start != nil && *start != "" {
		t, err := dto.ParseDate(*start)
		if err != nil {
			return appErrors.Clone(appErrors.ErrValidation, "start date must be YYYY-MM-DD")
		}
		startDate = &t
	}
	if end != nil && *end != "" {
		t, err := dto.ParseDate(*end)
		if err != nil {
			return appErrors.Clone(appErrors.ErrValidation, "end date must be YYYY-MM-DD")
		}
		endDate = &t
	}
	if startDate != nil && endDate != nil && endDate.Before(*startDate) {
		return appErrors.Clone(appErrors.ErrValidation, "end date must be on or after start date")
	}

	m.StartDate = startDate
	m.EndDate = endDate
	return nil
}

func toModuleResponse(m models.CourseModule) dto.ModuleResponse {
	return dto.ModuleResponse{
		ID:            m.ID,
		CourseID:      m.CourseID,
		Name:          m.Name,
		Description:   m.Description,
		DurationWeeks: m.DurationWeeks,
		OrderNum:      m.OrderNum,
		StartDate:     dto.FormatDatePtr(m.StartDate),
		EndDate:       dto.FormatDatePtr(m.EndDate),
	}
}
