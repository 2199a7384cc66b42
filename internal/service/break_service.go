package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/acadops/campus-admin-api/internal/dto"
	"github.com/acadops/campus-admin-api/internal/models"
	appErrors "github.com/acadops/campus-admin-api/pkg/errors"
)

type breakRepository interface {
	List(ctx context.Context) ([]models.Break, error)
	GetByID(ctx context.Context, id string) (*models.Break, error)
	Create(ctx context.Context, b *models.Break) error
	Delete(ctx context.Context, id string) error
}

type breakCacheInvalidator interface {
	InvalidateBreakCache(ctx context.Context)
}

// BreakService manages the school-wide break list. Breaks are created and
// deleted, never edited; the inclusive end date is always derived from the
// start date and duration.
type BreakService struct {
	repo      breakRepository
	scheduler breakCacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBreakService constructs the service. The scheduler collaborator is
// notified after every mutation so cached break lists are dropped.
func NewBreakService(repo breakRepository, scheduler breakCacheInvalidator, validate *validator.Validate, logger *zap.Logger) *BreakService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BreakService{repo: repo, scheduler: scheduler, validator: validate, logger: logger}
}

// List returns all breaks.
func (s *BreakService) List(ctx context.Context) ([]dto.BreakResponse, error) {
	breaks, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list breaks")
	}

	out := make([]dto.BreakResponse, len(breaks))
	for i, b := range breaks {
		out[i] = toBreakResponse(b)
	}
	return out, nil
}

// Create registers a new break.
func (s *BreakService) Create(ctx context.Context, req dto.CreateBreakRequest) (*dto.BreakResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}

	start, err := dto.ParseDate(req.StartDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start date must be YYYY-MM-DD")
	}

	b := &models.Break{
		Name:          req.Name,
		StartDate:     start,
		EndDate:       start.AddDate(0, 0, req.DurationWeeks*7-1),
		DurationWeeks: req.DurationWeeks,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create break")
	}

	s.invalidate(ctx)
	resp := toBreakResponse(*b)
	return &resp, nil
}

// Delete removes a break.
func (s *BreakService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "break not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load break")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete break")
	}

	s.invalidate(ctx)
	return nil
}

func (s *BreakService) invalidate(ctx context.Context) {
	if s.scheduler != nil {
		s.scheduler.InvalidateBreakCache(ctx)
	}
}

func toBreakResponse(b models.Break) dto.BreakResponse {
	return dto.BreakResponse{
		ID:            b.ID,
		Name:          b.Name,
		StartDate:     dto.FormatDate(b.StartDate),
		EndDate:       dto.FormatDate(b.EndDate),
		DurationWeeks: b.DurationWeeks,
	}
}
