package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/acadops/campus-admin-api/internal/dto"
	"github.com/acadops/campus-admin-api/internal/models"
	"github.com/acadops/campus-admin-api/pkg/config"
	appErrors "github.com/acadops/campus-admin-api/pkg/errors"
)

const (
	breakCacheKey    = "schedule:breaks"
	modulesTableName = "course_modules"
)

type scheduleModuleRepository interface {
	ListByCourse(ctx context.Context, courseID string) ([]models.CourseModule, error)
	UpdateDates(ctx context.Context, id string, start, end time.Time) error
}

type scheduleBreakRepository interface {
	List(ctx context.Context) ([]models.Break, error)
}

type scheduleCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type scheduleStampRepository interface {
	Touch(ctx context.Context, tableName, courseID string) error
}

// ModuleScheduleService recalculates module dates for a course and flushes
// only the changed rows. Writes are applied one at a time; a failed write
// does not roll back the ones before it.
type ModuleScheduleService struct {
	modules scheduleModuleRepository
	breaks  scheduleBreakRepository
	cache   scheduleCache
	stamps  scheduleStampRepository
	metrics *MetricsService
	cfg     config.ScheduleConfig
	logger  *zap.Logger
	now     func() time.Time
}

// NewModuleScheduleService constructs the service. The cache, stamps, and
// metrics collaborators are optional.
func NewModuleScheduleService(
	modules scheduleModuleRepository,
	breaks scheduleBreakRepository,
	cache scheduleCache,
	stamps scheduleStampRepository,
	metrics *MetricsService,
	cfg config.ScheduleConfig,
	logger *zap.Logger,
) *ModuleScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModuleScheduleService{
		modules: modules,
		breaks:  breaks,
		cache:   cache,
		stamps:  stamps,
		metrics: metrics,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

// Recalculate recomputes a course's module dates in the given direction
// and persists every module whose dates changed. Direction defaults to
// forward when empty.
func (s *ModuleScheduleService) Recalculate(ctx context.Context, courseID string, direction models.ScheduleDirection) (*models.ScheduleResult, error) {
	started := s.now()

	if direction == "" {
		direction = models.DirectionForward
	}
	if direction != models.DirectionForward && direction != models.DirectionBackward {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown schedule direction %q", direction))
	}
	if courseID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course id is required")
	}

	modules, err := s.modules.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load modules")
	}

	calendar, breakWarnings, err := s.loadCalendar(ctx)
	if err != nil {
		return nil, err
	}

	today := normalizeDate(s.now())
	engine := NewScheduleEngine(calendar, today)

	result, err := engine.Recompute(modules, direction)
	if err != nil {
		return nil, err
	}
	result.Warnings = append(breakWarnings, result.Warnings...)

	result.Changes = DiffSchedule(modules, result.Entries)
	for _, change := range result.Changes {
		if err := s.modules.UpdateDates(ctx, change.ModuleID, change.NewStartDate, change.NewEndDate); err != nil {
			result.Failed++
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("failed to save dates for module %s", change.ModuleID))
			s.logger.Warn("module date write failed",
				zap.String("course_id", courseID),
				zap.String("module_id", change.ModuleID),
				zap.Error(err))
			continue
		}
		result.Applied++
	}

	if result.Applied > 0 {
		s.markCourseChanged(ctx, courseID)
	}

	if result.Failed > 0 || len(result.Warnings) > 0 {
		result.Status = models.ScheduleStatusPartial
	}

	s.metrics.ObserveRecalculation(string(direction), string(result.Status), result.Applied, s.now().Sub(started))
	s.logger.Info("schedule recalculated",
		zap.String("course_id", courseID),
		zap.String("direction", string(direction)),
		zap.String("status", string(result.Status)),
		zap.Int("applied", result.Applied),
		zap.Int("failed", result.Failed))

	return result, nil
}

// Preview recomputes a course's schedule without persisting anything.
func (s *ModuleScheduleService) Preview(ctx context.Context, courseID string, direction models.ScheduleDirection) (*models.ScheduleResult, error) {
	if direction == "" {
		direction = models.DirectionForward
	}
	if courseID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course id is required")
	}

	modules, err := s.modules.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load modules")
	}

	calendar, breakWarnings, err := s.loadCalendar(ctx)
	if err != nil {
		return nil, err
	}

	engine := NewScheduleEngine(calendar, normalizeDate(s.now()))
	result, err := engine.Recompute(modules, direction)
	if err != nil {
		return nil, err
	}
	result.Warnings = append(breakWarnings, result.Warnings...)
	result.Changes = DiffSchedule(modules, result.Entries)
	if len(result.Warnings) > 0 {
		result.Status = models.ScheduleStatusPartial
	}
	return result, nil
}

// InvalidateBreakCache drops the cached break list so the next recompute
// refetches it. Called by the break admin flow after any mutation.
func (s *ModuleScheduleService) InvalidateBreakCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, breakCacheKey); err != nil {
		s.logger.Warn("failed to invalidate break cache", zap.Error(err))
	}
}

// loadCalendar fetches the shared break list, preferring the short-lived
// cache, and builds the calendar from it.
func (s *ModuleScheduleService) loadCalendar(ctx context.Context) (*BreakCalendar, []string, error) {
	var raws []RawBreak

	cached := false
	if s.cache != nil {
		if err := s.cache.Get(ctx, breakCacheKey, &raws); err == nil {
			cached = true
		}
		s.metrics.RecordCacheOperation(cached)
	}

	if !cached {
		breaks, err := s.breaks.List(ctx)
		if err != nil {
			return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load breaks")
		}
		raws = make([]RawBreak, len(breaks))
		for i, b := range breaks {
			raws[i] = RawBreak{
				Name:          b.Name,
				StartDate:     dto.FormatDate(b.StartDate),
				EndDate:       dto.FormatDate(b.EndDate),
				DurationWeeks: b.DurationWeeks,
			}
		}
		if s.cache != nil {
			if err := s.cache.Set(ctx, breakCacheKey, raws, s.cfg.BreakCacheTTL); err != nil {
				s.logger.Warn("failed to cache break list", zap.Error(err))
			}
		}
	}

	intervals, warnings := ParseBreaks(raws)
	return NewBreakCalendar(intervals, s.cfg.SnapToMonday), warnings, nil
}

func (s *ModuleScheduleService) markCourseChanged(ctx context.Context, courseID string) {
	if s.stamps == nil {
		return
	}
	if err := s.stamps.Touch(ctx, modulesTableName, courseID); err != nil {
		s.logger.Warn("failed to bump course stamp",
			zap.String("course_id", courseID),
			zap.Error(err))
	}
}
