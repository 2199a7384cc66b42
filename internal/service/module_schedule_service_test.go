package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadops/campus-admin-api/internal/models"
	"github.com/acadops/campus-admin-api/pkg/config"
	appErrors "github.com/acadops/campus-admin-api/pkg/errors"
)

type scheduleModuleRepoStub struct {
	modules map[string][]models.CourseModule
	failIDs map[string]bool
	listErr error
	writes  []string
}

func (s *scheduleModuleRepoStub) ListByCourse(ctx context.Context, courseID string) ([]models.CourseModule, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]models.CourseModule, len(s.modules[courseID]))
	copy(out, s.modules[courseID])
	return out, nil
}

func (s *scheduleModuleRepoStub) UpdateDates(ctx context.Context, id string, start, end time.Time) error {
	if s.failIDs[id] {
		return errors.New("write refused")
	}
	for courseID, mods := range s.modules {
		for i := range mods {
			if mods[i].ID == id {
				st, en := start, end
				mods[i].StartDate = &st
				mods[i].EndDate = &en
				s.modules[courseID] = mods
			}
		}
	}
	s.writes = append(s.writes, id)
	return nil
}

type scheduleBreakRepoStub struct {
	breaks []models.Break
	err    error
	calls  int
}

func (s *scheduleBreakRepoStub) List(ctx context.Context) ([]models.Break, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.breaks, nil
}

type scheduleCacheStub struct {
	values  map[string][]byte
	deletes []string
}

func (s *scheduleCacheStub) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := s.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (s *scheduleCacheStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if s.values == nil {
		s.values = make(map[string][]byte)
	}
	s.values[key] = raw
	return nil
}

func (s *scheduleCacheStub) Delete(ctx context.Context, key string) error {
	s.deletes = append(s.deletes, key)
	delete(s.values, key)
	return nil
}

type scheduleStampRepoStub struct {
	touched []string
	err     error
}

func (s *scheduleStampRepoStub) Touch(ctx context.Context, tableName, courseID string) error {
	if s.err != nil {
		return s.err
	}
	s.touched = append(s.touched, tableName+"/"+courseID)
	return nil
}

func newScheduleFixture(modules []models.CourseModule, breaks []models.Break) (*ModuleScheduleService, *scheduleModuleRepoStub, *scheduleBreakRepoStub, *scheduleCacheStub, *scheduleStampRepoStub) {
	moduleRepo := &scheduleModuleRepoStub{modules: map[string][]models.CourseModule{"course-1": modules}}
	breakRepo := &scheduleBreakRepoStub{breaks: breaks}
	cacheStub := &scheduleCacheStub{}
	stampRepo := &scheduleStampRepoStub{}

	svc := NewModuleScheduleService(moduleRepo, breakRepo, cacheStub, stampRepo, nil,
		config.ScheduleConfig{SnapToMonday: false, BreakCacheTTL: time.Minute}, nil)
	svc.now = func() time.Time { return date(2024, time.January, 17) }
	return svc, moduleRepo, breakRepo, cacheStub, stampRepo
}

func TestModuleScheduleServiceRecalculateAppliesChanges(t *testing.T) {
	svc, moduleRepo, _, _, stampRepo := newScheduleFixture(threeModuleSequence(), nil)

	result, err := svc.Recalculate(context.Background(), "course-1", models.DirectionForward)
	require.NoError(t, err)

	assert.Equal(t, models.ScheduleStatusSuccess, result.Status)
	// The pivot's dates are already correct; m1 and m3 gain dates.
	assert.Equal(t, 2, result.Applied)
	assert.Zero(t, result.Failed)
	assert.Len(t, moduleRepo.writes, 2)
	assert.Equal(t, []string{"course_modules/course-1"}, stampRepo.touched)
}

func TestModuleScheduleServiceIdempotent(t *testing.T) {
	svc, _, _, _, stampRepo := newScheduleFixture(threeModuleSequence(), nil)

	first, err := svc.Recalculate(context.Background(), "course-1", models.DirectionForward)
	require.NoError(t, err)
	require.Equal(t, 2, first.Applied)

	second, err := svc.Recalculate(context.Background(), "course-1", models.DirectionForward)
	require.NoError(t, err)
	assert.Zero(t, second.Applied)
	assert.Empty(t, second.Changes)
	// Only the first run bumps the course stamp.
	assert.Len(t, stampRepo.touched, 1)
}

func TestModuleScheduleServicePartialWriteFailure(t *testing.T) {
	svc, moduleRepo, _, _, _ := newScheduleFixture(threeModuleSequence(), nil)
	moduleRepo.failIDs = map[string]bool{"m3": true}

	result, err := svc.Recalculate(context.Background(), "course-1", models.DirectionForward)
	require.NoError(t, err)

	assert.Equal(t, models.ScheduleStatusPartial, result.Status)
	assert.Equal(t, 1, result.Applied)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "m3")
}

func TestModuleScheduleServiceMalformedCachedBreakWarns(t *testing.T) {
	svc, _, breakRepo, cacheStub, _ := newScheduleFixture(threeModuleSequence(), nil)
	raw, err := json.Marshal([]RawBreak{{Name: "corrupt", StartDate: "not-a-date"}})
	require.NoError(t, err)
	cacheStub.values = map[string][]byte{breakCacheKey: raw}

	result, err := svc.Recalculate(context.Background(), "course-1", models.DirectionForward)
	require.NoError(t, err)

	assert.Equal(t, models.ScheduleStatusPartial, result.Status)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "corrupt")
	// The schedule is still produced from the remaining (zero) breaks.
	assert.Len(t, result.Entries, 3)
	// The cached copy was served, so the repository was never hit.
	assert.Zero(t, breakRepo.calls)
}

func TestModuleScheduleServiceCachesBreakList(t *testing.T) {
	breaks := []models.Break{{
		ID: "b1", Name: "winter",
		StartDate:     date(2024, time.January, 29),
		EndDate:       date(2024, time.February, 4),
		DurationWeeks: 1,
	}}
	svc, _, breakRepo, cacheStub, _ := newScheduleFixture(threeModuleSequence(), breaks)

	_, err := svc.Recalculate(context.Background(), "course-1", models.DirectionForward)
	require.NoError(t, err)
	assert.Equal(t, 1, breakRepo.calls)
	assert.Contains(t, cacheStub.values, breakCacheKey)

	_, err = svc.Recalculate(context.Background(), "course-1", models.DirectionForward)
	require.NoError(t, err)
	assert.Equal(t, 1, breakRepo.calls, "second run must be served from cache")

	svc.InvalidateBreakCache(context.Background())
	_, err = svc.Recalculate(context.Background(), "course-1", models.DirectionForward)
	require.NoError(t, err)
	assert.Equal(t, 2, breakRepo.calls, "invalidation must force a refetch")
}

func TestModuleScheduleServiceAppliesBreakStretch(t *testing.T) {
	breaks := []models.Break{{
		ID: "b1", Name: "winter",
		StartDate:     date(2024, time.January, 29),
		EndDate:       date(2024, time.February, 4),
		DurationWeeks: 1,
	}}
	svc, moduleRepo, _, _, _ := newScheduleFixture(threeModuleSequence(), breaks)

	_, err := svc.Recalculate(context.Background(), "course-1", models.DirectionForward)
	require.NoError(t, err)

	var m3 models.CourseModule
	for _, m := range moduleRepo.modules["course-1"] {
		if m.ID == "m3" {
			m3 = m
		}
	}
	require.NotNil(t, m3.EndDate)
	assert.Equal(t, date(2024, time.February, 18), *m3.EndDate)
}

func TestModuleScheduleServiceEmptyCourse(t *testing.T) {
	svc, _, _, _, stampRepo := newScheduleFixture(nil, nil)

	result, err := svc.Recalculate(context.Background(), "course-1", models.DirectionForward)
	require.NoError(t, err)
	assert.Equal(t, models.ScheduleStatusSuccess, result.Status)
	assert.Empty(t, result.Entries)
	assert.Empty(t, result.Changes)
	assert.Empty(t, stampRepo.touched)
}

func TestModuleScheduleServiceRejectsBadInput(t *testing.T) {
	svc, _, _, _, _ := newScheduleFixture(nil, nil)

	_, err := svc.Recalculate(context.Background(), "", models.DirectionForward)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Recalculate(context.Background(), "course-1", models.ScheduleDirection("sideways"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestModuleScheduleServicePreviewDoesNotWrite(t *testing.T) {
	svc, moduleRepo, _, _, stampRepo := newScheduleFixture(threeModuleSequence(), nil)

	result, err := svc.Preview(context.Background(), "course-1", models.DirectionForward)
	require.NoError(t, err)
	assert.Len(t, result.Changes, 2)
	assert.Zero(t, result.Applied)
	assert.Empty(t, moduleRepo.writes)
	assert.Empty(t, stampRepo.touched)
}
