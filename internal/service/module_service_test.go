package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadops/campus-admin-api/internal/dto"
	"github.com/acadops/campus-admin-api/internal/models"
	appErrors "github.com/acadops/campus-admin-api/pkg/errors"
)

type moduleRepoStub struct {
	modules map[string][]models.CourseModule
	ops     []string
	failOp  string
	nextID  int
}

func (s *moduleRepoStub) ListByCourse(ctx context.Context, courseID string) ([]models.CourseModule, error) {
	out := make([]models.CourseModule, len(s.modules[courseID]))
	copy(out, s.modules[courseID])
	return out, nil
}

func (s *moduleRepoStub) GetByID(ctx context.Context, id string) (*models.CourseModule, error) {
	for _, mods := range s.modules {
		for _, m := range mods {
			if m.ID == id {
				return &m, nil
			}
		}
	}
	return nil, sql.ErrNoRows
}

func (s *moduleRepoStub) Create(ctx context.Context, m *models.CourseModule) error {
	if s.failOp == "create" {
		return errors.New("create refused")
	}
	if m.ID == "" {
		s.nextID++
		m.ID = "new-" + string(rune('a'+s.nextID-1))
	}
	if s.modules == nil {
		s.modules = make(map[string][]models.CourseModule)
	}
	s.modules[m.CourseID] = append(s.modules[m.CourseID], *m)
	s.ops = append(s.ops, "create:"+m.Name)
	return nil
}

func (s *moduleRepoStub) Update(ctx context.Context, m *models.CourseModule) error {
	if s.failOp == "update" {
		return errors.New("update refused")
	}
	mods := s.modules[m.CourseID]
	for i := range mods {
		if mods[i].ID == m.ID {
			mods[i] = *m
		}
	}
	s.modules[m.CourseID] = mods
	s.ops = append(s.ops, "update:"+m.ID)
	return nil
}

func (s *moduleRepoStub) Delete(ctx context.Context, id string) error {
	if s.failOp == "delete" {
		return errors.New("delete refused")
	}
	for courseID, mods := range s.modules {
		for i := range mods {
			if mods[i].ID == id {
				s.modules[courseID] = append(mods[:i], mods[i+1:]...)
				s.ops = append(s.ops, "delete:"+id)
				return nil
			}
		}
	}
	s.ops = append(s.ops, "delete:"+id)
	return nil
}

func (s *moduleRepoStub) ListCourses(ctx context.Context) ([]models.Course, error) {
	var out []models.Course
	for courseID, mods := range s.modules {
		out = append(out, models.Course{ID: courseID, ModuleCount: len(mods)})
	}
	return out, nil
}

type moduleStampStub struct {
	touched []string
}

func (s *moduleStampStub) Touch(ctx context.Context, tableName, courseID string) error {
	s.touched = append(s.touched, tableName+"/"+courseID)
	return nil
}

func syncFixture() *moduleRepoStub {
	return &moduleRepoStub{modules: map[string][]models.CourseModule{
		"course-1": {
			{ID: "m1", CourseID: "course-1", Name: "Foundations", DurationWeeks: 2, OrderNum: 1},
			{ID: "m2", CourseID: "course-1", Name: "Practice", DurationWeeks: 1, OrderNum: 2},
		},
	}}
}

func strp(s string) *string { return &s }

func TestModuleServiceSyncOrdersMutations(t *testing.T) {
	repo := syncFixture()
	stamps := &moduleStampStub{}
	svc := NewModuleService(repo, stamps, nil, nil)

	// m1 is kept and renamed, m2 is dropped, one module is new.
	result, err := svc.Sync(context.Background(), "course-1", dto.SyncModulesRequest{
		Modules: []dto.SyncModuleItem{
			{ID: strp("m1"), Name: "Foundations II", DurationWeeks: 2, OrderNum: 1},
			{Name: "Capstone", DurationWeeks: 3, OrderNum: 3},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, result.Deleted)
	assert.Zero(t, result.Failed)

	// Creates run before updates, deletes always last.
	require.Len(t, repo.ops, 3)
	assert.Equal(t, "create:Capstone", repo.ops[0])
	assert.Equal(t, "update:m1", repo.ops[1])
	assert.Equal(t, "delete:m2", repo.ops[2])

	assert.Equal(t, []string{"course_modules/course-1"}, stamps.touched)
}

func TestModuleServiceSyncRejectsUnknownID(t *testing.T) {
	svc := NewModuleService(syncFixture(), nil, nil, nil)

	_, err := svc.Sync(context.Background(), "course-1", dto.SyncModulesRequest{
		Modules: []dto.SyncModuleItem{
			{ID: strp("ghost"), Name: "Ghost", DurationWeeks: 1, OrderNum: 1},
		},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestModuleServiceSyncCountsFailures(t *testing.T) {
	repo := syncFixture()
	repo.failOp = "delete"
	svc := NewModuleService(repo, nil, nil, nil)

	result, err := svc.Sync(context.Background(), "course-1", dto.SyncModulesRequest{
		Modules: []dto.SyncModuleItem{
			{ID: strp("m1"), Name: "Foundations II", DurationWeeks: 2, OrderNum: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, result.Failed)
	assert.Zero(t, result.Deleted)
}

func TestModuleServiceSyncUnchangedListWritesNothing(t *testing.T) {
	repo := syncFixture()
	stamps := &moduleStampStub{}
	svc := NewModuleService(repo, stamps, nil, nil)

	// Saving the stored list untouched must not emit a single write.
	result, err := svc.Sync(context.Background(), "course-1", dto.SyncModulesRequest{
		Modules: []dto.SyncModuleItem{
			{ID: strp("m1"), Name: "Foundations", DurationWeeks: 2, OrderNum: 1},
			{ID: strp("m2"), Name: "Practice", DurationWeeks: 1, OrderNum: 2},
		},
	})
	require.NoError(t, err)

	assert.Zero(t, result.Created)
	assert.Zero(t, result.Updated)
	assert.Zero(t, result.Deleted)
	assert.Zero(t, result.Failed)
	assert.Empty(t, repo.ops)
	assert.Empty(t, stamps.touched)
}

func TestModuleServiceSyncUpdatesOnlyChangedModules(t *testing.T) {
	repo := syncFixture()
	svc := NewModuleService(repo, nil, nil, nil)

	result, err := svc.Sync(context.Background(), "course-1", dto.SyncModulesRequest{
		Modules: []dto.SyncModuleItem{
			{ID: strp("m1"), Name: "Foundations", DurationWeeks: 2, OrderNum: 1},
			{ID: strp("m2"), Name: "Practice", DurationWeeks: 2, OrderNum: 2},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, []string{"update:m2"}, repo.ops)
}

func TestModuleServiceSyncBadDateWritesNothing(t *testing.T) {
	repo := syncFixture()
	stamps := &moduleStampStub{}
	svc := NewModuleService(repo, stamps, nil, nil)

	// The create is valid but the later item is malformed; nothing may be
	// persisted before the request is rejected.
	_, err := svc.Sync(context.Background(), "course-1", dto.SyncModulesRequest{
		Modules: []dto.SyncModuleItem{
			{Name: "Capstone", DurationWeeks: 3, OrderNum: 3},
			{ID: strp("m1"), Name: "Foundations", DurationWeeks: 2, OrderNum: 1, StartDate: strp("15-01-2024")},
		},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.ops)
	assert.Empty(t, stamps.touched)
}

func TestModuleServiceCreateParsesDates(t *testing.T) {
	repo := &moduleRepoStub{}
	svc := NewModuleService(repo, nil, nil, nil)

	created, err := svc.Create(context.Background(), "course-1", dto.CreateModuleRequest{
		Name:          "Foundations",
		DurationWeeks: 2,
		OrderNum:      1,
		StartDate:     strp("2024-01-15"),
		EndDate:       strp("2024-01-28"),
	})
	require.NoError(t, err)
	require.NotNil(t, created.StartDate)
	assert.Equal(t, "2024-01-15", *created.StartDate)
}

func TestModuleServiceCreateRejectsInvertedDates(t *testing.T) {
	svc := NewModuleService(&moduleRepoStub{}, nil, nil, nil)

	_, err := svc.Create(context.Background(), "course-1", dto.CreateModuleRequest{
		Name:          "Foundations",
		DurationWeeks: 2,
		OrderNum:      1,
		StartDate:     strp("2024-01-28"),
		EndDate:       strp("2024-01-15"),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestModuleServiceGetUnknown(t *testing.T) {
	svc := NewModuleService(&moduleRepoStub{}, nil, nil, nil)

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
