package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadops/campus-admin-api/internal/dto"
	"github.com/acadops/campus-admin-api/internal/models"
	appErrors "github.com/acadops/campus-admin-api/pkg/errors"
)

type studentRepoStub struct {
	students []models.Student
	ops      []string
	failOp   string
	nextID   int
}

func (s *studentRepoStub) ListByCourse(ctx context.Context, courseID string) ([]models.Student, error) {
	var out []models.Student
	for _, st := range s.students {
		if st.CourseID == courseID {
			out = append(out, st)
		}
	}
	return out, nil
}

func (s *studentRepoStub) Create(ctx context.Context, st *models.Student) error {
	if s.failOp == "create" {
		return errors.New("create refused")
	}
	s.nextID++
	st.ID = "new-" + string(rune('a'+s.nextID-1))
	s.students = append(s.students, *st)
	s.ops = append(s.ops, "create:"+st.FullName)
	return nil
}

func (s *studentRepoStub) Update(ctx context.Context, st *models.Student) error {
	if s.failOp == "update" {
		return errors.New("update refused")
	}
	for i := range s.students {
		if s.students[i].ID == st.ID {
			s.students[i] = *st
		}
	}
	s.ops = append(s.ops, "update:"+st.ID)
	return nil
}

func (s *studentRepoStub) Delete(ctx context.Context, id string) error {
	if s.failOp == "delete" {
		return errors.New("delete refused")
	}
	for i := range s.students {
		if s.students[i].ID == id {
			s.students = append(s.students[:i], s.students[i+1:]...)
			break
		}
	}
	s.ops = append(s.ops, "delete:"+id)
	return nil
}

func rosterFixture() *studentRepoStub {
	return &studentRepoStub{students: []models.Student{
		{ID: "s1", CourseID: "course-1", FullName: "Ana"},
		{ID: "s2", CourseID: "course-1", FullName: "Bruno"},
	}}
}

func TestStudentServiceReplaceOrdersMutations(t *testing.T) {
	repo := rosterFixture()
	stamps := &moduleStampStub{}
	svc := NewStudentService(repo, stamps, nil, nil)

	// s1 stays and is renamed, s2 is dropped, one student is new.
	result, err := svc.Replace(context.Background(), "course-1", dto.ReplaceRosterRequest{
		Students: []dto.RosterItem{
			{ID: strp("s1"), FullName: "Ana Maria"},
			{FullName: "Carla"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, result.Deleted)
	assert.Zero(t, result.Failed)

	require.Len(t, repo.ops, 3)
	assert.Equal(t, "create:Carla", repo.ops[0])
	assert.Equal(t, "update:s1", repo.ops[1])
	assert.Equal(t, "delete:s2", repo.ops[2])

	assert.Equal(t, []string{"students/course-1"}, stamps.touched)
}

func TestStudentServiceReplaceRejectsUnknownID(t *testing.T) {
	svc := NewStudentService(rosterFixture(), nil, nil, nil)

	_, err := svc.Replace(context.Background(), "course-1", dto.ReplaceRosterRequest{
		Students: []dto.RosterItem{
			{ID: strp("ghost"), FullName: "Ghost"},
		},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceReplaceCountsFailures(t *testing.T) {
	repo := rosterFixture()
	repo.failOp = "delete"
	svc := NewStudentService(repo, nil, nil, nil)

	result, err := svc.Replace(context.Background(), "course-1", dto.ReplaceRosterRequest{
		Students: []dto.RosterItem{
			{ID: strp("s1"), FullName: "Ana"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)
	assert.Zero(t, result.Deleted)
	assert.Equal(t, 1, result.Failed)
}

func TestStudentServiceList(t *testing.T) {
	svc := NewStudentService(rosterFixture(), nil, nil, nil)

	students, err := svc.List(context.Background(), "course-1")
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "Ana", students[0].FullName)
}
