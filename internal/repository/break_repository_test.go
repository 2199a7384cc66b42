package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadops/campus-admin-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	return sqlxDB, mock, func() {
		sqlxDB.Close()
		db.Close()
	}
}

func TestBreakRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewBreakRepository(db)
	rows := sqlmock.NewRows([]string{"id", "name", "start_date", "end_date", "duration_weeks", "created_at", "updated_at"}).
		AddRow("b1", "winter", time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC), time.Date(2024, 2, 4, 0, 0, 0, 0, time.UTC), 1, time.Now(), time.Now())
	mock.ExpectQuery("SELECT id, name, start_date").
		WillReturnRows(rows)

	breaks, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, breaks, 1)
	assert.Equal(t, "winter", breaks[0].Name)
	assert.Equal(t, 1, breaks[0].DurationWeeks)
}

func TestBreakRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewBreakRepository(db)
	mock.ExpectExec("INSERT INTO breaks").
		WillReturnResult(sqlmock.NewResult(1, 1))

	b := &models.Break{
		Name:          "winter",
		StartDate:     time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2024, 2, 4, 0, 0, 0, 0, time.UTC),
		DurationWeeks: 1,
	}
	require.NoError(t, repo.Create(context.Background(), b))
	assert.NotEmpty(t, b.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBreakRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewBreakRepository(db)
	mock.ExpectExec("DELETE FROM breaks").
		WithArgs("b1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "b1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
