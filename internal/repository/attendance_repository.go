package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/acadops/campus-admin-api/internal/models"
)

// AttendanceRepository persists per-day attendance marks.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs an attendance repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// ListByCourseDate returns every mark stored for a course on one day.
func (r *AttendanceRepository) ListByCourseDate(ctx context.Context, courseID string, date time.Time) ([]models.AttendanceRecord, error) {
	const query = `SELECT id, course_id, student_id, date, status, note, created_at, updated_at
FROM attendance_records WHERE course_id = $1 AND date = $2 ORDER BY student_id ASC`
	var records []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &records, query, courseID, date); err != nil {
		return nil, fmt.Errorf("list attendance for course %s on %s: %w", courseID, date.Format("2006-01-02"), err)
	}
	return records, nil
}

// ListDates returns the distinct dates a course has attendance stored for.
func (r *AttendanceRepository) ListDates(ctx context.Context, courseID string) ([]time.Time, error) {
	const query = `SELECT DISTINCT date FROM attendance_records WHERE course_id = $1 ORDER BY date ASC`
	var dates []time.Time
	if err := r.db.SelectContext(ctx, &dates, query, courseID); err != nil {
		return nil, fmt.Errorf("list attendance dates for course %s: %w", courseID, err)
	}
	return dates, nil
}

// ReplaceDay swaps out all marks for a course on one day inside a single
// transaction.
func (r *AttendanceRepository) ReplaceDay(ctx context.Context, courseID string, date time.Time, records []models.AttendanceRecord) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin attendance replace: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM attendance_records WHERE course_id = $1 AND date = $2", courseID, date); err != nil {
		return fmt.Errorf("clear attendance for course %s: %w", courseID, err)
	}

	const insert = `INSERT INTO attendance_records (id, course_id, student_id, date, status, note, created_at, updated_at)
VALUES (:id, :course_id, :student_id, :date, :status, :note, :created_at, :updated_at)`
	now := time.Now().UTC()
	for i := range records {
		rec := &records[i]
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		rec.CourseID = courseID
		rec.Date = date
		rec.CreatedAt = now
		rec.UpdatedAt = now
		if _, err := tx.NamedExecContext(ctx, insert, rec); err != nil {
			return fmt.Errorf("insert attendance mark for student %s: %w", rec.StudentID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit attendance replace: %w", err)
	}
	return nil
}

// DeleteDay removes all marks for a course on one day.
func (r *AttendanceRepository) DeleteDay(ctx context.Context, courseID string, date time.Time) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM attendance_records WHERE course_id = $1 AND date = $2", courseID, date); err != nil {
		return fmt.Errorf("delete attendance for course %s: %w", courseID, err)
	}
	return nil
}
