package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/acadops/campus-admin-api/internal/models"
)

// StampRepository tracks per-table, per-course last-updated markers used
// by clients for cache invalidation.
type StampRepository struct {
	db *sqlx.DB
}

// NewStampRepository constructs a stamp repository.
func NewStampRepository(db *sqlx.DB) *StampRepository {
	return &StampRepository{db: db}
}

// Touch bumps the marker for a table and course to now.
func (r *StampRepository) Touch(ctx context.Context, tableName, courseID string) error {
	const query = `INSERT INTO course_stamps (table_name, course_id, updated_at) VALUES ($1, $2, $3)
ON CONFLICT (table_name, course_id) DO UPDATE SET updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query, tableName, courseID, time.Now().UTC()); err != nil {
		return fmt.Errorf("touch stamp %s/%s: %w", tableName, courseID, err)
	}
	return nil
}

// Get returns the marker for a table and course, or nil when none exists.
func (r *StampRepository) Get(ctx context.Context, tableName, courseID string) (*models.CourseStamp, error) {
	const query = `SELECT table_name, course_id, updated_at FROM course_stamps WHERE table_name = $1 AND course_id = $2`
	var stamp models.CourseStamp
	if err := r.db.GetContext(ctx, &stamp, query, tableName, courseID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get stamp %s/%s: %w", tableName, courseID, err)
	}
	return &stamp, nil
}
