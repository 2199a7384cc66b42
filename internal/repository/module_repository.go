package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/acadops/campus-admin-api/internal/models"
)

// ModuleRepository persists course curriculum modules.
type ModuleRepository struct {
	db *sqlx.DB
}

// NewModuleRepository constructs a module repository.
func NewModuleRepository(db *sqlx.DB) *ModuleRepository {
	return &ModuleRepository{db: db}
}

// ListByCourse returns a course's modules ordered by sequence position.
func (r *ModuleRepository) ListByCourse(ctx context.Context, courseID string) ([]models.CourseModule, error) {
	const query = `SELECT id, course_id, name, description, duration_weeks, order_num, start_date, end_date, created_at, updated_at
FROM course_modules WHERE course_id = $1 ORDER BY order_num ASC`
	var modules []models.CourseModule
	if err := r.db.SelectContext(ctx, &modules, query, courseID); err != nil {
		return nil, fmt.Errorf("list modules for course %s: %w", courseID, err)
	}
	return modules, nil
}

// GetByID fetches one module.
func (r *ModuleRepository) GetByID(ctx context.Context, id string) (*models.CourseModule, error) {
	const query = `SELECT id, course_id, name, description, duration_weeks, order_num, start_date, end_date, created_at, updated_at
FROM course_modules WHERE id = $1`
	var m models.CourseModule
	if err := r.db.GetContext(ctx, &m, query, id); err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a module and fills in its generated id.
func (r *ModuleRepository) Create(ctx context.Context, m *models.CourseModule) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
	const query = `INSERT INTO course_modules (id, course_id, name, description, duration_weeks, order_num, start_date, end_date, created_at, updated_at)
VALUES (:id, :course_id, :name, :description, :duration_weeks, :order_num, :start_date, :end_date, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, m); err != nil {
		return fmt.Errorf("create module: %w", err)
	}
	return nil
}

// Update replaces a module's editable fields.
func (r *ModuleRepository) Update(ctx context.Context, m *models.CourseModule) error {
	m.UpdatedAt = time.Now().UTC()
	const query = `UPDATE course_modules SET name = :name, description = :description, duration_weeks = :duration_weeks,
order_num = :order_num, start_date = :start_date, end_date = :end_date, updated_at = :updated_at
WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, m); err != nil {
		return fmt.Errorf("update module %s: %w", m.ID, err)
	}
	return nil
}

// UpdateDates writes only a module's computed schedule dates.
func (r *ModuleRepository) UpdateDates(ctx context.Context, id string, start, end time.Time) error {
	const query = `UPDATE course_modules SET start_date = $2, end_date = $3, updated_at = $4 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, start, end, time.Now().UTC()); err != nil {
		return fmt.Errorf("update module dates %s: %w", id, err)
	}
	return nil
}

// Delete removes a module.
func (r *ModuleRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM course_modules WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete module %s: %w", id, err)
	}
	return nil
}

// ListCourses returns the distinct course keys that have modules, with a
// module count per course.
func (r *ModuleRepository) ListCourses(ctx context.Context) ([]models.Course, error) {
	const query = `SELECT course_id, COUNT(*) AS module_count FROM course_modules GROUP BY course_id ORDER BY course_id ASC`
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}
