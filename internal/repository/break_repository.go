package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/acadops/campus-admin-api/internal/models"
)

// BreakRepository persists school-wide break intervals.
type BreakRepository struct {
	db *sqlx.DB
}

// NewBreakRepository constructs a break repository.
func NewBreakRepository(db *sqlx.DB) *BreakRepository {
	return &BreakRepository{db: db}
}

// List returns all breaks ordered by start date.
func (r *BreakRepository) List(ctx context.Context) ([]models.Break, error) {
	const query = `SELECT id, name, start_date, end_date, duration_weeks, created_at, updated_at
FROM breaks ORDER BY start_date ASC`
	var breaks []models.Break
	if err := r.db.SelectContext(ctx, &breaks, query); err != nil {
		return nil, fmt.Errorf("list breaks: %w", err)
	}
	return breaks, nil
}

// GetByID fetches one break.
func (r *BreakRepository) GetByID(ctx context.Context, id string) (*models.Break, error) {
	const query = `SELECT id, name, start_date, end_date, duration_weeks, created_at, updated_at
FROM breaks WHERE id = $1`
	var b models.Break
	if err := r.db.GetContext(ctx, &b, query, id); err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserts a break.
func (r *BreakRepository) Create(ctx context.Context, b *models.Break) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
	const query = `INSERT INTO breaks (id, name, start_date, end_date, duration_weeks, created_at, updated_at)
VALUES (:id, :name, :start_date, :end_date, :duration_weeks, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, b); err != nil {
		return fmt.Errorf("create break: %w", err)
	}
	return nil
}

// Delete removes a break. Breaks are never updated in place.
func (r *BreakRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM breaks WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete break: %w", err)
	}
	return nil
}
