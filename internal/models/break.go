package models

import "time"

// Break represents a school-wide instructional break stored in the breaks
// table. StartDate and EndDate are date-only values normalized to UTC
// midnight; EndDate is inclusive and always derived from StartDate plus
// DurationWeeks full weeks minus one day.
type Break struct {
	ID            string    `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	StartDate     time.Time `db:"start_date" json:"start_date"`
	EndDate       time.Time `db:"end_date" json:"end_date"`
	DurationWeeks int       `db:"duration_weeks" json:"duration_weeks"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
