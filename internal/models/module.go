package models

import "time"

// CourseModule represents one unit of a course's curriculum stored in the
// course_modules table. StartDate and EndDate are nil until the schedule
// engine has assigned dates; both are date-only values at UTC midnight and
// EndDate is inclusive.
type CourseModule struct {
	ID            string     `db:"id" json:"id"`
	CourseID      string     `db:"course_id" json:"course_id"`
	Name          string     `db:"name" json:"name"`
	Description   *string    `db:"description" json:"description,omitempty"`
	DurationWeeks int        `db:"duration_weeks" json:"duration_weeks"`
	OrderNum      int        `db:"order_num" json:"order_num"`
	StartDate     *time.Time `db:"start_date" json:"start_date,omitempty"`
	EndDate       *time.Time `db:"end_date" json:"end_date,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// Course identifies a course as seen by the scheduling and roster layers.
// Courses have no table of their own; they are the distinct course keys
// observed across rosters and modules.
type Course struct {
	ID          string `db:"course_id" json:"id"`
	ModuleCount int    `db:"module_count" json:"module_count"`
}
