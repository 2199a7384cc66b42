package models

import "time"

// CourseStamp records when a table's rows for a course were last mutated.
// Clients compare stamps to decide whether their cached copies are stale.
type CourseStamp struct {
	TableName string    `db:"table_name" json:"table_name"`
	CourseID  string    `db:"course_id" json:"course_id"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
