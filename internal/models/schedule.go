package models

import "time"

// ScheduleDirection selects how the engine walks modules from the pivot.
type ScheduleDirection string

const (
	// DirectionForward recalculates the pivot and every later module.
	DirectionForward ScheduleDirection = "forward"
	// DirectionBackward recalculates every module before the pivot.
	DirectionBackward ScheduleDirection = "backward"
)

// ScheduleStatus classifies the outcome of a recalculation run.
type ScheduleStatus string

const (
	ScheduleStatusSuccess ScheduleStatus = "success"
	ScheduleStatusPartial ScheduleStatus = "partial"
	ScheduleStatusFatal   ScheduleStatus = "fatal"
)

// ScheduleEntry is one module's computed date assignment.
type ScheduleEntry struct {
	ModuleID  string    `json:"module_id"`
	OrderNum  int       `json:"order_num"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// ScheduleChange pairs a module with the dates the engine wants stored.
// Only modules whose stored dates differ from the computed ones appear in
// a change set.
type ScheduleChange struct {
	ModuleID     string     `json:"module_id"`
	OrderNum     int        `json:"order_num"`
	OldStartDate *time.Time `json:"old_start_date,omitempty"`
	OldEndDate   *time.Time `json:"old_end_date,omitempty"`
	NewStartDate time.Time  `json:"new_start_date"`
	NewEndDate   time.Time  `json:"new_end_date"`
}

// ScheduleResult summarizes a recalculation run, including partial write
// failures. Warnings carry non-fatal issues such as skipped malformed
// break rows.
type ScheduleResult struct {
	Status       ScheduleStatus   `json:"status"`
	Entries      []ScheduleEntry  `json:"entries"`
	Changes      []ScheduleChange `json:"changes"`
	Applied      int              `json:"applied"`
	Failed       int              `json:"failed"`
	Warnings     []string         `json:"warnings,omitempty"`
	PivotModule  string           `json:"pivot_module,omitempty"`
	SyntheticRun bool             `json:"synthetic_pivot"`
}
