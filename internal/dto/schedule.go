package dto

// RecalculateScheduleRequest triggers a module date recalculation for a
// course. Direction defaults to forward when omitted.
type RecalculateScheduleRequest struct {
	Direction string `json:"direction" validate:"omitempty,oneof=forward backward"`
}

// ScheduleEntryResponse is one module's computed dates.
type ScheduleEntryResponse struct {
	ModuleID  string `json:"moduleId"`
	OrderNum  int    `json:"orderNum"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// ScheduleChangeResponse describes one module whose stored dates differed
// from the computed schedule.
type ScheduleChangeResponse struct {
	ModuleID     string  `json:"moduleId"`
	OrderNum     int     `json:"orderNum"`
	OldStartDate *string `json:"oldStartDate,omitempty"`
	OldEndDate   *string `json:"oldEndDate,omitempty"`
	NewStartDate string  `json:"newStartDate"`
	NewEndDate   string  `json:"newEndDate"`
}

// RecalculateScheduleResponse reports the outcome of a recalculation run.
type RecalculateScheduleResponse struct {
	Status      string                   `json:"status"`
	Entries     []ScheduleEntryResponse  `json:"entries"`
	Changes     []ScheduleChangeResponse `json:"changes"`
	Applied     int                      `json:"applied"`
	Failed      int                      `json:"failed"`
	Warnings    []string                 `json:"warnings,omitempty"`
	PivotModule string                   `json:"pivotModule,omitempty"`
	Synthetic   bool                     `json:"syntheticPivot"`
}
