package dto

// CreateBreakRequest registers a new school-wide break. The end date is
// derived from the start date and duration, never supplied by the client.
type CreateBreakRequest struct {
	Name          string `json:"name" validate:"required"`
	StartDate     string `json:"startDate" validate:"required,datetime=2006-01-02"`
	DurationWeeks int    `json:"durationWeeks" validate:"required,min=1,max=52"`
}

// BreakResponse is a break as exposed via API.
type BreakResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
	DurationWeeks int    `json:"durationWeeks"`
}
