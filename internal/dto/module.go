package dto

// ModuleResponse is a course module as exposed via API. Dates are omitted
// until the schedule engine has assigned them.
type ModuleResponse struct {
	ID            string  `json:"id"`
	CourseID      string  `json:"courseId"`
	Name          string  `json:"name"`
	Description   *string `json:"description,omitempty"`
	DurationWeeks int     `json:"durationWeeks"`
	OrderNum      int     `json:"orderNum"`
	StartDate     *string `json:"startDate,omitempty"`
	EndDate       *string `json:"endDate,omitempty"`
}

// CreateModuleRequest adds a module to a course's curriculum.
type CreateModuleRequest struct {
	Name          string  `json:"name" validate:"required"`
	Description   *string `json:"description"`
	DurationWeeks int     `json:"durationWeeks" validate:"required,min=1,max=52"`
	OrderNum      int     `json:"orderNum" validate:"required,min=1"`
	StartDate     *string `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate       *string `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateModuleRequest replaces a module's editable fields.
type UpdateModuleRequest struct {
	Name          string  `json:"name" validate:"required"`
	Description   *string `json:"description"`
	DurationWeeks int     `json:"durationWeeks" validate:"required,min=1,max=52"`
	OrderNum      int     `json:"orderNum" validate:"required,min=1"`
	StartDate     *string `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate       *string `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
}

// SyncModulesRequest replaces a course's module list wholesale. Modules
// carrying a known ID are updated, new ones are created, and stored
// modules absent from the list are deleted.
type SyncModulesRequest struct {
	Modules []SyncModuleItem `json:"modules" validate:"required,dive"`
}

// SyncModuleItem is one desired module in a sync request.
type SyncModuleItem struct {
	ID            *string `json:"id"`
	Name          string  `json:"name" validate:"required"`
	Description   *string `json:"description"`
	DurationWeeks int     `json:"durationWeeks" validate:"required,min=1,max=52"`
	OrderNum      int     `json:"orderNum" validate:"required,min=1"`
	StartDate     *string `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate       *string `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
}

// SyncModulesResponse reports what a sync changed.
type SyncModulesResponse struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Deleted int `json:"deleted"`
	Failed  int `json:"failed"`
}

// CourseResponse summarises a course key known to the system.
type CourseResponse struct {
	ID          string `json:"id"`
	ModuleCount int    `json:"moduleCount"`
}
