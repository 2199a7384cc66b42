package dto

// StudentResponse is a roster entry as exposed via API.
type StudentResponse struct {
	ID       string  `json:"id"`
	CourseID string  `json:"courseId"`
	FullName string  `json:"fullName"`
	Email    *string `json:"email,omitempty"`
}

// RosterItem is one desired roster entry in a replace request.
type RosterItem struct {
	ID       *string `json:"id"`
	FullName string  `json:"fullName" validate:"required"`
	Email    *string `json:"email" validate:"omitempty,email"`
}

// ReplaceRosterRequest replaces a course roster wholesale. Entries with a
// known ID are updated in place, new entries are created, and stored
// students absent from the list are removed.
type ReplaceRosterRequest struct {
	Students []RosterItem `json:"students" validate:"required,dive"`
}

// ReplaceRosterResponse reports what a roster replacement changed.
type ReplaceRosterResponse struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Deleted int `json:"deleted"`
	Failed  int `json:"failed"`
}
