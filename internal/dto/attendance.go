package dto

// AttendanceMark is one student's status within a day submission.
type AttendanceMark struct {
	StudentID string  `json:"studentId" validate:"required"`
	Status    string  `json:"status" validate:"required,oneof=PRESENT ABSENT LATE EXCUSED"`
	Note      *string `json:"note"`
}

// SaveAttendanceRequest stores a full day of attendance for a course,
// replacing any marks previously recorded for that date.
type SaveAttendanceRequest struct {
	Date  string           `json:"date" validate:"required,datetime=2006-01-02"`
	Marks []AttendanceMark `json:"marks" validate:"required,min=1,dive"`
}

// AttendanceRecordResponse is a stored mark as exposed via API.
type AttendanceRecordResponse struct {
	ID        string  `json:"id"`
	CourseID  string  `json:"courseId"`
	StudentID string  `json:"studentId"`
	Date      string  `json:"date"`
	Status    string  `json:"status"`
	Note      *string `json:"note,omitempty"`
}

// AttendanceDatesResponse lists the dates a course has attendance stored for.
type AttendanceDatesResponse struct {
	Dates []string `json:"dates"`
}
