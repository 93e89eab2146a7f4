package dto

// AttendanceEntry is one student's mark in a submitted call.
type AttendanceEntry struct {
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name" validate:"required"`
	Status      string `json:"status" validate:"required,oneof=Presente Ausente"`
	Note        string `json:"note"`
}

// SaveAttendanceRequest replaces the call for one class on one date.
type SaveAttendanceRequest struct {
	ClassID string            `json:"class_id" validate:"required"`
	Unit    string            `json:"unit"`
	Date    string            `json:"date" validate:"required"`
	Records []AttendanceEntry `json:"records" validate:"required,min=1,dive"`
}

// SaveAttendanceResponse reports whether the spreadsheet accepted the write-back.
type SaveAttendanceResponse struct {
	Saved       int    `json:"saved"`
	RemoteSaved bool   `json:"remote_saved"`
	Notice      string `json:"notice,omitempty"`
}
