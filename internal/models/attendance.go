package models

import "time"

// AttendanceStatus is either present or absent.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "Presente"
	AttendanceAbsent  AttendanceStatus = "Ausente"
)

// AttendanceRecord is one student's presence on one class date.
type AttendanceRecord struct {
	ID          string           `json:"id"`
	StudentID   string           `json:"student_id"`
	StudentName string           `json:"student_name"`
	ClassID     string           `json:"class_id"`
	Unit        string           `json:"unit,omitempty"`
	Date        string           `json:"date"`
	Status      AttendanceStatus `json:"status"`
	Note        string           `json:"note,omitempty"`
	SubmittedAt time.Time        `json:"submitted_at"`
	AlarmSent   bool             `json:"alarm_sent,omitempty"`
}

// AttendanceFilter narrows attendance listings.
type AttendanceFilter struct {
	ClassID   string
	Date      string
	StudentID string
}
