package models

import "time"

// Enrollment links a student to a class. Only active enrollments are modeled; cancelled ones
// live on Student.CancelledCourses.
type Enrollment struct {
	ID             string    `json:"id"`
	StudentID      string    `json:"student_id"`
	ClassID        string    `json:"class_id"`
	Unit           string    `json:"unit,omitempty"`
	EnrollmentDate time.Time `json:"enrollment_date"`
}

// EnrollmentFilter narrows enrollment listings.
type EnrollmentFilter struct {
	StudentID string
	ClassID   string
	Unit      string
}
