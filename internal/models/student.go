package models

import "time"

// StudentStatus captures the enrollment state of a student.
type StudentStatus string

const (
	StudentStatusActive    StudentStatus = "Ativo"
	StudentStatusCancelled StudentStatus = "Cancelado"
	StudentStatusLead      StudentStatus = "Lead"
)

// Student is keyed by a slug of the display name. Two people sharing a name collide.
type Student struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	BirthDate        string            `json:"birth_date,omitempty"`
	Stage            string            `json:"stage,omitempty"`
	Grade            string            `json:"grade,omitempty"`
	SchoolClass      string            `json:"school_class,omitempty"`
	Email            string            `json:"email,omitempty"`
	Guardian1        string            `json:"guardian1,omitempty"`
	Guardian1Phone   string            `json:"guardian1_phone,omitempty"`
	Guardian2        string            `json:"guardian2,omitempty"`
	Guardian2Phone   string            `json:"guardian2_phone,omitempty"`
	Unit             string            `json:"unit,omitempty"`
	Status           StudentStatus     `json:"status"`
	EnrollmentDate   time.Time         `json:"enrollment_date"`
	CancelledCourses []CancelledCourse `json:"cancelled_courses"`
}

// CancelledCourse records a course the student left.
type CancelledCourse struct {
	Course           string `json:"course"`
	Unit             string `json:"unit,omitempty"`
	EnrollmentDate   string `json:"enrollment_date,omitempty"`
	CancellationDate string `json:"cancellation_date,omitempty"`
}

// StudentFilter narrows student listings.
type StudentFilter struct {
	Status StudentStatus
	Unit   string
	Stage  string
	Search string
}

// PrimaryPhone returns the first guardian phone that is set.
func (s Student) PrimaryPhone() string {
	if s.Guardian1Phone != "" {
		return s.Guardian1Phone
	}
	return s.Guardian2Phone
}

// PrimaryGuardian returns the guardian matching PrimaryPhone.
func (s Student) PrimaryGuardian() string {
	if s.Guardian1Phone != "" || s.Guardian2Phone == "" {
		return s.Guardian1
	}
	return s.Guardian2
}
