package models

import "time"

// RetentionAction records that staff reached out for a given risk alert, which keeps the
// alert from counting as actionable again.
type RetentionAction struct {
	ID          string    `db:"id" json:"id"`
	AlertID     string    `db:"alert_id" json:"alert_id"`
	StudentID   string    `db:"student_id" json:"student_id"`
	PerformedBy string    `db:"performed_by" json:"performed_by"`
	Channel     string    `db:"channel" json:"channel"`
	Note        string    `db:"note" json:"note,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// RiskReason explains why a group was flagged.
type RiskReason string

const (
	RiskConsecutiveAbsences RiskReason = "consecutive_absences"
	RiskHighAbsenceRate     RiskReason = "high_absence_rate"
)

// RiskAlert is a computed churn alert for a (student, unit, class) group.
type RiskAlert struct {
	ID             string     `json:"id"`
	GroupKey       string     `json:"group_key"`
	StudentID      string     `json:"student_id"`
	StudentName    string     `json:"student_name"`
	Unit           string     `json:"unit,omitempty"`
	ClassID        string     `json:"class_id"`
	Reason         RiskReason `json:"reason"`
	Absences       int        `json:"absences"`
	Window         int        `json:"window"`
	LastDate       string     `json:"last_date"`
	GuardianName   string     `json:"guardian_name,omitempty"`
	GuardianPhone  string     `json:"guardian_phone,omitempty"`
	Handled        bool       `json:"handled"`
	HandledByAlarm bool       `json:"handled_by_alarm,omitempty"`
}

// RiskSummary is the alert list plus the count still needing attention.
type RiskSummary struct {
	Alerts     []RiskAlert `json:"alerts"`
	Actionable int         `json:"actionable"`
}
