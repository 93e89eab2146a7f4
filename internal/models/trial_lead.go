package models

// TrialStatus tracks whether a lead attended the trial class.
type TrialStatus string

const (
	TrialPending TrialStatus = "Pendente"
	TrialPresent TrialStatus = "Presente"
	TrialAbsent  TrialStatus = "Ausente"
)

// TrialLead is a prospective student booked for a trial class. It is never linked to a
// Student record, even after conversion.
type TrialLead struct {
	ID            string      `json:"id"`
	StudentName   string      `json:"student_name"`
	Grade         string      `json:"grade,omitempty"`
	Course        string      `json:"course"`
	Unit          string      `json:"unit,omitempty"`
	ScheduledDate string      `json:"scheduled_date,omitempty"`
	GuardianName  string      `json:"guardian_name,omitempty"`
	GuardianPhone string      `json:"guardian_phone,omitempty"`
	Status        TrialStatus `json:"status"`
	FollowUpSent  bool        `json:"follow_up_sent"`
	ReminderSent  bool        `json:"reminder_sent"`
	Converted     bool        `json:"converted"`
	Note          string      `json:"note,omitempty"`
}

// TrialLeadFilter narrows lead listings.
type TrialLeadFilter struct {
	Status TrialStatus
	Course string
	Unit   string
}
