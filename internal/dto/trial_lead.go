package dto

// UpdateTrialLeadRequest edits the follow-up state of a trial lead.
type UpdateTrialLeadRequest struct {
	Status       *string `json:"status" validate:"omitempty,oneof=Pendente Presente Ausente"`
	FollowUpSent *bool   `json:"follow_up_sent"`
	ReminderSent *bool   `json:"reminder_sent"`
	Converted    *bool   `json:"converted"`
	Note         *string `json:"note" validate:"omitempty,max=500"`
}

// SendReminderRequest optionally overrides the reminder template for one send.
type SendReminderRequest struct {
	Message string `json:"message" validate:"omitempty,max=1000"`
}
