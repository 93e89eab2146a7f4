package dto

// UpdateSettingsRequest patches operator settings. Nil fields are left unchanged.
type UpdateSettingsRequest struct {
	EndpointURL      *string  `json:"endpoint_url" validate:"omitempty,url"`
	WebhookURL       *string  `json:"webhook_url" validate:"omitempty,url"`
	WebhookToken     *string  `json:"webhook_token"`
	ReminderTemplate *string  `json:"reminder_template" validate:"omitempty,max=1000"`
	FollowUpTemplate *string  `json:"follow_up_template" validate:"omitempty,max=1000"`
	AbsenceTemplate  *string  `json:"absence_template" validate:"omitempty,max=1000"`
	SyncSchedule     []string `json:"sync_schedule" validate:"omitempty,dive,datetime=15:04"`
}
