package models

// Settings are the operator-editable configuration values persisted next to the synced
// collections.
type Settings struct {
	EndpointURL      string   `json:"endpoint_url"`
	WebhookURL       string   `json:"webhook_url"`
	WebhookToken     string   `json:"webhook_token,omitempty"`
	ReminderTemplate string   `json:"reminder_template"`
	FollowUpTemplate string   `json:"follow_up_template"`
	AbsenceTemplate  string   `json:"absence_template"`
	SyncSchedule     []string `json:"sync_schedule"`
	LastSyncedAt     string   `json:"last_synced_at"`
	FirstRunDone     bool     `json:"first_run_done"`
}
