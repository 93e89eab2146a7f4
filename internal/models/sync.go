package models

import "time"

// SyncMode distinguishes background syncs from operator-triggered ones.
type SyncMode string

const (
	SyncSilent SyncMode = "silent"
	SyncManual SyncMode = "manual"
)

// Sync sections as named by the remote payload.
const (
	SectionUsers      = "usuarios"
	SectionClasses    = "turmas"
	SectionRoster     = "base"
	SectionAttendance = "frequencia"
	SectionTrials     = "experimental"
)

// SyncResult reports the outcome of one sync run. It is returned in every case; sync never
// fails its caller.
type SyncResult struct {
	ID           string         `db:"id" json:"id"`
	Mode         SyncMode       `db:"mode" json:"mode"`
	Source       string         `db:"source" json:"source"`
	Success      bool           `db:"success" json:"success"`
	Message      string         `db:"message" json:"message,omitempty"`
	Counts       map[string]int `db:"-" json:"counts,omitempty"`
	StartedAt    time.Time      `db:"started_at" json:"started_at"`
	FinishedAt   time.Time      `db:"finished_at" json:"finished_at"`
	LastSyncedAt string         `db:"-" json:"last_synced_at,omitempty"`
}

// SyncStatus summarizes the sync state for the console header.
type SyncStatus struct {
	LastSyncedAt string       `json:"last_synced_at"`
	Schedule     []string     `json:"schedule"`
	RecentRuns   []SyncResult `json:"recent_runs"`
}
