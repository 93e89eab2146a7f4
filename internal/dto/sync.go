package dto

// SyncRequest triggers a sync. Mode defaults to manual for HTTP callers.
type SyncRequest struct {
	Mode string `json:"mode" validate:"omitempty,oneof=silent manual"`
}
