package dto

// CreateRetentionActionRequest marks a risk alert as handled.
type CreateRetentionActionRequest struct {
	Channel string `json:"channel" validate:"required,oneof=whatsapp telefone presencial outro"`
	Note    string `json:"note" validate:"omitempty,max=500"`
	Notify  bool   `json:"notify"`
}
