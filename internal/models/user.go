package models

import "github.com/noah-isme/sfk-console-api/pkg/normalize"

// UserRole is the operator level as written in the users sheet.
type UserRole string

const (
	RoleProfessor    UserRole = "Professor"
	RoleGestor       UserRole = "Gestor"
	RoleGestorMaster UserRole = "Gestor Master"
	RoleRegente      UserRole = "Regente"
	RoleEstagiario   UserRole = "Estagiário"
	RoleStart        UserRole = "Start"
)

// Is compares roles the way the users sheet is typed: case, accents and spacing are ignored.
func (r UserRole) Is(other UserRole) bool {
	return normalize.NormalizeKey(string(r)) == normalize.NormalizeKey(string(other))
}

// Privileged reports whether the role belongs to the always-kept seed tier.
func (r UserRole) Privileged() bool {
	return r.Is(RoleGestorMaster) || r.Is(RoleStart)
}

// User is an operator account. Synced accounts carry the sheet's plaintext password;
// seed accounts carry a bcrypt hash instead.
type User struct {
	Login        string   `json:"login"`
	Password     string   `json:"-"`
	PasswordHash string   `json:"-"`
	Role         UserRole `json:"role"`
	Name         string   `json:"name"`
	Seed         bool     `json:"seed,omitempty"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// Manager reports whether the role may change settings, trigger syncs and read reports.
func (r UserRole) Manager() bool {
	return r.Is(RoleGestor) || r.Privileged()
}
