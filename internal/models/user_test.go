package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserRoleTiersIgnoreSheetTyping(t *testing.T) {
	cases := []struct {
		role       UserRole
		manager    bool
		privileged bool
	}{
		{"Gestor", true, false},
		{"gestor", true, false},
		{" GESTOR MASTER ", true, true},
		{"gestor-master", true, true},
		{"start", true, true},
		{"Professor", false, false},
		{"estagiario", false, false},
		{"", false, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.manager, tc.role.Manager(), "manager %q", tc.role)
		assert.Equal(t, tc.privileged, tc.role.Privileged(), "privileged %q", tc.role)
	}
	assert.True(t, UserRole("Estagiário").Is("ESTAGIARIO"))
}
