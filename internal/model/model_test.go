package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole_Valid(t *testing.T) {
	for _, r := range []Role{RoleFarmer, RoleSupplier, RoleNGO, RoleLogistics} {
		assert.True(t, r.Valid(), string(r))
	}
	for _, r := range []Role{"", "admin", "NGO"} {
		assert.False(t, r.Valid(), string(r))
	}
}
