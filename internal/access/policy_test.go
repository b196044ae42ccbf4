package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shopflow/internal/model"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()

	for _, c := range model.AllCapabilities {
		assert.True(t, p.Allows(model.RoleAdmin, c), "admin should have %s", c)
	}

	assert.True(t, p.Allows(model.RoleUser, model.CapStockAdjust))
	assert.True(t, p.Allows(model.RoleUser, model.CapProductView))
	assert.False(t, p.Allows(model.RoleUser, model.CapProductWrite))
	assert.False(t, p.Allows(model.RoleUser, model.CapUserManage))
	assert.False(t, p.Allows(model.RoleUser, model.CapSupplierManage))

	assert.False(t, p.Allows("ghost", model.CapProductView))
}

func TestRolesListed(t *testing.T) {
	roles := DefaultPolicy().Roles()
	codes := make([]string, 0, len(roles))
	for _, r := range roles {
		codes = append(codes, r.Code)
	}
	assert.ElementsMatch(t, []string{model.RoleAdmin, model.RoleUser}, codes)
}
