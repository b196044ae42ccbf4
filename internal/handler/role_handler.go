package handler

import (
	"github.com/gofiber/fiber/v2"

	"shopflow/internal/access"
)

type RoleHandler struct {
	policy access.Policy
}

func NewRoleHandler(policy access.Policy) *RoleHandler {
	return &RoleHandler{policy: policy}
}

// GetRoles returns all available roles with their capabilities
// GET /api/admin/roles
func (h *RoleHandler) GetRoles(c *fiber.Ctx) error {
	return ok(c, h.policy.Roles())
}
