// Package access maps user roles to the capabilities they are allowed to use.
package access

import "shopflow/internal/model"

// Policy answers whether a role may perform a capability.
type Policy interface {
	Allows(role string, capability model.Capability) bool
	Roles() []model.Role
}

type rolePolicy struct {
	roles   []model.Role
	allowed map[string]map[model.Capability]bool
}

func NewRolePolicy(roles []model.Role) Policy {
	p := &rolePolicy{roles: roles, allowed: make(map[string]map[model.Capability]bool, len(roles))}
	for _, r := range roles {
		set := make(map[model.Capability]bool, len(r.Capabilities))
		for _, c := range r.Capabilities {
			set[c] = true
		}
		p.allowed[r.Code] = set
	}
	return p
}

// DefaultPolicy is built from model.DefaultRoles.
func DefaultPolicy() Policy {
	return NewRolePolicy(model.DefaultRoles)
}

func (p *rolePolicy) Allows(role string, capability model.Capability) bool {
	return p.allowed[role][capability]
}

func (p *rolePolicy) Roles() []model.Role {
	return p.roles
}
