package model

// Role describes what a user role may do.
type Role struct {
	Code         string       `json:"code"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Capabilities []Capability `json:"capabilities"`
}

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// DefaultRoles defines the roles known to the system.
var DefaultRoles = []Role{
	{
		Code:         RoleAdmin,
		Name:         "Administrator",
		Description:  "Full system access",
		Capabilities: AllCapabilities,
	},
	{
		Code:        RoleUser,
		Name:        "Staff",
		Description: "Day to day stock handling and sales",
		Capabilities: []Capability{
			CapProductView,
			CapCategoryView,
			CapStockAdjust,
			CapSaleView,
			CapSaleCreate,
			CapAlertView,
			CapDashboardView,
			CapSettingsView,
		},
	},
}

func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

func IsValidStatus(status string) bool {
	return status == StatusActive || status == StatusInactive
}
