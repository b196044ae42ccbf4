package model

// Capability is an action a role may be allowed to perform.
type Capability string

const (
	CapProductView    Capability = "product:view"
	CapProductWrite   Capability = "product:write"
	CapStockAdjust    Capability = "stock:adjust"
	CapCategoryView   Capability = "category:view"
	CapCategoryWrite  Capability = "category:write"
	CapSupplierManage Capability = "supplier:manage"
	CapSaleView       Capability = "sale:view"
	CapSaleCreate     Capability = "sale:create"
	CapAlertView      Capability = "alert:view"
	CapDashboardView  Capability = "dashboard:view"
	CapReportView     Capability = "report:view"
	CapActivityView   Capability = "activity:view"
	CapUserManage     Capability = "user:manage"
	CapSettingsView   Capability = "settings:view"
	CapSettingsWrite  Capability = "settings:write"
)

var AllCapabilities = []Capability{
	CapProductView,
	CapProductWrite,
	CapStockAdjust,
	CapCategoryView,
	CapCategoryWrite,
	CapSupplierManage,
	CapSaleView,
	CapSaleCreate,
	CapAlertView,
	CapDashboardView,
	CapReportView,
	CapActivityView,
	CapUserManage,
	CapSettingsView,
	CapSettingsWrite,
}
