package handler

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"shopflow/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type DashboardHandler struct {
	service service.DashboardService
	reports service.ReportService
}

func NewDashboardHandler(s service.DashboardService, reports service.ReportService) *DashboardHandler {
	return &DashboardHandler{service: s, reports: reports}
}

// GetStockMovement returns stock movement data for charts
// Query params: days (default 7)
func (h *DashboardHandler) GetStockMovement(c *fiber.Ctx) error {
	days := queryLimit(c, "days", service.DefaultMovementDays)
	if days > service.MaxMovementDays {
		days = service.MaxMovementDays
	}

	data, err := h.service.StockMovement(c.UserContext(), days)
	if err != nil {
		return err
	}

	return ok(c, fiber.Map{
		"period": days,
		"points": data,
	})
}

// GetDashboardStats returns overview statistics
func (h *DashboardHandler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, stats)
}

// GetSalesSummary returns count and revenue over ?range= (7d, 1m, 3m, 6m, 12m)
func (h *DashboardHandler) GetSalesSummary(c *fiber.Ctx) error {
	summary, err := h.service.SalesSummary(c.UserContext(), c.Query("range"))
	if err != nil {
		return err
	}
	return ok(c, summary)
}

// DownloadInventory streams the inventory workbook
// GET /api/reports/inventory.xlsx
func (h *DashboardHandler) DownloadInventory(c *fiber.Ctx) error {
	data, err := h.reports.InventoryWorkbook(c.UserContext())
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="inventory-%s.xlsx"`, time.Now().Format("20060102")))
	return c.Send(data)
}
