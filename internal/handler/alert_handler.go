package handler

import (
	"github.com/gofiber/fiber/v2"

	"shopflow/internal/service"
)

type AlertHandler struct {
	service service.AlertService
}

func NewAlertHandler(s service.AlertService) *AlertHandler {
	return &AlertHandler{service: s}
}

// GetLowStock returns the current low stock set, ?product_id= narrows it to one product
// GET /api/notifications/low-stock
func (h *AlertHandler) GetLowStock(c *fiber.Ctx) error {
	productID, err := queryUint(c, "product_id")
	if err != nil {
		return err
	}
	report, err := h.service.LowStock(c.UserContext(), productID)
	if err != nil {
		return err
	}
	return ok(c, report)
}
