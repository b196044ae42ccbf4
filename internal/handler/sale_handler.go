package handler

import (
	"github.com/gofiber/fiber/v2"

	"shopflow/internal/middleware"
	"shopflow/internal/model"
	"shopflow/internal/service"
)

const defaultSalesLimit = 50

type SaleHandler struct {
	service service.SaleService
}

func NewSaleHandler(s service.SaleService) *SaleHandler {
	return &SaleHandler{service: s}
}

func (h *SaleHandler) List(c *fiber.Ctx) error {
	sales, err := h.service.List(c.UserContext(), queryLimit(c, "limit", defaultSalesLimit))
	if err != nil {
		return err
	}
	d := display(c)
	out := make([]model.SaleResponse, 0, len(sales))
	for i := range sales {
		out = append(out, sales[i].ToResponse(d))
	}
	return ok(c, out)
}

// Create records a sale and decrements stock for every line
// POST /api/sales
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var req service.SaleInput
	if err := bind(c, &req); err != nil {
		return err
	}
	sale, err := h.service.Create(c.UserContext(), middleware.ActorFrom(c), req)
	if err != nil {
		return err
	}
	return created(c, sale.ToResponse(display(c)), "Sale recorded")
}
