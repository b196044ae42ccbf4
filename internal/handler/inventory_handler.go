package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"shopflow/internal/apperr"
	"shopflow/internal/middleware"
	"shopflow/internal/model"
	"shopflow/internal/money"
	"shopflow/internal/repository"
	"shopflow/internal/service"
)

type InventoryHandler struct {
	service service.InventoryService
}

func NewInventoryHandler(s service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: s}
}

func productResponses(products []model.Product, d money.Display) []model.ProductResponse {
	out := make([]model.ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, products[i].ToResponse(d))
	}
	return out
}

func movementSummaries(movements []model.StockMovement) []model.MovementSummary {
	out := make([]model.MovementSummary, 0, len(movements))
	for i := range movements {
		out = append(out, movements[i].ToSummary())
	}
	return out
}

// GetProducts lists the catalogue, optionally filtered by ?search= and ?category_id=
func (h *InventoryHandler) GetProducts(c *fiber.Ctx) error {
	categoryID, err := queryUint(c, "category_id")
	if err != nil {
		return err
	}
	products, err := h.service.ListProducts(c.UserContext(), repository.ProductFilter{
		Search:     strings.TrimSpace(c.Query("search")),
		CategoryID: categoryID,
	})
	if err != nil {
		return err
	}
	return ok(c, productResponses(products, display(c)))
}

func (h *InventoryHandler) GetProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	product, err := h.service.GetProduct(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, product.ToResponse(display(c)))
}

// GetBySKU looks a product up by scanned barcode, ?sku=
func (h *InventoryHandler) GetBySKU(c *fiber.Ctx) error {
	product, err := h.service.GetProductBySKU(c.UserContext(), c.Query("sku"))
	if err != nil {
		return err
	}
	return ok(c, product.ToResponse(display(c)))
}

func (h *InventoryHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.ProductInput
	if err := bind(c, &req); err != nil {
		return err
	}

	product, err := h.service.CreateProduct(c.UserContext(), middleware.ActorFrom(c), req)
	if err != nil {
		return err
	}
	return created(c, product.ToResponse(display(c)), "Product created")
}

func (h *InventoryHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req service.ProductUpdate
	if err := bind(c, &req); err != nil {
		return err
	}

	product, err := h.service.UpdateProduct(c.UserContext(), middleware.ActorFrom(c), id, req)
	if err != nil {
		return err
	}
	return okMessage(c, product.ToResponse(display(c)), "Product updated")
}

func (h *InventoryHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteProduct(c.UserContext(), middleware.ActorFrom(c), id); err != nil {
		return err
	}
	return okMessage(c, nil, "Product deleted")
}

// adjustRequest accepts the reason under either "reason" or "type".
type adjustRequest struct {
	Adjustment *int   `json:"adjustment"`
	Reason     string `json:"reason"`
	Type       string `json:"type"`
}

// AdjustStock applies a signed delta to a product's quantity
// POST /api/products/:id/adjust
func (h *InventoryHandler) AdjustStock(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req adjustRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.Adjustment == nil {
		return apperr.Validation("Adjustment is required").WithField("adjustment")
	}
	reason := req.Reason
	if reason == "" {
		reason = req.Type
	}

	result, err := h.service.AdjustStock(c.UserContext(), middleware.ActorFrom(c), id, *req.Adjustment, reason)
	if err != nil {
		return err
	}
	return okMessage(c, result.Product.ToResponse(display(c)), result.Message)
}

// GetHistory returns a product's movements, newest first, ?limit=
func (h *InventoryHandler) GetHistory(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	movements, err := h.service.History(c.UserContext(), id, queryLimit(c, "limit", 0))
	if err != nil {
		return err
	}
	return ok(c, movementSummaries(movements))
}

// GetMovements pages through every movement, ?product_id=&limit=
func (h *InventoryHandler) GetMovements(c *fiber.Ctx) error {
	productID, err := queryUint(c, "product_id")
	if err != nil {
		return err
	}
	movements, err := h.service.ListMovements(c.UserContext(), repository.MovementFilter{
		ProductID: productID,
		Limit:     queryLimit(c, "limit", 0),
	})
	if err != nil {
		return err
	}
	return ok(c, movementSummaries(movements))
}
