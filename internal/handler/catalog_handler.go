package handler

import (
	"github.com/gofiber/fiber/v2"

	"shopflow/internal/middleware"
	"shopflow/internal/service"
)

type CategoryHandler struct {
	service service.CategoryService
}

func NewCategoryHandler(s service.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: s}
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	categories, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, categories)
}

func (h *CategoryHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	category, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, category)
}

func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var req service.CategoryInput
	if err := bind(c, &req); err != nil {
		return err
	}
	category, err := h.service.Create(c.UserContext(), middleware.ActorFrom(c), req)
	if err != nil {
		return err
	}
	return created(c, category, "Category created")
}

func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req service.CategoryInput
	if err := bind(c, &req); err != nil {
		return err
	}
	category, err := h.service.Update(c.UserContext(), middleware.ActorFrom(c), id, req)
	if err != nil {
		return err
	}
	return okMessage(c, category, "Category updated")
}

func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), middleware.ActorFrom(c), id); err != nil {
		return err
	}
	return okMessage(c, nil, "Category deleted")
}

type SupplierHandler struct {
	service service.SupplierService
}

func NewSupplierHandler(s service.SupplierService) *SupplierHandler {
	return &SupplierHandler{service: s}
}

func (h *SupplierHandler) List(c *fiber.Ctx) error {
	suppliers, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, suppliers)
}

func (h *SupplierHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	supplier, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, supplier)
}

func (h *SupplierHandler) Create(c *fiber.Ctx) error {
	var req service.SupplierInput
	if err := bind(c, &req); err != nil {
		return err
	}
	supplier, err := h.service.Create(c.UserContext(), middleware.ActorFrom(c), req)
	if err != nil {
		return err
	}
	return created(c, supplier, "Supplier created")
}

func (h *SupplierHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req service.SupplierInput
	if err := bind(c, &req); err != nil {
		return err
	}
	supplier, err := h.service.Update(c.UserContext(), middleware.ActorFrom(c), id, req)
	if err != nil {
		return err
	}
	return okMessage(c, supplier, "Supplier updated")
}

func (h *SupplierHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), middleware.ActorFrom(c), id); err != nil {
		return err
	}
	return okMessage(c, nil, "Supplier deleted")
}
