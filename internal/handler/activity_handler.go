package handler

import (
	"github.com/gofiber/fiber/v2"

	"shopflow/internal/model"
	"shopflow/internal/service"
)

type ActivityHandler struct {
	service service.ActivityService
}

func NewActivityHandler(s service.ActivityService) *ActivityHandler {
	return &ActivityHandler{service: s}
}

// GetRecent returns the latest activity entries, ?limit= (default 10)
func (h *ActivityHandler) GetRecent(c *fiber.Ctx) error {
	entries, err := h.service.Recent(c.UserContext(), queryLimit(c, "limit", service.DefaultActivityLimit))
	if err != nil {
		return err
	}
	out := make([]model.ActivityResponse, 0, len(entries))
	for i := range entries {
		out = append(out, entries[i].ToResponse())
	}
	return ok(c, out)
}
