package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"shopflow/internal/middleware"
	"shopflow/internal/model"
	"shopflow/internal/service"
)

type SettingsHandler struct {
	service service.SettingsService
}

func NewSettingsHandler(s service.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: s}
}

func (h *SettingsHandler) GetGeneral(c *fiber.Ctx) error {
	settings, err := h.service.General(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, settings)
}

func (h *SettingsHandler) SaveGeneral(c *fiber.Ctx) error {
	var req model.GeneralSettings
	if err := bind(c, &req); err != nil {
		return err
	}
	settings, err := h.service.SaveGeneral(c.UserContext(), middleware.ActorFrom(c), req)
	if err != nil {
		return err
	}
	return okMessage(c, settings, "Settings saved")
}

func (h *SettingsHandler) GetTheme(c *fiber.Ctx) error {
	settings, err := h.service.Theme(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, settings)
}

// SaveTheme stores the theme and mirrors it in the theme cookie read by the
// preferences middleware.
func (h *SettingsHandler) SaveTheme(c *fiber.Ctx) error {
	var req model.ThemeSettings
	if err := bind(c, &req); err != nil {
		return err
	}
	settings, err := h.service.SaveTheme(c.UserContext(), middleware.ActorFrom(c), req)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     middleware.CookieTheme,
		Value:    settings.Theme,
		Path:     "/",
		Expires:  time.Now().AddDate(1, 0, 0),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return okMessage(c, settings, "Theme saved")
}
