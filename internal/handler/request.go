package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"shopflow/internal/apperr"
	"shopflow/internal/money"
	"shopflow/internal/prefs"
)

var errInvalidBody = apperr.Validation("Invalid request body")

func bind(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return errInvalidBody
	}
	return nil
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validation("Invalid " + name).WithField(name)
	}
	return uint(id), nil
}

// queryUint returns nil when key is absent.
func queryUint(c *fiber.Ctx, key string) (*uint, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return nil, apperr.Validation("Invalid " + key).WithField(key)
	}
	id := uint(v)
	return &id, nil
}

// queryLimit reads a positive integer, falling back to def on absent or bad input.
func queryLimit(c *fiber.Ctx, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func display(c *fiber.Ctx) money.Display {
	return prefs.From(c.UserContext()).Display()
}
