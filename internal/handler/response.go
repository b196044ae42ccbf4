package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"shopflow/internal/apperr"
)

// Response is the envelope of every successful JSON reply.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ErrorResponse is the envelope of every failed JSON reply.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
}

func ok(c *fiber.Ctx, data interface{}) error {
	return c.JSON(Response{Success: true, Data: data})
}

func okMessage(c *fiber.Ctx, data interface{}, message string) error {
	return c.JSON(Response{Success: true, Data: data, Message: message})
}

func created(c *fiber.Ctx, data interface{}, message string) error {
	return c.Status(fiber.StatusCreated).JSON(Response{Success: true, Data: data, Message: message})
}

// ErrorHandler renders any error returned by a handler or middleware.
// Only unclassified failures are logged; their cause never reaches the client.
func ErrorHandler(log logrus.FieldLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var (
			ae *apperr.Error
			fe *fiber.Error
		)
		switch {
		case errors.As(err, &ae):
		case errors.As(err, &fe):
			return c.Status(fe.Code).JSON(ErrorResponse{Error: fe.Message})
		default:
			ae = apperr.Internal("Internal server error", err)
		}

		if ae.Kind == apperr.KindInternal {
			log.WithError(err).WithFields(logrus.Fields{
				"method":     c.Method(),
				"path":       c.Path(),
				"request_id": c.Locals("requestid"),
			}).Error("request failed")
		}
		return c.Status(apperr.HTTPStatus(ae.Kind)).JSON(ErrorResponse{Error: ae.Message, Field: ae.Field})
	}
}
