package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// settle hands a chain error to the app error handler so the status code is
// final before it is observed. The error is consumed.
func settle(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}
	if herr := c.App().ErrorHandler(c, err); herr != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return nil
}

// RequestLogger writes one entry per request. It expects the requestid
// middleware to run first.
func RequestLogger(log logrus.FieldLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := settle(c, c.Next())

		status := c.Response().StatusCode()
		entry := log.WithFields(logrus.Fields{
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"latency":    time.Since(start).String(),
			"ip":         c.IP(),
			"request_id": c.Locals("requestid"),
		})
		switch {
		case status >= fiber.StatusInternalServerError:
			entry.Warn("request failed")
		default:
			entry.Info("request")
		}
		return err
	}
}
