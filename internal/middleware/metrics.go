package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"shopflow/internal/metrics"
)

// Metrics records request counts and latency labelled by route pattern.
func Metrics(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := settle(c, c.Next())

		route := c.Route().Path
		if c.Response().StatusCode() == fiber.StatusNotFound && route == "/" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(c.Method(), route, strconv.Itoa(c.Response().StatusCode())).Inc()
		m.HTTPDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}
