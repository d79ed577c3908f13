package middleware

import (
	"errors"
	"strconv"
	"time"

	"inventory/internal/metrics"

	"github.com/gofiber/fiber/v2"
)

// Metrics records Prometheus metrics for HTTP requests: totals by method,
// route and status, a duration histogram and the number in flight.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == "/metrics" {
			return c.Next()
		}

		start := time.Now()
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			// The app's ErrorHandler has not run yet.
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}

		route := c.Route().Path
		if status == fiber.StatusNotFound && err != nil {
			route = "unmatched"
		}

		method := c.Method()
		metrics.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		return err
	}
}
