package handlers

import (
	"errors"

	"inventory/internal/logger"
	"inventory/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders errors that no handler dealt with. Fiber errors keep
// their status; everything else is logged and reported as a 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	log := logger.WithRequestID(middleware.GetRequestID(c))

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{
			"message": fe.Message,
		})
	}

	log.ErrorContext(c.UserContext(), "unhandled error",
		"method", c.Method(),
		"path", c.Path(),
		"error", err.Error())
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Internal Server Error",
	})
}
