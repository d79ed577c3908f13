package middleware

import (
	"strings"

	"inventory/internal/logger"
	"inventory/internal/models"
	"inventory/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ActorKey is the fiber.Locals key holding the authenticated models.Actor.
const ActorKey = "actor"

// AuthRequired is a Fiber middleware to check for a valid JWT token.
// The actor the token was issued to is stored under ActorKey.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "login required.",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		actor, err := authService.ValidateToken(parts[1])
		if err != nil {
			logger.WithRequestID(GetRequestID(c)).Info("rejected token", "error", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}

		c.Locals(ActorKey, actor)
		return c.Next()
	}
}

// ActorFrom returns the actor stored by AuthRequired, or models.Anonymous.
func ActorFrom(c *fiber.Ctx) models.Actor {
	if actor, ok := c.Locals(ActorKey).(models.Actor); ok {
		return actor
	}
	return models.Anonymous
}
