package handlers

import (
	"errors"
	"fmt"

	"inventory/internal/logger"
	"inventory/internal/middleware"
	"inventory/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/login", h.HandleLogin)

	authRequired := middleware.AuthRequired(h.authService)
	authRoutes.Post("/logout", authRequired, h.HandleLogout)
	authRoutes.Get("/me", authRequired, h.HandleMe)
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	UserID   string `json:"user_id" form:"user_id" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// HandleLogin checks the fixed credentials and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}

	if err := h.validate.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		errors.As(err, &validationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	token, actor, err := h.authService.Login(req.UserID, req.Password)
	if err != nil {
		if !errors.Is(err, services.ErrInvalidCredentials) {
			return err
		}
		logger.WithRequestID(middleware.GetRequestID(c)).Info("login failed", "user_id", req.UserID)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	logger.WithRequestID(middleware.GetRequestID(c)).Info("login succeeded",
		"user_id", actor.UserID, "role", string(actor.Role))
	return c.JSON(fiber.Map{
		"message": "logged in.",
		"token":   token,
		"user":    actor,
	})
}

// HandleLogout acknowledges a logout. Tokens are stateless; the client discards its copy.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "logged out.",
	})
}

// HandleMe returns the authenticated actor.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"user": middleware.ActorFrom(c),
	})
}
