// Package app assembles the HTTP server and the command line entry point.
package app

import (
	"time"

	"inventory/internal/config"
	"inventory/internal/handlers"
	"inventory/internal/middleware"
	"inventory/internal/models"
	"inventory/internal/repositories"
	"inventory/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Accounts returns the two fixed login accounts with the configured passwords.
func Accounts(cfg *config.Config) *repositories.StaticAccountRepository {
	return repositories.NewStaticAccountRepository(
		models.Account{UserID: "admin", Password: cfg.AdminPassword, Role: models.RoleAdmin},
		models.Account{UserID: "user", Password: cfg.UserPassword, Role: models.RoleUser},
	)
}

// New builds the Fiber app serving the product API. publisher may be nil.
func New(products repositories.ProductRepository, authService *services.AuthService, publisher services.EventPublisher) *fiber.App {
	productService := services.NewProductService(products, publisher)

	productHandler := handlers.NewProductHandler(productService)
	authHandler := handlers.NewAuthHandler(authService)

	app := fiber.New(fiber.Config{
		AppName:      "inventory",
		ErrorHandler: handlers.ErrorHandler,
		// Parsed request values are stored as-is by the memory repository.
		Immutable: true,
	})

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} ${locals:request_id} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(middleware.Metrics())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":    "healthy",
			"time":      time.Now().Format(time.RFC3339),
			"publisher": publisher != nil,
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1)

	protectedRoutes := apiV1.Group("", middleware.AuthRequired(authService))
	productHandler.RegisterRoutes(protectedRoutes)

	return app
}
