package handlers

import (
	"errors"
	"strconv"

	"inventory/internal/forms"
	"inventory/internal/middleware"
	"inventory/internal/models"
	"inventory/internal/presenters"
	"inventory/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests related to products.
type ProductHandler struct {
	productService *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// RegisterRoutes registers the product routes. router is expected to run
// middleware.AuthRequired first.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.ListProducts)
	productRoutes.Get("/form-options", h.FormOptions)
	productRoutes.Get("/:id", h.GetProduct)
	productRoutes.Post("/", h.CreateProduct)
	productRoutes.Put("/:id", h.UpdateProduct)
	productRoutes.Delete("/:id", h.DeleteProduct)
}

// ListProducts handles listing products with the keyword, category and price filters.
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	var query forms.ListQuery
	if err := c.QueryParser(&query); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid query parameters",
			"error":   err.Error(),
		})
	}

	actor := middleware.ActorFrom(c)
	list, err := h.productService.ListProducts(c.UserContext(), actor, query)
	if err != nil {
		return writeError(c, err, nil)
	}

	role, _ := actor.CurrentRole()
	return c.JSON(fiber.Map{
		"products":   list.Rows,
		"keyword":    list.Filter.Keyword,
		"category":   query.Category,
		"min_price":  query.MinPrice,
		"max_price":  query.MaxPrice,
		"categories": models.Categories,
		"role":       role,
		"warnings":   list.Warnings,
	})
}

// FormOptions returns the choices offered by the create and edit forms.
func (h *ProductHandler) FormOptions(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"categories":      models.Categories,
		"create_statuses": []models.Status{models.InitialStatus},
		"edit_statuses":   models.Statuses,
	})
}

// GetProduct returns a product together with its edit form values.
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, ok := productID(c)
	if !ok {
		return notFound(c)
	}

	product, err := h.productService.GetProduct(c.UserContext(), middleware.ActorFrom(c), id)
	if err != nil {
		return writeError(c, err, nil)
	}

	return c.JSON(fiber.Map{
		"product":             presenters.NewProductRow(*product),
		"form":                forms.InputFromProduct(product),
		"allowed_transitions": product.AllowedStatusTransitions(),
		"status_options":      models.Statuses,
	})
}

// CreateProduct handles creating a new product.
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var in forms.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, err)
	}

	product, err := h.productService.CreateProduct(c.UserContext(), middleware.ActorFrom(c), in)
	if err != nil {
		return writeError(c, err, &in)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "product created.",
		"product": product,
	})
}

// UpdateProduct handles editing an existing product.
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, ok := productID(c)
	if !ok {
		return notFound(c)
	}

	var in forms.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, err)
	}

	product, err := h.productService.UpdateProduct(c.UserContext(), middleware.ActorFrom(c), id, in)
	if err != nil {
		return writeError(c, err, &in)
	}

	return c.JSON(fiber.Map{
		"message": "product updated.",
		"product": product,
	})
}

// DeleteProduct handles deleting a product.
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, ok := productID(c)
	if !ok {
		return notFound(c)
	}

	if err := h.productService.DeleteProduct(c.UserContext(), middleware.ActorFrom(c), id); err != nil {
		return writeError(c, err, nil)
	}

	return c.JSON(fiber.Map{
		"message": "product deleted.",
	})
}

// productID parses the :id parameter. Only positive integers name a product.
func productID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	return id, err == nil && id > 0
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"message": "Product not found",
	})
}

func badBody(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}

// writeError renders the domain errors a client can act on. Anything else,
// including the injected listing fault, is returned to the app's ErrorHandler.
func writeError(c *fiber.Ctx, err error, in *forms.ProductInput) error {
	var (
		ve *models.ValidationError
		ae *models.AuthorizationError
	)
	switch {
	case errors.As(err, &ve):
		body := fiber.Map{
			"message": "validation failed",
			"errors":  ve.Fields,
		}
		if in != nil {
			body["form"] = in
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(body)
	case models.IsProductNotFoundError(err):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Product not found",
			"error":   err.Error(),
		})
	case errors.As(err, &ae):
		status := fiber.StatusForbidden
		if ae.Unauthenticated {
			status = fiber.StatusUnauthorized
		}
		return c.Status(status).JSON(fiber.Map{
			"message": ae.Message,
		})
	default:
		return err
	}
}
