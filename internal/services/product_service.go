package services

import (
	"context"
	"log/slog"
	"time"

	"inventory/internal/forms"
	"inventory/internal/logger"
	"inventory/internal/metrics"
	"inventory/internal/models"
	"inventory/internal/presenters"
	"inventory/internal/repositories"

	"github.com/google/uuid"
)

// Product event types.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
)

// ProductEvent is published after every successful product mutation.
type ProductEvent struct {
	EventID    string        `json:"event_id"`
	Type       string        `json:"type"`
	ProductID  int64         `json:"product_id"`
	Status     models.Status `json:"status,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// EventPublisher delivers product events to a message broker.
type EventPublisher interface {
	PublishJSON(payload any) error
}

// ProductList is the result of a product listing.
type ProductList struct {
	Rows     []presenters.ProductRow
	Query    forms.ListQuery
	Filter   models.ProductFilter
	Warnings []string
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher EventPublisher
	now       func() time.Time
}

// NewProductService creates a new ProductService. publisher may be nil to disable events.
func NewProductService(repo repositories.ProductRepository, publisher EventPublisher) *ProductService {
	return &ProductService{
		repo:      repo,
		publisher: publisher,
		now:       time.Now,
	}
}

// ListProducts returns the products matching query, ordered by id.
// A keyword containing models.BugMarker always fails with *models.InjectedFaultError.
func (s *ProductService) ListProducts(ctx context.Context, actor models.Actor, query forms.ListQuery) (*ProductList, error) {
	if err := requireLogin(actor); err != nil {
		return nil, s.observe("list", err)
	}

	filter, warnings := forms.BuildFilter(query)
	if forms.ContainsBugMarker(filter.Keyword) {
		return nil, &models.InjectedFaultError{Keyword: filter.Keyword}
	}
	if len(warnings) > 0 {
		logger.WarnContext(ctx, "ignoring malformed price filter",
			slog.String("min_price", query.MinPrice),
			slog.String("max_price", query.MaxPrice))
	}

	products, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, s.observe("list", err)
	}
	s.observe("list", nil)

	return &ProductList{
		Rows:     presenters.NewProductRows(products),
		Query:    query,
		Filter:   filter,
		Warnings: warnings,
	}, nil
}

// GetProduct retrieves a single product by its ID.
func (s *ProductService) GetProduct(ctx context.Context, actor models.Actor, id int64) (*models.Product, error) {
	if err := requireLogin(actor); err != nil {
		return nil, s.observe("get", err)
	}
	product, err := s.repo.GetByID(ctx, id)
	return product, s.observe("get", err)
}

// CreateProduct validates the form and stores a new product in the Preparing status.
// Only admins may create products.
func (s *ProductService) CreateProduct(ctx context.Context, actor models.Actor, in forms.ProductInput) (*models.Product, error) {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return nil, s.observe("create", err)
	}

	cleaned, fieldErrs := forms.ValidateProduct(in, nil)
	if len(fieldErrs) > 0 {
		return nil, s.observe("create", models.NewValidationError(fieldErrs))
	}

	product := cleaned.NewProduct()
	if err := s.repo.Create(ctx, &product); err != nil {
		return nil, s.observe("create", err)
	}
	s.observe("create", nil)

	logger.InfoContext(ctx, "product created",
		slog.Int64("product_id", product.ID),
		slog.String("user_id", actor.UserID))
	s.publish(ctx, EventProductCreated, product)
	return &product, nil
}

// UpdateProduct validates the form against the stored product and replaces its fields.
// Any authenticated user may edit.
func (s *ProductService) UpdateProduct(ctx context.Context, actor models.Actor, id int64, in forms.ProductInput) (*models.Product, error) {
	if err := requireLogin(actor); err != nil {
		return nil, s.observe("update", err)
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.observe("update", err)
	}

	cleaned, fieldErrs := forms.ValidateProduct(in, product)
	if len(fieldErrs) > 0 {
		return nil, s.observe("update", models.NewValidationError(fieldErrs))
	}

	cleaned.ApplyTo(product)
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, s.observe("update", err)
	}
	s.observe("update", nil)

	logger.InfoContext(ctx, "product updated",
		slog.Int64("product_id", product.ID),
		slog.String("status", string(product.Status)),
		slog.String("user_id", actor.UserID))
	s.publish(ctx, EventProductUpdated, *product)
	return product, nil
}

// DeleteProduct permanently removes a product. Only admins may delete products.
func (s *ProductService) DeleteProduct(ctx context.Context, actor models.Actor, id int64) error {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return s.observe("delete", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.observe("delete", err)
	}
	s.observe("delete", nil)

	logger.InfoContext(ctx, "product deleted",
		slog.Int64("product_id", id),
		slog.String("user_id", actor.UserID))
	s.publish(ctx, EventProductDeleted, models.Product{ID: id})
	return nil
}

func (s *ProductService) publish(ctx context.Context, eventType string, product models.Product) {
	if s.publisher == nil {
		return
	}
	event := ProductEvent{
		EventID:    uuid.New().String(),
		Type:       eventType,
		ProductID:  product.ID,
		Status:     product.Status,
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.PublishJSON(event); err != nil {
		logger.WarnContext(ctx, "failed to publish product event",
			slog.String("type", eventType),
			slog.Int64("product_id", product.ID),
			slog.String("error", err.Error()))
	}
}

// observe records the operation outcome and returns err unchanged.
func (s *ProductService) observe(operation string, err error) error {
	result := metrics.ResultSuccess
	switch {
	case err == nil:
	case models.IsProductNotFoundError(err):
		result = metrics.ResultNotFound
	case isUnauthenticated(err):
		result = metrics.ResultUnauthorized
	case models.IsAuthorizationError(err):
		result = metrics.ResultForbidden
	case isValidationError(err):
		result = metrics.ResultInvalid
	default:
		result = metrics.ResultError
	}
	metrics.ObserveProductOperation(operation, result)
	return err
}
