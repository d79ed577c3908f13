// Package forms turns raw client input into typed product records and list filters.
package forms

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"inventory/internal/models"

	"github.com/go-playground/validator/v10"
)

// Field limits enforced on product forms.
const (
	NameMaxLength = 50
	MinPrice      = 0
	MaxPrice      = 1_000_000
	MinStock      = 0
	MaxStock      = 999
)

// Messages reported in FieldErrors.
const (
	MsgNameRequired   = "product name is required."
	MsgNameLength     = "product name must be 1–50 characters."
	MsgSelectCategory = "select a category."
	MsgRequired       = "required"
	MsgNotANumber     = "must be a number"
	MsgSelectStatus   = "select a status."
	MsgBadTransition  = "cannot transition to this status."
)

var (
	validate    = validator.New()
	categoryTag = "required,oneof=" + joinCategories()
)

func joinCategories() string {
	names := make([]string, len(models.Categories))
	for i, c := range models.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, " ")
}

// ProductInput is the product form exactly as submitted. Every field is raw text.
type ProductInput struct {
	Name        string `json:"name" form:"name"`
	Category    string `json:"category" form:"category"`
	Price       string `json:"price" form:"price"`
	Stock       string `json:"stock" form:"stock"`
	Description string `json:"description" form:"description"`
	Status      string `json:"status" form:"status"`
}

// InputFromProduct renders an existing product back into form values.
func InputFromProduct(p *models.Product) ProductInput {
	return ProductInput{
		Name:        p.Name,
		Category:    string(p.Category),
		Price:       strconv.Itoa(p.Price),
		Stock:       strconv.Itoa(p.Stock),
		Description: p.Description,
		Status:      string(p.Status),
	}
}

// Cleaned holds the typed values of the fields that passed validation.
// Name and Description are always present; the rest are nil when invalid.
type Cleaned struct {
	Name        string
	Category    *models.Category
	Price       *int
	Stock       *int
	Description string
	Status      *models.Status
}

// NewProduct builds an unsaved product. Only meaningful when validation reported no errors.
func (c Cleaned) NewProduct() models.Product {
	p := models.Product{Status: models.InitialStatus}
	c.ApplyTo(&p)
	return p
}

// ApplyTo copies the cleaned values onto p, leaving fields that failed validation untouched.
func (c Cleaned) ApplyTo(p *models.Product) {
	p.Name = c.Name
	p.Description = c.Description
	if c.Category != nil {
		p.Category = *c.Category
	}
	if c.Price != nil {
		p.Price = *c.Price
	}
	if c.Stock != nil {
		p.Stock = *c.Stock
	}
	if c.Status != nil {
		p.Status = *c.Status
	}
}

// ValidateProduct checks a product form. existing is nil when creating a product;
// otherwise its current status decides which status changes are allowed.
// It never fails on malformed input: every problem is reported in the returned FieldErrors.
func ValidateProduct(in ProductInput, existing *models.Product) (Cleaned, models.FieldErrors) {
	errs := models.FieldErrors{}
	var cleaned Cleaned

	name := strings.TrimSpace(in.Name)
	if validate.Var(name, "required") != nil {
		errs["name"] = MsgNameRequired
	} else if validate.Var(name, fmt.Sprintf("min=1,max=%d", NameMaxLength)) != nil {
		errs["name"] = MsgNameLength
	}
	cleaned.Name = name

	if validate.Var(in.Category, categoryTag) != nil {
		errs["category"] = MsgSelectCategory
	} else {
		category := models.Category(in.Category)
		cleaned.Category = &category
	}

	cleaned.Price = parseBoundedInt(in.Price, "price", MinPrice, MaxPrice, errs)
	cleaned.Stock = parseBoundedInt(in.Stock, "stock", MinStock, MaxStock, errs)
	cleaned.Description = in.Description

	if existing == nil {
		status := models.InitialStatus
		cleaned.Status = &status
		return cleaned, errs
	}

	requested := in.Status
	if requested == "" {
		requested = string(models.InitialStatus)
	}
	status, ok := models.ParseStatus(requested)
	switch {
	case !ok:
		errs["status"] = MsgSelectStatus
	case !existing.Status.CanTransitionTo(status):
		errs["status"] = MsgBadTransition
	default:
		cleaned.Status = &status
	}

	return cleaned, errs
}

// RangeMessage is the error reported for a number outside [min, max].
func RangeMessage(min, max int) string {
	return fmt.Sprintf("must be between %d and %d", min, max)
}

func parseBoundedInt(raw, field string, min, max int, errs models.FieldErrors) *int {
	if raw == "" {
		errs[field] = MsgRequired
		return nil
	}
	n, err := parseInt(raw)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			errs[field] = RangeMessage(min, max)
		} else {
			errs[field] = MsgNotANumber
		}
		return nil
	}
	if validate.Var(n, fmt.Sprintf("gte=%d,lte=%d", min, max)) != nil {
		errs[field] = RangeMessage(min, max)
		return nil
	}
	return &n
}

// parseInt accepts an optionally signed decimal integer surrounded by whitespace.
func parseInt(raw string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(raw))
}
