// Package presenters derives display attributes from products.
package presenters

import (
	"html/template"

	"inventory/internal/models"
)

// Stock indicator classes.
const (
	StockEmpty = "stock-empty"
	StockLow   = "stock-low"
	StockOK    = "stock-ok"
)

// LowStockThreshold is the largest stock level still reported as low.
const LowStockThreshold = 10

// StockIndication returns the label and CSS class describing a stock level.
func StockIndication(stock int) (label, class string) {
	switch {
	case stock == 0:
		return "out of stock", StockEmpty
	case stock >= 1 && stock <= LowStockThreshold:
		return "low stock", StockLow
	default:
		return "in stock", StockOK
	}
}

// ProductRow is a product prepared for a listing.
type ProductRow struct {
	Product    models.Product `json:"product"`
	StockLabel string         `json:"stock_label"`
	RowClass   string         `json:"row_class"`
	// DescriptionMarkup is the description marked as trusted HTML. It is not
	// escaped by templates, so any markup an admin stores is rendered as-is.
	DescriptionMarkup template.HTML `json:"description_markup"`
}

// NewProductRow builds the listing row for p.
func NewProductRow(p models.Product) ProductRow {
	label, class := StockIndication(p.Stock)
	return ProductRow{
		Product:           p,
		StockLabel:        label,
		RowClass:          class,
		DescriptionMarkup: template.HTML(p.Description),
	}
}

// NewProductRows builds listing rows preserving the order of products.
func NewProductRows(products []models.Product) []ProductRow {
	rows := make([]ProductRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, NewProductRow(p))
	}
	return rows
}
