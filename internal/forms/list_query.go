package forms

import (
	"strings"

	"inventory/internal/models"
)

// MsgPriceFilter is the warning returned when a price bound is not a number.
const MsgPriceFilter = "price filters must be numbers."

// ListQuery holds the optional search parameters of the product listing.
type ListQuery struct {
	Keyword  string `query:"keyword" json:"keyword"`
	Category string `query:"category" json:"category"`
	MinPrice string `query:"min_price" json:"min_price"`
	MaxPrice string `query:"max_price" json:"max_price"`
}

// BuildFilter translates q into a product filter. Unknown categories are ignored;
// price bounds that are not numbers are ignored and reported as warnings.
func BuildFilter(q ListQuery) (models.ProductFilter, []string) {
	filter := models.ProductFilter{Keyword: strings.TrimSpace(q.Keyword)}

	if category, ok := models.ParseCategory(q.Category); ok {
		filter.Category = &category
	}

	malformed := false
	if q.MinPrice != "" {
		if n, err := parseInt(q.MinPrice); err == nil {
			filter.MinPrice = &n
		} else {
			malformed = true
		}
	}
	if q.MaxPrice != "" {
		if n, err := parseInt(q.MaxPrice); err == nil {
			filter.MaxPrice = &n
		} else {
			malformed = true
		}
	}

	var warnings []string
	if malformed {
		warnings = append(warnings, MsgPriceFilter)
	}
	return filter, warnings
}

// ContainsBugMarker reports whether the keyword trips the deliberate listing failure.
func ContainsBugMarker(keyword string) bool {
	return strings.Contains(keyword, models.BugMarker)
}
