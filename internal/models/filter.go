package models

import "strings"

// BugMarker is the "bug ticket" keyword. Listing products with a keyword
// containing it always fails with an InjectedFaultError; QA exercises rely on it.
const BugMarker = "バグ票"

// ProductFilter holds the criteria for listing products. Nil fields are not applied.
// Results are always ordered by ascending id.
type ProductFilter struct {
	Keyword  string
	Category *Category
	MinPrice *int
	MaxPrice *int
}

// Matches reports whether p satisfies every criterion of the filter.
// Keyword matching is case-sensitive.
func (f ProductFilter) Matches(p Product) bool {
	if f.Keyword != "" &&
		!strings.Contains(p.Name, f.Keyword) &&
		!strings.Contains(p.Description, f.Keyword) {
		return false
	}
	if f.Category != nil && p.Category != *f.Category {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	return true
}
