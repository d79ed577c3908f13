package models

import "time"

// Category is one of the fixed product categories.
type Category string

const (
	CategoryBooks      Category = "Books"
	CategoryAppliances Category = "Appliances"
	CategoryFood       Category = "Food"
	CategoryOther      Category = "Other"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryBooks, CategoryAppliances, CategoryFood, CategoryOther}

// ParseCategory returns the category named by s. Values outside the fixed set are rejected.
func ParseCategory(s string) (Category, bool) {
	c := Category(s)
	return c, c.IsValid()
}

// IsValid reports whether c is a member of the fixed category set.
func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Product represents an item in the inventory.
type Product struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string    `json:"name" gorm:"type:varchar(50);not null"`
	Category    Category  `json:"category" gorm:"type:varchar(20);not null"`
	Price       int       `json:"price" gorm:"not null"`
	Stock       int       `json:"stock" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text"`
	Status      Status    `json:"status" gorm:"type:varchar(16);not null;default:Preparing"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AllowedStatusTransitions returns the statuses the product may move to from its current status.
func (p *Product) AllowedStatusTransitions() []Status {
	return p.Status.AllowedTransitions()
}
