package domain

import (
	"time"
)

// Category groups products. Name is unique among categories.
type Category struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Product represents a catalog item. Image holds the public path of the
// uploaded picture, nil when the product has none.
type Product struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Image       *string   `json:"image" db:"image"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	CategoryID  int64     `json:"categoryId" db:"category_id"`
	Category    *Category `json:"category,omitempty"`
}

// ProductChanges carries the full replacement of a product's editable fields.
// A nil Image keeps the stored path.
type ProductChanges struct {
	Name        string
	Description string
	CategoryID  int64
	Image       *string
}
