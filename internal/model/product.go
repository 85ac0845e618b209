package model

import (
	"time"

	"github.com/fairyhunter13/edu-checkout/internal/money"
)

// Kind identifies what a product is: a physical book or an online course.
type Kind string

const (
	KindBook   Kind = "book"
	KindCourse Kind = "course"
)

// Valid reports whether k is a known product kind.
func (k Kind) Valid() bool {
	return k == KindBook || k == KindCourse
}

// Product is a sellable item of the catalog.
type Product struct {
	ID        string      `json:"id"`
	Slug      string      `json:"slug"`
	Title     string      `json:"title"`
	Kind      Kind        `json:"kind"`
	UnitPrice money.Money `json:"unit_price"`
	Stock     *int        `json:"stock,omitempty"` // books only; nil when not tracked
	CreatedAt time.Time   `json:"-"`
}

// HasDelivery reports whether the product ships physically.
func (p *Product) HasDelivery() bool {
	return p.Kind == KindBook
}

// CartLine is the single product being checked out together with its quantity.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}
