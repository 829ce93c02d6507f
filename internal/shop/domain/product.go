package domain

import "github.com/shopspring/decimal"

// Vendor identifies the seller of a product.
type Vendor struct {
	Name string `json:"name"`
}

// Product is a catalog entry as reported by the catalog service. Prices
// arrive as decimal strings and are never converted to floats.
type Product struct {
	ID     int64    `json:"id"`
	Title  string   `json:"title"`
	Name   string   `json:"name,omitempty"`
	Price  string   `json:"price"`
	Image  string   `json:"image,omitempty"`
	Images []string `json:"images,omitempty"`
	Stock  *int     `json:"stock,omitempty"`
	Vendor Vendor   `json:"vendor"`
}

// DisplayName prefers the title but falls back to the legacy name field.
func (p Product) DisplayName() string {
	if p.Title != "" {
		return p.Title
	}
	return p.Name
}

// PrimaryImage returns the single image field or the first entry of the
// image list, whichever the catalog populated.
func (p Product) PrimaryImage() string {
	if p.Image != "" {
		return p.Image
	}
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return ""
}

// PriceAmount parses the decimal price string.
func (p Product) PriceAmount() (decimal.Decimal, error) {
	return decimal.NewFromString(p.Price)
}
