package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// CartItem is one line of the server-held cart. The embedded product is a
// price snapshot taken by the server; the client never recomputes it.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Validate ensures the line adheres to cart constraints.
func (i CartItem) Validate() error {
	if i.Product.ID == 0 {
		return errors.New("product is required")
	}
	if i.Quantity < 1 {
		return errors.New("quantity must be at least 1")
	}
	return nil
}

// LineTotal is unit price times quantity. Unparseable prices count as zero
// so a single bad line cannot take down a whole cart render.
func (i CartItem) LineTotal() decimal.Decimal {
	price, err := i.Product.PriceAmount()
	if err != nil {
		return decimal.Zero
	}
	qty := i.Quantity
	if qty < 1 {
		qty = 1
	}
	return price.Mul(decimal.NewFromInt(int64(qty)))
}

// Cart is a server-confirmed snapshot of cart lines. It is never mutated
// locally; every change goes through the cart service and a re-fetch.
type Cart struct {
	Items []CartItem `json:"items"`
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Count reports the number of distinct lines, matching what a header badge
// displays.
func (c Cart) Count() int {
	return len(c.Items)
}

// Total sums the line totals.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}
