package domain

// Address carries billing or shipping details. Validation tags are enforced
// by the checkout orchestrator before any network call is made.
type Address struct {
	Name              string `json:"name" validate:"required"`
	Phone             string `json:"phone"`
	Line1             string `json:"line1" validate:"required"`
	Line2             string `json:"line2"`
	City              string `json:"city" validate:"required"`
	State             string `json:"state"`
	PostalCode        string `json:"postal_code"`
	Country           string `json:"country" validate:"required"`
	IsDefaultBilling  bool   `json:"is_default_billing,omitempty"`
	IsDefaultShipping bool   `json:"is_default_shipping,omitempty"`
}
