package types

// ShippingAddress is the denormalized destination stored on an order.
type ShippingAddress struct {
	AddressLine1 string `json:"address_line1"`
	City         string `json:"city"`
	PostalCode   string `json:"postal_code"`
}
