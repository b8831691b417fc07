package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/ecomstore/backend/pkg/types"
)

// ItemInput is one priced cart line. Product and variant references are
// optional so quotes work for items that are not yet persisted.
type ItemInput struct {
	ProductID string          `json:"productId" validate:"omitempty,uuid4"`
	VariantID string          `json:"variantId" validate:"omitempty,uuid4"`
	Name      string          `json:"name" validate:"required"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
}

// CustomerInput identifies the buyer on a checkout request.
type CustomerInput struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"omitempty"`
}

// CheckoutInput is the full create-payment request.
type CheckoutInput struct {
	Customer        CustomerInput          `json:"customer" validate:"required"`
	ShippingAddress *types.ShippingAddress `json:"shippingAddress"`
	Items           []ItemInput            `json:"items" validate:"required,min=1,dive"`
}

// CheckoutResult is returned once the order is persisted and the gateway
// transaction exists. Token and RedirectURL are empty in mock mode.
type CheckoutResult struct {
	OrderID     string `json:"orderId"`
	OrderNumber string `json:"orderNumber"`
	Token       string `json:"token,omitempty"`
	RedirectURL string `json:"redirectUrl,omitempty"`
	Mock        bool   `json:"mock,omitempty"`
	Totals      Totals `json:"totals"`
}
