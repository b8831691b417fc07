package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ecomstore/backend/pkg/types"
)

// Order is the storefront order aggregate. The status column keeps the
// legacy "cancelled" spelling on disk; repositories translate it to the
// canonical enum at the boundary.
type Order struct {
	ID              uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber     string                 `gorm:"column:order_number;not null;uniqueIndex"`
	MidtransOrderID *string                `gorm:"column:midtrans_order_id"`
	CustomerName    string                 `gorm:"column:customer_name;not null"`
	CustomerEmail   string                 `gorm:"column:customer_email;not null"`
	Status          string                 `gorm:"column:status;not null;default:'pending'"`
	PaymentStatus   string                 `gorm:"column:payment_status;not null;default:'pending'"`
	PaymentMethod   string                 `gorm:"column:payment_method;not null;default:'midtrans'"`
	Subtotal        decimal.Decimal        `gorm:"column:subtotal;type:numeric(12,2);not null"`
	ShippingCost    decimal.Decimal        `gorm:"column:shipping_cost;type:numeric(12,2);not null;default:0"`
	Tax             decimal.Decimal        `gorm:"column:tax;type:numeric(12,2);not null;default:0"`
	Discount        decimal.Decimal        `gorm:"column:discount;type:numeric(12,2);not null;default:0"`
	Total           decimal.Decimal        `gorm:"column:total;type:numeric(12,2);not null"`
	ShippingAddress *types.ShippingAddress `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	Items           []OrderItem            `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Tracking        []OrderTracking        `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
