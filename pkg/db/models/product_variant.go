package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductVariant is a purchasable option of a product, e.g. a size or color.
type ProductVariant struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID   uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	VariantType string    `gorm:"column:variant_type;not null"`
	Label       string    `gorm:"column:label;not null"`
	Value       string    `gorm:"column:value;not null"`
	Stock       int       `gorm:"column:stock;not null;default:0"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
