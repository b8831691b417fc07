package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product represents a storefront catalog listing.
type Product struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CategoryID    *uuid.UUID       `gorm:"column:category_id;type:uuid"`
	Slug          string           `gorm:"column:slug;not null;uniqueIndex"`
	Name          string           `gorm:"column:name;not null"`
	Description   *string          `gorm:"column:description"`
	Price         decimal.Decimal  `gorm:"column:price;type:numeric(12,2);not null"`
	OriginalPrice *decimal.Decimal `gorm:"column:original_price;type:numeric(12,2)"`
	Stock         int              `gorm:"column:stock;not null;default:0"`
	Rating        decimal.Decimal  `gorm:"column:rating;type:numeric(3,2);not null;default:0"`
	ReviewCount   int              `gorm:"column:review_count;not null;default:0"`
	Tags          pq.StringArray   `gorm:"column:tags;type:text[];not null;default:ARRAY[]::text[]"`
	ThumbnailURL  *string          `gorm:"column:thumbnail_url"`
	IsActive      bool             `gorm:"column:is_active;not null;default:true"`
	IsFeatured    bool             `gorm:"column:is_featured;not null;default:false"`
	Category      *Category        `gorm:"foreignKey:CategoryID"`
	Images        []ProductImage   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Variants      []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
