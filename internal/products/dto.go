package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ListParams are the catalog listing filters.
type ListParams struct {
	Query     string
	Category  string
	Sort      string
	MinRating float64
	Page      int
	Limit     int
}

// CategoryView is the storefront category projection.
type CategoryView struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
	Icon string    `json:"icon,omitempty"`
}

// VariantView is one selectable product option.
type VariantView struct {
	ID          uuid.UUID `json:"id"`
	VariantType string    `json:"variantType"`
	Label       string    `json:"label"`
	Value       string    `json:"value"`
	Stock       int       `json:"stock"`
}

// ProductCard is the listing-level product projection.
type ProductCard struct {
	ID              uuid.UUID        `json:"id"`
	Slug            string           `json:"slug"`
	Name            string           `json:"name"`
	Price           decimal.Decimal  `json:"price"`
	OriginalPrice   *decimal.Decimal `json:"originalPrice,omitempty"`
	DiscountPercent int              `json:"discountPercent,omitempty"`
	Rating          decimal.Decimal  `json:"rating"`
	ReviewCount     int              `json:"reviewCount"`
	ThumbnailURL    string           `json:"thumbnailUrl,omitempty"`
	CategorySlug    string           `json:"categorySlug,omitempty"`
	Tags            []string         `json:"tags,omitempty"`
	IsFeatured      bool             `json:"isFeatured"`
	CreatedAt       time.Time        `json:"createdAt"`
}

// ProductDetail extends the card with the full media and variant set.
type ProductDetail struct {
	ProductCard
	Description string        `json:"description,omitempty"`
	Images      []string      `json:"images"`
	Variants    []VariantView `json:"variants"`
	Stock       int           `json:"stock"`
}

// ProductList wraps a paginated catalog listing.
type ProductList struct {
	Items      []ProductCard `json:"items"`
	Total      int64         `json:"total"`
	TotalPages int           `json:"totalPages"`
	Page       int           `json:"page"`
}
