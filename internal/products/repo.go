package products

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/ecomstore/backend/pkg/db/models"
)

// Repository is the catalog read surface.
type Repository interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListProducts(ctx context.Context, params ListParams, offset, limit int) ([]models.Product, int64, error)
	FindBySlug(ctx context.Context, slug string) (*models.Product, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *repository) ListProducts(ctx context.Context, params ListParams, offset, limit int) ([]models.Product, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Product{}).Where("products.is_active = ?", true)

	if q := strings.TrimSpace(params.Query); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		base = base.Where("LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ?", pattern, pattern)
	}
	if params.Category != "" {
		base = base.
			Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.slug = ?", params.Category)
	}
	if params.MinRating > 0 {
		base = base.Where("products.rating >= ?", params.MinRating)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Product
	err := base.
		Order(orderClause(params.Sort)).
		Offset(offset).
		Limit(limit).
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *repository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("slug = ? AND is_active = ?", slug, true).
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Variants").
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func orderClause(sort string) string {
	switch sort {
	case "price_asc":
		return "products.price ASC"
	case "price_desc":
		return "products.price DESC"
	case "rating":
		return "products.rating DESC"
	default:
		return "products.created_at DESC"
	}
}
