package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ecomstore/backend/pkg/db/models"
	pkgerrors "github.com/ecomstore/backend/pkg/errors"
	"github.com/ecomstore/backend/pkg/logger"
	"github.com/ecomstore/backend/pkg/pagination"
)

var validSorts = map[string]bool{
	"":           true,
	"newest":     true,
	"price_asc":  true,
	"price_desc": true,
	"rating":     true,
}

// Service is the storefront catalog read model.
type Service interface {
	Categories(ctx context.Context) ([]CategoryView, error)
	List(ctx context.Context, params ListParams) (*ProductList, error)
	GetBySlug(ctx context.Context, slug string) (*ProductDetail, error)
}

type service struct {
	repo   Repository
	logger *logger.Logger
}

func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logger: logg}, nil
}

func (s *service) Categories(ctx context.Context) ([]CategoryView, error) {
	rows, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	views := make([]CategoryView, 0, len(rows))
	for i := range rows {
		view := CategoryView{ID: rows[i].ID, Name: rows[i].Name, Slug: rows[i].Slug}
		if rows[i].Icon != nil {
			view.Icon = *rows[i].Icon
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ProductList, error) {
	if !validSorts[params.Sort] {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown sort key")
	}

	page := pagination.Params{Page: params.Page, Limit: params.Limit}.Normalize()

	rows, total, err := s.repo.ListProducts(ctx, params, page.Offset(), page.Limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	items := make([]ProductCard, 0, len(rows))
	for i := range rows {
		items = append(items, projectCard(&rows[i]))
	}
	return &ProductList{
		Items:      items,
		Total:      total,
		TotalPages: pagination.TotalPages(total, page.Limit),
		Page:       page.Page,
	}, nil
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*ProductDetail, error) {
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product slug is required")
	}

	product, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup product")
	}

	detail := &ProductDetail{
		ProductCard: projectCard(product),
		Stock:       product.Stock,
		Images:      make([]string, 0, len(product.Images)),
		Variants:    make([]VariantView, 0, len(product.Variants)),
	}
	if product.Description != nil {
		detail.Description = *product.Description
	}
	for i := range product.Images {
		detail.Images = append(detail.Images, product.Images[i].URL)
	}
	for i := range product.Variants {
		v := &product.Variants[i]
		detail.Variants = append(detail.Variants, VariantView{
			ID:          v.ID,
			VariantType: v.VariantType,
			Label:       v.Label,
			Value:       v.Value,
			Stock:       v.Stock,
		})
	}
	return detail, nil
}

func projectCard(product *models.Product) ProductCard {
	card := ProductCard{
		ID:          product.ID,
		Slug:        product.Slug,
		Name:        product.Name,
		Price:       product.Price,
		Rating:      product.Rating,
		ReviewCount: product.ReviewCount,
		Tags:        product.Tags,
		IsFeatured:  product.IsFeatured,
		CreatedAt:   product.CreatedAt,
	}
	if product.Category != nil {
		card.CategorySlug = product.Category.Slug
	}
	if product.ThumbnailURL != nil && *product.ThumbnailURL != "" {
		card.ThumbnailURL = *product.ThumbnailURL
	} else if len(product.Images) > 0 {
		// Fall back to the first gallery image.
		card.ThumbnailURL = product.Images[0].URL
	}
	if product.OriginalPrice != nil && product.OriginalPrice.GreaterThan(product.Price) {
		card.OriginalPrice = product.OriginalPrice
		card.DiscountPercent = discountPercent(product.Price, *product.OriginalPrice)
	}
	return card
}

// discountPercent is the rounded markdown relative to the original price.
func discountPercent(price, original decimal.Decimal) int {
	if !original.IsPositive() {
		return 0
	}
	ratio := original.Sub(price).Div(original).Mul(decimal.NewFromInt(100))
	return int(ratio.Round(0).IntPart())
}
