package analytics

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ecomstore/backend/pkg/enums"
)

// lowStockThreshold marks a product as needing restock.
const lowStockThreshold = 10

// paidOrders selects orders whose money has actually arrived. Legacy rows
// may carry a settled payment status without the matching order status, so
// both signals count.
const paidOrders = "(payment_status = 'success' OR status IN ('paid','shipped','delivered'))"

// Repository is the read-only aggregate surface behind the dashboard.
type Repository interface {
	TotalSales(ctx context.Context) (decimal.Decimal, error)
	OrdersSince(ctx context.Context, since time.Time) (int64, error)
	NewUsersSince(ctx context.Context, since time.Time) (int64, error)
	LowStockCount(ctx context.Context) (int64, error)
	RevenueSince(ctx context.Context, since time.Time) (decimal.Decimal, error)
	DailySales(ctx context.Context, since time.Time) ([]DailySales, error)
	TopProducts(ctx context.Context, limit int) ([]TopProduct, error)
	CategoryBreakdown(ctx context.Context) ([]CategorySales, error)
	StatusCounts(ctx context.Context) (map[string]int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an analytics repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) TotalSales(ctx context.Context) (decimal.Decimal, error) {
	return r.sumTotal(ctx, r.db.WithContext(ctx).Table("orders").Where(paidOrders))
}

func (r *repository) OrdersSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("orders").
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}

func (r *repository) NewUsersSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("users").
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}

func (r *repository) LowStockCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("products").
		Where("is_active = ? AND stock <= ?", true, lowStockThreshold).
		Count(&count).Error
	return count, err
}

func (r *repository) RevenueSince(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	return r.sumTotal(ctx, r.db.WithContext(ctx).
		Table("orders").
		Where(paidOrders).
		Where("created_at >= ?", since))
}

func (r *repository) DailySales(ctx context.Context, since time.Time) ([]DailySales, error) {
	var rows []struct {
		Day    time.Time
		Orders int64
		Total  decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Table("orders").
		Select("DATE_TRUNC('day', created_at) AS day, COUNT(*) AS orders, COALESCE(SUM(total), 0) AS total").
		Where(paidOrders).
		Where("created_at >= ?", since).
		Group("day").
		Order("day ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]DailySales, 0, len(rows))
	for _, row := range rows {
		out = append(out, DailySales{
			Date:   row.Day.Format("2006-01-02"),
			Orders: row.Orders,
			Total:  row.Total,
		})
	}
	return out, nil
}

func (r *repository) TopProducts(ctx context.Context, limit int) ([]TopProduct, error) {
	var rows []TopProduct
	err := r.db.WithContext(ctx).
		Table("order_items").
		Select("order_items.product_name AS name, SUM(order_items.quantity) AS quantity, COALESCE(SUM(order_items.line_total), 0) AS revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where(paidOrders).
		Group("order_items.product_name").
		Order("quantity DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) CategoryBreakdown(ctx context.Context) ([]CategorySales, error) {
	var rows []CategorySales
	err := r.db.WithContext(ctx).
		Table("order_items").
		Select("COALESCE(categories.name, 'Uncategorized') AS category, COALESCE(SUM(order_items.line_total), 0) AS revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("LEFT JOIN products ON products.id = order_items.product_id").
		Joins("LEFT JOIN categories ON categories.id = products.category_id").
		Where(paidOrders).
		Group("category").
		Order("revenue DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) StatusCounts(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Table("orders").
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	// Collapse stored spellings onto canonical statuses.
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[enums.ParseStoredOrderStatus(row.Status).String()] += row.Count
	}
	return out, nil
}

func (r *repository) sumTotal(ctx context.Context, query *gorm.DB) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	err := query.Select("COALESCE(SUM(total), 0) AS total").Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}
