package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ecomstore/backend/pkg/enums"
)

// DailySales is one bucket of the trailing sales series.
type DailySales struct {
	Date   string          `json:"date"`
	Orders int64           `json:"orders"`
	Total  decimal.Decimal `json:"total"`
}

// TopProduct is one row of the best-seller ranking.
type TopProduct struct {
	Name     string          `json:"name"`
	Quantity int64           `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// CategorySales is revenue attributed to one catalog category.
type CategorySales struct {
	Category string          `json:"category"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// StatusCount is the order count for one canonical status.
type StatusCount struct {
	Status enums.OrderStatus `json:"status"`
	Count  int64             `json:"count"`
}

// Dashboard is the backoffice metrics snapshot.
type Dashboard struct {
	GeneratedAt       time.Time       `json:"generatedAt"`
	TotalSales        decimal.Decimal `json:"totalSales"`
	OrdersToday       int64           `json:"ordersToday"`
	NewUsers30d       int64           `json:"newUsers30d"`
	LowStockCount     int64           `json:"lowStockCount"`
	RevenueToday      decimal.Decimal `json:"revenueToday"`
	RevenueWeek       decimal.Decimal `json:"revenueWeek"`
	RevenueMonth      decimal.Decimal `json:"revenueMonth"`
	WeeklySales       []DailySales    `json:"weeklySales"`
	TopProducts       []TopProduct    `json:"topProducts"`
	CategoryBreakdown []CategorySales `json:"categoryBreakdown"`
	StatusMix         []StatusCount   `json:"statusMix"`
}
