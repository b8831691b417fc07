package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/ecomstore/backend/pkg/enums"
	pkgerrors "github.com/ecomstore/backend/pkg/errors"
	"github.com/ecomstore/backend/pkg/logger"
)

const topProductLimit = 5

// Service assembles the backoffice metrics dashboard.
type Service interface {
	Dashboard(ctx context.Context) (*Dashboard, error)
}

type service struct {
	repo   Repository
	logger *logger.Logger
	now    func() time.Time
}

func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("analytics repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logger: logg, now: time.Now}, nil
}

func (s *service) Dashboard(ctx context.Context) (*Dashboard, error) {
	now := s.now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekAgo := startOfDay.AddDate(0, 0, -6)
	monthAgo := startOfDay.AddDate(0, -1, 0)
	thirtyDaysAgo := startOfDay.AddDate(0, 0, -30)

	dashboard := &Dashboard{GeneratedAt: now}
	var err error

	if dashboard.TotalSales, err = s.repo.TotalSales(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "total sales")
	}
	if dashboard.OrdersToday, err = s.repo.OrdersSince(ctx, startOfDay); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "orders today")
	}
	if dashboard.NewUsers30d, err = s.repo.NewUsersSince(ctx, thirtyDaysAgo); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "new users")
	}
	if dashboard.LowStockCount, err = s.repo.LowStockCount(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "low stock")
	}
	if dashboard.RevenueToday, err = s.repo.RevenueSince(ctx, startOfDay); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revenue today")
	}
	if dashboard.RevenueWeek, err = s.repo.RevenueSince(ctx, weekAgo); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revenue week")
	}
	if dashboard.RevenueMonth, err = s.repo.RevenueSince(ctx, monthAgo); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revenue month")
	}
	if dashboard.TopProducts, err = s.repo.TopProducts(ctx, topProductLimit); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "top products")
	}
	if dashboard.CategoryBreakdown, err = s.repo.CategoryBreakdown(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "category breakdown")
	}

	buckets, err := s.repo.DailySales(ctx, weekAgo)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "daily sales")
	}
	dashboard.WeeklySales = fillDailyBuckets(weekAgo, startOfDay, buckets)

	counts, err := s.repo.StatusCounts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "status counts")
	}
	dashboard.StatusMix = statusMix(counts)

	return dashboard, nil
}

// fillDailyBuckets pads the series so every day in the window appears,
// empty days included.
func fillDailyBuckets(from, to time.Time, rows []DailySales) []DailySales {
	byDate := make(map[string]DailySales, len(rows))
	for _, row := range rows {
		byDate[row.Date] = row
	}

	var out []DailySales
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		if row, ok := byDate[key]; ok {
			out = append(out, row)
			continue
		}
		out = append(out, DailySales{Date: key})
	}
	return out
}

// statusMix orders the counts along the canonical status ladder.
func statusMix(counts map[string]int64) []StatusCount {
	ladder := []enums.OrderStatus{
		enums.OrderStatusPending,
		enums.OrderStatusPaid,
		enums.OrderStatusShipped,
		enums.OrderStatusDelivered,
		enums.OrderStatusCanceled,
	}
	out := make([]StatusCount, 0, len(ladder))
	for _, status := range ladder {
		out = append(out, StatusCount{Status: status, Count: counts[status.String()]})
	}
	return out
}
