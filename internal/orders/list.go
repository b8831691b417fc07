package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ecomstore/backend/pkg/db/models"
	"github.com/ecomstore/backend/pkg/enums"
	pkgerrors "github.com/ecomstore/backend/pkg/errors"
	"github.com/ecomstore/backend/pkg/pagination"
)

// timelineLadder is the customer-facing progress ladder for live orders.
var timelineLadder = []enums.OrderStatus{
	enums.OrderStatusPending,
	enums.OrderStatusPaid,
	enums.OrderStatusShipped,
	enums.OrderStatusDelivered,
}

func (s *service) GetOrder(ctx context.Context, reference string) (*OrderView, error) {
	refs := collectRefs(reference)
	if len(refs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order reference is required")
	}

	order, err := s.repo.FindByReference(ctx, refs)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup order")
	}

	tracking, err := s.repo.ListTracking(ctx, order.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order tracking")
	}

	view := projectOrder(order)
	view.Timeline = projectTimeline(enums.ParseStoredOrderStatus(order.Status), tracking)
	return &view, nil
}

func (s *service) ListByCustomer(ctx context.Context, email string, status *enums.OrderStatus, page, limit int) (*OrderList, error) {
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer email is required")
	}

	params := pagination.Params{Page: page, Limit: limit}.Normalize()

	rows, total, err := s.repo.ListByCustomerEmail(ctx, email, status, params.Offset(), params.Limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for i := range rows {
		ids = append(ids, rows[i].ID)
	}
	trackingByOrder, err := s.trackingByOrder(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]OrderView, 0, len(rows))
	for i := range rows {
		view := projectOrder(&rows[i])
		view.Timeline = projectTimeline(view.Status, trackingByOrder[rows[i].ID])
		items = append(items, view)
	}

	return &OrderList{
		Items:      items,
		Total:      total,
		TotalPages: pagination.TotalPages(total, params.Limit),
		Page:       params.Page,
	}, nil
}

func (s *service) AdminList(ctx context.Context, status *enums.OrderStatus) (*AdminOrderList, error) {
	rows, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for i := range rows {
		ids = append(ids, rows[i].ID)
	}
	counts, err := s.repo.CountItems(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count order items")
	}

	items := make([]AdminOrderSummary, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		items = append(items, AdminOrderSummary{
			ID:            row.ID,
			Number:        row.OrderNumber,
			CustomerName:  row.CustomerName,
			CustomerEmail: row.CustomerEmail,
			Status:        enums.ParseStoredOrderStatus(row.Status),
			PaymentStatus: parseStoredPaymentStatus(row.PaymentStatus),
			Total:         row.Total,
			CreatedAt:     row.CreatedAt,
			UpdatedAt:     row.UpdatedAt,
			ItemsCount:    counts[row.ID],
		})
	}
	return &AdminOrderList{Items: items}, nil
}

func (s *service) trackingByOrder(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]models.OrderTracking, error) {
	out := make(map[uuid.UUID][]models.OrderTracking, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := s.repo.ListTrackingForOrders(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order tracking")
	}
	for i := range rows {
		out[rows[i].OrderID] = append(out[rows[i].OrderID], rows[i])
	}
	return out, nil
}

func projectOrder(order *models.Order) OrderView {
	items := make([]OrderItemView, 0, len(order.Items))
	for i := range order.Items {
		item := &order.Items[i]
		productID := ""
		if item.ProductID != nil {
			productID = item.ProductID.String()
		}
		items = append(items, OrderItemView{
			ProductID: productID,
			Name:      item.ProductName,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}
	return OrderView{
		ID:            order.ID,
		Number:        order.OrderNumber,
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		Status:        enums.ParseStoredOrderStatus(order.Status),
		PaymentStatus: parseStoredPaymentStatus(order.PaymentStatus),
		Total:         order.Total,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
		Items:         items,
	}
}

// projectTimeline renders the progress ladder for an order. A canceled
// order collapses to two steps; anything else walks the four-step ladder
// with completion decided by rank.
func projectTimeline(current enums.OrderStatus, tracking []models.OrderTracking) []TimelineStep {
	if current == enums.OrderStatusCanceled {
		return []TimelineStep{
			{
				Status: enums.OrderStatusPending,
				Label:  enums.OrderStatusPending.TrackingLabel(),
				At:     trackingTimestamp(tracking, enums.OrderStatusPending),
				Done:   true,
			},
			{
				Status: enums.OrderStatusCanceled,
				Label:  enums.OrderStatusCanceled.TrackingLabel(),
				At:     trackingTimestamp(tracking, enums.OrderStatusCanceled),
				Done:   true,
			},
		}
	}

	steps := make([]TimelineStep, 0, len(timelineLadder))
	for _, status := range timelineLadder {
		steps = append(steps, TimelineStep{
			Status: status,
			Label:  status.TrackingLabel(),
			At:     trackingTimestamp(tracking, status),
			Done:   current.Rank() >= status.Rank(),
		})
	}
	return steps
}

// trackingTimestamp finds the earliest tracking row for the status and
// prefers occurred_at over created_at. Steps without a row render "-".
func trackingTimestamp(tracking []models.OrderTracking, status enums.OrderStatus) string {
	var best *time.Time
	for i := range tracking {
		row := &tracking[i]
		if enums.ParseStoredOrderStatus(row.Status) != status {
			continue
		}
		at := row.CreatedAt
		if row.OccurredAt != nil {
			at = *row.OccurredAt
		}
		if best == nil || at.Before(*best) {
			ts := at
			best = &ts
		}
	}
	if best == nil {
		return "-"
	}
	return best.UTC().Format(time.RFC3339)
}
