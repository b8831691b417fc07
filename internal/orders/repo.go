package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ecomstore/backend/pkg/db"
	"github.com/ecomstore/backend/pkg/db/models"
	"github.com/ecomstore/backend/pkg/enums"
)

// Repository is the persistence surface for orders and their tracking log.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateItems(ctx context.Context, items []models.OrderItem) error

	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByNumber(ctx context.Context, number string) (*models.Order, error)
	FindByReference(ctx context.Context, refs []string) (*models.Order, error)

	List(ctx context.Context, status *enums.OrderStatus) ([]models.Order, error)
	ListByCustomerEmail(ctx context.Context, email string, status *enums.OrderStatus, offset, limit int) ([]models.Order, int64, error)
	CountItems(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID]int, error)

	UpdateTransition(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus, payment enums.PaymentStatus, at time.Time) error
	AppendTracking(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus, label string, at time.Time) error
	ListTracking(ctx context.Context, orderID uuid.UUID) ([]models.OrderTracking, error)
	ListTrackingForOrders(ctx context.Context, orderIDs []uuid.UUID) ([]models.OrderTracking, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) CreateItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindByNumber(ctx context.Context, number string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("order_number = ?", number).
		First(&order).Error
	if err == nil {
		return &order, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Legacy rows key the gateway reference in a separate column.
	err = r.db.WithContext(ctx).
		Preload("Items").
		Where("midtrans_order_id = ?", number).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindByReference(ctx context.Context, refs []string) (*models.Order, error) {
	for _, ref := range refs {
		if ref == "" {
			continue
		}
		if id, err := uuid.Parse(ref); err == nil {
			order, err := r.FindByID(ctx, id)
			if err == nil {
				return order, nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
		}
		order, err := r.FindByNumber(ctx, ref)
		if err == nil {
			return order, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *repository) List(ctx context.Context, status *enums.OrderStatus) ([]models.Order, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if status != nil {
		query = query.Where("status = ?", status.StoredToken())
	}
	var out []models.Order
	if err := query.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) ListByCustomerEmail(ctx context.Context, email string, status *enums.OrderStatus, offset, limit int) ([]models.Order, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Order{}).Where("customer_email = ?", email)
	if status != nil {
		base = base.Where("status = ?", status.StoredToken())
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []models.Order
	err := base.Session(&gorm.Session{}).
		Preload("Items").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *repository) CountItems(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int, len(orderIDs))
	if len(orderIDs) == 0 {
		return counts, nil
	}

	type row struct {
		OrderID uuid.UUID
		Total   int
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Select("order_id, count(*) as total").
		Where("order_id IN ?", orderIDs).
		Group("order_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, item := range rows {
		counts[item.OrderID] = item.Total
	}
	return counts, nil
}

func (r *repository) UpdateTransition(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus, payment enums.PaymentStatus, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]any{
			"status":         status.StoredToken(),
			"payment_status": payment.String(),
			"updated_at":     at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) AppendTracking(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus, label string, at time.Time) error {
	occurredAt := at
	entry := models.OrderTracking{
		OrderID:    orderID,
		Status:     status.StoredToken(),
		Message:    &label,
		Label:      &label,
		OccurredAt: &occurredAt,
	}

	err := r.createTracking(ctx, &entry, "OrderID", "Status", "Message", "Label", "OccurredAt")
	if err == nil {
		return nil
	}
	if !db.IsMissingColumn(err, "label") && !db.IsMissingColumn(err, "occurred_at") {
		return err
	}

	// Older tracking tables only carry the message column.
	fallback := models.OrderTracking{
		OrderID: orderID,
		Status:  status.StoredToken(),
		Message: &label,
	}
	err = r.createTracking(ctx, &fallback, "OrderID", "Status", "Message")
	if err == nil || !db.IsMissingColumn(err, "message") {
		return err
	}

	minimal := models.OrderTracking{
		OrderID: orderID,
		Status:  status.StoredToken(),
	}
	return r.createTracking(ctx, &minimal, "OrderID", "Status")
}

// createTracking runs one insert attempt in its own nested transaction.
// Inside a caller transaction GORM turns that into a savepoint, so a
// missing-column failure rolls back to the savepoint instead of aborting
// the whole transaction; Postgres would otherwise reject every statement
// after the failed insert and the reduced-column retry could never run.
func (r *repository) createTracking(ctx context.Context, entry *models.OrderTracking, fields ...string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Select(fields).Create(entry).Error
	})
}

func (r *repository) ListTracking(ctx context.Context, orderID uuid.UUID) ([]models.OrderTracking, error) {
	var out []models.OrderTracking
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) ListTrackingForOrders(ctx context.Context, orderIDs []uuid.UUID) ([]models.OrderTracking, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}
	var out []models.OrderTracking
	err := r.db.WithContext(ctx).
		Where("order_id IN ?", orderIDs).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
