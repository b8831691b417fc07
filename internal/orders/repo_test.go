package orders

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ecomstore/backend/pkg/db/models"
	"github.com/ecomstore/backend/pkg/enums"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named in-memory database keeps the schema visible across pooled
	// connections while isolating each test.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  order_number TEXT NOT NULL UNIQUE,
  midtrans_order_id TEXT,
  customer_name TEXT NOT NULL,
  customer_email TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  payment_status TEXT NOT NULL DEFAULT 'pending',
  payment_method TEXT NOT NULL DEFAULT 'midtrans',
  subtotal NUMERIC NOT NULL,
  shipping_cost NUMERIC NOT NULL DEFAULT 0,
  tax NUMERIC NOT NULL DEFAULT 0,
  discount NUMERIC NOT NULL DEFAULT 0,
  total NUMERIC NOT NULL,
  shipping_address TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	orderItems := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT,
  variant_id TEXT,
  product_name TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  price NUMERIC NOT NULL,
  discount NUMERIC NOT NULL DEFAULT 0,
  unit_price NUMERIC NOT NULL,
  line_total NUMERIC NOT NULL,
  created_at DATETIME
);`
	tracking := `
CREATE TABLE IF NOT EXISTS order_tracking (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  status TEXT NOT NULL,
  message TEXT,
  label TEXT,
  occurred_at DATETIME,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(orderItems).Error)
	require.NoError(t, db.Exec(tracking).Error)
	return db
}

func createTestOrder(t *testing.T, db *gorm.DB, number, email, status string, created time.Time) *models.Order {
	t.Helper()

	gatewayRef := number
	order := &models.Order{
		ID:              uuid.New(),
		OrderNumber:     number,
		MidtransOrderID: &gatewayRef,
		CustomerName:    "Dina Rahma",
		CustomerEmail:   email,
		Status:          status,
		PaymentStatus:   "pending",
		PaymentMethod:   "midtrans",
		Subtotal:        decimal.NewFromInt(80),
		ShippingCost:    decimal.NewFromInt(12),
		Tax:             decimal.RequireFromString("6.40"),
		Total:           decimal.RequireFromString("98.40"),
		CreatedAt:       created,
		UpdatedAt:       created,
	}
	require.NoError(t, db.Create(order).Error)

	item := &models.OrderItem{
		ID:          uuid.New(),
		OrderID:     order.ID,
		ProductName: "Canvas Tote",
		Quantity:    2,
		Price:       decimal.NewFromInt(40),
		UnitPrice:   decimal.NewFromInt(40),
		LineTotal:   decimal.NewFromInt(80),
		CreatedAt:   created,
	}
	require.NoError(t, db.Create(item).Error)
	return order
}

func TestRepositoryFindByNumber_legacyGatewayReference(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	created := createTestOrder(t, db, "EC-10000001", "dina@example.com", "pending", now)

	legacyRef := "MT-ref-777"
	require.NoError(t, db.Model(&models.Order{}).
		Where("id = ?", created.ID).
		Update("midtrans_order_id", legacyRef).Error)

	order, err := repo.FindByNumber(context.Background(), "MT-ref-777")
	require.NoError(t, err)
	assert.Equal(t, created.ID, order.ID)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Canvas Tote", order.Items[0].ProductName)

	_, err = repo.FindByNumber(context.Background(), "EC-99999999")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryFindByReference(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	created := createTestOrder(t, db, "EC-10000002", "dina@example.com", "pending", now)

	byID, err := repo.FindByReference(context.Background(), []string{created.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, created.OrderNumber, byID.OrderNumber)

	byNumber, err := repo.FindByReference(context.Background(), []string{"", "EC-10000002"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, byNumber.ID)

	_, err = repo.FindByReference(context.Background(), []string{uuid.NewString()})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryUpdateTransition_storedSpelling(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	created := createTestOrder(t, db, "EC-10000003", "dina@example.com", "paid", now)

	err := repo.UpdateTransition(context.Background(), created.ID, enums.OrderStatusCanceled, enums.PaymentStatusFailed, now)
	require.NoError(t, err)

	var row models.Order
	require.NoError(t, db.First(&row, "id = ?", created.ID).Error)
	assert.Equal(t, "cancelled", row.Status)
	assert.Equal(t, "failed", row.PaymentStatus)

	err = repo.UpdateTransition(context.Background(), uuid.New(), enums.OrderStatusPaid, enums.PaymentStatusSuccess, now)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryAppendAndListTracking(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	created := createTestOrder(t, db, "EC-10000004", "dina@example.com", "pending", now)

	require.NoError(t, repo.AppendTracking(context.Background(), created.ID, enums.OrderStatusPending, "Order Placed", now))
	require.NoError(t, repo.AppendTracking(context.Background(), created.ID, enums.OrderStatusPaid, "Payment Confirmed", now.Add(time.Minute)))

	rows, err := repo.ListTracking(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "pending", rows[0].Status)
	assert.Equal(t, "paid", rows[1].Status)
	require.NotNil(t, rows[1].Label)
	assert.Equal(t, "Payment Confirmed", *rows[1].Label)
	require.NotNil(t, rows[1].OccurredAt)
}

// recreateTrackingTable swaps order_tracking for a reduced legacy layout.
func recreateTrackingTable(t *testing.T, db *gorm.DB, ddl string) {
	t.Helper()
	require.NoError(t, db.Exec(`DROP TABLE order_tracking`).Error)
	require.NoError(t, db.Exec(ddl).Error)
}

func TestRepositoryAppendTracking_fallsBackWithoutOptionalColumns(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	created := createTestOrder(t, db, "EC-10000016", "dina@example.com", "pending", now)

	recreateTrackingTable(t, db, `
CREATE TABLE order_tracking (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  status TEXT NOT NULL,
  message TEXT,
  created_at DATETIME
);`)

	require.NoError(t, repo.AppendTracking(context.Background(), created.ID, enums.OrderStatusPaid, "Payment Confirmed", now))

	rows, err := repo.ListTracking(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "paid", rows[0].Status)
	require.NotNil(t, rows[0].Message)
	assert.Equal(t, "Payment Confirmed", *rows[0].Message)
}

func TestRepositoryAppendTracking_fallsBackToStatusOnly(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	created := createTestOrder(t, db, "EC-10000017", "dina@example.com", "pending", now)

	recreateTrackingTable(t, db, `
CREATE TABLE order_tracking (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  status TEXT NOT NULL,
  created_at DATETIME
);`)

	require.NoError(t, repo.AppendTracking(context.Background(), created.ID, enums.OrderStatusShipped, "Shipped", now))

	rows, err := repo.ListTracking(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "shipped", rows[0].Status)
}

func TestRepositoryAppendTracking_fallbackKeepsCallerTransactionUsable(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	created := createTestOrder(t, db, "EC-10000018", "dina@example.com", "pending", now)

	recreateTrackingTable(t, db, `
CREATE TABLE order_tracking (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  status TEXT NOT NULL,
  message TEXT,
  created_at DATETIME
);`)

	// Mirrors the reconcile write path: status update and tracking append
	// share one transaction, and the failed full-column insert must not
	// poison it for the statements that follow.
	err := db.Transaction(func(tx *gorm.DB) error {
		scoped := repo.WithTx(tx)
		if err := scoped.UpdateTransition(context.Background(), created.ID, enums.OrderStatusPaid, enums.PaymentStatusSuccess, now); err != nil {
			return err
		}
		return scoped.AppendTracking(context.Background(), created.ID, enums.OrderStatusPaid, "Payment Confirmed", now)
	})
	require.NoError(t, err)

	var row models.Order
	require.NoError(t, db.First(&row, "id = ?", created.ID).Error)
	assert.Equal(t, "paid", row.Status)

	rows, err := repo.ListTracking(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].Message)
	assert.Equal(t, "Payment Confirmed", *rows[0].Message)
}

func TestRepositoryListByCustomerEmail_pagination(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	createTestOrder(t, db, "EC-10000005", "dina@example.com", "pending", now.Add(-time.Hour))
	createTestOrder(t, db, "EC-10000006", "dina@example.com", "paid", now)
	createTestOrder(t, db, "EC-10000007", "other@example.com", "pending", now)

	rows, total, err := repo.ListByCustomerEmail(context.Background(), "dina@example.com", nil, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, rows, 1)
	assert.Equal(t, "EC-10000006", rows[0].OrderNumber)

	second, _, err := repo.ListByCustomerEmail(context.Background(), "dina@example.com", nil, 1, 1)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "EC-10000005", second[0].OrderNumber)
}

func TestRepositoryListByCustomerEmail_statusFilterInQuery(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	createTestOrder(t, db, "EC-10000012", "dina@example.com", "paid", now.Add(-3*time.Hour))
	createTestOrder(t, db, "EC-10000013", "dina@example.com", "pending", now.Add(-2*time.Hour))
	createTestOrder(t, db, "EC-10000014", "dina@example.com", "cancelled", now.Add(-time.Hour))
	createTestOrder(t, db, "EC-10000015", "dina@example.com", "paid", now)

	// The filter applies before pagination: page 1 of size 1 holds the
	// newest paid order and the total counts only paid rows.
	paid := enums.OrderStatusPaid
	rows, total, err := repo.ListByCustomerEmail(context.Background(), "dina@example.com", &paid, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, rows, 1)
	assert.Equal(t, "EC-10000015", rows[0].OrderNumber)

	second, _, err := repo.ListByCustomerEmail(context.Background(), "dina@example.com", &paid, 1, 1)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "EC-10000012", second[0].OrderNumber)

	canceled := enums.OrderStatusCanceled
	rows, total, err = repo.ListByCustomerEmail(context.Background(), "dina@example.com", &canceled, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, "EC-10000014", rows[0].OrderNumber)
}

func TestRepositoryList_statusFilterUsesStoredToken(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	createTestOrder(t, db, "EC-10000008", "dina@example.com", "cancelled", now)
	createTestOrder(t, db, "EC-10000009", "dina@example.com", "paid", now)

	canceled := enums.OrderStatusCanceled
	rows, err := repo.List(context.Background(), &canceled)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "EC-10000008", rows[0].OrderNumber)
}

func TestRepositoryCountItems(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	first := createTestOrder(t, db, "EC-10000010", "dina@example.com", "pending", now)
	second := createTestOrder(t, db, "EC-10000011", "dina@example.com", "pending", now)

	extra := &models.OrderItem{
		ID:          uuid.New(),
		OrderID:     first.ID,
		ProductName: "Linen Throw",
		Quantity:    1,
		Price:       decimal.NewFromInt(55),
		UnitPrice:   decimal.NewFromInt(55),
		LineTotal:   decimal.NewFromInt(55),
	}
	require.NoError(t, db.Create(extra).Error)

	counts, err := repo.CountItems(context.Background(), []uuid.UUID{first.ID, second.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, counts[first.ID])
	assert.Equal(t, 1, counts[second.ID])
}
