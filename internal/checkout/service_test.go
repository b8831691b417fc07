package checkout

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ecomstore/backend/internal/orders"
	"github.com/ecomstore/backend/pkg/config"
	"github.com/ecomstore/backend/pkg/db/models"
	"github.com/ecomstore/backend/pkg/enums"
	pkgerrors "github.com/ecomstore/backend/pkg/errors"
	"github.com/ecomstore/backend/pkg/logger"
	"github.com/ecomstore/backend/pkg/midtrans"
	"github.com/ecomstore/backend/pkg/types"
)

type checkoutRepo struct {
	order    *models.Order
	items    []models.OrderItem
	tracking []struct {
		status enums.OrderStatus
		label  string
	}
}

func (r *checkoutRepo) WithTx(tx *gorm.DB) orders.Repository { return r }

func (r *checkoutRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	order.ID = uuid.New()
	r.order = order
	return order, nil
}

func (r *checkoutRepo) CreateItems(ctx context.Context, items []models.OrderItem) error {
	r.items = items
	return nil
}

func (r *checkoutRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *checkoutRepo) FindByNumber(ctx context.Context, number string) (*models.Order, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *checkoutRepo) FindByReference(ctx context.Context, refs []string) (*models.Order, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *checkoutRepo) List(ctx context.Context, status *enums.OrderStatus) ([]models.Order, error) {
	return nil, nil
}

func (r *checkoutRepo) ListByCustomerEmail(ctx context.Context, email string, status *enums.OrderStatus, offset, limit int) ([]models.Order, int64, error) {
	return nil, 0, nil
}

func (r *checkoutRepo) CountItems(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	return nil, nil
}

func (r *checkoutRepo) UpdateTransition(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus, payment enums.PaymentStatus, at time.Time) error {
	return nil
}

func (r *checkoutRepo) AppendTracking(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus, label string, at time.Time) error {
	r.tracking = append(r.tracking, struct {
		status enums.OrderStatus
		label  string
	}{status, label})
	return nil
}

func (r *checkoutRepo) ListTracking(ctx context.Context, orderID uuid.UUID) ([]models.OrderTracking, error) {
	return nil, nil
}

func (r *checkoutRepo) ListTrackingForOrders(ctx context.Context, orderIDs []uuid.UUID) ([]models.OrderTracking, error) {
	return nil, nil
}

type checkoutTx struct{}

func (checkoutTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error { return fn(nil) }

type snapStub struct {
	params *midtrans.TransactionParams
}

func (g *snapStub) CreateTransaction(ctx context.Context, params midtrans.TransactionParams) (*midtrans.Transaction, error) {
	g.params = &params
	return &midtrans.Transaction{Token: "snap-token", RedirectURL: "https://pay.example/redirect"}, nil
}

func newCheckoutService(t *testing.T, repo orders.Repository, gateway SnapGateway) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:     repo,
		Tx:       checkoutTx{},
		Gateway:  gateway,
		Checkout: testCheckoutConfig(),
		Midtrans: config.MidtransConfig{EnabledPayments: "gopay,bank_transfer"},
		BaseURL:  "https://store.example",
		Logger:   logger.New(logger.Options{Level: zerolog.Disabled}),
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func checkoutInput() CheckoutInput {
	return CheckoutInput{
		Customer: CustomerInput{Name: "Dina Rahma", Email: "dina@example.com"},
		ShippingAddress: &types.ShippingAddress{
			AddressLine1: "Jl. Melati 4",
			City:         "Bandung",
			PostalCode:   "40115",
		},
		Items: []ItemInput{item("40", 2)},
	}
}

func TestCheckoutPersistsOrderAndCreatesTransaction(t *testing.T) {
	repo := &checkoutRepo{}
	gateway := &snapStub{}
	svc := newCheckoutService(t, repo, gateway)

	result, err := svc.Checkout(context.Background(), checkoutInput())
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	if repo.order == nil {
		t.Fatal("order was not persisted")
	}
	if repo.order.Status != "pending" || repo.order.PaymentStatus != "pending" {
		t.Fatalf("initial pair = %s/%s, want pending/pending", repo.order.Status, repo.order.PaymentStatus)
	}
	if !strings.HasPrefix(result.OrderNumber, "EC-") || len(result.OrderNumber) != 11 {
		t.Fatalf("order number = %q, want EC- plus 8 digits", result.OrderNumber)
	}
	if repo.order.MidtransOrderID == nil || *repo.order.MidtransOrderID != result.OrderNumber {
		t.Fatal("gateway order id must mirror the order number")
	}
	if len(repo.items) != 1 || !repo.items[0].LineTotal.Equal(decimal.NewFromInt(80)) {
		t.Fatalf("items = %+v, want one line totaling 80", repo.items)
	}
	if len(repo.tracking) != 1 || repo.tracking[0].label != "Order Placed" {
		t.Fatalf("tracking = %+v, want one Order Placed entry", repo.tracking)
	}

	if result.Token != "snap-token" || result.RedirectURL == "" {
		t.Fatalf("result = %+v, want the gateway session", result)
	}
	if gateway.params.GrossAmount != 98 {
		t.Fatalf("gross amount = %d, want 98", gateway.params.GrossAmount)
	}
	if gateway.params.Callbacks == nil ||
		gateway.params.Callbacks.Finish != "https://store.example/payment/success?orderId="+result.OrderNumber {
		t.Fatalf("callbacks = %+v", gateway.params.Callbacks)
	}
	if len(gateway.params.EnabledPayments) != 2 {
		t.Fatalf("enabled payments = %v", gateway.params.EnabledPayments)
	}
}

func TestCheckoutMockModeWithoutGateway(t *testing.T) {
	repo := &checkoutRepo{}
	svc := newCheckoutService(t, repo, nil)

	result, err := svc.Checkout(context.Background(), checkoutInput())
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if !result.Mock || result.Token != "" {
		t.Fatalf("result = %+v, want mock mode without a token", result)
	}
	if repo.order == nil {
		t.Fatal("mock mode must still persist the order")
	}
}

func TestCheckoutValidation(t *testing.T) {
	svc := newCheckoutService(t, &checkoutRepo{}, nil)

	tests := []struct {
		name  string
		input CheckoutInput
	}{
		{"missing customer", CheckoutInput{Items: []ItemInput{item("10", 1)}}},
		{"no items", CheckoutInput{Customer: CustomerInput{Name: "A", Email: "a@example.com"}}},
		{
			"zero quantity",
			CheckoutInput{
				Customer: CustomerInput{Name: "A", Email: "a@example.com"},
				Items:    []ItemInput{item("10", 0)},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Checkout(context.Background(), tt.input)
			if derr := pkgerrors.As(err); derr == nil || derr.Code() != pkgerrors.CodeValidation {
				t.Fatalf("error = %v, want validation", err)
			}
		})
	}
}

func TestQuoteMatchesCheckoutTotals(t *testing.T) {
	svc := newCheckoutService(t, &checkoutRepo{}, nil)

	items := []ItemInput{item("100", 4)}
	quote, err := svc.Quote(context.Background(), items)
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	want := ComputeTotals(testCheckoutConfig(), items)
	if quote.GrossAmount != want.GrossAmount || !quote.Total.Equal(want.Total) {
		t.Fatalf("quote = %+v, want %+v", quote, want)
	}
}
