package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ecomstore/backend/internal/orders"
	"github.com/ecomstore/backend/pkg/config"
	"github.com/ecomstore/backend/pkg/db/models"
	"github.com/ecomstore/backend/pkg/enums"
	pkgerrors "github.com/ecomstore/backend/pkg/errors"
	"github.com/ecomstore/backend/pkg/logger"
	"github.com/ecomstore/backend/pkg/midtrans"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// SnapGateway creates hosted-payment transactions. A nil gateway puts the
// service in mock mode for environments without gateway credentials.
type SnapGateway interface {
	CreateTransaction(ctx context.Context, params midtrans.TransactionParams) (*midtrans.Transaction, error)
}

// Service turns a priced cart into a persisted order plus a gateway
// payment session.
type Service interface {
	Quote(ctx context.Context, items []ItemInput) (*Totals, error)
	Checkout(ctx context.Context, input CheckoutInput) (*CheckoutResult, error)
}

// ServiceParams collects the checkout dependencies. Gateway may be nil.
type ServiceParams struct {
	Repo     orders.Repository
	Tx       txRunner
	Gateway  SnapGateway
	Checkout config.CheckoutConfig
	Midtrans config.MidtransConfig
	BaseURL  string
	Logger   *logger.Logger
}

type service struct {
	repo     orders.Repository
	tx       txRunner
	gateway  SnapGateway
	checkout config.CheckoutConfig
	midtrans config.MidtransConfig
	baseURL  string
	logger   *logger.Logger
	now      func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     params.Repo,
		tx:       params.Tx,
		gateway:  params.Gateway,
		checkout: params.Checkout,
		midtrans: params.Midtrans,
		baseURL:  params.BaseURL,
		logger:   params.Logger,
		now:      time.Now,
	}, nil
}

func (s *service) Quote(ctx context.Context, items []ItemInput) (*Totals, error) {
	if err := validateItems(items); err != nil {
		return nil, err
	}
	totals := ComputeTotals(s.checkout, items)
	return &totals, nil
}

func (s *service) Checkout(ctx context.Context, input CheckoutInput) (*CheckoutResult, error) {
	if input.Customer.Name == "" || input.Customer.Email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name and email are required")
	}
	if err := validateItems(input.Items); err != nil {
		return nil, err
	}

	totals := ComputeTotals(s.checkout, input.Items)
	orderNumber := s.newOrderNumber()
	ctx = s.logger.WithOrderNumber(ctx, orderNumber)

	order := &models.Order{
		OrderNumber:     orderNumber,
		MidtransOrderID: &orderNumber,
		CustomerName:    input.Customer.Name,
		CustomerEmail:   input.Customer.Email,
		Status:          enums.OrderStatusPending.StoredToken(),
		PaymentStatus:   enums.PaymentStatusPending.String(),
		PaymentMethod:   "midtrans",
		Subtotal:        totals.Subtotal,
		ShippingCost:    totals.Shipping,
		Tax:             totals.Tax,
		Discount:        totals.Discount,
		Total:           totals.Total,
		ShippingAddress: input.ShippingAddress,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		created, err := repo.Create(ctx, order)
		if err != nil {
			return err
		}
		items := buildOrderItems(created.ID, input.Items)
		if err := repo.CreateItems(ctx, items); err != nil {
			return err
		}
		return repo.AppendTracking(ctx, created.ID,
			enums.OrderStatusPending, enums.OrderStatusPending.TrackingLabel(), s.now().UTC())
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist order")
	}

	result := &CheckoutResult{
		OrderID:     order.ID.String(),
		OrderNumber: orderNumber,
		Totals:      totals,
	}

	if s.gateway == nil {
		result.Mock = true
		s.logger.Warn(ctx, "payment gateway not configured, returning mock checkout")
		return result, nil
	}

	customer := midtrans.Customer{
		FullName: input.Customer.Name,
		Email:    input.Customer.Email,
	}
	if input.ShippingAddress != nil {
		customer.City = input.ShippingAddress.City
		customer.PostalCode = input.ShippingAddress.PostalCode
	}

	transaction, err := s.gateway.CreateTransaction(ctx, midtrans.TransactionParams{
		OrderNumber:     orderNumber,
		GrossAmount:     totals.GrossAmount,
		Customer:        customer,
		Callbacks:       s.callbacks(orderNumber),
		EnabledPayments: s.midtrans.EnabledPaymentList(),
	})
	if err != nil {
		return nil, err
	}

	result.Token = transaction.Token
	result.RedirectURL = transaction.RedirectURL
	s.logger.Info(ctx, "checkout transaction created")
	return result, nil
}

func (s *service) callbacks(orderNumber string) *midtrans.Callbacks {
	if s.baseURL == "" {
		return nil
	}
	return &midtrans.Callbacks{
		Finish:  fmt.Sprintf("%s/payment/success?orderId=%s", s.baseURL, orderNumber),
		Pending: fmt.Sprintf("%s/payment/pending?orderId=%s", s.baseURL, orderNumber),
		Error:   fmt.Sprintf("%s/payment/error?orderId=%s", s.baseURL, orderNumber),
	}
}

// newOrderNumber derives a short human-facing number from the current
// millisecond clock.
func (s *service) newOrderNumber() string {
	return fmt.Sprintf("EC-%08d", s.now().UnixMilli()%100000000)
}

func validateItems(items []ItemInput) error {
	if len(items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one item is required")
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
		if item.Price.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "item price must not be negative")
		}
	}
	return nil
}

func buildOrderItems(orderID uuid.UUID, inputs []ItemInput) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(inputs))
	for _, in := range inputs {
		item := models.OrderItem{
			OrderID:     orderID,
			ProductName: in.Name,
			Quantity:    in.Quantity,
			Price:       in.Price,
			UnitPrice:   in.Price,
			LineTotal:   in.Price.Mul(decimal.NewFromInt(int64(in.Quantity))),
		}
		if id, err := uuid.Parse(in.ProductID); err == nil {
			item.ProductID = &id
		}
		if id, err := uuid.Parse(in.VariantID); err == nil {
			item.VariantID = &id
		}
		items = append(items, item)
	}
	return items
}
