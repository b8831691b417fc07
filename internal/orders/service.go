package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/ecomstore/backend/pkg/db/models"
	"github.com/ecomstore/backend/pkg/enums"
	pkgerrors "github.com/ecomstore/backend/pkg/errors"
	"github.com/ecomstore/backend/pkg/logger"
	"github.com/ecomstore/backend/pkg/metrics"
	"github.com/ecomstore/backend/pkg/midtrans"
)

const (
	triggerWebhook = "webhook"
	triggerPoll    = "poll"
	triggerAdmin   = "admin"

	notificationTTL = 24 * time.Hour
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Gateway is the payment-gateway surface the poll path depends on.
type Gateway interface {
	FetchTransactionStatus(ctx context.Context, orderNumber string) (*midtrans.TransactionStatus, error)
}

// DuplicateMarker flags already-seen gateway notifications. Reconciliation
// stays correct without it; it only feeds logs and metrics.
type DuplicateMarker interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	NotificationKey(orderNumber, transactionStatus string) string
}

// Service drives order status reconciliation and the order read model.
type Service interface {
	HandleNotification(ctx context.Context, input NotificationInput) (*ReconcileResult, error)
	SyncPaymentStatus(ctx context.Context, input SyncInput) (*ReconcileResult, error)
	AdminUpdate(ctx context.Context, input AdminUpdateInput) (*ReconcileResult, error)

	GetOrder(ctx context.Context, reference string) (*OrderView, error)
	ListByCustomer(ctx context.Context, email string, status *enums.OrderStatus, page, limit int) (*OrderList, error)
	AdminList(ctx context.Context, status *enums.OrderStatus) (*AdminOrderList, error)
}

// ServiceParams collects the service dependencies.
type ServiceParams struct {
	Repo    Repository
	Tx      txRunner
	Gateway Gateway
	Marker  DuplicateMarker
	Metrics *metrics.ReconciliationMetrics
	Logger  *logger.Logger
}

type service struct {
	repo    Repository
	tx      txRunner
	gateway Gateway
	marker  DuplicateMarker
	metrics *metrics.ReconciliationMetrics
	logger  *logger.Logger
	now     func() time.Time
}

// NewService builds an orders service. Marker and Metrics are optional.
// Gateway may be nil when the payment provider is not configured; the
// on-demand poll then fails with a dependency error while notifications
// and admin updates keep working.
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
		repo:    params.Repo,
		tx:      params.Tx,
		gateway: params.Gateway,
		marker:  params.Marker,
		metrics: params.Metrics,
		logger:  params.Logger,
		now:     time.Now,
	}, nil
}

// HandleNotification reconciles an order against an asynchronous gateway
// notification. An unknown order number is acknowledged without error so
// the gateway never retries destructively.
func (s *service) HandleNotification(ctx context.Context, input NotificationInput) (*ReconcileResult, error) {
	if input.OrderNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order_id is required")
	}

	start := s.now()
	ctx = s.logger.WithOrderNumber(ctx, input.OrderNumber)

	observed := midtrans.MapTransactionStatus(input.TransactionStatus, input.FraudStatus)

	order, err := s.repo.FindByNumber(ctx, input.OrderNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn(ctx, "notification for unknown order acknowledged")
			return &ReconcileResult{
				Message:           "Notification received",
				OrderID:           input.OrderNumber,
				OrderNumber:       input.OrderNumber,
				TransactionStatus: transactionStatusOrUnknown(input.TransactionStatus),
				Status:            observed,
				PaymentStatus:     enums.DerivePaymentStatus(observed),
				Updated:           false,
			}, nil
		}
		s.metrics.IncFailure(triggerWebhook)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup order")
	}

	s.markNotification(ctx, input.OrderNumber, input.TransactionStatus)

	result, err := s.reconcile(ctx, triggerWebhook, order, observed)
	if err != nil {
		return nil, err
	}
	result.Message = "Notification received"
	result.TransactionStatus = transactionStatusOrUnknown(input.TransactionStatus)
	s.metrics.ObserveDuration(triggerWebhook, s.now().Sub(start))
	return result, nil
}

// SyncPaymentStatus pulls the authoritative transaction status from the
// gateway and reconciles the referenced order against it.
func (s *service) SyncPaymentStatus(ctx context.Context, input SyncInput) (*ReconcileResult, error) {
	refs := collectRefs(input.OrderID, input.OrderNumber)
	if len(refs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orderId or orderNumber is required")
	}
	if s.gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "payment gateway is not configured")
	}

	start := s.now()

	order, err := s.repo.FindByReference(ctx, refs)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		s.metrics.IncFailure(triggerPoll)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup order")
	}

	gatewayRef := order.OrderNumber
	if gatewayRef == "" && order.MidtransOrderID != nil {
		gatewayRef = *order.MidtransOrderID
	}
	if gatewayRef == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "gateway order number is missing on this order")
	}

	ctx = s.logger.WithOrderNumber(ctx, gatewayRef)

	status, err := s.gateway.FetchTransactionStatus(ctx, gatewayRef)
	if err != nil {
		s.metrics.IncFailure(triggerPoll)
		return nil, err
	}

	observed := midtrans.MapTransactionStatus(status.TransactionStatus, status.FraudStatus)

	result, err := s.reconcile(ctx, triggerPoll, order, observed)
	if err != nil {
		return nil, err
	}
	if result.Updated {
		result.Message = "Payment status synchronized"
	} else {
		result.Message = "Payment status already up-to-date"
	}
	result.OrderNumber = gatewayRef
	result.TransactionStatus = transactionStatusOrUnknown(status.TransactionStatus)
	s.metrics.ObserveDuration(triggerPoll, s.now().Sub(start))
	return result, nil
}

// AdminUpdate applies an operator-chosen status directly, bypassing the
// gateway entirely.
func (s *service) AdminUpdate(ctx context.Context, input AdminUpdateInput) (*ReconcileResult, error) {
	if input.Reference == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orderId and status are required")
	}
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status value")
	}

	start := s.now()

	order, err := s.repo.FindByReference(ctx, []string{input.Reference})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		s.metrics.IncFailure(triggerAdmin)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup order")
	}

	ctx = s.logger.WithOrderNumber(ctx, order.OrderNumber)

	result, err := s.reconcile(ctx, triggerAdmin, order, input.Status)
	if err != nil {
		return nil, err
	}
	result.Message = "Order updated"
	result.OrderNumber = order.OrderNumber
	s.metrics.ObserveDuration(triggerAdmin, s.now().Sub(start))
	return result, nil
}

// reconcile runs Resolve against the stored pair and, when needed, applies
// the transition and appends one tracking entry inside a transaction.
func (s *service) reconcile(ctx context.Context, trigger string, order *models.Order, observed enums.OrderStatus) (*ReconcileResult, error) {
	current := enums.ParseStoredOrderStatus(order.Status)
	currentPayment := parseStoredPaymentStatus(order.PaymentStatus)

	decision := Resolve(current, currentPayment, observed)
	if !decision.Apply {
		s.metrics.IncNoop(trigger)
		return &ReconcileResult{
			OrderID:       order.ID.String(),
			Status:        decision.Status,
			PaymentStatus: decision.PaymentStatus,
			Updated:       false,
		}, nil
	}

	now := s.now().UTC()
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.UpdateTransition(ctx, order.ID, decision.Status, decision.PaymentStatus, now); err != nil {
			return err
		}
		return repo.AppendTracking(ctx, order.ID, decision.Status, decision.Label, now)
	})
	if err != nil {
		s.metrics.IncFailure(trigger)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "apply status transition")
	}

	s.metrics.IncApplied(trigger, decision.Status.String())
	s.logger.Info(s.logger.WithFields(ctx, map[string]any{
		"status":         decision.Status.String(),
		"payment_status": decision.PaymentStatus.String(),
		"trigger":        trigger,
	}), "order status transition applied")

	return &ReconcileResult{
		OrderID:       order.ID.String(),
		Status:        decision.Status,
		PaymentStatus: decision.PaymentStatus,
		Updated:       true,
	}, nil
}

func (s *service) markNotification(ctx context.Context, orderNumber, transactionStatus string) {
	if s.marker == nil {
		return
	}
	key := s.marker.NotificationKey(orderNumber, transactionStatus)
	fresh, err := s.marker.SetNX(ctx, key, s.now().UTC().Format(time.RFC3339), notificationTTL)
	if err != nil {
		s.logger.Warn(ctx, "notification duplicate marker unavailable")
		return
	}
	if !fresh {
		s.logger.Info(ctx, "duplicate gateway notification")
	}
}

func collectRefs(values ...string) []string {
	var out []string
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseStoredPaymentStatus(raw string) enums.PaymentStatus {
	if status, err := enums.ParsePaymentStatus(raw); err == nil {
		return status
	}
	return enums.PaymentStatusPending
}

func transactionStatusOrUnknown(raw string) string {
	if raw == "" {
		return "unknown"
	}
	return raw
}
