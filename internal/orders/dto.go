package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ecomstore/backend/pkg/enums"
)

// ReconcileResult is the uniform outcome every reconciliation trigger
// returns. Updated distinguishes "transition applied" from "already in
// that state".
type ReconcileResult struct {
	Message           string              `json:"message"`
	OrderID           string              `json:"orderId"`
	OrderNumber       string              `json:"orderNumber,omitempty"`
	TransactionStatus string              `json:"transactionStatus,omitempty"`
	Status            enums.OrderStatus   `json:"status"`
	PaymentStatus     enums.PaymentStatus `json:"paymentStatus"`
	Updated           bool                `json:"updated"`
}

// NotificationInput carries the fields of an asynchronous gateway
// notification. Only the order number is mandatory.
type NotificationInput struct {
	OrderNumber       string
	TransactionStatus string
	FraudStatus       string
	StatusCode        string
	SignatureKey      string
}

// SyncInput identifies the order a client wants reconciled against the
// gateway. At least one reference is required.
type SyncInput struct {
	OrderID     string
	OrderNumber string
}

// AdminUpdateInput is an operator-driven status change.
type AdminUpdateInput struct {
	Reference string
	Status    enums.OrderStatus
}

// TimelineStep is one rung of the customer-facing order progress ladder.
type TimelineStep struct {
	Status enums.OrderStatus `json:"status"`
	Label  string            `json:"label"`
	At     string            `json:"at"`
	Done   bool              `json:"done"`
}

// OrderItemView is the read-model projection of one order line.
type OrderItemView struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// OrderView is the customer-facing order projection with its timeline.
type OrderView struct {
	ID            uuid.UUID           `json:"id"`
	Number        string              `json:"number"`
	CustomerName  string              `json:"customerName"`
	CustomerEmail string              `json:"customerEmail"`
	Status        enums.OrderStatus   `json:"status"`
	PaymentStatus enums.PaymentStatus `json:"paymentStatus"`
	Total         decimal.Decimal     `json:"total"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
	Items         []OrderItemView     `json:"items"`
	Timeline      []TimelineStep      `json:"timeline"`
}

// AdminOrderSummary is the backoffice listing row.
type AdminOrderSummary struct {
	ID            uuid.UUID           `json:"id"`
	Number        string              `json:"number"`
	CustomerName  string              `json:"customerName"`
	CustomerEmail string              `json:"customerEmail"`
	Status        enums.OrderStatus   `json:"status"`
	PaymentStatus enums.PaymentStatus `json:"paymentStatus"`
	Total         decimal.Decimal     `json:"total"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
	ItemsCount    int                 `json:"itemsCount"`
}

// OrderList wraps a paginated customer order listing.
type OrderList struct {
	Items      []OrderView `json:"items"`
	Total      int64       `json:"total"`
	TotalPages int         `json:"totalPages"`
	Page       int         `json:"page"`
}

// AdminOrderList wraps the backoffice order listing.
type AdminOrderList struct {
	Items []AdminOrderSummary `json:"items"`
}
