package enums

import (
	"fmt"
	"strings"
)

// OrderStatus is the canonical lifecycle state of a storefront order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCanceled  OrderStatus = "canceled"
)

// storedCanceledToken is the spelling historical rows use for the canceled
// state. It never appears in the domain layer or on the wire.
const storedCanceledToken = "cancelled"

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPaid,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCanceled,
}

var orderStatusRanks = map[OrderStatus]int{
	OrderStatusCanceled:  0,
	OrderStatusPending:   1,
	OrderStatusPaid:      2,
	OrderStatusShipped:   3,
	OrderStatusDelivered: 4,
}

var orderTrackingLabels = map[OrderStatus]string{
	OrderStatusPending:   "Order Placed",
	OrderStatusPaid:      "Payment Confirmed",
	OrderStatusShipped:   "Shipped",
	OrderStatusDelivered: "Delivered",
	OrderStatusCanceled:  "Canceled",
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are expected.
func (o OrderStatus) IsTerminal() bool {
	return o == OrderStatusCanceled
}

// Rank orders statuses along the fulfilment ladder. Canceled sits below
// every active state.
func (o OrderStatus) Rank() int {
	return orderStatusRanks[o]
}

// TrackingLabel returns the customer-facing label recorded in the order
// timeline when the order enters this status.
func (o OrderStatus) TrackingLabel() string {
	return orderTrackingLabels[o]
}

// StoredToken returns the spelling persisted in the orders table. The
// database predates the canonical enum and writes "cancelled".
func (o OrderStatus) StoredToken() string {
	if o == OrderStatusCanceled {
		return storedCanceledToken
	}
	return string(o)
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}

// ParseOrderStatusToken converts client input into an OrderStatus. It
// accepts the canonical spellings plus the stored "cancelled" token, which
// older admin tooling still sends as a filter and target status.
func ParseOrderStatusToken(value string) (OrderStatus, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == storedCanceledToken {
		return OrderStatusCanceled, nil
	}
	return ParseOrderStatus(normalized)
}

// ParseStoredOrderStatus converts a persisted status token into an
// OrderStatus, translating the legacy "cancelled" spelling. Unknown or
// blank tokens map to pending.
func ParseStoredOrderStatus(value string) OrderStatus {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == storedCanceledToken {
		return OrderStatusCanceled
	}
	if status, err := ParseOrderStatus(normalized); err == nil {
		return status
	}
	return OrderStatusPending
}
