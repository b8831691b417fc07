package enums

import "fmt"

// PaymentStatus is the settlement state derived from an order's status.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
)

var validPaymentStatuses = []PaymentStatus{
	PaymentStatusPending,
	PaymentStatusSuccess,
	PaymentStatusFailed,
}

// String implements fmt.Stringer.
func (p PaymentStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentStatus.
func (p PaymentStatus) IsValid() bool {
	for _, candidate := range validPaymentStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentStatus converts raw input into a PaymentStatus.
func ParsePaymentStatus(value string) (PaymentStatus, error) {
	for _, candidate := range validPaymentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment status %q", value)
}

// DerivePaymentStatus computes the settlement state implied by an order
// status. Payment status is never written independently of order status.
func DerivePaymentStatus(status OrderStatus) PaymentStatus {
	switch status {
	case OrderStatusPaid, OrderStatusShipped, OrderStatusDelivered:
		return PaymentStatusSuccess
	case OrderStatusCanceled:
		return PaymentStatusFailed
	default:
		return PaymentStatusPending
	}
}
