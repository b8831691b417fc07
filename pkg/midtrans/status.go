package midtrans

import (
	"strings"

	"github.com/ecomstore/backend/pkg/enums"
)

// MapTransactionStatus translates a gateway transaction status, plus its
// fraud flag, into the canonical order status. Unknown or empty input maps
// to pending; this function never fails.
func MapTransactionStatus(transactionStatus, fraudStatus string) enums.OrderStatus {
	status := strings.ToLower(strings.TrimSpace(transactionStatus))
	fraud := strings.ToLower(strings.TrimSpace(fraudStatus))

	switch status {
	case "capture":
		if fraud == "challenge" {
			return enums.OrderStatusPending
		}
		return enums.OrderStatusPaid
	case "settlement":
		return enums.OrderStatusPaid
	case "pending":
		return enums.OrderStatusPending
	case "deny", "expire", "cancel":
		return enums.OrderStatusCanceled
	default:
		return enums.OrderStatusPending
	}
}
