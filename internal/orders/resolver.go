package orders

import "github.com/ecomstore/backend/pkg/enums"

// Decision is the outcome of comparing an order's stored state against a
// newly observed status.
type Decision struct {
	Apply         bool
	Status        enums.OrderStatus
	PaymentStatus enums.PaymentStatus
	Label         string
}

// Resolve decides whether a newly observed status requires persistence work.
// It is a pure function and never fails.
//
// The observed status wins whenever it differs from the stored pair, even
// when it sits behind the current status on the fulfilment ladder: every
// trigger reports the gateway's latest truth and the store follows it.
func Resolve(current enums.OrderStatus, currentPayment enums.PaymentStatus, observed enums.OrderStatus) Decision {
	target := observed
	targetPayment := enums.DerivePaymentStatus(target)

	if target == current && targetPayment == currentPayment {
		return Decision{
			Apply:         false,
			Status:        current,
			PaymentStatus: currentPayment,
		}
	}

	return Decision{
		Apply:         true,
		Status:        target,
		PaymentStatus: targetPayment,
		Label:         target.TrackingLabel(),
	}
}
