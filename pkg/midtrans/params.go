package midtrans

import "strings"

// Customer carries the buyer details forwarded to the gateway.
type Customer struct {
	FullName   string
	Email      string
	City       string
	PostalCode string
}

// Callbacks are the storefront URLs the hosted payment page redirects to.
type Callbacks struct {
	Finish  string `json:"finish,omitempty"`
	Pending string `json:"pending,omitempty"`
	Error   string `json:"error,omitempty"`
}

// TransactionParams describes a hosted-payment transaction to create.
type TransactionParams struct {
	OrderNumber     string
	GrossAmount     int64
	Customer        Customer
	Callbacks       *Callbacks
	EnabledPayments []string
}

// Transaction is the hosted-payment session returned by the gateway.
type Transaction struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

// TransactionStatus is the gateway's view of a transaction.
type TransactionStatus struct {
	OrderID           string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	StatusCode        string `json:"status_code"`
	StatusMessage     string `json:"status_message"`
	PaymentType       string `json:"payment_type"`
	TransactionTime   string `json:"transaction_time"`
	SettlementTime    string `json:"settlement_time"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
}

type transactionDetails struct {
	OrderID     string `json:"order_id"`
	GrossAmount int64  `json:"gross_amount"`
}

type creditCardDetails struct {
	Secure bool `json:"secure"`
}

type addressDetails struct {
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
}

type customerDetails struct {
	FirstName       string         `json:"first_name"`
	LastName        string         `json:"last_name"`
	Email           string         `json:"email"`
	BillingAddress  addressDetails `json:"billing_address"`
	ShippingAddress addressDetails `json:"shipping_address"`
}

type snapTransactionRequest struct {
	TransactionDetails transactionDetails `json:"transaction_details"`
	CreditCard         creditCardDetails  `json:"credit_card"`
	CustomerDetails    customerDetails    `json:"customer_details"`
	Callbacks          *Callbacks         `json:"callbacks,omitempty"`
	EnabledPayments    []string           `json:"enabled_payments,omitempty"`
}

func (p TransactionParams) toSnapRequest() snapTransactionRequest {
	first, last := splitName(p.Customer.FullName)
	address := addressDetails{City: p.Customer.City, PostalCode: p.Customer.PostalCode}
	return snapTransactionRequest{
		TransactionDetails: transactionDetails{
			OrderID:     p.OrderNumber,
			GrossAmount: p.GrossAmount,
		},
		CreditCard: creditCardDetails{Secure: true},
		CustomerDetails: customerDetails{
			FirstName:       first,
			LastName:        last,
			Email:           p.Customer.Email,
			BillingAddress:  address,
			ShippingAddress: address,
		},
		Callbacks:       p.Callbacks,
		EnabledPayments: p.EnabledPayments,
	}
}

func splitName(full string) (string, string) {
	parts := strings.Fields(strings.TrimSpace(full))
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
