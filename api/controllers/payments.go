package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ecomstore/backend/api/responses"
	internalorders "github.com/ecomstore/backend/internal/orders"
	pkgerrors "github.com/ecomstore/backend/pkg/errors"
	"github.com/ecomstore/backend/pkg/logger"
)

// SignatureVerifier checks a gateway notification signature.
type SignatureVerifier interface {
	VerifySignature(orderID, statusCode, grossAmount, signatureKey string) bool
}

// notificationRequest mirrors the gateway's notification payload. Unknown
// fields are tolerated; gateways add fields without notice.
type notificationRequest struct {
	OrderID           string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
}

type statusRequest struct {
	OrderID     string `json:"orderId"`
	OrderNumber string `json:"orderNumber"`
}

// PaymentNotification receives asynchronous gateway notifications.
func PaymentNotification(svc internalorders.Service, verifier SignatureVerifier, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req notificationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid notification body"))
			return
		}

		if strings.TrimSpace(req.OrderID) == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order_id is required"))
			return
		}

		if verifier != nil && req.SignatureKey != "" &&
			!verifier.VerifySignature(req.OrderID, req.StatusCode, req.GrossAmount, req.SignatureKey) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid notification signature"))
			return
		}

		result, err := svc.HandleNotification(r.Context(), internalorders.NotificationInput{
			OrderNumber:       strings.TrimSpace(req.OrderID),
			TransactionStatus: req.TransactionStatus,
			FraudStatus:       req.FraudStatus,
			StatusCode:        req.StatusCode,
			SignatureKey:      req.SignatureKey,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// PaymentStatus reconciles an order against the gateway on demand.
func PaymentStatus(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req statusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body"))
			return
		}

		result, err := svc.SyncPaymentStatus(r.Context(), internalorders.SyncInput{
			OrderID:     req.OrderID,
			OrderNumber: req.OrderNumber,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
