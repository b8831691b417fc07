package controllers

import (
	"net/http"

	"github.com/ecomstore/backend/api/responses"
	"github.com/ecomstore/backend/api/validators"
	"github.com/ecomstore/backend/internal/checkout"
	"github.com/ecomstore/backend/pkg/logger"
)

type cartQuoteRequest struct {
	Items []checkout.ItemInput `json:"items" validate:"required,min=1,dive"`
}

// CartQuote prices a cart without persisting anything.
func CartQuote(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req cartQuoteRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		totals, err := svc.Quote(r.Context(), req.Items)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, totals)
	}
}

// CreatePayment persists the order and opens a gateway payment session.
func CreatePayment(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req checkout.CheckoutInput
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Checkout(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
