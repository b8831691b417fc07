package controllers

import (
	"net/http"

	"github.com/ecomstore/backend/api/responses"
	"github.com/ecomstore/backend/api/validators"
	internalorders "github.com/ecomstore/backend/internal/orders"
	"github.com/ecomstore/backend/pkg/enums"
	pkgerrors "github.com/ecomstore/backend/pkg/errors"
	"github.com/ecomstore/backend/pkg/logger"
)

type adminUpdateOrderRequest struct {
	OrderID string `json:"orderId" validate:"required"`
	Status  string `json:"status" validate:"required"`
}

// AdminListOrders returns the backoffice order listing with an optional
// canonical status filter.
func AdminListOrders(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := parseStatusFilter(r.URL.Query().Get("status"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.AdminList(r.Context(), status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// AdminUpdateOrderStatus applies an operator-chosen canonical status.
func AdminUpdateOrderStatus(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req adminUpdateOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseOrderStatusToken(req.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid status value"))
			return
		}

		result, err := svc.AdminUpdate(r.Context(), internalorders.AdminUpdateInput{
			Reference: req.OrderID,
			Status:    status,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
