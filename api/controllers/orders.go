package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ecomstore/backend/api/middleware"
	"github.com/ecomstore/backend/api/responses"
	"github.com/ecomstore/backend/api/validators"
	internalorders "github.com/ecomstore/backend/internal/orders"
	"github.com/ecomstore/backend/internal/users"
	"github.com/ecomstore/backend/pkg/enums"
	pkgerrors "github.com/ecomstore/backend/pkg/errors"
	"github.com/ecomstore/backend/pkg/logger"
	"github.com/ecomstore/backend/pkg/pagination"
)

// GetOrder returns one order with its progress timeline. The reference may
// be the order id or the order number.
func GetOrder(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reference := strings.TrimSpace(chi.URLParam(r, "reference"))
		view, err := svc.GetOrder(r.Context(), reference)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// ListMyOrders returns the calling customer's orders. The customer identity
// comes from the authenticated token, never from request input.
func ListMyOrders(svc internalorders.Service, usersSvc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}
		user, err := usersSvc.GetByID(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := validators.ParseQueryInt(r, "page", 1, 1, 100000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := parseStatusFilter(r.URL.Query().Get("status"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListByCustomer(r.Context(), user.Email, status, page, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func parseStatusFilter(raw string) (*enums.OrderStatus, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	status, err := enums.ParseOrderStatusToken(trimmed)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}
	return &status, nil
}
