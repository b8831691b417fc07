package controllers

import (
	"net/http"

	"github.com/ecomstore/backend/api/responses"
	"github.com/ecomstore/backend/api/validators"
	"github.com/ecomstore/backend/internal/users"
	"github.com/ecomstore/backend/pkg/logger"
	"github.com/ecomstore/backend/pkg/pagination"
)

// AdminListUsers returns the paginated backoffice user listing.
func AdminListUsers(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
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

		list, err := svc.List(r.Context(), page, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
