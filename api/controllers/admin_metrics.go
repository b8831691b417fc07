package controllers

import (
	"net/http"

	"github.com/ecomstore/backend/api/responses"
	"github.com/ecomstore/backend/internal/analytics"
	"github.com/ecomstore/backend/pkg/logger"
)

// AdminDashboard returns the backoffice metrics snapshot.
func AdminDashboard(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dashboard, err := svc.Dashboard(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dashboard)
	}
}
