package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/ecomstore/backend/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestID assigns a request id to every call, echoes it back in the
// response header, and binds it to the request-scoped logger so webhook
// deliveries and admin actions can be traced end to end. A client-supplied
// id is honored only when it is a valid UUID.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(requestIDHeader)
			if _, err := uuid.Parse(reqID); err != nil {
				reqID = uuid.NewString()
			}

			w.Header().Set(requestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
