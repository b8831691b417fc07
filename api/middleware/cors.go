package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/ecomstore/backend/pkg/config"
)

var defaultCORSOrigins = []string{
	"http://localhost:3000", // local storefront dev
}

// CORS returns middleware that applies the API's allowed origin policy.
// Configured origins replace the defaults.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	origins := cfg.OriginList()
	if len(origins) == 0 {
		origins = defaultCORSOrigins
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
