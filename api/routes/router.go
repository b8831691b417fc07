package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ecomstore/backend/api/controllers"
	"github.com/ecomstore/backend/api/middleware"
	"github.com/ecomstore/backend/internal/analytics"
	internalauth "github.com/ecomstore/backend/internal/auth"
	checkoutsvc "github.com/ecomstore/backend/internal/checkout"
	"github.com/ecomstore/backend/internal/orders"
	"github.com/ecomstore/backend/internal/products"
	"github.com/ecomstore/backend/internal/users"
	"github.com/ecomstore/backend/pkg/auth/session"
	"github.com/ecomstore/backend/pkg/config"
	"github.com/ecomstore/backend/pkg/logger"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config          *config.Config
	Logger          *logger.Logger
	Sessions        session.AccessSessionChecker
	AuthService     internalauth.Service
	UsersService    users.Service
	ProductsService products.Service
	CheckoutService checkoutsvc.Service
	OrdersService   orders.Service
	Analytics       analytics.Service
	Verifier        controllers.SignatureVerifier
	MetricsHandler  http.Handler
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg))
	})

	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.Register(deps.UsersService, logg))
		r.Post("/login", controllers.Login(deps.AuthService, logg))
		r.Post("/refresh", controllers.Refresh(deps.AuthService, logg))
		r.With(middleware.Auth(cfg.JWT, deps.Sessions, logg)).
			Post("/logout", controllers.Logout(deps.AuthService, logg))
	})

	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/categories", controllers.ListCategories(deps.ProductsService, logg))
		r.Get("/products", controllers.ListProducts(deps.ProductsService, logg))
		r.Get("/products/{slug}", controllers.GetProduct(deps.ProductsService, logg))
	})

	r.Post("/api/v1/cart/quote", controllers.CartQuote(deps.CheckoutService, logg))
	r.Post("/api/v1/checkout", controllers.CreatePayment(deps.CheckoutService, logg))

	r.Route("/api/v1/payments", func(r chi.Router) {
		r.Post("/notification", controllers.PaymentNotification(deps.OrdersService, deps.Verifier, logg))
		r.Post("/status", controllers.PaymentStatus(deps.OrdersService, logg))
	})

	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Get("/{reference}", controllers.GetOrder(deps.OrdersService, logg))
		r.With(middleware.Auth(cfg.JWT, deps.Sessions, logg)).
			Get("/", controllers.ListMyOrders(deps.OrdersService, deps.UsersService, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		r.Use(middleware.RequireBackoffice(logg))

		r.Get("/orders", controllers.AdminListOrders(deps.OrdersService, logg))
		r.Patch("/orders", controllers.AdminUpdateOrderStatus(deps.OrdersService, logg))
		r.Get("/users", controllers.AdminListUsers(deps.UsersService, logg))
		r.Get("/metrics", controllers.AdminDashboard(deps.Analytics, logg))
	})

	return r
}
