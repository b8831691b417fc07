package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ecomstore/backend/api/controllers"
	"github.com/ecomstore/backend/api/routes"
	"github.com/ecomstore/backend/internal/analytics"
	internalauth "github.com/ecomstore/backend/internal/auth"
	"github.com/ecomstore/backend/internal/checkout"
	"github.com/ecomstore/backend/internal/orders"
	"github.com/ecomstore/backend/internal/products"
	"github.com/ecomstore/backend/internal/users"
	"github.com/ecomstore/backend/pkg/auth/session"
	"github.com/ecomstore/backend/pkg/config"
	"github.com/ecomstore/backend/pkg/db"
	"github.com/ecomstore/backend/pkg/logger"
	"github.com/ecomstore/backend/pkg/metrics"
	"github.com/ecomstore/backend/pkg/midtrans"
	"github.com/ecomstore/backend/pkg/migrate"
	"github.com/ecomstore/backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = "sqlite"
	}

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	var gateway *midtrans.Client
	if cfg.Midtrans.Configured() {
		gateway, err = midtrans.NewClient(context.Background(), cfg.Midtrans, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create midtrans client", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "midtrans credentials missing, checkout runs in mock mode")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	reconciliationMetrics := metrics.NewReconciliationMetrics(registry)

	ordersRepo := orders.NewRepository(dbClient.DB())
	usersRepo := users.NewRepository(dbClient.DB())

	ordersParams := orders.ServiceParams{
		Repo:    ordersRepo,
		Tx:      dbClient,
		Marker:  redisClient,
		Metrics: reconciliationMetrics,
		Logger:  logg,
	}
	if gateway != nil {
		ordersParams.Gateway = gateway
	}
	ordersService, err := orders.NewService(ordersParams)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	checkoutParams := checkout.ServiceParams{
		Repo:     ordersRepo,
		Tx:       dbClient,
		Checkout: cfg.Checkout,
		Midtrans: cfg.Midtrans,
		BaseURL:  cfg.App.BaseURL,
		Logger:   logg,
	}
	if gateway != nil {
		checkoutParams.Gateway = gateway
	}
	checkoutService, err := checkout.NewService(checkoutParams)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(usersRepo, cfg.Password, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	authService, err := internalauth.NewService(internalauth.ServiceParams{
		Users:    usersRepo,
		Sessions: sessionManager,
		JWT:      cfg.JWT,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	productsService, err := products.NewService(products.NewRepository(dbClient.DB()), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create products service", err)
		os.Exit(1)
	}

	analyticsService, err := analytics.NewService(analytics.NewRepository(dbClient.DB()), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create analytics service", err)
		os.Exit(1)
	}

	var verifier controllers.SignatureVerifier
	if gateway != nil {
		verifier = gateway
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:          cfg,
			Logger:          logg,
			Sessions:        sessionManager,
			AuthService:     authService,
			UsersService:    usersService,
			ProductsService: productsService,
			CheckoutService: checkoutService,
			OrdersService:   ordersService,
			Analytics:       analyticsService,
			Verifier:        verifier,
			MetricsHandler:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
