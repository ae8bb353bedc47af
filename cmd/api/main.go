package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/farmdirectmeat/farmshare-backend/api/routes"
	"github.com/farmdirectmeat/farmshare-backend/internal/farmerroles"
	"github.com/farmdirectmeat/farmshare-backend/internal/farms"
	"github.com/farmdirectmeat/farmshare-backend/internal/memberships"
	"github.com/farmdirectmeat/farmshare-backend/internal/onboarding"
	"github.com/farmdirectmeat/farmshare-backend/internal/payments"
	"github.com/farmdirectmeat/farmshare-backend/internal/profiles"
	"github.com/farmdirectmeat/farmshare-backend/internal/purchases"
	"github.com/farmdirectmeat/farmshare-backend/internal/shares"
	"github.com/farmdirectmeat/farmshare-backend/internal/waitlist"
	stripewebhook "github.com/farmdirectmeat/farmshare-backend/internal/webhooks/stripe"
	"github.com/farmdirectmeat/farmshare-backend/pkg/config"
	"github.com/farmdirectmeat/farmshare-backend/pkg/db"
	"github.com/farmdirectmeat/farmshare-backend/pkg/logger"
	"github.com/farmdirectmeat/farmshare-backend/pkg/metrics"
	"github.com/farmdirectmeat/farmshare-backend/pkg/migrate"
	"github.com/farmdirectmeat/farmshare-backend/pkg/redis"
	"github.com/farmdirectmeat/farmshare-backend/pkg/stripe"
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

	stripeClient, err := stripe.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap stripe", err)
		os.Exit(1)
	}

	gateway, err := payments.NewStripeGateway(stripeClient, cfg.Stripe, cfg.Checkout)
	if err != nil {
		logg.Error(context.Background(), "failed to create payments gateway", err)
		os.Exit(1)
	}

	gormDB := dbClient.DB()
	farmsRepo := farms.NewRepository(gormDB)
	sharesRepo := shares.NewRepository(gormDB)
	purchasesRepo := purchases.NewRepository(gormDB)
	waitlistRepo := waitlist.NewRepository(gormDB)
	profilesRepo := profiles.NewRepository(gormDB)
	farmerRolesRepo := farmerroles.NewRepository(gormDB)
	membershipsRepo := memberships.NewRepository(gormDB)

	farmsService, err := farms.NewService(farmsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create farms service", err)
		os.Exit(1)
	}

	sharesService, err := shares.NewService(sharesRepo, farmsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create shares service", err)
		os.Exit(1)
	}

	purchasesService, err := purchases.NewService(purchasesRepo, sharesRepo, farmsRepo, gateway)
	if err != nil {
		logg.Error(context.Background(), "failed to create purchases service", err)
		os.Exit(1)
	}

	onboardingService, err := onboarding.NewService(farmsRepo, gateway, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create onboarding service", err)
		os.Exit(1)
	}

	waitlistService, err := waitlist.NewService(waitlistRepo, farmsRepo, profilesRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create waitlist service", err)
		os.Exit(1)
	}

	farmerRequestsService, err := farmerroles.NewService(farmerRolesRepo, profilesRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create farmer role service", err)
		os.Exit(1)
	}

	membershipsService, err := memberships.NewService(membershipsRepo, gateway)
	if err != nil {
		logg.Error(context.Background(), "failed to create memberships service", err)
		os.Exit(1)
	}

	webhookService, err := stripewebhook.NewService(stripewebhook.ServiceParams{
		PurchaseRepo:      purchasesRepo,
		ShareRepo:         sharesRepo,
		Memberships:       membershipsService,
		TransactionRunner: dbClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook service", err)
		os.Exit(1)
	}

	webhookGuard, err := stripewebhook.NewIdempotencyGuard(redisClient, cfg.Checkout.WebhookTTL, "stripe")
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook guard", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	webhookMetrics := metrics.NewWebhookMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:         addr,
		ReadTimeout:  cfg.App.ReadTimeout,
		WriteTimeout: cfg.App.WriteTimeout,
		IdleTimeout:  cfg.App.IdleTimeout,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:         cfg,
			Logger:         logg,
			DB:             dbClient,
			Redis:          redisClient,
			StripeClient:   stripeClient,
			Farms:          farmsService,
			Shares:         sharesService,
			Purchases:      purchasesService,
			Onboarding:     onboardingService,
			Waitlist:       waitlistService,
			FarmerRequests: farmerRequestsService,
			Memberships:    membershipsService,
			WebhookService: webhookService,
			WebhookGuard:   webhookGuard,
			WebhookMetrics: webhookMetrics,
			MetricsHandler: registry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
