package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/farmdirectmeat/farmshare-backend/api/controllers"
	webhookcontrollers "github.com/farmdirectmeat/farmshare-backend/api/controllers/webhooks"
	"github.com/farmdirectmeat/farmshare-backend/api/middleware"
	"github.com/farmdirectmeat/farmshare-backend/internal/farmerroles"
	"github.com/farmdirectmeat/farmshare-backend/internal/farms"
	"github.com/farmdirectmeat/farmshare-backend/internal/memberships"
	"github.com/farmdirectmeat/farmshare-backend/internal/onboarding"
	"github.com/farmdirectmeat/farmshare-backend/internal/purchases"
	"github.com/farmdirectmeat/farmshare-backend/internal/shares"
	"github.com/farmdirectmeat/farmshare-backend/internal/waitlist"
	stripewebhook "github.com/farmdirectmeat/farmshare-backend/internal/webhooks/stripe"
	"github.com/farmdirectmeat/farmshare-backend/pkg/config"
	"github.com/farmdirectmeat/farmshare-backend/pkg/db"
	"github.com/farmdirectmeat/farmshare-backend/pkg/enums"
	"github.com/farmdirectmeat/farmshare-backend/pkg/logger"
	"github.com/farmdirectmeat/farmshare-backend/pkg/metrics"
	pkgredis "github.com/farmdirectmeat/farmshare-backend/pkg/redis"
	"github.com/farmdirectmeat/farmshare-backend/pkg/stripe"
)

// RouterParams carries everything the HTTP surface depends on.
type RouterParams struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          *pkgredis.Client
	StripeClient   *stripe.Client
	Farms          farms.Service
	Shares         shares.Service
	Purchases      purchases.Service
	Onboarding     onboarding.Service
	Waitlist       waitlist.Service
	FarmerRequests farmerroles.Service
	Memberships    memberships.Service
	WebhookService *stripewebhook.Service
	WebhookGuard   *stripewebhook.IdempotencyGuard
	WebhookMetrics *metrics.WebhookMetrics
	MetricsHandler prometheus.Gatherer
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	var idemStore pkgredis.IdempotencyStore
	var rateStore interface {
		IncrWithTTL(context.Context, string, time.Duration) (int64, error)
	}
	if p.Redis != nil {
		idemStore = p.Redis
		rateStore = p.Redis
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	signupPolicy := middleware.NewSignupRateLimitPolicy(
		"waitlist",
		cfg.SignupRateLimit.Window,
		cfg.SignupRateLimit.IPLimit,
		cfg.SignupRateLimit.EmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		deps := map[string]controllers.Pinger{}
		if p.DB != nil {
			deps["postgres"] = p.DB
		}
		if p.Redis != nil {
			deps["redis"] = p.Redis
		}
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps))
	})

	if p.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.MetricsHandler, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/stripe", webhookcontrollers.StripeWebhook(p.WebhookService, p.StripeClient, p.WebhookGuard, p.WebhookMetrics, logg))
	})

	// Public marketplace reads and the pre-launch waitlist.
	r.Route("/api/v1/farms", func(r chi.Router) {
		r.Get("/", controllers.FarmBrowse(p.Farms, logg))
		r.With(middleware.Auth(cfg.JWT, logg)).Get("/me", controllers.FarmMine(p.Farms, logg))
		r.Get("/{farmId}", controllers.FarmGet(p.Farms, logg))
		r.Get("/{farmId}/shares", controllers.FarmSharesList(p.Shares, logg))
	})
	r.With(middleware.SignupRateLimit(signupPolicy, rateStore, logg)).
		Post("/api/v1/waitlist", controllers.WaitlistSignup(p.Waitlist, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/payments", func(r chi.Router) {
			r.Post("/create-checkout", controllers.PaymentsCreateCheckout(p.Memberships, logg))
			r.Post("/purchase-share", controllers.PaymentsPurchaseShare(p.Purchases, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.AppRoleFarmer.String(), logg))
				r.Post("/create-connect-account", controllers.PaymentsCreateConnectAccount(p.Onboarding, logg))
				r.Post("/refresh-connect-onboarding", controllers.PaymentsRefreshConnectOnboarding(p.Onboarding, logg))
				r.Post("/check-connect-status", controllers.PaymentsCheckConnectStatus(p.Onboarding, logg))
			})
		})

		r.Post("/farms", controllers.FarmCreate(p.Farms, logg))
		r.Put("/farms/{farmId}", controllers.FarmUpdate(p.Farms, logg))

		r.Route("/farmer", func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.AppRoleFarmer.String(), logg))
			r.Route("/shares", func(r chi.Router) {
				r.Get("/", controllers.FarmerSharesList(p.Shares, logg))
				r.Post("/", controllers.FarmerShareCreate(p.Shares, logg))
				r.Patch("/{shareId}", controllers.FarmerShareUpdate(p.Shares, logg))
				r.Delete("/{shareId}", controllers.FarmerShareDelete(p.Shares, logg))
			})
			r.Route("/purchases", func(r chi.Router) {
				r.Get("/", controllers.FarmerPurchasesList(p.Purchases, logg))
				r.Post("/{purchaseId}/complete", controllers.FarmerPurchaseComplete(p.Purchases, logg))
			})
			r.Get("/waitlist", controllers.FarmerWaitlistList(p.Waitlist, logg))
		})

		r.Route("/buyer", func(r chi.Router) {
			r.Route("/purchases", func(r chi.Router) {
				r.Get("/", controllers.BuyerPurchasesList(p.Purchases, logg))
				r.Post("/{purchaseId}/cancel", controllers.BuyerPurchaseCancel(p.Purchases, logg))
			})
			r.Route("/waitlist", func(r chi.Router) {
				r.Get("/", controllers.BuyerWaitlistMine(p.Waitlist, logg))
				r.Post("/", controllers.BuyerWaitlistJoin(p.Waitlist, logg))
			})
		})

		r.Route("/farmer-requests", func(r chi.Router) {
			r.Post("/", controllers.FarmerRequestCreate(p.FarmerRequests, logg))
			r.Get("/me", controllers.FarmerRequestsMine(p.FarmerRequests, logg))
		})

		r.Get("/memberships/current", controllers.MembershipCurrent(p.Memberships, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(enums.AppRoleAdmin.String(), logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Route("/farmer-requests", func(r chi.Router) {
			r.Get("/", controllers.AdminFarmerRequestsList(p.FarmerRequests, logg))
			r.Post("/{requestId}/review", controllers.AdminFarmerRequestReview(p.FarmerRequests, logg))
		})
	})

	return r
}
