package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rbeltranc/stitchmarket-backend/api/controllers"
	webhookcontrollers "github.com/rbeltranc/stitchmarket-backend/api/controllers/webhooks"
	"github.com/rbeltranc/stitchmarket-backend/api/middleware"
	"github.com/rbeltranc/stitchmarket-backend/internal/cart"
	checkoutsvc "github.com/rbeltranc/stitchmarket-backend/internal/checkout"
	"github.com/rbeltranc/stitchmarket-backend/internal/ledger"
	"github.com/rbeltranc/stitchmarket-backend/internal/orders"
	"github.com/rbeltranc/stitchmarket-backend/internal/payments"
	"github.com/rbeltranc/stitchmarket-backend/pkg/config"
	"github.com/rbeltranc/stitchmarket-backend/pkg/db"
	"github.com/rbeltranc/stitchmarket-backend/pkg/enums"
	"github.com/rbeltranc/stitchmarket-backend/pkg/gateway"
	"github.com/rbeltranc/stitchmarket-backend/pkg/logger"
	"github.com/rbeltranc/stitchmarket-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	gatewayClient *gateway.Client,
	registry *prometheus.Registry,
	cartService cart.Service,
	cartReconciler *cart.Reconciler,
	checkoutService checkoutsvc.Service,
	ordersService orders.Service,
	paymentsService payments.Service,
	paymentsGuard *payments.IdempotencyGuard,
	ledgerService ledger.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbClient, redisClient, logg))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/payment", webhookcontrollers.PaymentWebhook(paymentsService, gatewayClient, paymentsGuard, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.ResolveActor(cfg.JWT, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireActor(logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartList(cartService, logg))
				r.Post("/items", controllers.CartAddItem(cartService, logg))
				r.Delete("/items/{itemId}", controllers.CartRemoveItem(cartService, logg))
				r.With(middleware.RequireAuth(logg)).Post("/merge", controllers.CartMerge(cartReconciler, cartService, logg))
			})

			r.Post("/checkout", controllers.CheckoutCreate(checkoutService, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/{orderId}", controllers.OrderGet(ordersService, logg))
				r.Post("/{orderId}/pay", controllers.OrderPay(paymentsService, ordersService, logg))
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(logg))
			r.Get("/artists/me/earnings", controllers.ArtistEarnings(ledgerService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.ResolveActor(cfg.JWT, logg))
		r.Use(middleware.RequireAuth(logg))
		r.Use(middleware.RequireRole(enums.MemberRoleAdmin, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrdersList(ordersService, logg))
			r.Get("/stats", controllers.AdminOrdersStats(ordersService, logg))
			r.Patch("/{orderId}/status", controllers.AdminOrderUpdateStatus(ordersService, logg))
			r.Patch("/{orderId}/tracking", controllers.AdminOrderUpdateTracking(ordersService, logg))
		})
	})

	return r
}
