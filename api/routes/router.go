package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/grocerlane/gateway/api/controllers"
	"github.com/grocerlane/gateway/api/middleware"
	"github.com/grocerlane/gateway/internal/auth"
	"github.com/grocerlane/gateway/internal/cart"
	"github.com/grocerlane/gateway/internal/catalog"
	checkoutsvc "github.com/grocerlane/gateway/internal/checkout"
	"github.com/grocerlane/gateway/internal/notify"
	"github.com/grocerlane/gateway/internal/orders"
	"github.com/grocerlane/gateway/pkg/config"
	"github.com/grocerlane/gateway/pkg/logger"
	"github.com/grocerlane/gateway/pkg/metrics"
	"github.com/grocerlane/gateway/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Redis    *redis.Client
	Metrics  *metrics.HTTPMetrics
	Sessions middleware.SessionLoader
	Auth     auth.Service
	Catalog  catalog.Service
	Cart     cart.Service
	Checkout checkoutsvc.Service
	Orders   orders.Service
	Toasts   *notify.Queue
}

func passthrough(next http.Handler) http.Handler { return next }

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.Metrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	readiness := map[string]controllers.Pinger{}
	if deps.Redis != nil {
		readiness["redis"] = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductsList(deps.Catalog, logg))
		r.Get("/{productId}", controllers.ProductsDetail(deps.Catalog, logg))
	})

	loginLimiter := passthrough
	registerLimiter := passthrough
	if deps.Redis != nil {
		loginLimiter = middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)
		registerLimiter = middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(loginLimiter).Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.With(registerLimiter).Post("/register", controllers.AuthRegister(deps.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
			r.Post("/logout", controllers.AuthLogout(deps.Auth, deps.Cart, deps.Toasts, logg))
			r.Get("/me", controllers.AuthProfile(deps.Auth, logg))
			r.Put("/profile", controllers.AuthProfileUpdate(deps.Auth, logg))
			r.Put("/change-password", controllers.AuthChangePassword(deps.Auth, logg))
			r.Put("/deactivate", controllers.AuthDeactivate(deps.Auth, logg))
			r.Put("/restore", controllers.AuthRestore(deps.Auth, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(deps.Cart, logg))
			r.Delete("/", controllers.CartClear(deps.Cart, logg))
			r.Post("/items", controllers.CartAdd(deps.Cart, deps.Toasts, logg))
			r.Put("/items/{productId}", controllers.CartUpdateQuantity(deps.Cart, deps.Toasts, logg))
			r.Delete("/items/{productId}", controllers.CartRemove(deps.Cart, deps.Toasts, logg))
		})

		r.Post("/checkout", controllers.Checkout(deps.Checkout, deps.Toasts, logg))
		r.Get("/orders", controllers.OrdersHistory(deps.Orders, logg))
		r.Get("/notifications", controllers.Notifications(deps.Toasts, logg))
		r.Delete("/notifications/{toastId}", controllers.NotificationDismiss(deps.Toasts, logg))

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin(logg))

			r.Route("/products", func(r chi.Router) {
				r.Post("/", controllers.AdminProductCreate(deps.Catalog, logg))
				r.Post("/bulk-upload", controllers.AdminProductBulkUpload(deps.Catalog, logg))
				r.Put("/{productId}", controllers.AdminProductUpdate(deps.Catalog, logg))
				r.Delete("/{productId}", controllers.AdminProductDelete(deps.Catalog, logg))
			})
			r.Get("/orders", controllers.AdminOrdersList(deps.Orders, logg))
		})
	})

	return r
}
