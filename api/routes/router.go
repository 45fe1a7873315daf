package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storefront-cart/api/controllers"
	cartcontrollers "github.com/angelmondragon/storefront-cart/api/controllers/cart"
	"github.com/angelmondragon/storefront-cart/api/middleware"
	product "github.com/angelmondragon/storefront-cart/internal/products"
	"github.com/angelmondragon/storefront-cart/pkg/config"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
)

// Dependencies are the collaborators the router mounts. DB and Redis are only
// probed by the readiness check when set.
type Dependencies struct {
	DB       controllers.Pinger
	Redis    controllers.Pinger
	Sessions middleware.CartSessions
	Products product.Service
	Gatherer prometheus.Gatherer
}

// NewRouter wires the storefront HTTP surface.
func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins, cfg.Cart.SessionHeader),
	)

	ready := map[string]controllers.Pinger{}
	if deps.DB != nil {
		ready["db"] = deps.DB
	}
	if deps.Redis != nil {
		ready["redis"] = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, ready))
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(middleware.CartSession(deps.Sessions, cfg.Cart.SessionHeader, cfg.Cart.MaxSessionIDLen, logg))

		r.Get("/", cartcontrollers.CartFetch(logg))
		r.Post("/items", cartcontrollers.CartAddItem(deps.Products, logg))
		r.Delete("/items/{productId}", cartcontrollers.CartRemoveItem(logg))
		r.Patch("/items/{productId}", cartcontrollers.CartUpdateQuantity(logg))
		r.Post("/open", cartcontrollers.CartOpen(logg))
		r.Post("/close", cartcontrollers.CartClose(logg))
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(deps.Products, logg))
		r.Get("/{productId}", controllers.ProductGet(deps.Products, logg))
		r.Post("/{productId}/resolve", controllers.ProductResolve(deps.Products, logg))
		r.Put("/{productId}", controllers.ProductUpsert(deps.Products, logg))
	})

	return r
}
