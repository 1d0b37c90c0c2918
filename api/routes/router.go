package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/provenly/custody-backend/api/controllers"
	"github.com/provenly/custody-backend/api/middleware"
	"github.com/provenly/custody-backend/internal/events"
	"github.com/provenly/custody-backend/internal/ledger"
	"github.com/provenly/custody-backend/internal/products"
	"github.com/provenly/custody-backend/internal/registry"
	"github.com/provenly/custody-backend/pkg/config"
	"github.com/provenly/custody-backend/pkg/logger"
	redispkg "github.com/provenly/custody-backend/pkg/redis"
)

// Deps bundles everything the router wires together.
type Deps struct {
	Config          *config.Config
	Logger          *logger.Logger
	Redis           *redispkg.Client
	ProductsService products.Service
	RegistryService registry.Service
	LedgerService   ledger.Service
	EventLog        *events.Log
	MetricsGatherer prometheus.Gatherer
}

// NewRouter assembles the HTTP surface.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	pingers := map[string]controllers.Pinger{}
	if deps.Redis != nil {
		pingers["redis"] = deps.Redis
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, pingers))
	})

	if deps.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.MetricsGatherer, promhttp.HandlerOpts{}))
	}

	// Audit trail and read models carry no secrets; no auth required.
	r.Route("/api/public/v1", func(r chi.Router) {
		r.Get("/events", controllers.ListEvents(deps.EventLog, logg))
		r.Get("/products", controllers.ListProducts(deps.ProductsService, logg))
		r.Get("/products/{id}", controllers.GetProduct(deps.ProductsService, logg))
		r.Get("/registry/principals", controllers.DescribePrincipal(deps.RegistryService, logg))
		r.Get("/ledger/balance", controllers.GetBalance(deps.LedgerService, logg))
	})

	if !cfg.App.IsProd() {
		mintPolicy := middleware.NewRateLimitPolicy("token_mint", cfg.MintLimit.Window, cfg.MintLimit.IPLimit)
		r.Route("/api/v1/auth", func(r chi.Router) {
			if deps.Redis != nil {
				r.Use(middleware.RateLimit(mintPolicy, deps.Redis, logg))
			}
			r.Post("/token", controllers.MintAccessToken(cfg.JWT, logg))
		})
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.CreateProduct(deps.ProductsService, logg))
			r.Post("/{id}/pay", controllers.PayForProduct(deps.ProductsService, logg))
			r.Post("/{id}/ship", controllers.ShipProduct(deps.ProductsService, logg))
			r.Post("/{id}/receive", controllers.ReceiveProduct(deps.ProductsService, logg))
			r.Post("/{id}/disputes", controllers.RaiseDispute(deps.ProductsService, logg))
			r.Delete("/{id}/disputes", controllers.ResolveDispute(deps.ProductsService, logg))
		})

		r.Route("/registry", func(r chi.Router) {
			r.Post("/roles", controllers.GrantRole(deps.RegistryService, logg))
			r.Delete("/roles", controllers.RevokeRole(deps.RegistryService, logg))
			r.Post("/verify", controllers.VerifyUser(deps.RegistryService, logg))
		})

		r.Post("/ledger/mint", controllers.MintTokens(deps.LedgerService, logg))
	})

	return r
}
