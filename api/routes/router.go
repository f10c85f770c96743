package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/b2b-quotes/api/controllers"
	"github.com/angelmondragon/b2b-quotes/api/middleware"
	"github.com/angelmondragon/b2b-quotes/internal/quotes"
	"github.com/angelmondragon/b2b-quotes/pkg/config"
	"github.com/angelmondragon/b2b-quotes/pkg/logger"
	"github.com/angelmondragon/b2b-quotes/pkg/metrics"
)

// Dependencies are the services and probes the router serves.
type Dependencies struct {
	Quotes      quotes.Service
	Notifier    controllers.QuoteNotifier
	Checks      map[string]controllers.Pinger
	Gatherer    prometheus.Gatherer
	HTTPMetrics *metrics.HTTPMetrics
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Checks))
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/seller/quotes", func(r chi.Router) {
		r.Use(middleware.Metrics(deps.HTTPMetrics))

		r.Route("/events", func(r chi.Router) {
			r.Post("/created", controllers.QuoteCreatedHook(deps.Notifier, logg))
			r.Post("/updated", controllers.QuoteUpdatedHook(deps.Notifier, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.SellerContext(logg))
			r.Get("/", controllers.SellerQuotesList(deps.Quotes, logg))
			r.Get("/{quoteId}", controllers.SellerQuoteDetail(deps.Quotes, logg))
		})
	})

	return r
}
