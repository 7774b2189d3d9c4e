package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/merchpulse/merchpulse-backend/api/controllers"
	"github.com/merchpulse/merchpulse-backend/api/middleware"
	"github.com/merchpulse/merchpulse-backend/internal/alerts"
	"github.com/merchpulse/merchpulse-backend/internal/assistant"
	"github.com/merchpulse/merchpulse-backend/internal/recommend"
	"github.com/merchpulse/merchpulse-backend/internal/sellers"
	"github.com/merchpulse/merchpulse-backend/internal/view"
	"github.com/merchpulse/merchpulse-backend/pkg/config"
	"github.com/merchpulse/merchpulse-backend/pkg/logger"
	"github.com/merchpulse/merchpulse-backend/pkg/metrics"
)

// Dependencies bundles everything the router wires into handlers.
type Dependencies struct {
	Config           *config.Config
	Logger           *logger.Logger
	ViewBuilder      *view.Builder
	RecommendService *recommend.Service
	AlertService     *alerts.Service
	AssistantService *assistant.Service
	SellerService    *sellers.Service
	RequestMetrics   *metrics.RequestMetrics
	Registry         *prometheus.Registry
	ReadinessChecks  map[string]controllers.Pinger
}

func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(deps.Logger),
		middleware.RequestID(deps.Logger),
		middleware.Logging(deps.Logger),
	)
	if deps.RequestMetrics != nil {
		r.Use(middleware.Metrics(deps.RequestMetrics))
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(deps.Config))
		r.Get("/ready", controllers.HealthReady(deps.Config, deps.Logger, deps.ReadinessChecks))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/merchants/{merchantID}", func(r chi.Router) {
			r.Get("/metrics", controllers.MerchantMetrics(deps.ViewBuilder, deps.Logger))
			r.Get("/recommendations", controllers.MerchantRecommendations(deps.RecommendService, deps.Logger))
			r.Get("/alerts", controllers.MerchantAlerts(deps.AlertService, deps.Logger))
			r.Post("/assistant", controllers.AskAssistant(deps.AssistantService, deps.Logger))
			r.Get("/assistant/history", controllers.AssistantHistory(deps.AssistantService, deps.Logger))
		})

		r.Route("/sellers", func(r chi.Router) {
			r.Get("/", controllers.ListSellers(deps.SellerService, deps.Logger))
			r.Post("/", controllers.CreateSeller(deps.SellerService, deps.Logger))
			r.Get("/{sellerID}/anomalies", controllers.ListAnomalies(deps.SellerService, deps.Logger))
		})

		r.Route("/anomalies", func(r chi.Router) {
			r.Post("/", controllers.CreateAnomaly(deps.SellerService, deps.Logger))
			r.Post("/{anomalyID}/resolve", controllers.ResolveAnomaly(deps.SellerService, deps.Logger))
		})
	})

	return r
}
