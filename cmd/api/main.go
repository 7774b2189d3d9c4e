package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/merchpulse/merchpulse-backend/api/controllers"
	"github.com/merchpulse/merchpulse-backend/api/routes"
	"github.com/merchpulse/merchpulse-backend/internal/alerts"
	"github.com/merchpulse/merchpulse-backend/internal/assistant"
	"github.com/merchpulse/merchpulse-backend/internal/dataset"
	"github.com/merchpulse/merchpulse-backend/internal/recommend"
	"github.com/merchpulse/merchpulse-backend/internal/sellers"
	"github.com/merchpulse/merchpulse-backend/internal/view"
	"github.com/merchpulse/merchpulse-backend/pkg/config"
	"github.com/merchpulse/merchpulse-backend/pkg/db"
	"github.com/merchpulse/merchpulse-backend/pkg/db/models"
	"github.com/merchpulse/merchpulse-backend/pkg/embedder"
	"github.com/merchpulse/merchpulse-backend/pkg/gemini"
	"github.com/merchpulse/merchpulse-backend/pkg/logger"
	"github.com/merchpulse/merchpulse-backend/pkg/metrics"
	"github.com/merchpulse/merchpulse-backend/pkg/redis"
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

	ctx := context.Background()

	store, err := dataset.NewLoader(cfg.Dataset, logg).Load(ctx)
	if err != nil {
		logg.Error(ctx, "failed to load dataset", err)
		os.Exit(1)
	}

	encoderClient, err := embedder.NewClient(cfg.Embedder.BaseURL, embedder.WithTimeout(cfg.Embedder.Timeout))
	if err != nil {
		logg.Error(ctx, "failed to create embedder client", err)
		os.Exit(1)
	}

	// The keyword corpus is embedded exactly once per process lifetime.
	// Refreshing the corpus means restarting the service.
	corpus, err := recommend.BuildCorpus(ctx, encoderClient, store.Keywords())
	if err != nil {
		logg.Error(ctx, "failed to build keyword corpus", err)
		os.Exit(1)
	}
	logg.Info(logg.WithField(ctx, "keywords", corpus.Len()), "keyword corpus ready")

	viewBuilder := view.NewBuilder(store, logg)

	recommendService, err := recommend.NewService(store, corpus, encoderClient, logg)
	if err != nil {
		logg.Error(ctx, "failed to create recommendation service", err)
		os.Exit(1)
	}

	alertService, err := alerts.NewService(viewBuilder, logg)
	if err != nil {
		logg.Error(ctx, "failed to create alert service", err)
		os.Exit(1)
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	if cfg.DB.AutoMigrate {
		if err := dbClient.DB().AutoMigrate(&models.SellerProfile{}, &models.Anomaly{}); err != nil {
			logg.Error(ctx, "failed to run auto-migration", err)
			os.Exit(1)
		}
	}

	sellerService, err := sellers.NewService(sellers.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(ctx, "failed to create seller service", err)
		os.Exit(1)
	}

	readiness := map[string]controllers.Pinger{
		"database": dbClient,
		"embedder": encoderClient,
	}

	var redisClient *redis.Client
	if cfg.Redis.URL != "" || cfg.Redis.Address != "" {
		redisClient, err = redis.New(ctx, cfg.Redis)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(ctx, "error closing redis", err)
			}
		}()
		readiness["redis"] = redisClient
	} else {
		logg.Warn(ctx, "redis not configured, assistant history disabled")
	}

	var assistantService *assistant.Service
	if cfg.Gemini.APIKey != "" {
		geminiClient, err := gemini.NewClient(cfg.Gemini.APIKey,
			gemini.WithModel(cfg.Gemini.Model),
			gemini.WithBaseURL(cfg.Gemini.BaseURL),
			gemini.WithTimeout(cfg.Gemini.Timeout),
		)
		if err != nil {
			logg.Error(ctx, "failed to create gemini client", err)
			os.Exit(1)
		}
		var history assistant.HistoryStore
		if redisClient != nil {
			history = redisClient
		}
		assistantService, err = assistant.NewService(viewBuilder, geminiClient, history, logg)
		if err != nil {
			logg.Error(ctx, "failed to create assistant service", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(ctx, "gemini api key not set, assistant disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	requestMetrics := metrics.NewRequestMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Dependencies{
			Config:           cfg,
			Logger:           logg,
			ViewBuilder:      viewBuilder,
			RecommendService: recommendService,
			AlertService:     alertService,
			AssistantService: assistantService,
			SellerService:    sellerService,
			RequestMetrics:   requestMetrics,
			Registry:         registry,
			ReadinessChecks:  readiness,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
