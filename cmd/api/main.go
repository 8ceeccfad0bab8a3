// Package main implements the merchguard API server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/merchguard/merchguard/engine/analysis"
	"github.com/merchguard/merchguard/engine/classify"
	"github.com/merchguard/merchguard/engine/fetch"
	"github.com/merchguard/merchguard/engine/preview"
	"github.com/merchguard/merchguard/engine/resolve"
	"github.com/merchguard/merchguard/pkg/events"
	"github.com/merchguard/merchguard/pkg/gemini"
	"github.com/merchguard/merchguard/pkg/metrics"
	"github.com/merchguard/merchguard/pkg/mid"
	"github.com/merchguard/merchguard/pkg/repo"
	"golang.org/x/time/rate"
)

// Config holds all environment-based configuration.
type Config struct {
	Port          string
	GeminiAPIKey  string
	GeminiModel   string
	Temperature   float64
	ThresholdHigh float64
	ThresholdLow  float64
	ModelDir      string
	DatabaseURL   string
	NATSURL       string
	TwitterToken  string
	CORSOrigin    string
	RateLimit     float64
}

func loadConfig() Config {
	defaults := analysis.DefaultOptions()
	return Config{
		Port:          envOr("PORT", "8080"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   envOr("GEMINI_MODEL", defaults.Model),
		Temperature:   envFloat("GEMINI_TEMPERATURE", float64(defaults.Temperature)),
		ThresholdHigh: envFloat("CLASSIFIER_THRESHOLD_HIGH", defaults.ThresholdHigh),
		ThresholdLow:  envFloat("CLASSIFIER_THRESHOLD_LOW", defaults.ThresholdLow),
		ModelDir:      os.Getenv("MODEL_DIR"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		NATSURL:       os.Getenv("NATS_URL"),
		TwitterToken:  os.Getenv("TWITTER_BEARER_TOKEN"),
		CORSOrigin:    envOr("CORS_ORIGIN", "*"),
		RateLimit:     envFloat("RATE_LIMIT_RPS", 5),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	_ = godotenv.Load()
	cfg := loadConfig()

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Generative model client ---
	model, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, float32(cfg.Temperature), logger)
	if err != nil {
		return fmt.Errorf("gemini client: %w", err)
	}

	// --- Content sources and resolver ---
	twitter := fetch.NewTwitterClient(cfg.TwitterToken)
	reddit := fetch.NewRedditClient()
	resolver := resolve.New(logger, twitter, reddit)

	// --- Statistical classifier, when artifacts are deployed ---
	var classifier *classify.Classifier
	if cfg.ModelDir != "" {
		classifier = classify.New(cfg.ModelDir, logger)
	} else {
		logger.Info("no model dir configured, running without the statistical classifier")
	}

	opts := analysis.DefaultOptions()
	opts.Model = cfg.GeminiModel
	opts.Temperature = float32(cfg.Temperature)
	opts.ThresholdHigh = cfg.ThresholdHigh
	opts.ThresholdLow = cfg.ThresholdLow

	analyzer, err := analysis.New(model, resolver, classifier, opts, logger)
	if err != nil {
		return fmt.Errorf("analysis service: %w", err)
	}

	previews, err := preview.New(twitter, reddit, logger)
	if err != nil {
		return fmt.Errorf("preview service: %w", err)
	}

	// --- Check store ---
	var store repo.Store
	if cfg.DatabaseURL != "" {
		pg, err := repo.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("postgres store: %w", err)
		}
		defer pg.Close()
		store = pg
	} else {
		logger.Info("no database configured, using in-memory store")
		store = repo.NewMemoryStore()
	}

	// --- Event publisher ---
	var publisher *events.Publisher
	if cfg.NATSURL != "" {
		publisher, err = events.NewPublisher(cfg.NATSURL)
		if err != nil {
			return fmt.Errorf("nats connect: %w", err)
		}
		defer publisher.Close()
	}

	// --- Build HTTP server ---
	registry := metrics.New()
	api := newAPI(analyzer, previews, store, publisher, registry, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", api.handleHealth)
	mux.HandleFunc("POST /api/checks", api.handleCreateCheck)
	mux.HandleFunc("GET /api/checks", api.handleListChecks)
	mux.HandleFunc("GET /api/checks/{id}", api.handleGetCheck)
	mux.HandleFunc("POST /api/preview", api.handlePreview)
	mux.Handle("GET /metrics", registry.Handler())

	handler := mid.Chain(mux,
		mid.Recover(logger),
		mid.RequestID(),
		mid.Logger(logger),
		mid.OTel("merchguard-api"),
		mid.CORS(cfg.CORSOrigin),
		mid.RateLimit(rate.NewLimiter(rate.Limit(cfg.RateLimit), int(cfg.RateLimit)*2+1)),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// --- Graceful shutdown ---
	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "port", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}
