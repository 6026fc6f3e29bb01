package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/bartoszk747-code/trend/internal/aggregator"
	"github.com/bartoszk747-code/trend/internal/analytics"
	"github.com/bartoszk747-code/trend/internal/config"
	"github.com/bartoszk747-code/trend/internal/handlers"
	"github.com/bartoszk747-code/trend/internal/history"
	"github.com/bartoszk747-code/trend/internal/notify"
	"github.com/bartoszk747-code/trend/internal/services"
	"github.com/bartoszk747-code/trend/internal/sources"
	"github.com/bartoszk747-code/trend/internal/watch"
	"github.com/bartoszk747-code/trend/internal/workers"
	"github.com/bartoszk747-code/trend/pkg/marketplace"
)

func main() {
	// Setup logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().Str("environment", cfg.Environment).Msg("Starting Market Watcher API")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Listing history archive is optional; without it searches still work
	// but trend reports omit the historical average.
	var archive *history.Archive
	if cfg.DatabaseURL != "" {
		archive, err = history.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer archive.Close()

		log.Info().Msg("Running database migrations...")
		if err := archive.Migrate(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}
	}

	// Shared rate limiter for the real Grailed client (optional).
	var grailedLimiter *marketplace.RateLimiter
	if cfg.RedisURL != "" {
		grailedLimiter, err = marketplace.NewRateLimiter(cfg.RedisURL, cfg.GrailedRateLimit, "grailed:rate_limit")
		if err != nil {
			log.Warn().Err(err).Msg("Failed to create Grailed rate limiter, using local limits only")
			grailedLimiter = nil
		} else {
			defer grailedLimiter.Close()
		}
	}

	// Marketplace sources: Grailed talks to the real API, the rest are
	// simulated clients until usable APIs exist for them.
	registry := sources.NewRegistry(
		sources.NewGrailedClient(grailedLimiter),
		sources.NewDepopSource(cfg.SimulatedSeed),
		sources.NewPoshmarkSource(cfg.SimulatedSeed),
		sources.NewMercariUSSource(cfg.SimulatedSeed),
		sources.NewFacebookSource(),
	)

	agg := aggregator.New(registry, cfg.SourceTimeout)
	store := watch.NewStore(agg)

	var avgProvider analytics.AverageProvider
	if archive != nil {
		avgProvider = archive
	}
	analyzer := analytics.NewAnalyzer(store, avgProvider)

	notifier := notify.New(cfg.DiscordWebhookURL, cfg.DiscordBotToken, cfg.DiscordChannelID)

	// Rules live in this process, so the periodic re-evaluation loop runs
	// here too rather than in a separate binary.
	if cfg.WatchPollInterval > 0 {
		watcher := workers.NewWatcher(store, notifier, archive, cfg.WatchPollInterval)
		go watcher.Start(ctx)
	}

	// Initialize handlers
	searchHandler := handlers.NewSearchHandler(agg, registry, cfg.DefaultSearchSize)
	watchHandler := handlers.NewWatchHandler(store, analyzer, services.NewChartService())

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	// CORS
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-CSRF-Token")
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/search", searchHandler.Search)

		r.Route("/watches", func(r chi.Router) {
			r.Post("/", watchHandler.Create)
			r.Get("/", watchHandler.List)
			r.Get("/{id}", watchHandler.Get)
			r.Put("/{id}", watchHandler.Update)
			r.Get("/{id}/matches", watchHandler.Matches)
			r.Post("/{id}/check", watchHandler.Check)
			r.Get("/{id}/trend", watchHandler.Trend)
			r.Get("/{id}/trend/chart.png", watchHandler.TrendChart)
		})
	})

	// Start server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info().Msg("Shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server shutdown error")
		}
		cancel()
	}()

	log.Info().Str("port", cfg.Port).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("Server error")
	}

	log.Info().Msg("Server stopped")
}
