package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/beamsway/internal/api"
	"github.com/RMahshie/beamsway/internal/api/handlers"
	"github.com/RMahshie/beamsway/internal/config"
	"github.com/RMahshie/beamsway/internal/observability"
	"github.com/RMahshie/beamsway/internal/processing"
	"github.com/RMahshie/beamsway/internal/repository/postgres"
	"github.com/RMahshie/beamsway/internal/storage"
	"github.com/RMahshie/beamsway/pkg/models"
)

const version = "1.0.0"

func main() {
	// Configure zerolog for structured logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if cfg.Server.Env != "dev" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	if level, err := zerolog.ParseLevel(cfg.Server.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	ctx := context.Background()

	shutdownTracing, err := observability.InitTracing(ctx, cfg.Tracing)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize tracing")
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing)

	// Database
	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	if err := db.PingContext(pingCtx); err != nil {
		cancel()
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	if err := postgres.Migrate(pingCtx, db); err != nil {
		cancel()
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}
	cancel()

	// Artifact storage is optional
	var store storage.ArtifactStore
	if cfg.Storage.Bucket != "" {
		store, err = storage.New(ctx, cfg.Storage)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize artifact storage")
		}
		log.Info().Str("backend", cfg.Storage.Backend).Str("bucket", cfg.Storage.Bucket).Msg("Artifact storage enabled")
	} else {
		log.Warn().Msg("S3_BUCKET not set, sweeps will not publish artifacts")
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := observability.NewSweepCollector(registry)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to register metrics")
	}

	// Services and handlers
	base := cfg.Simulation()
	sweepRepo := postgres.NewPostgresSweepRepository(db)
	processingSvc := processing.NewProcessingService(store, sweepRepo, processing.Options{
		Base:    base,
		Workers: cfg.Processing.Workers,
		Timeout: cfg.Processing.Timeout,
		Metrics: metrics,
	})
	// Canceled on shutdown so running sweeps are marked failed instead of
	// being left in processing
	sweepCtx, cancelSweeps := context.WithCancel(context.Background())
	defer cancelSweeps()
	sweepHandler := handlers.NewSweepHandler(sweepRepo, store, processingSvc, base,
		handlers.WithSweepContext(sweepCtx))
	simHandler := handlers.NewSimulationHandler(base)

	// Create Chi router
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(zerologLogger())
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(metrics.Middleware)
	router.Use(middleware.Compress(5))

	router.Handle("/metrics", metrics.Handler())

	// Create Huma API
	humaConfig := huma.DefaultConfig("Beamsway API", version)
	humaConfig.DocsPath = "/api/docs"
	humaAPI := humachi.New(router, humaConfig)

	huma.Register(humaAPI, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns the health status of the service",
	}, func(ctx context.Context, input *struct{}) (*models.HealthResponse, error) {
		resp := &models.HealthResponse{}
		resp.Body.Status = "healthy"
		if err := db.PingContext(ctx); err != nil {
			resp.Body.Status = "degraded"
		}
		resp.Body.Version = version
		resp.Body.Time = time.Now()
		return resp, nil
	})

	api.RegisterRoutes(humaAPI, sweepHandler, simHandler)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Str("addr", srv.Addr).Str("environment", cfg.Server.Env).Msg("Starting Beamsway API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Canceling running sweeps...")
	cancelSweeps()
	sweepHandler.Wait()

	log.Info().Msg("Server exited")
}

// zerologLogger returns a Chi middleware that logs HTTP requests using zerolog
func zerologLogger() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				log.Info().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Str("request_id", middleware.GetReqID(r.Context())).
					Int("status", ww.Status()).
					Dur("latency", time.Since(start)).
					Msg("HTTP request")
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
