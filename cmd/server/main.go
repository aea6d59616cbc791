package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sherpa-wfm/backend/internal/api"
	"github.com/sherpa-wfm/backend/internal/broadcast"
	"github.com/sherpa-wfm/backend/internal/cache"
	"github.com/sherpa-wfm/backend/internal/config"
	"github.com/sherpa-wfm/backend/internal/metrics"
	"github.com/sherpa-wfm/backend/internal/storage"
	"github.com/sherpa-wfm/backend/internal/websocket"
	"github.com/sherpa-wfm/backend/pkg/middleware"
)

func main() {
	// Configure logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Set log level
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("invalid log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Str("log_level", cfg.LogLevel).
		Msg("starting sherpa backend server")

	// Create agent store
	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer initCancel()

	store, err := storage.NewStore(initCtx, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create agent store")
	}

	// Create agent cache and warm it from the store
	agentCache := cache.NewAgentCache()

	agents, err := store.ListAgents(initCtx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load agents from store")
	}
	agentCache.ReplaceAll(agents)
	log.Info().Int("agents", len(agents)).Msg("agent cache loaded")

	// Create WebSocket hub
	hub := websocket.NewHub(log.Logger)
	go hub.Run()

	// Create context for services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create snapshot broadcaster
	broadcaster := broadcast.NewBroadcaster(agentCache, hub, cfg.BroadcastInterval, log.Logger)
	go broadcaster.Start(ctx)

	// Create handlers
	wsHandler := websocket.NewHandler(hub, cfg, log.Logger)
	agentsHandler := api.NewAgentsHandler(store, agentCache, log.Logger)
	plannerHandler := api.NewPlannerHandler(store, agentCache, log.Logger)
	exportHandler := api.NewExportHandler(agentCache, log.Logger)

	// Create router
	r := chi.NewRouter()

	// Add middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// Register routes
	r.Get("/health", healthHandler)
	r.Get("/metrics", metrics.Get().Handler())
	r.Get("/ws", wsHandler.ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Route("/agents", func(r chi.Router) {
			r.Get("/", agentsHandler.ListAgents)
			r.Post("/", agentsHandler.CreateAgent)
			r.Get("/{id}", agentsHandler.GetAgent)
			r.Patch("/{id}", agentsHandler.UpdateAgent)
			r.Delete("/{id}", agentsHandler.DeleteAgent)
		})

		r.Route("/planner", func(r chi.Router) {
			r.Get("/stats", plannerHandler.GetStats)
			r.Get("/range", plannerHandler.GetRange)
			r.Get("/alerts", plannerHandler.GetAlerts)
			r.Post("/bulk-edit", plannerHandler.BulkEdit)
			r.Get("/export", exportHandler.ExportCSV)
		})
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Msgf("server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Stop the broadcaster
	cancel()

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// healthHandler handles health check requests
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ok","service":"sherpa-backend"}`)
}
