package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mindstream/internal/database"
	"mindstream/internal/handlers"
	"mindstream/internal/indexer"
	"mindstream/internal/logging"
	"mindstream/internal/middleware"
	"mindstream/internal/session"
	"mindstream/internal/startup"

	"github.com/gorilla/mux"
)

func main() {
	startTime := time.Now()

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	// Initialize database
	dbStart := time.Now()
	dbCtx, dbCancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := database.New(dbCtx, config.DatabasePath)
	dbCancel()
	if err != nil {
		startup.LogFatal("Failed to initialize database: %v", err)
	}
	defer db.Close()
	startup.LogDatabaseInit(time.Since(dbStart))

	// Session store with periodic expiry sweep
	sessions := session.NewStore(config.SessionTTL)
	stopSweeper := sessions.StartSweeper(10 * time.Minute)

	// Initialize catalog indexer
	startup.LogCatalogInit(config.CatalogPath, config.WatchCatalog)
	idx := indexer.New(indexer.Config{
		CatalogPath:  config.CatalogPath,
		CatalogURL:   config.CatalogURL,
		FetchTimeout: config.FetchTimeout,
		Watch:        config.WatchCatalog,
		Debounce:     config.ReloadDebounce,
	})

	// Start indexer in background (non-blocking)
	go func() {
		if err := idx.Start(); err != nil {
			logging.Error("Failed to start catalog indexer: %v", err)
		}
	}()
	startup.LogCatalogStarted()

	// Initialize handlers
	h := handlers.New(idx, db, sessions)

	// Setup router
	router := setupRouter(h, config)

	// Log routes dynamically
	startup.LogHTTPRoutes(router, config.LogStaticFiles, config.LogHealthChecks)

	// Apply logging middleware
	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogStaticFiles = config.LogStaticFiles
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	loggedHandler := middleware.Logger(loggingConfig)(router)

	// Apply metrics middleware
	meteredHandler := middleware.Metrics(middleware.DefaultMetricsConfig())(loggedHandler)

	// Apply compression middleware
	handler := middleware.Compression(middleware.DefaultCompressionConfig())(meteredHandler)

	// Create server
	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Metrics are served on their own port so the scrape endpoint is
	// never exposed alongside the application
	var metricsSrv *http.Server
	if config.MetricsEnabled {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", h.MetricsHandler())
		metricsSrv = &http.Server{
			Addr:         ":" + config.MetricsPort,
			Handler:      metricsMux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != http.ErrServerClosed {
				logging.Error("Metrics server error: %v", err)
			}
		}()
	}

	// Start graceful shutdown handler
	go handleShutdown(srv, metricsSrv, idx, stopSweeper)

	// Start server
	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
}

func setupRouter(h *handlers.Handlers, config *startup.Config) *mux.Router {
	r := mux.NewRouter()

	// Health check and version routes
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	// Catalog routes
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/sections", h.Sections).Methods("GET")
	api.HandleFunc("/browse", h.Browse).Methods("GET")
	api.HandleFunc("/search", h.Search).Methods("GET")
	api.HandleFunc("/stats", h.GetStats).Methods("GET")
	api.HandleFunc("/reload", h.Reload).Methods("POST")

	// Session routes
	api.HandleFunc("/session", h.CreateSession).Methods("POST")
	api.HandleFunc("/session/{id}", h.GetSession).Methods("GET")
	api.HandleFunc("/session/{id}/navigate", h.Navigate).Methods("POST")
	api.HandleFunc("/session/{id}/activate", h.Activate).Methods("POST")
	api.HandleFunc("/session/{id}/player", h.PlayerEvent).Methods("POST")

	// Favorites
	api.HandleFunc("/favorites", h.GetFavorites).Methods("GET")
	api.HandleFunc("/favorites", h.AddFavorite).Methods("POST")
	api.HandleFunc("/favorites", h.RemoveFavorite).Methods("DELETE")
	api.HandleFunc("/favorites/check", h.CheckFavorite).Methods("GET")

	// Playback history
	api.HandleFunc("/history", h.GetHistory).Methods("GET")

	// Static files
	r.PathPrefix("/").Handler(http.FileServer(http.Dir(config.StaticDir)))

	return r
}

func handleShutdown(srv, metricsSrv *http.Server, idx *indexer.Indexer, stopSweeper func()) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	startup.LogShutdownStep("Stopping catalog indexer")
	idx.Stop()
	startup.LogShutdownStepComplete("Catalog indexer stopped")

	startup.LogShutdownStep("Stopping session sweeper")
	stopSweeper()
	startup.LogShutdownStepComplete("Session sweeper stopped")

	if metricsSrv != nil {
		startup.LogShutdownStep("Shutting down metrics server")
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	startup.LogShutdownComplete()
}
