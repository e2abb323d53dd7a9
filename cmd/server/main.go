package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abhishektang/WeatherWise/internal/config"
	"github.com/abhishektang/WeatherWise/internal/handlers"
	"github.com/abhishektang/WeatherWise/internal/provider"
	"github.com/abhishektang/WeatherWise/internal/repository"
	"github.com/abhishektang/WeatherWise/internal/services"
	"github.com/abhishektang/WeatherWise/pkg/database"
	"github.com/abhishektang/WeatherWise/pkg/logging"
	"github.com/abhishektang/WeatherWise/pkg/metrics"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := logging.NewStructuredLogger("weatherwise-api", "1.0.0", logging.ParseLevel(cfg.Logging.Level))

	ctx := context.Background()
	logger.Info(ctx, "[STARTUP] Starting WeatherWise API server", logging.Fields{
		"version":     "1.0.0",
		"server_host": cfg.Server.Host,
		"server_port": cfg.Server.Port,
		"db_host":     cfg.Database.Host,
		"db_name":     cfg.Database.Database,
	})

	// Initialize metrics collector
	metricsCollector := metrics.NewCollector("weatherwise")

	// Initialize database
	dbConfig := &database.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	}

	db, err := database.NewPostgresDB(dbConfig, logger, metricsCollector)
	if err != nil {
		logger.Fatal(ctx, "[STARTUP_ERROR] Failed to connect to database", logging.Fields{}, err)
	}
	defer db.Close()

	// Initialize repositories
	favoritesRepo := repository.NewFavoritesRepository(db, logger)
	cacheRepo := repository.NewCacheRepository(db, logger)
	settingsRepo := repository.NewSettingsRepository(db, logger)
	historyRepo := repository.NewSearchHistoryRepository(db, logger)

	// Initialize provider client
	weatherClient := provider.NewClient(provider.Config{
		ForecastURL:         cfg.Provider.ForecastURL,
		GeocodingURL:        cfg.Provider.GeocodingURL,
		ReverseGeocodingURL: cfg.Provider.ReverseGeocodingURL,
		Timeout:             cfg.Provider.Timeout,
	}, logger, metricsCollector)

	// Initialize services
	cacheService := services.NewCacheService(cacheRepo, settingsRepo, logger, metricsCollector)
	weatherService := services.NewWeatherService(weatherClient, cacheService, favoritesRepo, historyRepo, logger, metricsCollector)
	favoritesService := services.NewFavoritesService(favoritesRepo, logger)

	// Start the background favorites refresh when enabled
	var refreshService *services.RefreshService
	if cfg.Refresh.Enabled {
		refreshService = services.NewRefreshService(weatherService, favoritesRepo, cfg.Refresh.Schedule, logger, metricsCollector)
		if err := refreshService.Start(); err != nil {
			logger.Fatal(ctx, "[STARTUP_ERROR] Failed to start favorites refresh", logging.Fields{
				"schedule": cfg.Refresh.Schedule,
			}, err)
		}
	}

	// Initialize handlers
	weatherHandler := handlers.NewWeatherHandler(weatherService, logger, metricsCollector)
	favoritesHandler := handlers.NewFavoritesHandler(favoritesService, logger, metricsCollector)

	// Setup router
	router := mux.NewRouter()

	// Register routes
	weatherHandler.RegisterRoutes(router)
	favoritesHandler.RegisterRoutes(router)

	// API documentation
	router.HandleFunc("/api/docs/openapi.json", handlers.OpenAPISpec).Methods("GET")
	router.HandleFunc("/api/docs", handlers.SwaggerUI).Methods("GET")

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info(ctx, "[SERVER_START] HTTP server listening", logging.Fields{
			"address": server.Addr,
		})

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal(ctx, "[SERVER_ERROR] Server failed", logging.Fields{}, err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info(ctx, "[SHUTDOWN] Shutting down server...", logging.Fields{})

	if refreshService != nil {
		refreshService.Stop()
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "[SHUTDOWN_ERROR] Server forced to shutdown", logging.Fields{}, err)
	}

	logger.Info(ctx, "[SHUTDOWN_COMPLETE] Server stopped", logging.Fields{})
}
