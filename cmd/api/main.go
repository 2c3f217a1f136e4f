package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	deliveryHTTP "github.com/armadatrack/armada/internal/delivery/http"
	"github.com/armadatrack/armada/internal/infrastructure/genai"
	pgGateway "github.com/armadatrack/armada/internal/infrastructure/postgres"
	"github.com/armadatrack/armada/internal/infrastructure/sheets"
	"github.com/armadatrack/armada/internal/pkg/config"
	"github.com/armadatrack/armada/internal/pkg/database"
	"github.com/armadatrack/armada/internal/pkg/logger"
	"github.com/armadatrack/armada/internal/pkg/redis"
	"github.com/armadatrack/armada/internal/pkg/session"
	"github.com/armadatrack/armada/internal/repository/sheetstore"
	"github.com/armadatrack/armada/internal/usecase/directory"
	"github.com/armadatrack/armada/internal/usecase/report"
	"github.com/armadatrack/armada/internal/usecase/trip"
)

func main() {
	// =========================================================================
	// Load configuration
	// =========================================================================

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// =========================================================================
	// Initialize logger
	// =========================================================================

	log := logger.New(cfg.Logger.Level, cfg.Logger.Format, cfg.Logger.Output)
	log.Info("Starting Armada API server", map[string]interface{}{
		"version": "1.0.0",
		"driver":  cfg.Sheets.Driver,
	})

	ctx := context.Background()

	// =========================================================================
	// Select the persistence gateway
	// =========================================================================

	var gateway sheets.Gateway

	switch cfg.Sheets.Driver {
	case "postgres":
		db, err := database.Connect(ctx, &cfg.Database)
		if err != nil {
			log.Fatal("Failed to connect to database", map[string]interface{}{
				"error": err.Error(),
			})
		}
		defer database.Close(db)

		pg := pgGateway.NewGateway(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Fatal("Failed to prepare database schema", map[string]interface{}{
				"error": err.Error(),
			})
		}
		gateway = pg

		log.Info("Connected to PostgreSQL", map[string]interface{}{
			"host":     cfg.Database.Host,
			"port":     cfg.Database.Port,
			"database": cfg.Database.Database,
		})

	default:
		gateway = sheets.NewHTTPGateway(cfg.Sheets.ScriptURL, cfg.Sheets.Timeout)

		log.Info("Using spreadsheet web-app gateway", map[string]interface{}{
			"timeout": cfg.Sheets.Timeout.String(),
		})
	}

	// =========================================================================
	// Load the in-memory snapshot
	// =========================================================================

	store := sheetstore.New(gateway, log)
	if err := store.Load(ctx); err != nil {
		log.Fatal("Failed to load data snapshot", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if store.InitialSetup() {
		log.Warn("No users found, bootstrap admin is active", map[string]interface{}{
			"username": sheetstore.BootstrapAdminUsername,
		})
	}

	vehicleRepo := store.Vehicles()
	mutationRepo := store.Mutations()
	userRepo := store.Users()

	log.Info("Repositories initialized")

	// =========================================================================
	// Create the session store
	// =========================================================================

	var sessions session.Store

	cache, err := redis.NewClient(ctx, &redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis is not available, sessions will not survive restarts", map[string]interface{}{
			"error": err.Error(),
		})
		sessions = session.NewMemoryStore()
	} else {
		defer cache.Close()
		sessions = session.NewRedisStore(cache)

		log.Info("Connected to Redis", map[string]interface{}{
			"host": cfg.Redis.Host,
			"port": cfg.Redis.Port,
		})
	}

	// =========================================================================
	// Create the text generation client
	// =========================================================================

	notesClient := genai.NewHTTPClient(
		cfg.GenAI.BaseURL,
		cfg.GenAI.APIKey,
		cfg.GenAI.Model,
		cfg.GenAI.Timeout,
	)

	if cfg.GenAI.APIKey == "" {
		log.Warn("GenAI API key is empty, trip notes will fall back to the fixed text")
	}

	// =========================================================================
	// Create use case services
	// =========================================================================

	tripService := trip.NewService(vehicleRepo, mutationRepo, notesClient, log)
	directoryService := directory.NewService(userRepo, sessions, log)
	reportService := report.NewService(vehicleRepo, mutationRepo, cfg.App.ReportBaseURL, log)

	log.Info("Use case services initialized")

	// =========================================================================
	// Create HTTP handlers
	// =========================================================================

	authHandler := deliveryHTTP.NewAuthHandler(directoryService, log)
	vehicleHandler := deliveryHTTP.NewVehicleHandler(tripService, log)
	tripHandler := deliveryHTTP.NewTripHandler(tripService, log)
	userHandler := deliveryHTTP.NewUserHandler(directoryService, log)
	reportHandler := deliveryHTTP.NewReportHandler(reportService, store, log)

	log.Info("HTTP handlers initialized")

	// =========================================================================
	// Create and set up the HTTP router
	// =========================================================================

	router := deliveryHTTP.NewRouter(
		authHandler,
		vehicleHandler,
		tripHandler,
		userHandler,
		reportHandler,
		sessions,
		cfg,
		log,
	)

	handler := router.Setup()

	log.Info("HTTP router configured")

	// =========================================================================
	// Create the HTTP server
	// =========================================================================

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// =========================================================================
	// Start the server in a goroutine
	// =========================================================================

	serverErrors := make(chan error, 1)

	go func() {
		log.Info("API server listening", map[string]interface{}{
			"address": srv.Addr,
		})
		serverErrors <- srv.ListenAndServe()
	}()

	// =========================================================================
	// Graceful shutdown
	// =========================================================================

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Fatal("Server error", map[string]interface{}{
			"error": err.Error(),
		})

	case sig := <-shutdown:
		log.Info("Shutdown signal received", map[string]interface{}{
			"signal": sig.String(),
		})

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Graceful shutdown failed", map[string]interface{}{
				"error": err.Error(),
			})

			if err := srv.Close(); err != nil {
				log.Fatal("Failed to close server", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}

		log.Info("Server stopped gracefully")
	}
}
