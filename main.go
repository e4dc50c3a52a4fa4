package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/isdelr/event-graph-be/internal/api"
	"github.com/isdelr/event-graph-be/internal/api/handlers"
	"github.com/isdelr/event-graph-be/internal/auth"
	"github.com/isdelr/event-graph-be/internal/config"
	"github.com/isdelr/event-graph-be/internal/database"
	"github.com/isdelr/event-graph-be/internal/graph"
	"github.com/isdelr/event-graph-be/internal/logger"
	"github.com/isdelr/event-graph-be/internal/metrics"
	"github.com/isdelr/event-graph-be/internal/monitoring"
	"github.com/isdelr/event-graph-be/internal/services"
	"github.com/isdelr/event-graph-be/internal/storage"
	mongostore "github.com/isdelr/event-graph-be/internal/storage/mongo"
	"github.com/isdelr/event-graph-be/internal/storage/sqlite"
	"github.com/isdelr/event-graph-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel, cfg.LogFormat)
	metrics.Init()

	// Set up the record store
	store, closeStore, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("Failed to connect to record store")
	}
	defer closeStore()

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	userService := services.NewUserService(store)
	eventService := services.NewEventService(store, store, hub)

	// Set up and run the back-reference reconciler
	var reconciler *monitoring.Reconciler
	if cfg.ReconcileSchedule != "" {
		reconciler, err = monitoring.NewReconciler(store, cfg.ReconcileSchedule)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to set up reconciler")
		}
		reconciler.Run()
	}

	// Set up router
	schema := graph.NewSchema(graph.NewResolver(eventService, userService))
	authManager := auth.NewManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTExpiry)
	router := api.NewRouter(
		authManager,
		handlers.NewGraphQLHandler(schema, cfg.GraphiQL),
		handlers.NewWebSocketHandler(hub, cfg.CORSAllowedOrigins),
		cfg.CORSAllowedOrigins,
	)

	// Set up server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Str("driver", cfg.StoreDriver).Msg("Server starting")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	if reconciler != nil {
		reconciler.Stop()
	}
	hub.Stop()

	log.Info().Msg("Server exiting")
}

// openStore connects the configured backend and returns it with its close
// function.
func openStore(cfg *config.Config) (storage.Store, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverSQLite:
		db, err := database.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := database.MigrateSQLite(context.Background(), db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		closeDB := func() {
			if err := db.Close(); err != nil {
				log.Error().Err(err).Msg("Failed to close database")
			}
		}
		return storage.Instrument(sqlite.New(db), config.DriverSQLite), closeDB, nil

	case config.DriverMongo:
		client, db, err := database.ConnectMongo(context.Background(), cfg.Mongo)
		if err != nil {
			return nil, nil, err
		}
		disconnect := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(ctx); err != nil {
				log.Error().Err(err).Msg("Failed to disconnect from MongoDB")
			}
		}
		log.Info().Str("host", cfg.Mongo.Host).Str("database", cfg.Mongo.Database).Msg("Connected to MongoDB")
		return storage.Instrument(mongostore.New(db), config.DriverMongo), disconnect, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
