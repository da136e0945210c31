package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/harborline/ordersync/internal/adapters/sqlite"
	"github.com/harborline/ordersync/internal/app/ports"
	"github.com/harborline/ordersync/internal/config"
	"github.com/harborline/ordersync/internal/db"
	"github.com/harborline/ordersync/internal/observability"
	"github.com/harborline/ordersync/internal/pipeline"
	"github.com/harborline/ordersync/internal/server"
	"github.com/harborline/ordersync/internal/server/routes"
)

func main() {
	log := slog.New(observability.WrapSlogHandler(
		slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
	))
	slog.SetDefault(log)

	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		return
	}

	shutdownOtel, err := observability.SetupOpenTelemetry(context.Background(), log, observability.OpenTelemetryConfig(cfg.Observability))
	if err != nil {
		slog.Error("Failed to set up OpenTelemetry", "error", err)
		return
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOtel(shutdownCtx); err != nil {
			slog.Error("Failed to shut down OpenTelemetry", "error", err)
		}
	}()

	database, err := db.New(cfg.Database.Path)
	if err != nil {
		slog.Error("Failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			slog.Error("Failed to close database", "error", err)
		}
	}()

	store := sqlite.NewStore(database)
	warehouse := sqlite.NewWarehouse(database)
	catalog := sqlite.NewCatalog(database, cfg.Sync.Project, cfg.Sync.Dataset)

	orchestrator := pipeline.NewOrchestrator(store, warehouse, pipeline.Target{
		Collection: cfg.Sync.Collection,
		OrderBy:    cfg.Sync.OrderBy,
		Table: ports.TableRef{
			Project: cfg.Sync.Project,
			Dataset: cfg.Sync.Dataset,
			Table:   cfg.Sync.Table,
		},
	}, log)

	srv := server.New(log)
	srv.RegisterRouter(routes.NewSyncRoutes(orchestrator, routes.SyncDefaults{
		Limit:     cfg.Sync.DefaultLimit,
		BatchSize: cfg.Sync.DefaultBatchSize,
	}, cfg.Auth.APIToken))
	srv.RegisterRouter(routes.NewOrderRoutes(store, catalog, cfg.Sync.Collection, cfg.Auth.APIToken))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	slog.Info("Starting server", "port", cfg.Server.Port)
	slog.Error("Closing server", "error", srv.Start(addr))
}
