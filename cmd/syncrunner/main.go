package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/harborline/ordersync/internal/adapters/sqlite"
	"github.com/harborline/ordersync/internal/app/ports"
	"github.com/harborline/ordersync/internal/config"
	"github.com/harborline/ordersync/internal/db"
	"github.com/harborline/ordersync/internal/pipeline"
)

func main() {
	var (
		dbPath    string
		limit     int
		since     string
		batchSize int
	)

	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := config.LoadForTool()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	flag.StringVar(&dbPath, "db", cfg.Database.Path, "database path without .sqlite suffix")
	flag.IntVar(&limit, "limit", cfg.Sync.DefaultLimit, "maximum documents to read")
	flag.StringVar(&since, "since", "", "only sync documents at or after this ISO-8601 instant")
	flag.IntVar(&batchSize, "batch-size", cfg.Sync.DefaultBatchSize, "rows per bulk-insert request")
	flag.Parse()

	database, err := db.New(dbPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer func() { _ = database.Close() }()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	orchestrator := pipeline.NewOrchestrator(
		sqlite.NewStore(database),
		sqlite.NewWarehouse(database),
		pipeline.Target{
			Collection: cfg.Sync.Collection,
			OrderBy:    cfg.Sync.OrderBy,
			Table: ports.TableRef{
				Project: cfg.Sync.Project,
				Dataset: cfg.Sync.Dataset,
				Table:   cfg.Sync.Table,
			},
		},
		logger,
	)

	result, err := orchestrator.Run(context.Background(), pipeline.Options{
		Limit:     limit,
		Since:     since,
		BatchSize: batchSize,
	})
	if err != nil {
		log.Fatalf("sync run: %v", err)
	}

	fmt.Printf("sync run complete\n")
	fmt.Printf("documents fetched: %d\n", result.Fetched)
	if summary := result.InsertSummary; summary != nil {
		fmt.Printf("rows inserted: %d\n", summary.TotalInserted)
		fmt.Printf("insert errors: %d\n", summary.TotalErrors)
		fmt.Printf("batches submitted: %d\n", len(summary.Batches))
	}
}
