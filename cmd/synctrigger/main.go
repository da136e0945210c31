package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/harborline/ordersync/pkg/synctrigger"
)

func main() {
	var (
		endpoint  string
		token     string
		limit     int
		since     string
		batchSize int
		timeout   time.Duration
	)

	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	flag.StringVar(&endpoint, "endpoint", os.Getenv("ORDERSYNC_ENDPOINT"), "base URL of the ordersync deployment")
	flag.StringVar(&token, "token", os.Getenv("ORDERSYNC_API_TOKEN"), "API bearer token")
	flag.IntVar(&limit, "limit", 0, "maximum documents to read (0 = server default)")
	flag.StringVar(&since, "since", "", "only sync documents at or after this ISO-8601 instant")
	flag.IntVar(&batchSize, "batch-size", 0, "rows per bulk-insert request (0 = server default)")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "request timeout")
	flag.Parse()

	opts := synctrigger.Options{}
	if limit > 0 {
		opts.Limit = &limit
	}
	if since != "" {
		opts.Since = &since
	}
	if batchSize > 0 {
		opts.BatchSize = &batchSize
	}

	client := synctrigger.Client{Endpoint: endpoint, Token: token, Timeout: timeout}
	result, err := client.Trigger(context.Background(), opts)
	if err != nil {
		log.Fatalf("trigger sync: %v", err)
	}

	fmt.Printf("sync triggered\n")
	fmt.Printf("documents fetched: %d\n", result.Fetched)
	if summary := result.InsertSummary; summary != nil {
		fmt.Printf("rows inserted: %d\n", summary.TotalInserted)
		fmt.Printf("insert errors: %d\n", summary.TotalErrors)
	}
}
