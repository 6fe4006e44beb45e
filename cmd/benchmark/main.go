package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/slowflow/beerload/internal/api"
	"github.com/slowflow/beerload/internal/bench"
	"github.com/slowflow/beerload/internal/config"
	"github.com/slowflow/beerload/internal/database"
	"github.com/slowflow/beerload/internal/loader"
)

func setup(ctx context.Context) (*bench.Suite, func(), error) {
	cfg, err := config.New()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	dbpool, err := database.ConnectDB(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	staging := database.NewStagingManager(ctx, dbpool)
	bulkLoader := loader.New(dbpool, staging)
	client := api.NewClient(cfg.APIBaseURL, cfg.APIPageSize)

	strategies := bench.DefaultStrategies(bulkLoader, cfg.BatchPageSize, cfg.CopyChunkSize)
	suite := bench.New(client, strategies, cfg.CorpusMultiplier, staging)

	cleanupFunc := func() {
		dbpool.Close()
	}

	return suite, cleanupFunc, nil
}

func cleanup(cleanupFunc func()) {
	log.Println("Cleaning up resources...")
	cleanupFunc()
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: could not load .env file: %v", err)
	}
	startTime := time.Now()

	ctx := context.Background()
	suite, cleanupFunc, err := setup(ctx)
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup(cleanupFunc)

	if _, err := suite.Run(ctx); err != nil {
		log.Fatalf("Error during benchmark: %v\n", err)
	}

	log.Println("Benchmark suite finished.")
	log.Printf("Execution time: %s\n", time.Since(startTime))
}
