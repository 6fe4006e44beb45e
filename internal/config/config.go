package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	DatabaseURL      string
	APIBaseURL       string
	APIPageSize      int
	CorpusMultiplier int
	BatchPageSize    int
	CopyChunkSize    int
}

func New() (*Config, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	cfg := &Config{
		DatabaseURL:      databaseURL,
		APIBaseURL:       "https://api.punkapi.com/v2/beers",
		APIPageSize:      5,
		CorpusMultiplier: 100,
		BatchPageSize:    1000,
		CopyChunkSize:    8192,
	}

	if baseURL := os.Getenv("API_BASE_URL"); baseURL != "" {
		cfg.APIBaseURL = baseURL
	}

	var err error
	cfg.APIPageSize, err = getEnvAsInt("API_PAGE_SIZE", cfg.APIPageSize)
	if err != nil {
		return nil, err
	}

	cfg.CorpusMultiplier, err = getEnvAsInt("CORPUS_MULTIPLIER", cfg.CorpusMultiplier)
	if err != nil {
		return nil, err
	}

	cfg.BatchPageSize, err = getEnvAsInt("BATCH_PAGE_SIZE", cfg.BatchPageSize)
	if err != nil {
		return nil, err
	}

	cfg.CopyChunkSize, err = getEnvAsInt("COPY_CHUNK_SIZE", cfg.CopyChunkSize)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: expected an integer, got '%s'", key, valueStr)
	}

	return value, nil
}
