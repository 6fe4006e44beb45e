package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearOptionalEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"API_BASE_URL", "API_PAGE_SIZE", "CORPUS_MULTIPLIER", "BATCH_PAGE_SIZE", "COPY_CHUNK_SIZE"} {
		t.Setenv(key, "")
	}
}

func TestNewRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := New()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestNewDefaults(t *testing.T) {
	clearOptionalEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/beers")

	cfg, err := New()

	require.NoError(t, err)
	assert.Equal(t, "https://api.punkapi.com/v2/beers", cfg.APIBaseURL)
	assert.Equal(t, 5, cfg.APIPageSize)
	assert.Equal(t, 100, cfg.CorpusMultiplier)
	assert.Equal(t, 1000, cfg.BatchPageSize)
	assert.Equal(t, 8192, cfg.CopyChunkSize)
}

func TestNewReadsSizingOverrides(t *testing.T) {
	clearOptionalEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/beers")
	t.Setenv("BATCH_PAGE_SIZE", "250")
	t.Setenv("COPY_CHUNK_SIZE", "2048")

	cfg, err := New()

	require.NoError(t, err)
	assert.Equal(t, 250, cfg.BatchPageSize)
	assert.Equal(t, 2048, cfg.CopyChunkSize)
}

func TestNewRejectsNonIntegerOverride(t *testing.T) {
	clearOptionalEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/beers")
	t.Setenv("COPY_CHUNK_SIZE", "lots")

	_, err := New()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COPY_CHUNK_SIZE")
}
