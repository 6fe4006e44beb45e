// Package bench orchestrates the bulk-load benchmark suite: fetch the corpus
// once, inflate it by repetition, then run every loader strategy
// back-to-back against the same in-memory record list.
package bench

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/slowflow/beerload/internal/loader"
	"github.com/slowflow/beerload/internal/models"
	"github.com/slowflow/beerload/internal/profile"
	"github.com/slowflow/beerload/pkg/checksum"
)

// Source produces the raw benchmark corpus.
type Source interface {
	FetchAll(ctx context.Context) ([]models.Beer, error)
}

// RowCounter reports how many rows the staging table holds, letting the suite
// verify that every strategy actually loaded the full corpus.
type RowCounter interface {
	CountStagingRows() (int64, error)
}

// defaultBatchPageSize is the larger page variant of the paged insert
// families when no override is configured.
const defaultBatchPageSize = 1000

// Strategy is one benchmarkable loader variant with its parameters bound.
type Strategy struct {
	Name   string
	Params string
	Run    func(ctx context.Context, beers []models.Beer) error
}

// DefaultStrategies is the suite run by the CLI, in increasing efficiency
// order. Each paged family runs a fixed small baseline plus a configurable
// larger variant (batchPageSize, copyChunkSize; non-positive values fall back
// to the built-in defaults). The unpaged multirow variants are excluded: at the
// default corpus size they exceed Postgres's 65535 bind parameter cap.
func DefaultStrategies(l *loader.Loader, batchPageSize, copyChunkSize int) []Strategy {
	if batchPageSize <= 0 {
		batchPageSize = defaultBatchPageSize
	}
	if copyChunkSize <= 0 {
		copyChunkSize = loader.DefaultCopyChunkSize
	}
	return []Strategy{
		{Name: "insert_one_by_one", Run: l.InsertOneByOne},
		{Name: "insert_batch", Run: l.InsertBatch},
		{Name: "insert_batch_iterator", Run: l.InsertBatchIterator},
		{Name: "insert_batch_paged", Params: "page_size=100", Run: pagedRun(l.InsertBatchPaged, 100)},
		{Name: "insert_batch_paged", Params: "page_size=" + strconv.Itoa(batchPageSize), Run: pagedRun(l.InsertBatchPaged, batchPageSize)},
		{Name: "insert_multirow_values_paged", Params: "page_size=100", Run: pagedRun(l.InsertMultirowValuesPaged, 100)},
		{Name: "insert_multirow_values_paged", Params: "page_size=" + strconv.Itoa(batchPageSize), Run: pagedRun(l.InsertMultirowValuesPaged, batchPageSize)},
		{Name: "copy_buffer", Run: l.CopyBuffer},
		{Name: "copy_iterator", Params: "size=1024", Run: pagedRun(l.CopyIterator, 1024)},
		{Name: "copy_iterator", Params: "size=" + strconv.Itoa(copyChunkSize), Run: pagedRun(l.CopyIterator, copyChunkSize)},
	}
}

func pagedRun(fn func(context.Context, []models.Beer, int) error, size int) func(context.Context, []models.Beer) error {
	return func(ctx context.Context, beers []models.Beer) error {
		return fn(ctx, beers, size)
	}
}

type Suite struct {
	source     Source
	strategies []Strategy
	profiler   *profile.Profiler
	multiplier int
	counter    RowCounter
}

// New builds a suite. counter may be nil, in which case loaded row counts are
// not verified.
func New(source Source, strategies []Strategy, multiplier int, counter RowCounter) *Suite {
	if multiplier < 1 {
		multiplier = 1
	}
	return &Suite{
		source:     source,
		strategies: strategies,
		profiler:   profile.New(),
		multiplier: multiplier,
		counter:    counter,
	}
}

// Run fetches the corpus, replicates it, and benchmarks every strategy under
// identical input. The first failing strategy aborts the suite.
func (s *Suite) Run(ctx context.Context) ([]*profile.Measurement, error) {
	log.Println("Loading beers from the API...")
	beers, err := s.source.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	corpus := Replicate(beers, s.multiplier)
	log.Printf("Loaded %d beers (%d fetched x %d), corpus fingerprint %s",
		len(corpus), len(beers), s.multiplier, Fingerprint(corpus))

	measurements := make([]*profile.Measurement, 0, len(s.strategies))
	for _, strategy := range s.strategies {
		m, err := s.profiler.Measure(strategy.Name, strategy.Params, func() error {
			return strategy.Run(ctx, corpus)
		})
		if err != nil {
			return nil, fmt.Errorf("error benchmarking %s: %w", strategy.Name, err)
		}
		if err := s.verifyRowCount(strategy, len(corpus)); err != nil {
			return nil, err
		}
		measurements = append(measurements, m)
	}

	printSummary(measurements)
	return measurements, nil
}

// verifyRowCount checks that the strategy left exactly one staging row per
// corpus record. A mismatch means the strategy silently dropped or duplicated
// data, which would make its timings meaningless.
func (s *Suite) verifyRowCount(strategy Strategy, want int) error {
	if s.counter == nil {
		return nil
	}

	count, err := s.counter.CountStagingRows()
	if err != nil {
		return fmt.Errorf("error verifying %s: %w", strategy.Name, err)
	}
	if count != int64(want) {
		return fmt.Errorf("strategy %s loaded %d rows, expected %d", strategy.Name, count, want)
	}
	return nil
}

// Replicate inflates the fetched corpus by repetition. It runs strictly
// after the source is exhausted, never interleaved with fetching.
func Replicate(beers []models.Beer, n int) []models.Beer {
	if n < 1 || len(beers) == 0 {
		return beers
	}

	corpus := make([]models.Beer, 0, len(beers)*n)
	for i := 0; i < n; i++ {
		corpus = append(corpus, beers...)
	}
	return corpus
}

// Fingerprint digests the corpus so two runs over the same input are
// directly comparable. Each record folds to its own hash first, then the
// per-record hashes stream into one corpus digest.
func Fingerprint(beers []models.Beer) string {
	lines := make([]string, len(beers))
	for i := range beers {
		lines[i] = checksum.CalculateHash([]string{
			strconv.Itoa(beers[i].ID),
			beers[i].FirstBrewed,
			beers[i].Name,
		})
	}
	return checksum.HashLines(lines)
}

func printSummary(measurements []*profile.Measurement) {
	fmt.Printf("\n%-30s %-16s %12s %14s\n", "strategy", "params", "time", "memory")
	for _, m := range measurements {
		fmt.Printf("%-30s %-16s %11.4fs %11.2f MiB\n",
			m.Name, m.Params, m.Elapsed.Seconds(), float64(m.PeakMemDelta)/(1024*1024))
	}
}
