// Package loader implements the bulk-load strategy family benchmarked
// against the staging_beers table. Every strategy recreates the staging
// table before writing, normalizes raw records inline, and binds values
// positionally in staging column order.
package loader

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/slowflow/beerload/internal/database"
	"github.com/slowflow/beerload/internal/models"
	"github.com/slowflow/beerload/internal/parser"
)

const (
	// DefaultPageSize bounds statement size for the paged strategies.
	DefaultPageSize = 100

	// DefaultCopyChunkSize is the read granularity of the streaming COPY
	// strategy.
	DefaultCopyChunkSize = 8192
)

type Loader struct {
	db      *pgxpool.Pool
	staging *database.StagingManager
}

func New(db *pgxpool.Pool, staging *database.StagingManager) *Loader {
	return &Loader{db: db, staging: staging}
}

var insertSQL = buildInsertSQL()

func buildInsertSQL() string {
	placeholders := make([]string, len(database.StagingColumns))
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO %s VALUES (%s);",
		pgx.Identifier{database.StagingTableName}.Sanitize(),
		strings.Join(placeholders, ", "))
}

// buildMultirowSQL builds a single INSERT statement with numRows inlined
// placeholder tuples: VALUES ($1,..,$17), ($18,..,$34), ...
func buildMultirowSQL(numRows int) string {
	numCols := len(database.StagingColumns)

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(pgx.Identifier{database.StagingTableName}.Sanitize())
	sb.WriteString(" VALUES ")

	arg := 1
	for r := 0; r < numRows; r++ {
		if r > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		for c := 0; c < numCols; c++ {
			if c > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", arg)
			arg++
		}
		sb.WriteByte(')')
	}
	sb.WriteByte(';')

	return sb.String()
}

// normalizeAll materializes the whole input as normalized rows.
func normalizeAll(beers []models.Beer) ([]*models.BeerRow, error) {
	rows := make([]*models.BeerRow, 0, len(beers))
	for i := range beers {
		row, err := parser.Normalize(&beers[i])
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// eachRow normalizes records one at a time without building an intermediate
// slice, stopping at the first error.
func eachRow(beers []models.Beer, fn func(*models.BeerRow) error) error {
	for i := range beers {
		row, err := parser.Normalize(&beers[i])
		if err != nil {
			return err
		}
		if err := fn(row); err != nil {
			return err
		}
	}
	return nil
}

// InsertOneByOne issues one parameterized insert per record. Baseline
// strategy with the highest per-row round-trip overhead.
func (l *Loader) InsertOneByOne(ctx context.Context, beers []models.Beer) error {
	if err := l.staging.RecreateStagingTable(); err != nil {
		return err
	}

	return eachRow(beers, func(row *models.BeerRow) error {
		if _, err := l.db.Exec(ctx, insertSQL, row.Values()...); err != nil {
			return &models.LoadError{Strategy: "insert_one_by_one", Err: err}
		}
		return nil
	})
}

// InsertBatch normalizes the entire input into memory first, then sends all
// inserts as a single pipelined batch. Trades memory for fewer round trips.
func (l *Loader) InsertBatch(ctx context.Context, beers []models.Beer) error {
	if err := l.staging.RecreateStagingTable(); err != nil {
		return err
	}

	rows, err := normalizeAll(beers)
	if err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(insertSQL, row.Values()...)
	}

	return l.sendBatch(ctx, "insert_batch", batch)
}

// InsertBatchIterator is InsertBatch fed row by row, skipping the
// intermediate normalized slice.
func (l *Loader) InsertBatchIterator(ctx context.Context, beers []models.Beer) error {
	if err := l.staging.RecreateStagingTable(); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	err := eachRow(beers, func(row *models.BeerRow) error {
		batch.Queue(insertSQL, row.Values()...)
		return nil
	})
	if err != nil {
		return err
	}

	return l.sendBatch(ctx, "insert_batch_iterator", batch)
}

// InsertBatchPaged sends one pipelined batch per fixed-size page, bounding
// batch size regardless of input size.
func (l *Loader) InsertBatchPaged(ctx context.Context, beers []models.Beer, pageSize int) error {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	if err := l.staging.RecreateStagingTable(); err != nil {
		return err
	}

	for start := 0; start < len(beers); start += pageSize {
		end := min(start+pageSize, len(beers))

		batch := &pgx.Batch{}
		err := eachRow(beers[start:end], func(row *models.BeerRow) error {
			batch.Queue(insertSQL, row.Values()...)
			return nil
		})
		if err != nil {
			return err
		}

		if err := l.sendBatch(ctx, "insert_batch_paged", batch); err != nil {
			return err
		}
	}

	return nil
}

// InsertMultirowValues issues one statement with every row inlined as a
// VALUES tuple, avoiding repeated statement parsing entirely. Postgres caps
// bind parameters at 65535, so inputs beyond ~3855 rows need the paged
// variant.
func (l *Loader) InsertMultirowValues(ctx context.Context, beers []models.Beer) error {
	if err := l.staging.RecreateStagingTable(); err != nil {
		return err
	}

	rows, err := normalizeAll(beers)
	if err != nil {
		return err
	}

	return l.execMultirow(ctx, "insert_multirow_values", rows)
}

// InsertMultirowValuesIterator is InsertMultirowValues with arguments
// accumulated row by row instead of from a materialized slice.
func (l *Loader) InsertMultirowValuesIterator(ctx context.Context, beers []models.Beer) error {
	if err := l.staging.RecreateStagingTable(); err != nil {
		return err
	}

	numRows := 0
	args := make([]any, 0, len(beers)*len(database.StagingColumns))
	err := eachRow(beers, func(row *models.BeerRow) error {
		args = append(args, row.Values()...)
		numRows++
		return nil
	})
	if err != nil {
		return err
	}
	if numRows == 0 {
		return nil
	}

	if _, err := l.db.Exec(ctx, buildMultirowSQL(numRows), args...); err != nil {
		return &models.LoadError{Strategy: "insert_multirow_values_iterator", Err: err}
	}
	return nil
}

// InsertMultirowValuesPaged chunks the multi-row VALUES statement into
// fixed-size pages.
func (l *Loader) InsertMultirowValuesPaged(ctx context.Context, beers []models.Beer, pageSize int) error {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	if err := l.staging.RecreateStagingTable(); err != nil {
		return err
	}

	for start := 0; start < len(beers); start += pageSize {
		end := min(start+pageSize, len(beers))

		rows, err := normalizeAll(beers[start:end])
		if err != nil {
			return err
		}

		if err := l.execMultirow(ctx, "insert_multirow_values_paged", rows); err != nil {
			return err
		}
	}

	return nil
}

func (l *Loader) execMultirow(ctx context.Context, strategy string, rows []*models.BeerRow) error {
	if len(rows) == 0 {
		return nil
	}

	args := make([]any, 0, len(rows)*len(database.StagingColumns))
	for _, row := range rows {
		args = append(args, row.Values()...)
	}

	if _, err := l.db.Exec(ctx, buildMultirowSQL(len(rows)), args...); err != nil {
		return &models.LoadError{Strategy: strategy, Err: err}
	}
	return nil
}

func (l *Loader) sendBatch(ctx context.Context, strategy string, batch *pgx.Batch) error {
	br := l.db.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return &models.LoadError{Strategy: strategy, Err: err}
	}
	return nil
}
