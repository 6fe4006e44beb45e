package loader

import (
	"context"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"
	"time"

	"github.com/slowflow/beerload/internal/models"
	"github.com/slowflow/beerload/internal/parser"
)

// Bulk-text ingestion format: one line per record, fields joined by a pipe,
// NULL spelled \N, embedded newlines escaped to the two characters \n, a
// trailing newline terminating each line. COPY's text format reverses the
// escaping on the server side.
const (
	copySQL        = `COPY staging_beers FROM STDIN WITH (FORMAT text, DELIMITER '|')`
	fieldDelim     = "|"
	nullSentinel   = `\N`
	escapedBreak   = `\n`
	copyDateLayout = "2006-01-02"
)

// textField renders one column value for the COPY text stream.
func textField(v any) string {
	switch x := v.(type) {
	case nil:
		return nullSentinel
	case string:
		return strings.ReplaceAll(x, "\n", escapedBreak)
	case *string:
		if x == nil {
			return nullSentinel
		}
		return strings.ReplaceAll(*x, "\n", escapedBreak)
	case int:
		return strconv.Itoa(x)
	case *float64:
		if x == nil {
			return nullSentinel
		}
		return strconv.FormatFloat(*x, 'f', -1, 64)
	case time.Time:
		return x.Format(copyDateLayout)
	default:
		return fmt.Sprint(x)
	}
}

// encodeRow serializes a normalized row as one record line, fields in
// staging column order.
func encodeRow(row *models.BeerRow) string {
	values := row.Values()
	fields := make([]string, len(values))
	for i, v := range values {
		fields[i] = textField(v)
	}
	return strings.Join(fields, fieldDelim) + "\n"
}

// CopyBuffer serializes every record into one in-memory text buffer, then
// loads it with a single COPY. Fastest wall clock, highest memory watermark.
func (l *Loader) CopyBuffer(ctx context.Context, beers []models.Beer) error {
	if err := l.staging.RecreateStagingTable(); err != nil {
		return err
	}

	var buf strings.Builder
	err := eachRow(beers, func(row *models.BeerRow) error {
		buf.WriteString(encodeRow(row))
		return nil
	})
	if err != nil {
		return err
	}

	return l.copyFrom(ctx, "copy_buffer", strings.NewReader(buf.String()))
}

// CopyIterator feeds the same COPY from a pull-based reader that lazily
// encodes one record line at a time, never materializing the whole text
// buffer. chunkSize bounds how much text each read pulls from the sequence.
func (l *Loader) CopyIterator(ctx context.Context, beers []models.Beer, chunkSize int) error {
	if chunkSize <= 0 {
		chunkSize = DefaultCopyChunkSize
	}

	if err := l.staging.RecreateStagingTable(); err != nil {
		return err
	}

	lines := func(yield func(string, error) bool) {
		for i := range beers {
			row, err := parser.Normalize(&beers[i])
			if err != nil {
				yield("", err)
				return
			}
			if !yield(encodeRow(row), nil) {
				return
			}
		}
	}

	reader := NewLineReader(iter.Seq2[string, error](lines))
	defer reader.Close()

	err := l.copyFrom(ctx, "copy_iterator", &chunkedReader{r: reader, size: chunkSize})
	return resolveCopyError(err, reader.Err())
}

// resolveCopyError picks the root cause of a failed streaming COPY. When the
// feeding reader fails mid-stream, the driver sends CopyFail and reports the
// server's error response, dropping the reader's own error; the reader keeps
// it, and a data-contract breach there outranks the transport failure.
func resolveCopyError(copyErr, readerErr error) error {
	if copyErr == nil {
		return nil
	}
	if readerErr != nil {
		return readerErr
	}
	return copyErr
}

func (l *Loader) copyFrom(ctx context.Context, strategy string, r io.Reader) error {
	conn, err := l.db.Acquire(ctx)
	if err != nil {
		return &models.LoadError{Strategy: strategy, Err: err}
	}
	defer conn.Release()

	if _, err := conn.Conn().PgConn().CopyFrom(ctx, r, copySQL); err != nil {
		return &models.LoadError{Strategy: strategy, Err: err}
	}

	return nil
}
