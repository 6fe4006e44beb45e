package loader

import (
	"io"
	"iter"
)

// LineReader adapts a lazy sequence of text lines to io.Reader. It buffers
// the leftover of a partially consumed line and pulls the next line only
// when the buffer is empty. Once the sequence is exhausted it returns
// whatever is buffered, then io.EOF; it never blocks waiting for more input.
type LineReader struct {
	next func() (string, error, bool)
	stop func()
	buf  []byte
	err  error
}

func NewLineReader(lines iter.Seq2[string, error]) *LineReader {
	next, stop := iter.Pull2(lines)
	return &LineReader{next: next, stop: stop}
}

// Read fills p with up to len(p) bytes, pulling as many lines as needed.
// A short read happens only at exhaustion or when the sequence yields an
// error; the error itself is returned once all preceding bytes have been
// consumed.
func (r *LineReader) Read(p []byte) (int, error) {
	total := 0
	for total < len(p) {
		if len(r.buf) > 0 {
			n := copy(p[total:], r.buf)
			r.buf = r.buf[n:]
			total += n
			continue
		}

		if r.err != nil {
			break
		}

		line, err, ok := r.next()
		if err != nil {
			r.err = err
			r.stop()
			break
		}
		if !ok {
			r.err = io.EOF
			break
		}
		r.buf = []byte(line)
	}

	if total > 0 {
		return total, nil
	}
	if r.err != nil {
		return 0, r.err
	}
	return 0, nil
}

// Err returns the error the underlying sequence yielded, if any. Plain
// exhaustion is not an error. Consumers that hand the reader to a transport
// which swallows read errors (COPY reports the server's reaction, not the
// cause) can recover the original failure here.
func (r *LineReader) Err() error {
	if r.err == io.EOF {
		return nil
	}
	return r.err
}

// Close releases the underlying iterator. Reads after Close return io.EOF
// once the leftover buffer drains.
func (r *LineReader) Close() error {
	r.stop()
	if r.err == nil {
		r.err = io.EOF
	}
	return nil
}

// chunkedReader caps each Read at a fixed size, giving the COPY transport a
// stable pull granularity independent of its own buffer size.
type chunkedReader struct {
	r    io.Reader
	size int
}

func (c *chunkedReader) Read(p []byte) (int, error) {
	if len(p) > c.size {
		p = p[:c.size]
	}
	return c.r.Read(p)
}
