package corpus

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/linkweave/codec"
	"github.com/hupe1980/linkweave/model"
)

// ErrMalformed is returned for records that cannot be decoded.
var ErrMalformed = errors.New("corpus: malformed record")

// Stop may be returned by a record callback to end reading early without
// an error.
var Stop = errors.New("corpus: stop")

// RecordError locates a malformed record.
type RecordError struct {
	Line int
	Err  error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("corpus: line %d: %v", e.Line, e.Err)
}

func (e *RecordError) Unwrap() []error {
	return []error{ErrMalformed, e.Err}
}

// ReaderOption configures record reading.
type ReaderOption func(*readerOptions)

type readerOptions struct {
	codec codec.Codec
}

// WithCodec sets the record codec. Default is codec.Default.
func WithCodec(c codec.Codec) ReaderOption {
	return func(o *readerOptions) {
		if c != nil {
			o.codec = c
		}
	}
}

func applyReaderOptions(opts []ReaderOption) readerOptions {
	o := readerOptions{codec: codec.Default}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ReadDocuments decodes document records from r and passes each to fn in
// input order. Returning Stop from fn ends reading; any other error is
// returned as is.
func ReadDocuments(r io.Reader, fn func(model.Document) error, opts ...ReaderOption) error {
	o := applyReaderOptions(opts)
	return readLines(r, func(line int, b []byte) error {
		var d model.Document
		if err := o.codec.Unmarshal(b, &d); err != nil {
			return &RecordError{Line: line, Err: err}
		}
		if d.Title == "" {
			return &RecordError{Line: line, Err: errors.New("missing title")}
		}
		return fn(d)
	})
}

// ReadRedirects decodes redirect records from r.
func ReadRedirects(r io.Reader, fn func(model.Redirect) error, opts ...ReaderOption) error {
	o := applyReaderOptions(opts)
	return readLines(r, func(line int, b []byte) error {
		var rd model.Redirect
		if err := o.codec.Unmarshal(b, &rd); err != nil {
			return &RecordError{Line: line, Err: err}
		}
		if rd.Title == "" || rd.Target == "" {
			return &RecordError{Line: line, Err: errors.New("redirect needs title and target")}
		}
		return fn(rd)
	})
}

// readLines uses ReadSlice growth instead of bufio.Scanner so a single
// article is never rejected for its length.
func readLines(r io.Reader, fn func(line int, b []byte) error) error {
	br := bufio.NewReaderSize(r, 1<<20)
	var (
		buf  []byte
		line int
	)
	for {
		chunk, err := br.ReadSlice('\n')
		buf = append(buf, chunk...)
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("corpus: read: %w", err)
		}
		if len(buf) > 0 {
			line++
			if rec := bytes.TrimSpace(buf); len(rec) > 0 {
				if ferr := fn(line, rec); ferr != nil {
					if errors.Is(ferr, Stop) {
						return nil
					}
					return ferr
				}
			}
		}
		if err != nil {
			return nil
		}
		buf = buf[:0]
	}
}
