package corpus

import (
	"compress/bzip2"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/linkweave/internal/fs"
)

// Open opens path for reading, decompressing by extension: .gz, .zst,
// .lz4 and .bz2 are recognized. "-" reads standard input.
func Open(path string) (io.ReadCloser, error) {
	var f io.ReadCloser = os.Stdin
	if path != "-" {
		var err error
		f, err = fs.Open(fs.Default, path)
		if err != nil {
			return nil, err
		}
	}
	rc, err := Decompress(filepath.Ext(path), f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("corpus: open %s: %w", path, err)
	}
	return rc, nil
}

// Decompress wraps r in the decoder for the file extension ext. Unknown
// extensions pass r through. Closing the result closes r.
func Decompress(ext string, r io.ReadCloser) (io.ReadCloser, error) {
	switch strings.ToLower(ext) {
	case ".gz", ".gzip":
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		return &stack{Reader: zr, closers: []io.Closer{zr, r}}, nil
	case ".zst", ".zstd":
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return &stack{Reader: zr, closers: []io.Closer{zstdCloser{zr}, r}}, nil
	case ".lz4":
		return &stack{Reader: lz4.NewReader(r), closers: []io.Closer{r}}, nil
	case ".bz2":
		return &stack{Reader: bzip2.NewReader(r), closers: []io.Closer{r}}, nil
	}
	return r, nil
}

type stack struct {
	io.Reader
	closers []io.Closer
}

func (s *stack) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

type zstdCloser struct {
	d *zstd.Decoder
}

func (z zstdCloser) Close() error {
	z.d.Close()
	return nil
}
