package corpus

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/linkweave/codec"
	"github.com/hupe1980/linkweave/model"
)

const docsNDJSON = `{"id": 1, "title": "Alpha", "text": "A", "outgoing_titles": ["Beta"]}

{"id": 2, "title": "Beta", "text": "B", "outgoing_titles": []}
{"id": 3, "title": "Gamma", "text": "G"}`

func collectDocs(t *testing.T, r *strings.Reader, opts ...ReaderOption) ([]model.Document, error) {
	t.Helper()
	var out []model.Document
	err := ReadDocuments(r, func(d model.Document) error {
		out = append(out, d)
		return nil
	}, opts...)
	return out, err
}

func TestReadDocuments(t *testing.T) {
	for _, c := range []codec.Codec{codec.JSON{}, codec.GoJSON{}} {
		t.Run(c.Name(), func(t *testing.T) {
			docs, err := collectDocs(t, strings.NewReader(docsNDJSON), WithCodec(c))
			require.NoError(t, err)
			require.Len(t, docs, 3)
			assert.Equal(t, model.ID(1), docs[0].ID)
			assert.Equal(t, []string{"Beta"}, docs[0].OutgoingTitles)
			assert.Equal(t, "Gamma", docs[2].Title)
		})
	}
}

func TestReadDocumentsMalformed(t *testing.T) {
	in := `{"id": 1, "title": "Alpha"}
{"id": 2, "title": `
	_, err := collectDocs(t, strings.NewReader(in))
	require.ErrorIs(t, err, ErrMalformed)

	var rerr *RecordError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, 2, rerr.Line)
}

func TestReadDocumentsMissingTitle(t *testing.T) {
	_, err := collectDocs(t, strings.NewReader(`{"id": 1}`))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestReadDocumentsLongLine(t *testing.T) {
	text := strings.Repeat("x", 3<<20)
	in := `{"id": 7, "title": "Long", "text": "` + text + `"}` + "\n" + `{"id": 8, "title": "Short"}`
	docs, err := collectDocs(t, strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Len(t, docs[0].Text, len(text))
	assert.Equal(t, "Short", docs[1].Title)
}

func TestReadDocumentsStop(t *testing.T) {
	n := 0
	err := ReadDocuments(strings.NewReader(docsNDJSON), func(model.Document) error {
		n++
		return Stop
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestReadRedirects(t *testing.T) {
	in := "{\"title\": \"A\", \"target\": \"Alpha\"}\r\n{\"title\": \"B\", \"target\": \"Beta\"}\n"
	var got []model.Redirect
	err := ReadRedirects(strings.NewReader(in), func(r model.Redirect) error {
		got = append(got, r)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []model.Redirect{{Title: "A", Target: "Alpha"}, {Title: "B", Target: "Beta"}}, got)

	err = ReadRedirects(strings.NewReader(`{"title": "A"}`), func(model.Redirect) error { return nil })
	assert.ErrorIs(t, err, ErrMalformed)
}

func writeCompressed(t *testing.T, ext string, data []byte) string {
	t.Helper()
	var buf bytes.Buffer
	switch ext {
	case ".gz":
		w := gzip.NewWriter(&buf)
		_, _ = w.Write(data)
		require.NoError(t, w.Close())
	case ".zst":
		w, err := zstd.NewWriter(&buf)
		require.NoError(t, err)
		_, _ = w.Write(data)
		require.NoError(t, w.Close())
	case ".lz4":
		w := lz4.NewWriter(&buf)
		_, _ = w.Write(data)
		require.NoError(t, w.Close())
	default:
		buf.Write(data)
	}
	path := filepath.Join(t.TempDir(), "docs.jsonl"+ext)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestLoadDocuments(t *testing.T) {
	for _, ext := range []string{"", ".gz", ".zst", ".lz4"} {
		t.Run("ext"+ext, func(t *testing.T) {
			path := writeCompressed(t, ext, []byte(docsNDJSON))
			store, err := LoadDocuments(path)
			require.NoError(t, err)
			assert.Equal(t, 3, store.Len())

			d, ok := store.Document(2)
			require.True(t, ok)
			assert.Equal(t, "Beta", d.Title)
			_, ok = store.Document(9)
			assert.False(t, ok)
		})
	}
}

func TestLoadRedirects(t *testing.T) {
	path := writeCompressed(t, ".gz", []byte(`{"title": "A", "target": "Alpha"}`))
	got, err := LoadRedirects(path)
	require.NoError(t, err)
	assert.Equal(t, []model.Redirect{{Title: "A", Target: "Alpha"}}, got)
}

func TestLoadDocumentsErrors(t *testing.T) {
	_, err := LoadDocuments(filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := writeCompressed(t, "", nil)
	bad := path + ".gz"
	require.NoError(t, os.WriteFile(bad, []byte("not gzip"), 0o644))
	_, err = LoadDocuments(bad)
	assert.Error(t, err)
}

func TestMemoryStoreFirstWins(t *testing.T) {
	s := NewMemoryStore([]model.Document{{ID: 1, Title: "A"}, {ID: 1, Title: "B"}})
	d, ok := s.Document(1)
	require.True(t, ok)
	assert.Equal(t, "A", d.Title)
	assert.Equal(t, 1, s.Len())
	assert.Len(t, s.Documents(), 2)
}
