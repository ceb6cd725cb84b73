package shard

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/linkweave/assemble"
	"github.com/hupe1980/linkweave/blobstore"
	"github.com/hupe1980/linkweave/codec"
	"github.com/hupe1980/linkweave/internal/fs"
	"github.com/hupe1980/linkweave/model"
)

func testShards() []*assemble.Shard {
	return []*assemble.Shard{
		{Index: 0, Tokens: 7, Documents: []model.Document{
			{ID: 1, Title: "Alpha", Text: "Alpha is first."},
			{ID: 2, Title: "Beta", Text: "Beta follows [Alpha](doc:1)."},
		}},
		{Index: 1, Tokens: 4, Documents: []model.Document{
			{ID: 3, Title: "Gamma", Text: "Gamma cites [Beta](doc:2) and [Alpha](doc:1)."},
		}},
	}
}

func writeAll(t *testing.T, w *Writer) {
	t.Helper()
	for _, s := range testShards() {
		require.NoError(t, w.WriteShard(context.Background(), s))
	}
}

func TestParseCompression(t *testing.T) {
	for in, want := range map[string]Compression{"": None, "none": None, "ZSTD": Zstd, "zst": Zstd, "lz4": LZ4} {
		got, err := ParseCompression(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseCompression("brotli")
	assert.Error(t, err)
}

func TestWriterRoundTrip(t *testing.T) {
	for _, c := range []Compression{None, Zstd, LZ4} {
		t.Run(string(c), func(t *testing.T) {
			ctx := context.Background()
			store := blobstore.NewMemoryStore()
			var observed []string
			w := NewWriter(store,
				WithCompression(c),
				WithCodec(codec.JSON{}),
				WithObserver(func(info Info, _ time.Duration) { observed = append(observed, info.Name) }),
			)
			writeAll(t, w)

			_, err := ReadManifest(ctx, store)
			require.ErrorIs(t, err, ErrIncomplete)

			m, err := w.Commit(ctx, Manifest{Config: map[string]any{"strategy": "breadth_first"}})
			require.NoError(t, err)
			assert.Equal(t, 3, m.Documents)
			assert.Equal(t, 11, m.Tokens)
			assert.Equal(t, "json", m.Codec)
			assert.Equal(t, w.RunID(), m.RunID)
			require.Len(t, m.Shards, 2)
			assert.Equal(t, "shard-00001.jsonl"+c.Ext(), m.Shards[1].Name)
			assert.Equal(t, model.ID(3), m.Shards[1].FirstID)
			assert.Equal(t, []string{m.Shards[0].Name, m.Shards[1].Name}, observed)

			got, err := ReadManifest(ctx, store)
			require.NoError(t, err)
			assert.Equal(t, m.RunID, got.RunID)

			docs, err := ReadShard(ctx, store, got.Shards[0])
			require.NoError(t, err)
			assert.Equal(t, testShards()[0].Documents, docs)

			_, rep, err := Verify(ctx, store)
			require.NoError(t, err)
			assert.Equal(t, VerifyReport{Shards: 2, Documents: 3}, rep)
		})
	}
}

func TestCommitOnce(t *testing.T) {
	w := NewWriter(blobstore.NewMemoryStore())
	writeAll(t, w)
	_, err := w.Commit(context.Background(), Manifest{})
	require.NoError(t, err)
	_, err = w.Commit(context.Background(), Manifest{})
	assert.Error(t, err)
}

func TestReadShardChecksum(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	w := NewWriter(store)
	writeAll(t, w)
	info := w.Shards()[0]

	data, err := blobstore.ReadAll(ctx, store, info.Name)
	require.NoError(t, err)
	data[0] ^= 0xff
	require.NoError(t, store.Put(ctx, info.Name, data))

	_, err = ReadShard(ctx, store, info)
	assert.ErrorIs(t, err, ErrChecksum)
}

func TestVerifyReportsEveryBrokenShard(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	w := NewWriter(store)
	writeAll(t, w)
	_, err := w.Commit(ctx, Manifest{})
	require.NoError(t, err)

	for _, info := range w.Shards() {
		data, err := blobstore.ReadAll(ctx, store, info.Name)
		require.NoError(t, err)
		require.NoError(t, store.Put(ctx, info.Name, append(data, '\n')))
	}

	_, rep, err := Verify(ctx, store)
	require.ErrorIs(t, err, ErrChecksum)
	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 2)
	assert.Equal(t, 2, rep.BrokenShards)
	assert.Zero(t, rep.Shards)
}

func TestVerifyCountsBrokenReferences(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	w := NewWriter(store)
	shards := []*assemble.Shard{
		{Index: 0, Documents: []model.Document{
			{ID: 1, Title: "A", Text: "see [B](doc:2) and [Z](doc:99)"},
			{ID: 2, Title: "B", Text: "back to [A](doc:1)"},
		}},
	}
	require.NoError(t, w.WriteShard(ctx, shards[0]))
	_, err := w.Commit(ctx, Manifest{})
	require.NoError(t, err)

	_, rep, err := Verify(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.DanglingReferences)
	assert.Equal(t, 1, rep.ForwardReferences)
}

func TestReferences(t *testing.T) {
	got := references("[a](doc:1) [b](doc:) [c](doc:22x) [d](doc:305) doc:7")
	assert.Equal(t, []model.ID{1, 305}, got)
}

func TestWriterIOFailure(t *testing.T) {
	ctx := context.Background()
	ffs := fs.NewFaultyFS(nil)
	store := blobstore.NewLocalStore(t.TempDir(), blobstore.WithFileSystem(ffs))
	w := NewWriter(store)

	require.NoError(t, w.WriteShard(ctx, testShards()[0]))
	ffs.AddRule("", fs.Fault{FailAfterBytes: -1, FailOnSync: true})
	err := w.WriteShard(ctx, testShards()[1])
	require.ErrorIs(t, err, fs.ErrInjected)
	assert.Len(t, w.Shards(), 1)

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"shard-00000.jsonl"}, names)
}

func TestSafeName(t *testing.T) {
	assert.Equal(t, "AC_DC", SafeName("AC/DC"))
	assert.Equal(t, "What_is_it_", SafeName("What is it?"))
	assert.Equal(t, "a_b_c_d", SafeName(`a:b"c|d`))

	long := strings.Repeat("é", 150)
	got := SafeName(long)
	assert.LessOrEqual(t, len(got), 200)
	assert.True(t, strings.HasPrefix(long, got))
}

func TestPageWriter(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	p := NewPageWriter(store, nil)
	s := &assemble.Shard{Documents: []model.Document{
		{ID: 1, Title: "AC/DC", Text: "Band."},
		{ID: 2, Title: "AC DC", Text: "Current."},
	}}
	require.NoError(t, p.WriteShard(ctx, s))

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"AC_DC.md", "AC_DC_2.md"}, names)

	body, err := blobstore.ReadAll(ctx, store, "AC_DC.md")
	require.NoError(t, err)
	assert.Equal(t, "# AC/DC\n\nBand.\n", string(body))
}
