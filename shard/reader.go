package shard

import (
	"bytes"
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/hupe1980/linkweave/blobstore"
	"github.com/hupe1980/linkweave/codec"
	"github.com/hupe1980/linkweave/internal/hash"
	"github.com/hupe1980/linkweave/model"
)

// ReadShard loads a shard, verifies it against info and decodes its
// documents. Any JSON codec reads any shard.
func ReadShard(ctx context.Context, store blobstore.Store, info Info) ([]model.Document, error) {
	data, err := blobstore.ReadAll(ctx, store, info.Name)
	if err != nil {
		return nil, err
	}
	if got := hash.Format(hash.Sum(data)); got != info.Checksum {
		return nil, fmt.Errorf("%w: %s: want %s, got %s", ErrChecksum, info.Name, info.Checksum, got)
	}
	raw, err := decompress(compressionOf(info.Name), data)
	if err != nil {
		return nil, fmt.Errorf("shard: decompress %s: %w", info.Name, err)
	}

	docs := make([]model.Document, 0, info.Documents)
	line := 0
	for len(raw) > 0 {
		line++
		next, rest, _ := bytes.Cut(raw, []byte{'\n'})
		raw = rest
		if len(bytes.TrimSpace(next)) == 0 {
			continue
		}
		var d model.Document
		if err := codec.Default.Unmarshal(next, &d); err != nil {
			return nil, fmt.Errorf("shard: %s line %d: %w", info.Name, line, err)
		}
		docs = append(docs, d)
	}
	if len(docs) != info.Documents {
		return nil, fmt.Errorf("%w: %s: want %d documents, got %d", ErrChecksum, info.Name, info.Documents, len(docs))
	}
	return docs, nil
}

// VerifyReport summarizes a verified output.
type VerifyReport struct {
	Shards int
	// BrokenShards counts shards that failed to load. Their documents are
	// missing from Documents.
	BrokenShards int
	Documents    int
	// DanglingReferences counts doc:<id> references to documents absent
	// from the output.
	DanglingReferences int
	// ForwardReferences counts references to documents placed later in the
	// output.
	ForwardReferences int
}

// Verify reads the manifest and every shard of a completed run, checks
// checksums and document counts, and audits doc:<id> references. A broken
// shard does not stop the audit; every load failure is returned in a
// *multierror.Error.
func Verify(ctx context.Context, store blobstore.Store) (*Manifest, VerifyReport, error) {
	m, err := ReadManifest(ctx, store)
	if err != nil {
		return nil, VerifyReport{}, err
	}

	var rep VerifyReport
	position := make(map[model.ID]int, m.Documents)
	var refs []pendingRef
	var broken *multierror.Error
	for _, info := range m.Shards {
		if err := ctx.Err(); err != nil {
			return m, rep, err
		}
		docs, err := ReadShard(ctx, store, info)
		if err != nil {
			rep.BrokenShards++
			broken = multierror.Append(broken, err)
			continue
		}
		rep.Shards++
		for _, d := range docs {
			position[d.ID] = rep.Documents
			for _, id := range references(d.Text) {
				refs = append(refs, pendingRef{from: rep.Documents, to: id})
			}
			rep.Documents++
		}
	}
	for _, r := range refs {
		p, ok := position[r.to]
		switch {
		case !ok:
			rep.DanglingReferences++
		case p > r.from:
			rep.ForwardReferences++
		}
	}
	return m, rep, broken.ErrorOrNil()
}

type pendingRef struct {
	from int
	to   model.ID
}

var refMarker = []byte("](doc:")

// references extracts the IDs of doc:<id> links from text.
func references(text string) []model.ID {
	var out []model.ID
	b := []byte(text)
	for {
		i := bytes.Index(b, refMarker)
		if i < 0 {
			return out
		}
		b = b[i+len(refMarker):]
		var id uint64
		n := 0
		for n < len(b) && b[n] >= '0' && b[n] <= '9' {
			id = id*10 + uint64(b[n]-'0')
			n++
		}
		if n > 0 && n < len(b) && b[n] == ')' {
			out = append(out, model.ID(id))
		}
		b = b[n:]
	}
}
