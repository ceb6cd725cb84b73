package shard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/linkweave/blobstore"
	"github.com/hupe1980/linkweave/codec"
	"github.com/hupe1980/linkweave/model"
)

// ManifestName is the blob that marks a run as complete.
const ManifestName = "manifest.json"

// ManifestVersion is the current manifest format.
const ManifestVersion = 1

var (
	// ErrIncomplete is returned when an output has no manifest.
	ErrIncomplete = errors.New("shard: run incomplete (no manifest)")
	// ErrChecksum is returned when a shard does not match its manifest entry.
	ErrChecksum = errors.New("shard: checksum mismatch")
)

// Info describes one written shard file.
type Info struct {
	Index     int      `json:"index"`
	Name      string   `json:"name"`
	Documents int      `json:"documents"`
	Tokens    int      `json:"tokens"`
	Bytes     int64    `json:"bytes"`
	RawBytes  int64    `json:"raw_bytes"`
	Checksum  string   `json:"crc32c"`
	FirstID   model.ID `json:"first_id"`
	LastID    model.ID `json:"last_id"`
}

// Manifest is the commit record of a run.
type Manifest struct {
	Version     int         `json:"version"`
	RunID       string      `json:"run_id"`
	CreatedAt   time.Time   `json:"created_at"`
	Codec       string      `json:"codec"`
	Compression Compression `json:"compression"`
	Documents   int         `json:"documents"`
	Tokens      int         `json:"tokens"`
	Shards      []Info      `json:"shards"`
	// Config and Summary echo the run configuration and its data-quality
	// summary. They are opaque to this package.
	Config  any `json:"config,omitempty"`
	Summary any `json:"summary,omitempty"`
}

// ReadManifest loads the manifest of a completed run.
func ReadManifest(ctx context.Context, store blobstore.Store) (*Manifest, error) {
	data, err := blobstore.ReadAll(ctx, store, ManifestName)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, ErrIncomplete
		}
		return nil, err
	}
	var m Manifest
	if err := codec.Default.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("shard: decode manifest: %w", err)
	}
	if m.Version != ManifestVersion {
		return nil, fmt.Errorf("shard: unsupported manifest version %d", m.Version)
	}
	return &m, nil
}
