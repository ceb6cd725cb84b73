package graph

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/hupe1980/linkweave/internal/hash"
	"github.com/hupe1980/linkweave/model"
)

// Snapshot format:
//
//	[magic 8B "LWGRAPH\x00"][version uint32][payloadLen uint64]
//	[payload: zstd(nodes uint64, edges uint64, ids, offsets, targets)]
//	[crc32c(payload) uint32]
//
// All integers are little-endian. In-degrees are recomputed on load.
const (
	snapshotMagic   = "LWGRAPH\x00"
	snapshotVersion = uint32(1)
	headerSize      = 8 + 4 + 8
)

// WriteSnapshot serializes g to w.
func WriteSnapshot(w io.Writer, g *Graph) error {
	n, m := uint64(len(g.ids)), uint64(len(g.targets))
	body := make([]byte, 0, 16+8*n+8*(n+1)+4*m)
	body = binary.LittleEndian.AppendUint64(body, n)
	body = binary.LittleEndian.AppendUint64(body, m)
	for _, id := range g.ids {
		body = binary.LittleEndian.AppendUint64(body, uint64(id))
	}
	for _, off := range g.offsets {
		body = binary.LittleEndian.AppendUint64(body, off)
	}
	for _, t := range g.targets {
		body = binary.LittleEndian.AppendUint32(body, t)
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	payload := enc.EncodeAll(body, nil)
	if err := enc.Close(); err != nil {
		return err
	}

	header := make([]byte, 0, headerSize)
	header = append(header, snapshotMagic...)
	header = binary.LittleEndian.AppendUint32(header, snapshotVersion)
	header = binary.LittleEndian.AppendUint64(header, uint64(len(payload)))

	if _, err := w.Write(header); err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	_, err = w.Write(binary.LittleEndian.AppendUint32(nil, hash.Sum(payload)))
	return err
}

// ReadSnapshot deserializes a graph written by WriteSnapshot.
// Structural damage is reported as ErrCorruptSnapshot.
func ReadSnapshot(r io.Reader) (*Graph, error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrCorruptSnapshot, err)
	}
	if !bytes.Equal(header[:8], []byte(snapshotMagic)) {
		return nil, fmt.Errorf("%w: bad magic", ErrCorruptSnapshot)
	}
	if v := binary.LittleEndian.Uint32(header[8:12]); v != snapshotVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorruptSnapshot, v)
	}
	size := binary.LittleEndian.Uint64(header[12:20])

	payload, err := io.ReadAll(io.LimitReader(r, int64(size)+4))
	if err != nil {
		return nil, err
	}
	if uint64(len(payload)) != size+4 {
		return nil, fmt.Errorf("%w: truncated payload", ErrCorruptSnapshot)
	}
	sum := binary.LittleEndian.Uint32(payload[size:])
	payload = payload[:size]
	if hash.Sum(payload) != sum {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrCorruptSnapshot)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	body, err := dec.DecodeAll(payload, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}

	return decodeBody(body)
}

func decodeBody(body []byte) (*Graph, error) {
	if len(body) < 16 {
		return nil, fmt.Errorf("%w: short body", ErrCorruptSnapshot)
	}
	n := binary.LittleEndian.Uint64(body[0:8])
	m := binary.LittleEndian.Uint64(body[8:16])
	if want := 16 + 8*n + 8*(n+1) + 4*m; uint64(len(body)) != want {
		return nil, fmt.Errorf("%w: body size %d, want %d", ErrCorruptSnapshot, len(body), want)
	}
	p := body[16:]

	ids := make([]model.ID, n)
	for i := range ids {
		ids[i] = model.ID(binary.LittleEndian.Uint64(p))
		p = p[8:]
		if i > 0 && ids[i] <= ids[i-1] {
			return nil, fmt.Errorf("%w: ids not ascending", ErrCorruptSnapshot)
		}
	}

	adj := make([][]Node, n)
	offsets := make([]uint64, n+1)
	for i := range offsets {
		offsets[i] = binary.LittleEndian.Uint64(p)
		p = p[8:]
	}
	if offsets[0] != 0 || offsets[n] != m {
		return nil, fmt.Errorf("%w: offsets out of range", ErrCorruptSnapshot)
	}
	targets := make([]Node, m)
	for i := range targets {
		targets[i] = binary.LittleEndian.Uint32(p)
		p = p[4:]
		if uint64(targets[i]) >= n {
			return nil, fmt.Errorf("%w: edge target out of range", ErrCorruptSnapshot)
		}
	}
	for i := range n {
		lo, hi := offsets[i], offsets[i+1]
		if hi < lo || hi > m {
			return nil, fmt.Errorf("%w: offsets not monotonic", ErrCorruptSnapshot)
		}
		adj[i] = targets[lo:hi:hi]
	}

	return newGraph(ids, adj), nil
}
