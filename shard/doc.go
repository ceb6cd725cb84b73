// Package shard persists assembled shards to a blob store.
//
// Each shard becomes one NDJSON file (one model.Document per line, text
// already rewritten), optionally compressed as a standard zstd or lz4 frame:
//
//	shard-00000.jsonl
//	shard-00001.jsonl.zst
//
// Every file is written with a single atomic Store.Put. After the last shard
// the Writer commits manifest.json, listing each shard with its size,
// document range and CRC32C checksum. A directory without a manifest is an
// incomplete run and must not be consumed.
package shard
