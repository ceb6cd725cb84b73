// Package hash provides the CRC32-Castagnoli checksums used for shard files
// and graph snapshots.
//
// Go's hash/crc32 uses hardware instructions (SSE4.2, ARM CRC) when present,
// so checksumming a shard is negligible next to encoding it.
package hash
