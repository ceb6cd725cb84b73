package hash

import (
	"encoding/hex"
	"hash"
	"hash/crc32"
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// Sum returns the CRC32-Castagnoli checksum of data.
func Sum(data []byte) uint32 {
	return crc32.Checksum(data, castagnoli)
}

// New returns a streaming CRC32-Castagnoli hash.
func New() hash.Hash32 {
	return crc32.New(castagnoli)
}

// Format renders a checksum as 8 lowercase hex digits, the form stored in
// shard manifests.
func Format(sum uint32) string {
	b := [4]byte{byte(sum >> 24), byte(sum >> 16), byte(sum >> 8), byte(sum)}
	return hex.EncodeToString(b[:])
}
