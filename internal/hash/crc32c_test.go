package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSum(t *testing.T) {
	// Standard check value for CRC-32C.
	assert.Equal(t, uint32(0xe3069283), Sum([]byte("123456789")))
	assert.Equal(t, uint32(0), Sum(nil))
}

func TestNewMatchesSum(t *testing.T) {
	h := New()
	_, _ = h.Write([]byte("12345"))
	_, _ = h.Write([]byte("6789"))
	assert.Equal(t, Sum([]byte("123456789")), h.Sum32())
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "e3069283", Format(0xe3069283))
	assert.Equal(t, "00000001", Format(1))
}
