package quantization

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := CodeHeader{Correction: 0.8123, Norm: 31.5, Radial: -17.25}

	// Offset by one byte to exercise unaligned access.
	buf := make([]byte, HeaderSize+1)
	PutHeader(buf[1:], h)

	assert.Equal(t, h, ReadHeader(buf[1:]))
	assert.Equal(t, byte(0), buf[0])
}

func TestHeaderLayout(t *testing.T) {
	buf := make([]byte, HeaderSize)
	PutHeader(buf, CodeHeader{Correction: 1, Norm: 2, Radial: float32(math.Inf(-1))})

	// 1.0 = 0x3F800000, 2.0 = 0x40000000, -Inf = 0xFF800000, little-endian.
	assert.Equal(t, []byte{
		0x00, 0x00, 0x80, 0x3F,
		0x00, 0x00, 0x00, 0x40,
		0x00, 0x00, 0x80, 0xFF,
	}, buf)
}
