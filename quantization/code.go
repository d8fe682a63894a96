package quantization

import "slices"

// Code is a quantized vector: a CodeHeader followed by the packed grid codes.
//
// A Code either owns its buffer (returned by Quantize or Clone) or borrows a
// slice from storage (NewCode). It is never mutated after construction and is
// safe for concurrent readers.
type Code struct {
	bits int
	buf  []byte
}

// NewCode wraps buf as a code of the given bit width without copying.
// buf must be CodeSize(bits, dim) bytes for the dimension it was encoded at.
func NewCode(bits int, buf []byte) Code {
	return Code{bits: bits, buf: buf}
}

// Clone returns a code that owns a copy of the underlying bytes.
func (c Code) Clone() Code {
	return Code{bits: c.bits, buf: slices.Clone(c.buf)}
}

// Bits returns the bit width per dimension.
func (c Code) Bits() int { return c.bits }

// Bytes returns the full encoded buffer, header included.
func (c Code) Bytes() []byte { return c.buf }

// Packed returns the packed grid codes that follow the header.
func (c Code) Packed() []byte { return c.buf[HeaderSize:] }

// Header decodes the code header.
func (c Code) Header() CodeHeader { return ReadHeader(c.buf) }

// Correction returns ⟨grid, normalized residual⟩.
func (c Code) Correction() float32 { return c.Header().Correction }

// Norm returns ‖residual‖.
func (c Code) Norm() float32 { return c.Header().Norm }

// Radial returns ⟨residual, centroid⟩.
func (c Code) Radial() float32 { return c.Header().Radial }

// Grid returns the first dim dequantized grid values.
func (c Code) Grid(dim int) []float32 {
	g := make([]float32, dim)
	UnpackGrid(c.bits, c.Packed(), g)
	return g
}
