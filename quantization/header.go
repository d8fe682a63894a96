package quantization

import (
	"encoding/binary"
	"math"
)

// HeaderSize is the size in bytes of the CodeHeader prefix of every code.
const HeaderSize = 12

// CodeHeader holds the per-vector scalars needed to turn a quantized inner
// product back into a distance.
//
// Format (little-endian): [correction:float32][norm:float32][radial:float32]
type CodeHeader struct {
	// Correction is ⟨grid, residual/‖residual‖⟩.
	Correction float32
	// Norm is ‖residual‖.
	Norm float32
	// Radial is ⟨residual, centroid⟩.
	Radial float32
}

// PutHeader writes h into the first HeaderSize bytes of dst.
// dst needs no particular alignment.
func PutHeader(dst []byte, h CodeHeader) {
	_ = dst[HeaderSize-1]
	binary.LittleEndian.PutUint32(dst[0:4], math.Float32bits(h.Correction))
	binary.LittleEndian.PutUint32(dst[4:8], math.Float32bits(h.Norm))
	binary.LittleEndian.PutUint32(dst[8:12], math.Float32bits(h.Radial))
}

// ReadHeader decodes the header from the first HeaderSize bytes of src.
func ReadHeader(src []byte) CodeHeader {
	_ = src[HeaderSize-1]
	return CodeHeader{
		Correction: math.Float32frombits(binary.LittleEndian.Uint32(src[0:4])),
		Norm:       math.Float32frombits(binary.LittleEndian.Uint32(src[4:8])),
		Radial:     math.Float32frombits(binary.LittleEndian.Uint32(src[8:12])),
	}
}
