package quantization

const (
	// blockSize is the number of elements per multi-bit packing block.
	blockSize = 256
	// planeBytes is the size of one bit-plane within a block.
	planeBytes = blockSize / 8
	// signAlign is the padding unit for 1-bit codes (one 64-bit word).
	signAlign = 64
)

// PaddedDim rounds dim up to the packing unit for the given bit width:
// 64 for 1-bit codes, 256 otherwise.
func PaddedDim(bits, dim int) int {
	unit := blockSize
	if bits == 1 {
		unit = signAlign
	}
	return (dim + unit - 1) / unit * unit
}

// PackedLen returns the payload size in bytes of a code. It is always a
// multiple of 8.
func PackedLen(bits, dim int) int {
	return PaddedDim(bits, dim) * bits / 8
}

// CodeSize returns the total size in bytes of a code, header included.
func CodeSize(bits, dim int) int {
	return HeaderSize + PackedLen(bits, dim)
}

// packSigns sets bit i of dst when r[i] >= 0. dst must be zeroed.
func packSigns(dst []byte, r []float32) {
	for i, v := range r {
		if v >= 0 {
			dst[i>>3] |= 1 << (i & 7)
		}
	}
}

// Pack writes codes into dst using the block bit-plane layout.
//
// Elements are grouped into blocks of 256. Each block occupies 32·bits bytes
// holding bits planes of 32 bytes; plane j carries bit j of every element of
// the block, LSB-first. For bits=1 this is plain LSB-first sign packing.
// dst must be zeroed and at least PackedLen(bits, len(codes)) bytes.
func Pack(bits int, codes []uint8, dst []byte) {
	stride := planeBytes * bits
	for i, c := range codes {
		base := (i/blockSize)*stride + (i%blockSize)>>3
		mask := byte(1) << (i & 7)
		for j := range bits {
			if c>>j&1 != 0 {
				dst[base+j*planeBytes] |= mask
			}
		}
	}
}

// Unpack decodes len(dst) element codes from packed.
func Unpack(bits int, packed []byte, dst []uint8) {
	clear(dst)
	n := len(dst)
	stride := planeBytes * bits
	for base, off := 0, 0; base < n; base, off = base+blockSize, off+stride {
		m := min(blockSize, n-base)
		for j := range bits {
			plane := packed[off+j*planeBytes:]
			for e := range m {
				dst[base+e] |= (plane[e>>3] >> (e & 7) & 1) << j
			}
		}
	}
}

// UnpackGrid decodes len(dst) elements as dequantized grid values
// code − (2^bits − 1)/2.
func UnpackGrid(bits int, packed []byte, dst []float32) {
	offset := gridOffset(bits)
	for i := range dst {
		dst[i] = -offset
	}
	n := len(dst)
	stride := planeBytes * bits
	for base, off := 0, 0; base < n; base, off = base+blockSize, off+stride {
		m := min(blockSize, n-base)
		for j := range bits {
			w := float32(int(1) << j)
			plane := packed[off+j*planeBytes:]
			for e := range m {
				if plane[e>>3]>>(e&7)&1 != 0 {
					dst[base+e] += w
				}
			}
		}
	}
}

// gridOffset is the center of the code range, (2^bits − 1)/2.
func gridOffset(bits int) float32 {
	return float32(int(1)<<bits-1) / 2
}
