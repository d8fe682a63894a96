package simd

import (
	"encoding/binary"
	"math"
	"math/bits"
)

// Kernel function pointers - set once at init, zero runtime overhead.
// Generic implementations are the default; platform-specific init()
// functions override with SIMD versions when available.
var (
	kernelDot                 = dotGeneric
	kernelSquaredL2           = squaredL2Generic
	kernelHamming             = hammingGeneric
	kernelPopcount            = popcountGeneric
	kernelAndPopcount         = andPopcountGeneric
	kernelWeightedAndPopcount = weightedAndPopcountGeneric
	kernelSignedDot           = signedDotGeneric
)

// ============================================================================
// Public API - Zero-overhead dispatch through function pointers
// ============================================================================

// Dot calculates the dot product of two vectors.
//
// SAFETY: Assumes len(a) == len(b). Caller MUST ensure lengths match.
func Dot(a, b []float32) float32 {
	return kernelDot(a, b)
}

// SquaredL2 calculates the squared L2 distance between two vectors.
//
// SAFETY: Assumes len(a) == len(b).
func SquaredL2(a, b []float32) float32 {
	return kernelSquaredL2(a, b)
}

// Hamming computes the Hamming distance between two byte slices.
//
// SAFETY: Assumes len(a) == len(b).
func Hamming(a, b []byte) int {
	return kernelHamming(a, b)
}

// Popcount counts the set bits of a byte slice.
func Popcount(a []byte) int {
	return kernelPopcount(a)
}

// AndPopcount counts the bits set in both a and b.
//
// SAFETY: Assumes len(a) == len(b).
func AndPopcount(a, b []byte) int {
	return kernelAndPopcount(a, b)
}

// WeightedAndPopcount computes
//
//	Σ_j 2^j · popcount(code AND planes[j])
//
// where planes holds numPlanes consecutive bit-planes of len(code) bytes each.
// With numPlanes=4 this is the RaBitQ bit product of a 1-bit code against a
// 4-bit quantized query.
//
// SAFETY: Assumes len(planes) >= numPlanes*len(code).
func WeightedAndPopcount(code, planes []byte, numPlanes int) uint64 {
	return kernelWeightedAndPopcount(code, planes, numPlanes)
}

// SignedDot computes Σ s_i · values[i] where s_i is +1 when bit i of packed
// is set and -1 otherwise. Bits are read LSB-first within each byte.
//
// SAFETY: Assumes len(packed)*8 >= len(values).
func SignedDot(packed []byte, values []float32) float32 {
	return kernelSignedDot(packed, values)
}

// ============================================================================
// Generic implementations (pure Go fallbacks)
// ============================================================================

func dotGeneric(a, b []float32) float32 {
	var ret float32
	for i := range a {
		ret += a[i] * b[i]
	}
	return ret
}

func squaredL2Generic(a, b []float32) float32 {
	var ret float32
	for i := range a {
		d := a[i] - b[i]
		ret += d * d
	}
	return ret
}

func hammingGeneric(a, b []byte) int {
	var sum int
	n := len(a)
	for n >= 8 {
		v1 := binary.LittleEndian.Uint64(a)
		v2 := binary.LittleEndian.Uint64(b)
		sum += bits.OnesCount64(v1 ^ v2)
		a = a[8:]
		b = b[8:]
		n -= 8
	}
	for i := range a {
		sum += bits.OnesCount8(a[i] ^ b[i])
	}
	return sum
}

func popcountGeneric(a []byte) int {
	var sum int
	for len(a) >= 8 {
		sum += bits.OnesCount64(binary.LittleEndian.Uint64(a))
		a = a[8:]
	}
	for _, v := range a {
		sum += bits.OnesCount8(v)
	}
	return sum
}

func andPopcountGeneric(a, b []byte) int {
	var sum int
	n := len(a)
	for n >= 8 {
		v1 := binary.LittleEndian.Uint64(a)
		v2 := binary.LittleEndian.Uint64(b)
		sum += bits.OnesCount64(v1 & v2)
		a = a[8:]
		b = b[8:]
		n -= 8
	}
	for i := range a {
		sum += bits.OnesCount8(a[i] & b[i])
	}
	return sum
}

func weightedAndPopcountGeneric(code, planes []byte, numPlanes int) uint64 {
	n := len(code)
	var sum uint64
	for j := range numPlanes {
		plane := planes[j*n : (j+1)*n]
		sum += uint64(kernelAndPopcount(code, plane)) << j
	}
	return sum
}

// signedDotChunk is the number of values expanded per stack buffer.
const signedDotChunk = 64

// one is the IEEE-754 representation of 1.0; setting bit 31 yields -1.0.
const one = 0x3F800000

// expandSigns writes ±1.0 for the 8 bits of b into dst.
// A cleared bit sets the sign of 1.0, so no int-to-float conversion happens.
func expandSigns(dst []float32, b byte) {
	_ = dst[7]
	nb := uint32(^b)
	dst[0] = math.Float32frombits(one | (nb&1)<<31)
	dst[1] = math.Float32frombits(one | (nb>>1&1)<<31)
	dst[2] = math.Float32frombits(one | (nb>>2&1)<<31)
	dst[3] = math.Float32frombits(one | (nb>>3&1)<<31)
	dst[4] = math.Float32frombits(one | (nb>>4&1)<<31)
	dst[5] = math.Float32frombits(one | (nb>>5&1)<<31)
	dst[6] = math.Float32frombits(one | (nb>>6&1)<<31)
	dst[7] = math.Float32frombits(one | (nb>>7&1)<<31)
}

func signedDotGeneric(packed []byte, values []float32) float32 {
	var buf [signedDotChunk]float32
	var sum float32
	for len(values) > 0 {
		n := min(len(values), signedDotChunk)
		nbytes := (n + 7) / 8
		for i := range nbytes {
			expandSigns(buf[i*8:], packed[i])
		}
		sum += kernelDot(buf[:n], values[:n])
		packed = packed[nbytes:]
		values = values[n:]
	}
	return sum
}
