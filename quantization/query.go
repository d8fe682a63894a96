package quantization

import (
	"math"

	"github.com/hupe1980/rabitq/distance"
)

// Rand is the source of uniform [0,1) variates used for randomized rounding.
// *rand.Rand from both math/rand and math/rand/v2 satisfy it.
type Rand interface {
	Float32() float32
}

// QuantizedQuery is a query residual reduced to unsigned bit-planes for
// AND+popcount estimation against 1-bit codes.
//
// It is built once per (query, cluster) and shared read-only across every
// code scanned in that cluster.
type QuantizedQuery struct {
	bits     int
	planeLen int
	planes   []byte

	lower float32
	delta float32
	sum   uint32

	centroidNorm     float32
	centroidDotQuery float32
	queryNorm        float32
}

// NewQuantizedQuery quantizes queryResidual to bitsPerElement bits per
// element with randomized rounding drawn from rng, and lays the result out
// as bitsPerElement planes of paddedByteLength bytes. paddedByteLength must
// match PackedLen(1, len(queryResidual)) of the codes it is scored against.
//
// rng is used only during construction and is not retained.
func NewQuantizedQuery(queryResidual []float32, bitsPerElement, paddedByteLength int, centroidNorm, centroidDotQuery, queryNorm float32, rng Rand) *QuantizedQuery {
	qu := make([]uint8, len(queryResidual))
	lower, delta, sum := scalarQuantize(queryResidual, bitsPerElement, rng, qu)

	planes := make([]byte, bitsPerElement*paddedByteLength)
	for i, v := range qu {
		mask := byte(1) << (i & 7)
		for j := range bitsPerElement {
			if v>>j&1 != 0 {
				planes[j*paddedByteLength+i>>3] |= mask
			}
		}
	}

	return &QuantizedQuery{
		bits:             bitsPerElement,
		planeLen:         paddedByteLength,
		planes:           planes,
		lower:            lower,
		delta:            delta,
		sum:              sum,
		centroidNorm:     centroidNorm,
		centroidDotQuery: centroidDotQuery,
		queryNorm:        queryNorm,
	}
}

// Bits returns the number of bit-planes.
func (q *QuantizedQuery) Bits() int { return q.bits }

// Plane returns bit-plane j.
func (q *QuantizedQuery) Plane(j int) []byte {
	return q.planes[j*q.planeLen : (j+1)*q.planeLen]
}

// Lower returns the quantization lower bound v_l.
func (q *QuantizedQuery) Lower() float32 { return q.lower }

// Delta returns the quantization step.
func (q *QuantizedQuery) Delta() float32 { return q.delta }

// Sum returns the sum of the quantized elements.
func (q *QuantizedQuery) Sum() uint32 { return q.sum }

// scalarQuantize maps v onto [0, 2^bits−1] with step (max−min)/(2^bits−1)
// using randomized rounding, writing the codes into dst.
func scalarQuantize(v []float32, bits int, rng Rand, dst []uint8) (lower, delta float32, sum uint32) {
	if len(v) == 0 {
		return 0, distance.Epsilon, 0
	}

	lo, hi := v[0], v[0]
	for _, x := range v[1:] {
		lo = min(lo, x)
		hi = max(hi, x)
	}

	maxCode := float64(int(1)<<bits - 1)
	d := max(float64(hi-lo)/maxCode, distance.Epsilon)

	for i, x := range v {
		q := math.Floor(float64(x-lo)/d + float64(rng.Float32()))
		q = min(max(q, 0), maxCode)
		dst[i] = uint8(q)
		sum += uint32(dst[i])
	}

	return lo, float32(d), sum
}
