package quantization

import (
	"math/bits"

	"github.com/hupe1980/rabitq/distance"
	"github.com/hupe1980/rabitq/internal/simd"
)

const (
	// lutQueryBits is the query resolution used by BatchQueryLuts.
	lutQueryBits = 4
	// lutEntries is the table size per 4-bit nibble.
	lutEntries = 16
)

// BatchQueryLuts scores 1-bit codes against a quantized query with one
// 16-entry table per code nibble, mapping the nibble to its partial
// ⟨x_b, q_u⟩. It trades a larger per-query working set for a single lookup
// per 4 dimensions.
//
// Built once per (query, cluster); safe for concurrent readers.
type BatchQueryLuts struct {
	luts []uint8
	dim  int

	lower float32
	delta float32
	sum   uint32

	centroidNorm     float32
	centroidDotQuery float32
	queryNorm        float32
}

// NewBatchQueryLuts quantizes queryResidual to 4 bits with randomized
// rounding from rng and precomputes the nibble tables.
//
// rng is used only during construction and is not retained.
func NewBatchQueryLuts(queryResidual []float32, centroidNorm, centroidDotQuery, queryNorm float32, rng Rand) *BatchQueryLuts {
	dim := len(queryResidual)
	nbytes := (dim + 7) / 8

	qu := make([]uint8, nbytes*8)
	lower, delta, sum := scalarQuantize(queryResidual, lutQueryBits, rng, qu[:dim])

	luts := make([]uint8, 2*nbytes*lutEntries)
	for n := range 2 * nbytes {
		t := luts[n*lutEntries : (n+1)*lutEntries]
		q := qu[n*4 : n*4+4]
		for v := 1; v < lutEntries; v++ {
			t[v] = t[v&(v-1)] + q[bits.TrailingZeros8(uint8(v))]
		}
	}

	return &BatchQueryLuts{
		luts:             luts,
		dim:              dim,
		lower:            lower,
		delta:            delta,
		sum:              sum,
		centroidNorm:     centroidNorm,
		centroidDotQuery: centroidDotQuery,
		queryNorm:        queryNorm,
	}
}

// DistanceQuery estimates the distance between the 1-bit code and the query.
// Panics on an unknown metric.
func (l *BatchQueryLuts) DistanceQuery(code Code, metric distance.Metric) float32 {
	packed := code.Packed()
	nbytes := (l.dim + 7) / 8

	var xq uint64
	luts := l.luts[:nbytes*2*lutEntries]
	for i, b := range packed[:nbytes] {
		t := luts[i*2*lutEntries : (i+1)*2*lutEntries]
		xq += uint64(t[b&0x0F]) + uint64(t[lutEntries+int(b>>4)])
	}
	pc := simd.Popcount(packed)

	gq := bitProductToDot(xq, pc, l.dim, l.lower, l.delta, l.sum)
	return code.finishQuery(metric, gq, l.centroidNorm, l.centroidDotQuery, l.queryNorm)
}
