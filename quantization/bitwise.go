package quantization

import (
	"github.com/hupe1980/rabitq/distance"
	"github.com/hupe1980/rabitq/internal/simd"
)

// HammingDistance counts the differing bits of two equal-length buffers,
// 64 bits at a time.
func HammingDistance(a, b []byte) int {
	return simd.Hamming(a, b)
}

// SignedDot computes Σ ±values[i], taking + where bit i of packed is set.
func SignedDot(packed []byte, values []float32) float32 {
	return simd.SignedDot(packed, values)
}

// DistanceQueryBitwise estimates the distance to a query using AND+popcount
// against the bit-planes of q instead of a float dot product.
//
// c must be a 1-bit code whose packed length equals the plane length of q.
//
//	⟨g,r_q⟩ = v_l·(popcount(code) − D/2) + delta·(Σ_j 2^j·popcount(code ∧ plane_j) − Σq_u/2)
func (c Code) DistanceQueryBitwise(metric distance.Metric, q *QuantizedQuery, dim int) float32 {
	packed := c.Packed()
	xq := simd.WeightedAndPopcount(packed, q.planes, q.bits)
	pc := simd.Popcount(packed)

	gq := bitProductToDot(xq, pc, dim, q.lower, q.delta, q.sum)
	return c.finishQuery(metric, gq, q.centroidNorm, q.centroidDotQuery, q.queryNorm)
}

// bitProductToDot recovers ⟨g, r_q⟩ from ⟨x_b, q_u⟩ where g = x_b − 1/2 and
// r_q ≈ lower + delta·q_u.
func bitProductToDot(xq uint64, popcount, dim int, lower, delta float32, sum uint32) float64 {
	return float64(lower)*(float64(popcount)-0.5*float64(dim)) +
		float64(delta)*(float64(xq)-0.5*float64(sum))
}
