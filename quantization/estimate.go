package quantization

import (
	"math"

	"github.com/hupe1980/rabitq/distance"
	"github.com/hupe1980/rabitq/internal/simd"
)

// DistanceCode estimates the distance between the two original vectors
// encoded by c and other, which share a centroid of norm centroidNorm.
//
//	⟨d_a,d_b⟩ = ‖c‖² + radial_a + radial_b + norm_a·norm_b·⟨g_a,g_b⟩/(corr_a·corr_b)
//
// Both codes must have the same bit width and dimension dim.
// Panics on an unknown metric.
func (c Code) DistanceCode(metric distance.Metric, other Code, centroidNorm float32, dim int) float32 {
	ha, hb := c.Header(), other.Header()

	var gg float64
	if c.bits == 1 {
		h := simd.Hamming(c.Packed(), other.Packed())
		gg = 0.25 * float64(dim-2*h)
	} else {
		s := acquireScratch()
		s.gridA = grow(s.gridA, dim)
		s.gridB = grow(s.gridB, dim)
		UnpackGrid(c.bits, c.Packed(), s.gridA)
		UnpackGrid(other.bits, other.Packed(), s.gridB)
		gg = float64(simd.Dot(s.gridA, s.gridB))
		releaseScratch(s)
	}

	cn := float64(centroidNorm)
	na, nb := float64(ha.Norm), float64(hb.Norm)
	ra, rb := float64(ha.Radial), float64(hb.Radial)
	corr := math.Max(float64(ha.Correction)*float64(hb.Correction), distance.Epsilon)

	ip := cn*cn + ra + rb + na*nb*gg/corr
	sqA := cn*cn + 2*ra + na*na
	sqB := cn*cn + 2*rb + nb*nb

	return distance.FromInnerProduct(metric, ip, sqA, sqB)
}

// DistanceQuery estimates the distance between the vector encoded by c and
// an unquantized query, given the query residual r_q = q − centroid, ‖c‖,
// ⟨c,q⟩ and ‖q‖. len(queryResidual) is the dimension.
// Panics on an unknown metric.
func (c Code) DistanceQuery(metric distance.Metric, queryResidual []float32, centroidNorm, centroidDotQuery, queryNorm float32) float32 {
	var gq float64
	if c.bits == 1 {
		gq = 0.5 * float64(simd.SignedDot(c.Packed(), queryResidual))
	} else {
		s := acquireScratch()
		s.gridA = grow(s.gridA, len(queryResidual))
		UnpackGrid(c.bits, c.Packed(), s.gridA)
		gq = float64(simd.Dot(s.gridA, queryResidual))
		releaseScratch(s)
	}
	return c.finishQuery(metric, gq, centroidNorm, centroidDotQuery, queryNorm)
}

// finishQuery turns ⟨g, r_q⟩ into a distance using the code header and the
// query-side scalars.
func (c Code) finishQuery(metric distance.Metric, gq float64, centroidNorm, centroidDotQuery, queryNorm float32) float32 {
	h := c.Header()

	norm := float64(h.Norm)
	radial := float64(h.Radial)
	cn := float64(centroidNorm)
	qn := float64(queryNorm)

	rq := norm * gq / math.Max(float64(h.Correction), distance.Epsilon)
	ip := float64(centroidDotQuery) + radial + rq
	sqD := cn*cn + 2*radial + norm*norm

	return distance.FromInnerProduct(metric, ip, sqD, qn*qn)
}
