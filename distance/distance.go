package distance

import (
	"fmt"
	"math"
	"strings"

	"github.com/hupe1980/rabitq/internal/simd"
)

// Epsilon is the float32 machine epsilon. Denominators in the distance
// formulas are floored at this value.
const Epsilon = 1.1920929e-07

// Dot calculates the dot product of two vectors.
// Assumes vectors are the same length (caller's responsibility).
// Uses SIMD acceleration when available.
func Dot(a, b []float32) float32 {
	return simd.Dot(a, b)
}

// SquaredL2 calculates the squared L2 (Euclidean) distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
func SquaredL2(a, b []float32) float32 {
	return simd.SquaredL2(a, b)
}

// Norm returns the L2 norm of v.
func Norm(v []float32) float32 {
	return float32(math.Sqrt(float64(simd.Dot(v, v))))
}

// Metric represents the distance function used for vector comparison.
type Metric int

const (
	// Cosine is 1 − cos(a, b).
	Cosine Metric = iota
	// Euclidean is the squared L2 distance.
	Euclidean
	// InnerProduct is 1 − ⟨a, b⟩.
	InnerProduct
)

func (m Metric) String() string {
	switch m {
	case Cosine:
		return "Cosine"
	case Euclidean:
		return "Euclidean"
	case InnerProduct:
		return "InnerProduct"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// Valid reports whether m is a known metric.
func (m Metric) Valid() bool {
	return m >= Cosine && m <= InnerProduct
}

// ParseMetric parses a metric name (case-insensitive).
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cosine":
		return Cosine, nil
	case "euclidean", "l2":
		return Euclidean, nil
	case "innerproduct", "ip", "dot":
		return InnerProduct, nil
	default:
		return 0, fmt.Errorf("unsupported metric: %q", s)
	}
}

// FromInnerProduct turns an inner product and the two squared norms into a
// distance under m. Panics on an unknown metric.
func FromInnerProduct(m Metric, ip, sqA, sqB float64) float32 {
	switch m {
	case Cosine:
		return float32(1 - ip/math.Max(math.Sqrt(sqA*sqB), Epsilon))
	case Euclidean:
		return float32(sqA + sqB - 2*ip)
	case InnerProduct:
		return float32(1 - ip)
	default:
		panic(fmt.Sprintf("distance: unsupported metric %v", m))
	}
}

// Exact computes the full-precision distance between a and b under m.
// Assumes vectors are the same length.
func Exact(m Metric, a, b []float32) float32 {
	if m == Euclidean {
		return SquaredL2(a, b)
	}
	return FromInnerProduct(m, float64(Dot(a, b)), float64(Dot(a, a)), float64(Dot(b, b)))
}
