// Package distance provides exact vector distance calculations and the
// Metric selector shared by the quantizer and its estimators.
//
// # Supported Metrics
//
//   - Cosine: 1 − ⟨a,b⟩/(‖a‖·‖b‖) (default)
//   - Euclidean: squared L2 distance
//   - InnerProduct: 1 − ⟨a,b⟩
//
// # Usage
//
//	dist := distance.Exact(distance.Cosine, a, b)
//	sq := distance.SquaredL2(a, b)
//	n := distance.Norm(vec)
package distance
