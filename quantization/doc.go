// Package quantization implements extended RaBitQ: vectors are encoded as
// bit-packed grid codes relative to their cluster centroid, and distances are
// estimated directly from those codes.
//
// # Code layout
//
// Every code is a 12-byte CodeHeader followed by the packed grid:
//
//	[correction:f32][norm:f32][radial:f32][packed codes...]
//
// The packed length is PaddedDim(bits, dim)·bits/8, where the padding unit is
// 64 dimensions for 1-bit codes and 256 otherwise. Bit width and dimension are
// fixed per index and supplied by the caller; they are not stored.
//
// # Encoding
//
//   - 1 bit: sign of each residual coordinate, with a closed-form correction.
//   - 2..8 bits: a ray-walk search over per-coordinate crossing events picks
//     the integer grid point with the best cosine to the residual.
//
// Residuals with norm below float32 epsilon encode as correction 1 with an
// all-zero payload.
//
// # Estimation
//
// Three paths produce the same quantity at different cost:
//
//	code := quantization.Quantize(1, vec, centroid)
//
//	// Float path (any bit width).
//	d := code.DistanceQuery(distance.Cosine, qr, cNorm, cDotQ, qNorm)
//
//	// Bit-plane path (1-bit codes).
//	qq := quantization.NewQuantizedQuery(qr, 4, quantization.PackedLen(1, dim), cNorm, cDotQ, qNorm, rng)
//	d = code.DistanceQueryBitwise(distance.Cosine, qq, dim)
//
//	// Nibble lookup tables (1-bit codes).
//	luts := quantization.NewBatchQueryLuts(qr, cNorm, cDotQ, qNorm, rng)
//	d = luts.DistanceQuery(code, distance.Cosine)
//
// All types are immutable after construction and safe for concurrent readers.
// No function returns an error: degenerate inputs are absorbed by epsilon
// floors, and dimension mismatches are a caller contract violation.
package quantization
