// Package rabitq compresses float32 embeddings into compact codes relative to
// their cluster centroid and ranks codes against queries without
// decompressing them (extended RaBitQ).
//
// # Quick Start
//
//	q, _ := rabitq.New(768, rabitq.WithBits(1), rabitq.WithMetric(distance.Cosine))
//
//	// Encode: the caller persists code.Bytes().
//	code, _ := q.Quantize(vector, centroid)
//
//	// Score: prepare once per (query, cluster), then estimate any number of codes.
//	pq, _ := q.PrepareQuery(query, centroid, nil)
//	d := pq.Distance(code)
//
// # Bit Width
//
// WithBits selects 1..8 bits per dimension. 1-bit codes use sign
// quantization and support every strategy; wider codes use a ray-walk grid
// search and trade size for accuracy (the estimation error roughly halves per
// extra bit).
//
// # Strategies
//
//   - StrategyFloat: float dot product with the query residual (any bit width)
//   - StrategyBitwise: query bit-planes scored by AND+popcount (1-bit codes)
//   - StrategyLUT: per-nibble lookup tables (1-bit codes)
//
// Bitwise and LUT compute the same quantity; which one is faster depends on
// the workload's cache behavior, so the choice is left to the caller.
//
// # Scanning Clusters
//
//	s := rabitq.NewScanner(q)
//	res, _ := s.Scan(ctx, clusters, query, 10,
//	    rabitq.WithFilter(7, allowedOrdinals), // *roaring.Bitmap
//	    rabitq.WithConcurrency(4),
//	)
//
// # Observability
//
// WithLogger attaches a slog-based Logger; WithMetricsCollector attaches a
// MetricsCollector (see BasicMetricsCollector).
//
// # SIMD
//
// Hot kernels are selected at init from CPU features. Set RABITQ_SIMD to
// generic, avx2, avx512 or neon to pin a kernel set.
package rabitq
