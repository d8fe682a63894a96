// Package testutil provides testing utilities for the quantizer.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random vectors and clusters, computing
// exact nearest neighbors, and summarizing estimation error.
//
// # Random Vector Generation
//
//	rng := testutil.NewRNG(seed)
//	vec := make([]float32, 128)
//	rng.FillUniform(vec, -1, 1)
//	rng.FillGaussian(vec, 1)
//	c := rng.GaussianCluster(128, 1024, 2, 1)
//
// *RNG also satisfies quantization.Rand.
//
// # Exact Search (Ground Truth)
//
//	results := testutil.ExactTopK(query, dataset, k, distance.Cosine)
//
// # Error Statistics
//
//	p95 := testutil.Percentile(relErrors, 0.95)
package testutil
