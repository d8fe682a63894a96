// Package simd provides the hot kernels behind code-vs-code and code-vs-query
// distance estimation.
//
// # Supported Platforms
//
//   - x86-64: AVX2 (float dot product via vek32), AVX-512 detection
//   - ARM64: NEON detection, generic kernels
//
// Runtime CPU feature detection selects the kernel set once at init.
// Build with -tags noasm to force the generic Go fallback, or set
// RABITQ_SIMD=generic at runtime.
//
// # Operations
//
//   - Float: Dot, SquaredL2
//   - Bit strings: Hamming, Popcount, AndPopcount, WeightedAndPopcount
//   - Sign codes: SignedDot
//
// All bit-string kernels take byte slices without alignment assumptions.
// Lengths that are a multiple of 8 are processed entirely in 64-bit words.
package simd
