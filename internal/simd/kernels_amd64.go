//go:build amd64 && !noasm

package simd

import "github.com/viterin/vek/vek32"

// vekMinLen is the length below which the call overhead of the vek kernels
// outweighs the vector width.
const vekMinLen = 16

// init sets the SIMD kernel pointers based on the active ISA.
// This runs after capability_amd64.go init() has detected CPU features
// and selected the active ISA.
func init() {
	switch activeISA {
	case AVX2, AVX512:
		setAVX2Kernels()
	}
}

// ============================================================================
// AVX2 Kernels
// ============================================================================

func setAVX2Kernels() {
	kernelDot = dotAVX2
}

func dotAVX2(a, b []float32) float32 {
	if len(a) < vekMinLen {
		return dotGeneric(a, b)
	}
	return vek32.Dot(a, b)
}
