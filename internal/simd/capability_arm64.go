//go:build arm64

package simd

import "golang.org/x/sys/cpu"

func init() {
	features = Features{ASIMD: cpu.ARM64.HasASIMD}
	initCapabilities()
}
