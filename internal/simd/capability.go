package simd

import (
	"os"
	"runtime"
	"strings"
)

// ISA identifies the kernel set selected at init.
type ISA uint8

const (
	// Generic is the pure Go kernel set.
	Generic ISA = iota
	// NEON is ARM64 ASIMD.
	NEON
	// AVX2 is x86-64 AVX2 with FMA.
	AVX2
	// AVX512 is x86-64 AVX-512 F+BW.
	AVX512
)

var isaNames = [...]string{
	Generic: "generic",
	NEON:    "neon",
	AVX2:    "avx2",
	AVX512:  "avx512",
}

func (i ISA) String() string {
	if int(i) < len(isaNames) {
		return isaNames[i]
	}
	return "unknown"
}

// ParseISA maps a case-insensitive ISA name to its value.
func ParseISA(s string) (ISA, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range isaNames {
		if name == s {
			return ISA(i), true
		}
	}
	return Generic, false
}

// overrideEnv pins the kernel set, e.g. RABITQ_SIMD=generic. Names of ISAs the
// CPU lacks are ignored.
const overrideEnv = "RABITQ_SIMD"

// Features is a snapshot of the detected CPU features.
type Features struct {
	ASIMD  bool
	AVX2   bool
	AVX512 bool
}

var (
	features    Features
	activeISA   ISA
	hasOverride bool
)

// initCapabilities selects the active ISA. Platform init functions call it
// once features is populated.
func initCapabilities() {
	activeISA = selectBestISA()
	if isa, ok := ParseISA(os.Getenv(overrideEnv)); ok && isISAAvailable(isa) {
		activeISA = isa
		hasOverride = true
	}
}

func isISAAvailable(isa ISA) bool {
	switch isa {
	case Generic:
		return true
	case NEON:
		return features.ASIMD
	case AVX2:
		return features.AVX2
	case AVX512:
		return features.AVX512
	}
	return false
}

func selectBestISA() ISA {
	switch {
	case runtime.GOARCH == "arm64" && features.ASIMD:
		return NEON
	case features.AVX512:
		return AVX512
	case features.AVX2:
		return AVX2
	}
	return Generic
}

// ActiveISA returns the kernel set in use.
func ActiveISA() ISA { return activeISA }

// IsOverridden reports whether RABITQ_SIMD chose the active ISA.
func IsOverridden() bool { return hasOverride }

// CPUFeatures returns the detected CPU features.
func CPUFeatures() Features { return features }

// HasASIMD reports ARM64 NEON support.
func HasASIMD() bool { return features.ASIMD }

// HasAVX2 reports x86-64 AVX2+FMA support.
func HasAVX2() bool { return features.AVX2 }

// HasAVX512 reports x86-64 AVX-512 F+BW support.
func HasAVX512() bool { return features.AVX512 }
